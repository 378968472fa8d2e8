package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
	"github.com/vkotelnikov/codemart/internal/server/http/dto"
)

// OrderHandler manages order history endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.Orders(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, toOrderResponse(&orders[i], nil))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id. Redeem codes are included once the order
// is completed.
func (h *OrderHandler) Get(c *gin.Context) {
	userID := CurrentUserID(c)
	order, items, err := h.facade.Order(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order, items))
}

// Status handles GET /api/orders/:id/status, the client-initiated
// reconciliation poll.
func (h *OrderHandler) Status(c *gin.Context) {
	userID := CurrentUserID(c)
	order, err := h.facade.CheckOrderStatus(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order, nil))
}

// Rate handles POST /api/orders/:id/rating.
func (h *OrderHandler) Rate(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.RateOrder(c.Request.Context(), userID, c.Param("id"), req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidRating):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "only completed orders can be rated"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}
