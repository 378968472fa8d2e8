package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
	"github.com/vkotelnikov/codemart/internal/server/http/dto"
	"github.com/vkotelnikov/codemart/internal/usecase"
)

// CheckoutHandler manages reservation and payment-session endpoints.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Create handles POST /api/checkout.
func (h *CheckoutHandler) Create(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	checkout, err := h.facade.Checkout(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		writeCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCheckoutResponse(checkout))
}

// Resume handles POST /api/orders/:id/resume.
func (h *CheckoutHandler) Resume(c *gin.Context) {
	userID := CurrentUserID(c)

	checkout, err := h.facade.ResumeCheckout(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCheckoutResponse(checkout))
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	userID := CurrentUserID(c)

	order, err := h.facade.CancelOrder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "order is no longer cancellable"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order, nil))
}

func writeCheckoutError(c *gin.Context, err error) {
	var insufficient domainErrors.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:     "insufficient stock",
			Requested: insufficient.Requested,
			Available: insufficient.Available,
		})
	case errors.Is(err, domainErrors.ErrInvalidQuantity):
		c.Status(http.StatusUnprocessableEntity)
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "order already settled"})
	case errors.Is(err, domainErrors.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "payment gateway unavailable, retry later"})
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func toCheckoutResponse(checkout *usecase.Checkout) dto.CheckoutResponse {
	return dto.CheckoutResponse{
		OrderID:     checkout.Order.ID,
		Status:      string(checkout.Order.PaymentStatus),
		TotalPaid:   checkout.Order.TotalPaid,
		PayToken:    checkout.PayToken,
		RedirectURL: checkout.RedirectURL,
		NewPayment:  checkout.IsNew,
		ExpiresAt:   checkout.Order.ExpiresAt,
	}
}
