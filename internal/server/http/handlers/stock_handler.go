package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
	"github.com/vkotelnikov/codemart/internal/server/http/dto"
)

// StockHandler serves the availability count and the admin stock entry.
type StockHandler struct {
	facade StockFacade
}

// NewStockHandler constructs StockHandler.
func NewStockHandler(facade StockFacade) *StockHandler {
	return &StockHandler{facade: facade}
}

// Count handles GET /api/products/:id/stock.
func (h *StockHandler) Count(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	available, err := h.facade.AvailableStock(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.StockCountResponse{ProductID: productID, Available: available})
}

// Import handles POST /api/admin/products/:id/stock. The body is plain text,
// one redeem code per line.
func (h *StockHandler) Import(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	imported, err := h.facade.ImportStock(c.Request.Context(), productID, string(body))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidQuantity):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "duplicate redeem codes in import"})
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.StockImportResponse{Imported: imported})
}

// Delete handles DELETE /api/admin/stock/:id. Only never-reserved items can
// be removed.
func (h *StockHandler) Delete(c *gin.Context) {
	stockID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.RemoveStock(c.Request.Context(), stockID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}
