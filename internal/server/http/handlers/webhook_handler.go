package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vkotelnikov/codemart/internal/adapter/gateway"
	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
)

// WebhookHandler receives push notifications from the payment gateway.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Notify handles POST /api/payments/notify. The signature is checked before
// any state is touched; duplicate deliveries settle as no-ops, so the
// gateway may retry freely.
func (h *WebhookHandler) Notify(c *gin.Context) {
	var n gateway.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.HandleGatewayNotification(c.Request.Context(), n)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrSignatureMismatch):
			c.Status(http.StatusForbidden)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": order.ID, "status": string(order.PaymentStatus)})
}
