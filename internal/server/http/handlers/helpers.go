package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/vkotelnikov/codemart/internal/domain/model"
	"github.com/vkotelnikov/codemart/internal/server/http/dto"
	"github.com/vkotelnikov/codemart/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func toOrderResponse(order *model.Order, items []model.StockItem) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:         order.ID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		TotalPaid:  order.TotalPaid,
		Status:     string(order.PaymentStatus),
		Rating:     order.Rating,
		ReservedAt: order.ReservedAt,
		PaidAt:     order.PaidAt,
		ExpiresAt:  order.ExpiresAt,
	}
	for _, item := range items {
		resp.RedeemCodes = append(resp.RedeemCodes, item.RedeemCode)
	}
	return resp
}
