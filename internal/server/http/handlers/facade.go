package handlers

import (
	"context"

	"github.com/vkotelnikov/codemart/internal/adapter/gateway"
	"github.com/vkotelnikov/codemart/internal/domain/model"
	"github.com/vkotelnikov/codemart/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// CheckoutFacade starts, resumes and cancels checkout attempts.
type CheckoutFacade interface {
	Checkout(ctx context.Context, userID, productID int64, quantity int) (*usecase.Checkout, error)
	ResumeCheckout(ctx context.Context, userID int64, orderID string) (*usecase.Checkout, error)
	CancelOrder(ctx context.Context, userID int64, orderID string) (*model.Order, error)
}

// OrderFacade exposes the order history and status-poll surface.
type OrderFacade interface {
	Order(ctx context.Context, userID int64, orderID string) (*model.Order, []model.StockItem, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	CheckOrderStatus(ctx context.Context, userID int64, orderID string) (*model.Order, error)
	RateOrder(ctx context.Context, userID int64, orderID string, rating int) error
}

// WebhookFacade processes signed gateway notifications.
type WebhookFacade interface {
	HandleGatewayNotification(ctx context.Context, n gateway.Notification) (*model.Order, error)
}

// StockFacade covers availability counts and the admin stock entry.
type StockFacade interface {
	AvailableStock(ctx context.Context, productID int64) (int, error)
	ImportStock(ctx context.Context, productID int64, payload string) (int, error)
	RemoveStock(ctx context.Context, stockID int64) error
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	AuthFacade
	CheckoutFacade
	OrderFacade
	WebhookFacade
	StockFacade
}
