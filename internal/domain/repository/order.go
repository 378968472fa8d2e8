package repository

import (
	"context"

	"github.com/vkotelnikov/codemart/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their
// settlement. Settle* methods are conditional updates keyed on the current
// pending status: they return false without touching anything when the order
// already reached a terminal state, which makes every settlement trigger
// safely retryable.
type OrderRepository interface {
	// CreateWithStock inserts the order row and claims order.Quantity
	// available stock items for it within a single transaction. When fewer
	// items are claimable the transaction rolls back entirely and an
	// InsufficientStockError is returned.
	CreateWithStock(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	SelectPendingBatch(ctx context.Context, limit int) ([]model.Order, error)
	BindGatewayID(ctx context.Context, orderID, gatewayOrderID string) error
	// SettleCompleted marks the order completed and its stock paid.
	SettleCompleted(ctx context.Context, orderID, transactionID string) (bool, error)
	// SettleReleased marks the order failed or cancelled and returns its
	// stock to the available pool.
	SettleReleased(ctx context.Context, orderID string, status model.PaymentStatus) (bool, error)
	SetRating(ctx context.Context, orderID string, rating int) error
}
