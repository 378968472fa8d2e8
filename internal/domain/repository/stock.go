package repository

import (
	"context"

	"github.com/vkotelnikov/codemart/internal/domain/model"
)

// StockRepository describes persistence operations on the redeem-code pool.
// Claiming codes for a new order happens inside OrderRepository.CreateWithStock
// so the order row and its reservations share one transaction.
type StockRepository interface {
	CountAvailable(ctx context.Context, productID int64) (int, error)
	// Release returns pending or paid items to the available pool, clearing
	// their order binding. Already-available items are left untouched.
	Release(ctx context.Context, stockIDs []int64) error
	// MarkPaid flips a single pending item to paid. Returns false when no
	// matching pending item exists.
	MarkPaid(ctx context.Context, stockID int64, orderID string) (bool, error)
	ListByOrder(ctx context.Context, orderID string) ([]model.StockItem, error)
	// BulkInsert stores freshly imported codes as available stock and reports
	// how many rows were inserted. Codes already present are rejected.
	BulkInsert(ctx context.Context, productID int64, codes []string) (int, error)
	// DeleteAvailable removes an item only while it is still available.
	DeleteAvailable(ctx context.Context, stockID int64) error
}
