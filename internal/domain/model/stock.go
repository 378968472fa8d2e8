package model

import "time"

// StockStatus describes the lifecycle of a single redeem code.
type StockStatus string

const (
	StockStatusAvailable StockStatus = "available"
	StockStatusPending   StockStatus = "pending"
	StockStatusPaid      StockStatus = "paid"
)

// StockItem is one unit of sellable inventory: a unique redeem-code string
// plus its reservation state. OrderID is nil exactly while the item is
// available.
type StockItem struct {
	ID         int64
	ProductID  int64
	RedeemCode string
	Status     StockStatus
	OrderID    *string
	ReservedAt *time.Time
	PaidAt     *time.Time
	CreatedAt  time.Time
}
