package model

import "time"

// PaymentStatus describes the settlement state machine of an order.
// Pending is the only non-terminal state.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed from s.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

// Order is one checkout attempt: a group of reserved stock items, the payment
// state and the correlation identifiers of the gateway transaction backing it.
// The ID is issued locally and is sent to the gateway as the initial
// correlation id; GatewayOrderID may diverge from it when the checkout is
// re-bound to a replacement transaction.
type Order struct {
	ID                   string
	UserID               int64
	ProductID            int64
	Quantity             int
	TotalPaid            int64
	StockIDs             []int64
	PaymentStatus        PaymentStatus
	GatewayOrderID       string
	GatewayTransactionID *string
	Rating               *int
	ReservedAt           time.Time
	PaidAt               *time.Time
	ExpiresAt            time.Time
}

// Expired reports whether the reservation deadline has passed at now.
func (o *Order) Expired(now time.Time) bool {
	return o.ExpiresAt.Before(now)
}
