package dto

import "time"

// OrderResponse describes one checkout attempt in the order history.
type OrderResponse struct {
	ID          string     `json:"id"`
	ProductID   int64      `json:"product_id"`
	Quantity    int        `json:"quantity"`
	TotalPaid   int64      `json:"total_paid"`
	Status      string     `json:"status"`
	Rating      *int       `json:"rating,omitempty"`
	ReservedAt  time.Time  `json:"reserved_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
	RedeemCodes []string   `json:"redeem_codes,omitempty"`
}

// RatingRequest stores a buyer rating for a completed order.
type RatingRequest struct {
	Rating int `json:"rating"`
}
