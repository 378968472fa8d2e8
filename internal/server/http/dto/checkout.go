package dto

import "time"

// CheckoutRequest starts a reservation for a product.
type CheckoutRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CheckoutResponse carries the pending order and the payment-widget session.
type CheckoutResponse struct {
	OrderID     string    `json:"order_id"`
	Status      string    `json:"status"`
	TotalPaid   int64     `json:"total_paid"`
	PayToken    string    `json:"pay_token"`
	RedirectURL string    `json:"redirect_url"`
	NewPayment  bool      `json:"new_payment"`
	ExpiresAt   time.Time `json:"expires_at"`
}
