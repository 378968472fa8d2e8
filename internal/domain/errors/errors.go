package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTransition  = errors.New("invalid order state transition")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrSignatureMismatch  = errors.New("notification signature mismatch")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidRating      = errors.New("invalid rating")
)

// InsufficientStockError reports a reservation attempt that asked for more
// codes than the product pool currently holds. The whole attempt aborts; no
// partial reservation persists.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %d, available %d", e.Requested, e.Available)
}
