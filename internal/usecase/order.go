package usecase

import (
	"context"

	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
	"github.com/vkotelnikov/codemart/internal/domain/model"
	"github.com/vkotelnikov/codemart/internal/domain/repository"
)

// OrderUseCase exposes the order history surface.
type OrderUseCase struct {
	orders repository.OrderRepository
	stock  repository.StockRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, stock repository.StockRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, stock: stock}
}

// GetByID returns the user's order and, once the order is completed, the
// purchased redeem codes. Foreign orders look like missing ones.
func (u *OrderUseCase) GetByID(ctx context.Context, userID int64, orderID string) (*model.Order, []model.StockItem, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.UserID != userID {
		return nil, nil, domainErrors.ErrNotFound
	}
	if order.PaymentStatus != model.PaymentStatusCompleted {
		return order, nil, nil
	}

	items, err := u.stock.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// ListByUser returns the user's orders, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// Rate stores a 1-5 rating on a completed order.
func (u *OrderUseCase) Rate(ctx context.Context, userID int64, orderID string, rating int) error {
	if err := ValidateRating(rating); err != nil {
		return err
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return domainErrors.ErrNotFound
	}
	if order.PaymentStatus != model.PaymentStatusCompleted {
		return domainErrors.ErrInvalidTransition
	}

	return u.orders.SetRating(ctx, orderID, rating)
}
