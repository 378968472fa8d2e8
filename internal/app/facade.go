package app

import (
	"context"

	"github.com/vkotelnikov/codemart/internal/adapter/gateway"
	"github.com/vkotelnikov/codemart/internal/domain/model"
	"github.com/vkotelnikov/codemart/internal/usecase"
)

// StoreFacade aggregates the storefront use cases behind one application
// surface consumed by the HTTP handlers and the sweep worker.
type StoreFacade struct {
	auth       *usecase.AuthUseCase
	checkout   *usecase.CheckoutUseCase
	settlement *usecase.SettlementUseCase
	orders     *usecase.OrderUseCase
	stock      *usecase.StockUseCase
}

// NewStoreFacade constructs StoreFacade.
func NewStoreFacade(
	auth *usecase.AuthUseCase,
	checkout *usecase.CheckoutUseCase,
	settlement *usecase.SettlementUseCase,
	orders *usecase.OrderUseCase,
	stock *usecase.StockUseCase,
) *StoreFacade {
	return &StoreFacade{auth: auth, checkout: checkout, settlement: settlement, orders: orders, stock: stock}
}

func (f *StoreFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *StoreFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *StoreFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *StoreFacade) Checkout(ctx context.Context, userID, productID int64, quantity int) (*usecase.Checkout, error) {
	return f.checkout.Reserve(ctx, userID, productID, quantity)
}

func (f *StoreFacade) ResumeCheckout(ctx context.Context, userID int64, orderID string) (*usecase.Checkout, error) {
	return f.checkout.Resume(ctx, userID, orderID)
}

func (f *StoreFacade) CancelOrder(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	return f.settlement.Cancel(ctx, userID, orderID)
}

func (f *StoreFacade) CheckOrderStatus(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	return f.settlement.CheckStatus(ctx, userID, orderID)
}

func (f *StoreFacade) HandleGatewayNotification(ctx context.Context, n gateway.Notification) (*model.Order, error) {
	return f.settlement.HandleNotification(ctx, n)
}

func (f *StoreFacade) Order(ctx context.Context, userID int64, orderID string) (*model.Order, []model.StockItem, error) {
	return f.orders.GetByID(ctx, userID, orderID)
}

func (f *StoreFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *StoreFacade) RateOrder(ctx context.Context, userID int64, orderID string, rating int) error {
	return f.orders.Rate(ctx, userID, orderID, rating)
}

func (f *StoreFacade) AvailableStock(ctx context.Context, productID int64) (int, error) {
	return f.stock.Available(ctx, productID)
}

func (f *StoreFacade) ImportStock(ctx context.Context, productID int64, payload string) (int, error) {
	return f.stock.Import(ctx, productID, payload)
}

func (f *StoreFacade) RemoveStock(ctx context.Context, stockID int64) error {
	return f.stock.Remove(ctx, stockID)
}

// PendingOrders feeds the reconciliation sweep.
func (f *StoreFacade) PendingOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return f.settlement.PendingBatch(ctx, limit)
}

// ReconcileOrder settles one pending order during the sweep.
func (f *StoreFacade) ReconcileOrder(ctx context.Context, order model.Order) error {
	return f.settlement.Reconcile(ctx, order)
}
