package facade

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vkotelnikov/codemart/internal/adapter/gateway"
	"github.com/vkotelnikov/codemart/internal/domain/model"
	"github.com/vkotelnikov/codemart/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (int64, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// ParseToken returns stored identifier for authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// CheckoutFacadeStub provides controllable behaviour for checkout endpoints.
type CheckoutFacadeStub struct {
	CheckoutFn func(context.Context, int64, int64, int) (*usecase.Checkout, error)
	ResumeFn   func(context.Context, int64, string) (*usecase.Checkout, error)
	CancelFn   func(context.Context, int64, string) (*model.Order, error)
}

// Checkout delegates to provided function or returns a default session.
func (s CheckoutFacadeStub) Checkout(ctx context.Context, userID, productID int64, quantity int) (*usecase.Checkout, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, userID, productID, quantity)
	}
	order := &model.Order{ID: "order-1", UserID: userID, ProductID: productID, Quantity: quantity, PaymentStatus: model.PaymentStatusPending}
	return &usecase.Checkout{Order: order, PayToken: "pay-token", RedirectURL: "https://pay/redirect", IsNew: true}, nil
}

// ResumeCheckout delegates to provided function or returns a default session.
func (s CheckoutFacadeStub) ResumeCheckout(ctx context.Context, userID int64, orderID string) (*usecase.Checkout, error) {
	if s.ResumeFn != nil {
		return s.ResumeFn(ctx, userID, orderID)
	}
	order := &model.Order{ID: orderID, UserID: userID, PaymentStatus: model.PaymentStatusPending}
	return &usecase.Checkout{Order: order, PayToken: "pay-token", RedirectURL: "https://pay/redirect"}, nil
}

// CancelOrder delegates to provided function or reports a cancelled order.
func (s CheckoutFacadeStub) CancelOrder(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, userID, orderID)
	}
	return &model.Order{ID: orderID, UserID: userID, PaymentStatus: model.PaymentStatusCancelled}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	OrderFn       func(context.Context, int64, string) (*model.Order, []model.StockItem, error)
	OrdersFn      func(context.Context, int64) ([]model.Order, error)
	CheckStatusFn func(context.Context, int64, string) (*model.Order, error)
	RateFn        func(context.Context, int64, string, int) error
}

// Order returns a single order with optional redeem codes.
func (s OrderFacadeStub) Order(ctx context.Context, userID int64, orderID string) (*model.Order, []model.StockItem, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, userID, orderID)
	}
	return &model.Order{ID: orderID, UserID: userID, PaymentStatus: model.PaymentStatusPending}, nil, nil
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{ID: "order-1", UserID: userID, PaymentStatus: model.PaymentStatusPending, ReservedAt: time.Unix(0, 0)}}, nil
}

// CheckOrderStatus returns the reconciled order.
func (s OrderFacadeStub) CheckOrderStatus(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	if s.CheckStatusFn != nil {
		return s.CheckStatusFn(ctx, userID, orderID)
	}
	return &model.Order{ID: orderID, UserID: userID, PaymentStatus: model.PaymentStatusPending}, nil
}

// RateOrder executes configured rating handler.
func (s OrderFacadeStub) RateOrder(ctx context.Context, userID int64, orderID string, rating int) error {
	if s.RateFn != nil {
		return s.RateFn(ctx, userID, orderID, rating)
	}
	return nil
}

// WebhookFacadeStub simulates gateway notification handling.
type WebhookFacadeStub struct {
	NotifyFn func(context.Context, gateway.Notification) (*model.Order, error)
}

// HandleGatewayNotification delegates to the override or settles trivially.
func (s WebhookFacadeStub) HandleGatewayNotification(ctx context.Context, n gateway.Notification) (*model.Order, error) {
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, n)
	}
	return &model.Order{ID: n.OrderID, PaymentStatus: model.PaymentStatusCompleted}, nil
}

// StockFacadeStub simulates stock operations.
type StockFacadeStub struct {
	AvailableFn func(context.Context, int64) (int, error)
	ImportFn    func(context.Context, int64, string) (int, error)
	RemoveFn    func(context.Context, int64) error
}

// AvailableStock returns configured availability.
func (s StockFacadeStub) AvailableStock(ctx context.Context, productID int64) (int, error) {
	if s.AvailableFn != nil {
		return s.AvailableFn(ctx, productID)
	}
	return 10, nil
}

// ImportStock executes configured import handler.
func (s StockFacadeStub) ImportStock(ctx context.Context, productID int64, payload string) (int, error) {
	if s.ImportFn != nil {
		return s.ImportFn(ctx, productID, payload)
	}
	return 1, nil
}

// RemoveStock executes configured removal handler.
func (s StockFacadeStub) RemoveStock(ctx context.Context, stockID int64) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, stockID)
	}
	return nil
}

// StoreFacadeStub aggregates facade dependencies for HTTP layer tests.
type StoreFacadeStub struct {
	AuthFacadeStub
	CheckoutFacadeStub
	OrderFacadeStub
	WebhookFacadeStub
	StockFacadeStub
}

// ReconcileCall captures one sweep reconciliation request.
type ReconcileCall struct {
	Order model.Order
}

// SweepFacadeStub mimics sweeper interactions with the settlement facade.
type SweepFacadeStub struct {
	Batches     [][]model.Order
	PendingFn   func(context.Context, int) ([]model.Order, error)
	ReconcileFn func(context.Context, model.Order) error
	Reconciled  []ReconcileCall

	mu             sync.Mutex
	pendingCallCnt int32
}

// Lock exposes internal mutex for external synchronization.
func (s *SweepFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweepFacadeStub) Unlock() { s.mu.Unlock() }

// PendingOrders returns batches from configured queue.
func (s *SweepFacadeStub) PendingOrders(ctx context.Context, limit int) ([]model.Order, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.pendingCallCnt, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// ReconcileOrder records reconciliation requests.
func (s *SweepFacadeStub) ReconcileOrder(ctx context.Context, order model.Order) error {
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reconciled = append(s.Reconciled, ReconcileCall{Order: order})
	return nil
}
