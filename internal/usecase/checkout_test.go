package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vkotelnikov/codemart/internal/adapter/gateway"
	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
	"github.com/vkotelnikov/codemart/internal/domain/model"
	"github.com/vkotelnikov/codemart/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func checkoutFixture(orders *test.OrderRepositoryStub, gw *test.GatewayClientStub) *CheckoutUseCase {
	products := &test.ProductRepositoryStub{Products: map[int64]*model.Product{
		7: {ID: 7, Name: "Game Voucher", Price: 1500, MinPurchase: 1},
	}}
	users := test.NewUserRepositoryStub()
	users.Users["buyer"] = &model.User{ID: 42, Login: "buyer"}
	users.ByID[42] = users.Users["buyer"]

	uc := NewCheckoutUseCase(orders, products, users, gw, 30*time.Minute, discardLogger())
	uc.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	uc.newID = func() string { return "order-fixed" }
	return uc
}

func TestReserveSuccess(t *testing.T) {
	orders := &test.OrderRepositoryStub{}
	gw := &test.GatewayClientStub{}
	uc := checkoutFixture(orders, gw)

	checkout, err := uc.Reserve(context.Background(), 42, 7, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !checkout.IsNew {
		t.Fatal("expected a new payment session")
	}
	if checkout.Order.ID != "order-fixed" || checkout.Order.GatewayOrderID != "order-fixed" {
		t.Fatalf("expected locally issued id to double as correlation id, got %+v", checkout.Order)
	}
	if checkout.Order.TotalPaid != 4500 {
		t.Fatalf("expected total 4500, got %d", checkout.Order.TotalPaid)
	}
	if got := checkout.Order.ExpiresAt.Sub(checkout.Order.ReservedAt); got != 30*time.Minute {
		t.Fatalf("expected 30m reservation window, got %v", got)
	}
	if len(gw.Created) != 1 || gw.Created[0].OrderID != "order-fixed" || gw.Created[0].GrossAmount != 4500 {
		t.Fatalf("unexpected gateway request: %+v", gw.Created)
	}
	if checkout.PayToken != "pay-token" {
		t.Fatalf("unexpected token: %q", checkout.PayToken)
	}
}

func TestReserveQuantityBelowMinimum(t *testing.T) {
	orders := &test.OrderRepositoryStub{}
	gw := &test.GatewayClientStub{}
	uc := checkoutFixture(orders, gw)

	if _, err := uc.Reserve(context.Background(), 42, 7, 0); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if len(orders.Created) != 0 {
		t.Fatal("expected no order creation attempt")
	}
}

func TestReserveUnknownProduct(t *testing.T) {
	uc := checkoutFixture(&test.OrderRepositoryStub{}, &test.GatewayClientStub{})

	if _, err := uc.Reserve(context.Background(), 42, 99, 1); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReserveInsufficientStock(t *testing.T) {
	orders := &test.OrderRepositoryStub{
		CreateWithStockFn: func(context.Context, *model.Order) (*model.Order, error) {
			return nil, domainErrors.InsufficientStockError{Requested: 5, Available: 2}
		},
	}
	gw := &test.GatewayClientStub{}
	uc := checkoutFixture(orders, gw)

	_, err := uc.Reserve(context.Background(), 42, 7, 5)
	var insufficient domainErrors.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if insufficient.Requested != 5 || insufficient.Available != 2 {
		t.Fatalf("unexpected counters: %+v", insufficient)
	}
	if len(gw.Created) != 0 {
		t.Fatal("gateway must not be called when reservation fails")
	}
}

func TestReserveGatewayFailureRollsBackReservation(t *testing.T) {
	orders := &test.OrderRepositoryStub{}
	gw := &test.GatewayClientStub{
		CreateFn: func(context.Context, gateway.CreateRequest) (*gateway.PaymentSession, error) {
			return nil, domainErrors.ErrGatewayUnavailable
		},
	}
	uc := checkoutFixture(orders, gw)

	if _, err := uc.Reserve(context.Background(), 42, 7, 1); !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
	if len(orders.SettleCalls) != 1 {
		t.Fatalf("expected one compensating release, got %d", len(orders.SettleCalls))
	}
	call := orders.SettleCalls[0]
	if call.OrderID != "order-fixed" || call.Status != model.PaymentStatusFailed {
		t.Fatalf("unexpected rollback call: %+v", call)
	}
}

func TestResumeReusesOpenTransaction(t *testing.T) {
	orders := &test.OrderRepositoryStub{Orders: []model.Order{
		{ID: "o1", UserID: 42, ProductID: 7, Quantity: 1, GatewayOrderID: "o1", PaymentStatus: model.PaymentStatusPending},
	}}
	gw := &test.GatewayClientStub{}
	uc := checkoutFixture(orders, gw)

	checkout, err := uc.Resume(context.Background(), 42, "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout.IsNew {
		t.Fatal("expected the original transaction to be reused")
	}
	if len(gw.Created) != 0 {
		t.Fatal("expected no new gateway transaction")
	}
}

func TestResumeFallsBackToDerivedTransaction(t *testing.T) {
	orders := &test.OrderRepositoryStub{Orders: []model.Order{
		{ID: "o1", UserID: 42, ProductID: 7, Quantity: 2, TotalPaid: 3000, GatewayOrderID: "o1", PaymentStatus: model.PaymentStatusPending},
	}}
	gw := &test.GatewayClientStub{
		ResumeFn: func(context.Context, string) (*gateway.PaymentSession, error) {
			return nil, gateway.ErrTransactionUnknown
		},
	}
	uc := checkoutFixture(orders, gw)

	checkout, err := uc.Resume(context.Background(), 42, "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !checkout.IsNew {
		t.Fatal("expected a replacement payment session")
	}
	if len(gw.Created) != 1 {
		t.Fatalf("expected one new gateway transaction, got %d", len(gw.Created))
	}
	derived := gw.Created[0].OrderID
	if !strings.HasPrefix(derived, "o1-r") {
		t.Fatalf("expected derived correlation id, got %q", derived)
	}
	if orders.Bound["o1"] != derived {
		t.Fatalf("expected order re-bound to %q, got %q", derived, orders.Bound["o1"])
	}
	if checkout.Order.GatewayOrderID != derived {
		t.Fatalf("expected returned order to carry new correlation id")
	}
}

func TestResumeGatewayDownWithoutFallbackSuccess(t *testing.T) {
	orders := &test.OrderRepositoryStub{Orders: []model.Order{
		{ID: "o1", UserID: 42, ProductID: 7, Quantity: 1, GatewayOrderID: "o1", PaymentStatus: model.PaymentStatusPending},
	}}
	gw := &test.GatewayClientStub{
		ResumeFn: func(context.Context, string) (*gateway.PaymentSession, error) {
			return nil, domainErrors.ErrGatewayUnavailable
		},
		CreateFn: func(context.Context, gateway.CreateRequest) (*gateway.PaymentSession, error) {
			return nil, domainErrors.ErrGatewayUnavailable
		},
	}
	uc := checkoutFixture(orders, gw)

	if _, err := uc.Resume(context.Background(), 42, "o1"); !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
	if len(orders.Bound) != 0 {
		t.Fatal("order must not be re-bound when the fallback fails")
	}
}

func TestResumeTerminalOrder(t *testing.T) {
	orders := &test.OrderRepositoryStub{Orders: []model.Order{
		{ID: "o1", UserID: 42, PaymentStatus: model.PaymentStatusCompleted},
	}}
	uc := checkoutFixture(orders, &test.GatewayClientStub{})

	if _, err := uc.Resume(context.Background(), 42, "o1"); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestResumeForeignOrderLooksMissing(t *testing.T) {
	orders := &test.OrderRepositoryStub{Orders: []model.Order{
		{ID: "o1", UserID: 7, PaymentStatus: model.PaymentStatusPending},
	}}
	uc := checkoutFixture(orders, &test.GatewayClientStub{})

	if _, err := uc.Resume(context.Background(), 42, "o1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
