package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vkotelnikov/codemart/internal/domain/model"
	testhelpers "github.com/vkotelnikov/codemart/internal/test"
	"github.com/vkotelnikov/codemart/internal/usecase"
)

type facadeDeps struct {
	users    *testhelpers.UserRepositoryStub
	products *testhelpers.ProductRepositoryStub
	stock    *testhelpers.StockRepositoryStub
	orders   *testhelpers.OrderRepositoryStub
	gateway  *testhelpers.GatewayClientStub
}

func newFacade() (*StoreFacade, *facadeDeps) {
	deps := &facadeDeps{
		users: testhelpers.NewUserRepositoryStub(),
		products: &testhelpers.ProductRepositoryStub{Products: map[int64]*model.Product{
			7: {ID: 7, Name: "Game Voucher", Price: 1500, MinPurchase: 1},
		}},
		stock:   &testhelpers.StockRepositoryStub{},
		orders:  &testhelpers.OrderRepositoryStub{},
		gateway: &testhelpers.GatewayClientStub{},
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	strategy := testhelpers.StrategyStub{ParseFn: func(string) (int64, error) { return 99, nil }}

	authUC := usecase.NewAuthUseCase(deps.users, testhelpers.HasherStub{}, strategy)
	checkoutUC := usecase.NewCheckoutUseCase(deps.orders, deps.products, deps.users, deps.gateway, 30*time.Minute, logger)
	settlementUC := usecase.NewSettlementUseCase(deps.orders, deps.gateway, "sk-test", logger)
	orderUC := usecase.NewOrderUseCase(deps.orders, deps.stock)
	stockUC := usecase.NewStockUseCase(deps.stock, deps.products)

	return NewStoreFacade(authUC, checkoutUC, settlementUC, orderUC, stockUC), deps
}

func TestStoreFacadeAuth(t *testing.T) {
	facade, deps := newFacade()
	token, err := facade.Register(context.Background(), "user", "pass")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	stored, err := deps.users.GetByLogin(context.Background(), "user")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.Login != "user" {
		t.Fatalf("unexpected stored login %q", stored.Login)
	}

	token, err = facade.Authenticate(context.Background(), "user", "pass")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	id, err := facade.ParseToken("anything")
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if id != 99 {
		t.Fatalf("expected id 99, got %d", id)
	}
}

func TestStoreFacadeCheckout(t *testing.T) {
	facade, deps := newFacade()

	checkout, err := facade.Checkout(context.Background(), 42, 7, 3)
	if err != nil {
		t.Fatalf("checkout returned error: %v", err)
	}
	if checkout.Order.TotalPaid != 4500 {
		t.Fatalf("expected total 4500, got %d", checkout.Order.TotalPaid)
	}
	if checkout.PayToken != "pay-token" {
		t.Fatalf("expected gateway token, got %q", checkout.PayToken)
	}
	if len(deps.orders.Created) != 1 {
		t.Fatalf("expected one reservation, got %d", len(deps.orders.Created))
	}
}

func TestStoreFacadeOrders(t *testing.T) {
	facade, deps := newFacade()
	deps.orders.Orders = []model.Order{
		{ID: "o1", UserID: 42, PaymentStatus: model.PaymentStatusCompleted},
		{ID: "o2", UserID: 42, PaymentStatus: model.PaymentStatusPending},
	}

	listed, err := facade.Orders(context.Background(), 42)
	if err != nil || len(listed) != 2 {
		t.Fatalf("expected two orders, got %v err=%v", listed, err)
	}

	order, _, err := facade.Order(context.Background(), 42, "o1")
	if err != nil {
		t.Fatalf("order returned error: %v", err)
	}
	if order.ID != "o1" {
		t.Fatalf("unexpected order %+v", order)
	}

	if err := facade.RateOrder(context.Background(), 42, "o1", 5); err != nil {
		t.Fatalf("rate returned error: %v", err)
	}
	if deps.orders.Ratings["o1"] != 5 {
		t.Fatalf("expected stored rating, got %v", deps.orders.Ratings)
	}
}

func TestStoreFacadeStatusAndCancel(t *testing.T) {
	facade, deps := newFacade()
	deps.orders.Orders = []model.Order{
		{ID: "done", UserID: 42, PaymentStatus: model.PaymentStatusCompleted},
		{ID: "open", UserID: 42, PaymentStatus: model.PaymentStatusPending, ExpiresAt: time.Now().Add(time.Hour)},
	}

	order, err := facade.CheckOrderStatus(context.Background(), 42, "done")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if order.PaymentStatus != model.PaymentStatusCompleted {
		t.Fatalf("unexpected status %s", order.PaymentStatus)
	}

	if _, err := facade.CancelOrder(context.Background(), 42, "open"); err != nil {
		t.Fatalf("cancel returned error: %v", err)
	}
	if len(deps.orders.SettleCalls) != 1 {
		t.Fatalf("expected one settlement attempt, got %d", len(deps.orders.SettleCalls))
	}
	if call := deps.orders.SettleCalls[0]; call.OrderID != "open" || call.Status != model.PaymentStatusCancelled {
		t.Fatalf("unexpected settlement call %+v", call)
	}
}

func TestStoreFacadeStock(t *testing.T) {
	facade, deps := newFacade()
	deps.stock.Items = []model.StockItem{
		{ID: 1, ProductID: 7, Status: model.StockStatusAvailable},
		{ID: 2, ProductID: 7, Status: model.StockStatusPending},
	}

	available, err := facade.AvailableStock(context.Background(), 7)
	if err != nil {
		t.Fatalf("available returned error: %v", err)
	}
	if available != 1 {
		t.Fatalf("expected 1 available, got %d", available)
	}

	imported, err := facade.ImportStock(context.Background(), 7, "CODE-A\nCODE-B")
	if err != nil {
		t.Fatalf("import returned error: %v", err)
	}
	if imported != 2 || len(deps.stock.Inserted) != 2 {
		t.Fatalf("expected two codes imported, got %d (%v)", imported, deps.stock.Inserted)
	}

	if err := facade.RemoveStock(context.Background(), 1); err != nil {
		t.Fatalf("remove returned error: %v", err)
	}
}

func TestStoreFacadeSweepSurface(t *testing.T) {
	facade, deps := newFacade()
	expired := model.Order{ID: "o1", PaymentStatus: model.PaymentStatusPending, ExpiresAt: time.Now().Add(-time.Minute)}
	deps.orders.Pending = []model.Order{expired}
	deps.orders.Orders = []model.Order{expired}

	batch, err := facade.PendingOrders(context.Background(), 10)
	if err != nil || len(batch) != 1 {
		t.Fatalf("expected batch of one, got %v err=%v", batch, err)
	}

	if err := facade.ReconcileOrder(context.Background(), batch[0]); err != nil {
		t.Fatalf("reconcile returned error: %v", err)
	}
	if len(deps.orders.SettleCalls) != 1 {
		t.Fatalf("expected expired order to be settled, got %d calls", len(deps.orders.SettleCalls))
	}
}
