package test

import (
	"context"

	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
	"github.com/vkotelnikov/codemart/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ProductRepositoryStub serves catalog entries from a map.
type ProductRepositoryStub struct {
	Products map[int64]*model.Product
	Err      error
}

// GetByID fetches product by identifier or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if product, ok := s.Products[id]; ok {
		return product, nil
	}
	return nil, domainErrors.ErrNotFound
}

// StockRepositoryStub allows tests to customize stock-pool behaviour.
type StockRepositoryStub struct {
	CountAvailableFn  func(context.Context, int64) (int, error)
	ReleaseFn         func(context.Context, []int64) error
	MarkPaidFn        func(context.Context, int64, string) (bool, error)
	ListByOrderFn     func(context.Context, string) ([]model.StockItem, error)
	BulkInsertFn      func(context.Context, int64, []string) (int, error)
	DeleteAvailableFn func(context.Context, int64) error

	Items    []model.StockItem
	Released [][]int64
	Inserted []string
}

// CountAvailable reports available items from configured slice.
func (s *StockRepositoryStub) CountAvailable(ctx context.Context, productID int64) (int, error) {
	if s.CountAvailableFn != nil {
		return s.CountAvailableFn(ctx, productID)
	}
	count := 0
	for _, item := range s.Items {
		if item.ProductID == productID && item.Status == model.StockStatusAvailable {
			count++
		}
	}
	return count, nil
}

// Release records the released identifiers.
func (s *StockRepositoryStub) Release(ctx context.Context, stockIDs []int64) error {
	if s.ReleaseFn != nil {
		return s.ReleaseFn(ctx, stockIDs)
	}
	s.Released = append(s.Released, stockIDs)
	return nil
}

// MarkPaid delegates to override or reports success.
func (s *StockRepositoryStub) MarkPaid(ctx context.Context, stockID int64, orderID string) (bool, error) {
	if s.MarkPaidFn != nil {
		return s.MarkPaidFn(ctx, stockID, orderID)
	}
	return true, nil
}

// ListByOrder returns items bound to the order.
func (s *StockRepositoryStub) ListByOrder(ctx context.Context, orderID string) ([]model.StockItem, error) {
	if s.ListByOrderFn != nil {
		return s.ListByOrderFn(ctx, orderID)
	}
	var result []model.StockItem
	for _, item := range s.Items {
		if item.OrderID != nil && *item.OrderID == orderID {
			result = append(result, item)
		}
	}
	return result, nil
}

// BulkInsert records the imported codes.
func (s *StockRepositoryStub) BulkInsert(ctx context.Context, productID int64, codes []string) (int, error) {
	if s.BulkInsertFn != nil {
		return s.BulkInsertFn(ctx, productID, codes)
	}
	s.Inserted = append(s.Inserted, codes...)
	return len(codes), nil
}

// DeleteAvailable delegates to override or reports success.
func (s *StockRepositoryStub) DeleteAvailable(ctx context.Context, stockID int64) error {
	if s.DeleteAvailableFn != nil {
		return s.DeleteAvailableFn(ctx, stockID)
	}
	return nil
}

// SettleCall records one conditional settlement attempt.
type SettleCall struct {
	OrderID       string
	Status        model.PaymentStatus
	TransactionID string
}

// OrderRepositoryStub allows tests to customize order persistence behaviour.
type OrderRepositoryStub struct {
	CreateWithStockFn     func(context.Context, *model.Order) (*model.Order, error)
	GetByIDFn             func(context.Context, string) (*model.Order, error)
	GetByGatewayOrderIDFn func(context.Context, string) (*model.Order, error)
	ListByUserFn          func(context.Context, int64) ([]model.Order, error)
	SelectPendingBatchFn  func(context.Context, int) ([]model.Order, error)
	BindGatewayIDFn       func(context.Context, string, string) error
	SettleCompletedFn     func(context.Context, string, string) (bool, error)
	SettleReleasedFn      func(context.Context, string, model.PaymentStatus) (bool, error)
	SetRatingFn           func(context.Context, string, int) error

	Orders      []model.Order
	Pending     []model.Order
	Created     []*model.Order
	SettleCalls []SettleCall
	Bound       map[string]string
	Ratings     map[string]int
}

// CreateWithStock tracks invocations and returns the order untouched.
func (s *OrderRepositoryStub) CreateWithStock(ctx context.Context, order *model.Order) (*model.Order, error) {
	s.Created = append(s.Created, order)
	if s.CreateWithStockFn != nil {
		return s.CreateWithStockFn(ctx, order)
	}
	return order, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByGatewayOrderID resolves an order by its gateway correlation id.
func (s *OrderRepositoryStub) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error) {
	if s.GetByGatewayOrderIDFn != nil {
		return s.GetByGatewayOrderIDFn(ctx, gatewayOrderID)
	}
	for _, o := range s.Orders {
		if o.GatewayOrderID == gatewayOrderID {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns orders from configured slice.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	return s.Orders, nil
}

// SelectPendingBatch returns queued pending orders.
func (s *OrderRepositoryStub) SelectPendingBatch(ctx context.Context, limit int) ([]model.Order, error) {
	if s.SelectPendingBatchFn != nil {
		return s.SelectPendingBatchFn(ctx, limit)
	}
	return s.Pending, nil
}

// BindGatewayID records the re-binding.
func (s *OrderRepositoryStub) BindGatewayID(ctx context.Context, orderID, gatewayOrderID string) error {
	if s.BindGatewayIDFn != nil {
		return s.BindGatewayIDFn(ctx, orderID, gatewayOrderID)
	}
	if s.Bound == nil {
		s.Bound = make(map[string]string)
	}
	s.Bound[orderID] = gatewayOrderID
	return nil
}

// SettleCompleted records the settlement attempt and reports a win.
func (s *OrderRepositoryStub) SettleCompleted(ctx context.Context, orderID, transactionID string) (bool, error) {
	s.SettleCalls = append(s.SettleCalls, SettleCall{OrderID: orderID, Status: model.PaymentStatusCompleted, TransactionID: transactionID})
	if s.SettleCompletedFn != nil {
		return s.SettleCompletedFn(ctx, orderID, transactionID)
	}
	return true, nil
}

// SettleReleased records the settlement attempt and reports a win.
func (s *OrderRepositoryStub) SettleReleased(ctx context.Context, orderID string, status model.PaymentStatus) (bool, error) {
	s.SettleCalls = append(s.SettleCalls, SettleCall{OrderID: orderID, Status: status})
	if s.SettleReleasedFn != nil {
		return s.SettleReleasedFn(ctx, orderID, status)
	}
	return true, nil
}

// SetRating records stored ratings.
func (s *OrderRepositoryStub) SetRating(ctx context.Context, orderID string, rating int) error {
	if s.SetRatingFn != nil {
		return s.SetRatingFn(ctx, orderID, rating)
	}
	if s.Ratings == nil {
		s.Ratings = make(map[string]int)
	}
	s.Ratings[orderID] = rating
	return nil
}
