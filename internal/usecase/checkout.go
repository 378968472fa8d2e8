package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vkotelnikov/codemart/internal/adapter/gateway"
	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
	"github.com/vkotelnikov/codemart/internal/domain/model"
	"github.com/vkotelnikov/codemart/internal/domain/repository"
)

// Checkout is the result of a reservation: the pending order plus the
// payment-widget session the customer pays through. IsNew reports whether a
// fresh gateway transaction was opened for it.
type Checkout struct {
	Order       *model.Order
	PayToken    string
	RedirectURL string
	IsNew       bool
}

// CheckoutUseCase reserves stock and opens gateway transactions. Reservation
// and order creation share one storage transaction; the gateway round-trip
// happens after, with a compensating release when it fails.
type CheckoutUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	gateway  gateway.Client
	ttl      time.Duration
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewCheckoutUseCase constructs CheckoutUseCase. ttl is how long a pending
// order holds its stock before the sweep expires it.
func NewCheckoutUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	gw gateway.Client,
	ttl time.Duration,
	logger *slog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		orders:   orders,
		products: products,
		users:    users,
		gateway:  gw,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Reserve claims quantity redeem codes for the user and opens a gateway
// transaction for the total. The order id is issued locally and doubles as
// the gateway correlation id. On gateway failure the reservation is rolled
// back before the error surfaces, so no stock stays pending for a checkout
// that never got a payment session.
func (u *CheckoutUseCase) Reserve(ctx context.Context, userID, productID int64, quantity int) (*Checkout, error) {
	product, err := u.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := ValidateQuantity(quantity, product.MinPurchase); err != nil {
		return nil, err
	}

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	id := u.newID()
	order := &model.Order{
		ID:             id,
		UserID:         userID,
		ProductID:      productID,
		Quantity:       quantity,
		TotalPaid:      int64(quantity) * product.Price,
		PaymentStatus:  model.PaymentStatusPending,
		GatewayOrderID: id,
		ReservedAt:     now,
		ExpiresAt:      now.Add(u.ttl),
	}

	created, err := u.orders.CreateWithStock(ctx, order)
	if err != nil {
		return nil, err
	}

	session, err := u.gateway.CreateTransaction(ctx, gateway.CreateRequest{
		OrderID:      created.GatewayOrderID,
		GrossAmount:  created.TotalPaid,
		CustomerName: user.Login,
		ItemName:     product.Name,
		Quantity:     quantity,
		UnitPrice:    product.Price,
	})
	if err != nil {
		u.rollback(ctx, created.ID)
		return nil, err
	}

	return &Checkout{Order: created, PayToken: session.Token, RedirectURL: session.RedirectURL, IsNew: true}, nil
}

// Resume returns a payment session for an existing pending order without
// opening a second charge. When the gateway cannot serve the original
// transaction, it falls back to a brand-new transaction under a derived
// correlation id and re-binds the order to it. At most one transaction can
// ever complete the order, settlement being conditional on pending status.
func (u *CheckoutUseCase) Resume(ctx context.Context, userID int64, orderID string) (*Checkout, error) {
	order, err := u.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus.Terminal() {
		return nil, domainErrors.ErrInvalidTransition
	}

	session, err := u.gateway.ResumeTransaction(ctx, order.GatewayOrderID)
	if err == nil {
		return &Checkout{Order: order, PayToken: session.Token, RedirectURL: session.RedirectURL}, nil
	}
	if !errors.Is(err, domainErrors.ErrGatewayUnavailable) && !errors.Is(err, gateway.ErrTransactionUnknown) {
		return nil, err
	}

	u.logger.Warn("resume fell back to a new gateway transaction",
		slog.String("order", order.ID),
		slog.String("error", err.Error()),
	)

	product, err := u.products.GetByID(ctx, order.ProductID)
	if err != nil {
		return nil, err
	}
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	derived := fmt.Sprintf("%s-r%d", order.ID, u.now().Unix())
	session, err = u.gateway.CreateTransaction(ctx, gateway.CreateRequest{
		OrderID:      derived,
		GrossAmount:  order.TotalPaid,
		CustomerName: user.Login,
		ItemName:     product.Name,
		Quantity:     order.Quantity,
		UnitPrice:    product.Price,
	})
	if err != nil {
		return nil, err
	}

	if err := u.orders.BindGatewayID(ctx, order.ID, derived); err != nil {
		return nil, err
	}
	order.GatewayOrderID = derived

	return &Checkout{Order: order, PayToken: session.Token, RedirectURL: session.RedirectURL, IsNew: true}, nil
}

func (u *CheckoutUseCase) ownedOrder(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Foreign orders are reported as not found so existence never leaks.
	if order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

func (u *CheckoutUseCase) rollback(ctx context.Context, orderID string) {
	if _, err := u.orders.SettleReleased(ctx, orderID, model.PaymentStatusFailed); err != nil {
		u.logger.Error("reservation rollback failed",
			slog.String("order", orderID),
			slog.String("error", err.Error()),
		)
	}
}
