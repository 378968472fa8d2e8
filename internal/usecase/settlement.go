package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/vkotelnikov/codemart/internal/adapter/gateway"
	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
	"github.com/vkotelnikov/codemart/internal/domain/model"
	"github.com/vkotelnikov/codemart/internal/domain/repository"
)

// Evidence records what drove a settlement decision, for the audit log.
type Evidence struct {
	TransactionID string
	Source        string
}

// SettlementUseCase finalizes pending orders. Webhook, client poll and the
// sweep all funnel through Settle, which delegates to conditional storage
// updates: the first trigger to land wins, every other one observes a no-op.
type SettlementUseCase struct {
	orders    repository.OrderRepository
	gateway   gateway.Client
	serverKey string
	logger    *slog.Logger

	now func() time.Time
}

// NewSettlementUseCase constructs SettlementUseCase. serverKey verifies
// webhook signatures.
func NewSettlementUseCase(orders repository.OrderRepository, gw gateway.Client, serverKey string, logger *slog.Logger) *SettlementUseCase {
	return &SettlementUseCase{
		orders:    orders,
		gateway:   gw,
		serverKey: serverKey,
		logger:    logger,
		now:       time.Now,
	}
}

// Settle moves the order from pending to target and propagates the outcome
// to its stock. A pending target, or an order already terminal, leaves
// everything untouched and returns the current order.
func (u *SettlementUseCase) Settle(ctx context.Context, orderID string, target model.PaymentStatus, ev Evidence) (*model.Order, error) {
	var (
		settled bool
		err     error
	)
	switch target {
	case model.PaymentStatusPending:
		return u.orders.GetByID(ctx, orderID)
	case model.PaymentStatusCompleted:
		settled, err = u.orders.SettleCompleted(ctx, orderID, ev.TransactionID)
	case model.PaymentStatusFailed, model.PaymentStatusCancelled:
		settled, err = u.orders.SettleReleased(ctx, orderID, target)
	default:
		return nil, domainErrors.ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}

	if settled {
		u.logger.Info("order settled",
			slog.String("order", orderID),
			slog.String("status", string(target)),
			slog.String("source", ev.Source),
		)
	}

	return u.orders.GetByID(ctx, orderID)
}

// HandleNotification processes a signed gateway webhook. An invalid
// signature rejects the request before any state is touched.
func (u *SettlementUseCase) HandleNotification(ctx context.Context, n gateway.Notification) (*model.Order, error) {
	if !gateway.VerifySignature(n, u.serverKey) {
		u.logger.Warn("gateway notification rejected",
			slog.String("order", n.OrderID),
			slog.String("reason", "signature mismatch"),
		)
		return nil, domainErrors.ErrSignatureMismatch
	}

	order, err := u.orders.GetByGatewayOrderID(ctx, n.OrderID)
	if err != nil {
		return nil, err
	}

	status := n.Status()
	return u.Settle(ctx, order.ID, status.Resolve(), Evidence{TransactionID: status.TransactionID, Source: "webhook"})
}

// CheckStatus is the client-initiated poll: it reconciles the order against
// gateway ground truth and returns the refreshed order. Gateway failures are
// non-fatal, the last known local status is returned instead.
func (u *SettlementUseCase) CheckStatus(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	order, err := u.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus.Terminal() {
		return order, nil
	}

	status, err := u.gateway.GetTransactionStatus(ctx, order.GatewayOrderID)
	if err != nil {
		u.logger.Warn("gateway status query failed",
			slog.String("order", order.ID),
			slog.String("error", err.Error()),
		)
		return order, nil
	}

	return u.Settle(ctx, order.ID, status.Resolve(), Evidence{TransactionID: status.TransactionID, Source: "poll"})
}

// Cancel aborts a pending order on the customer's request, releasing its
// stock. Cancelling a terminal order fails loudly, even when a concurrent
// trigger settled it a moment earlier.
func (u *SettlementUseCase) Cancel(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	order, err := u.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus.Terminal() {
		return nil, domainErrors.ErrInvalidTransition
	}

	settled, err := u.orders.SettleReleased(ctx, order.ID, model.PaymentStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !settled {
		return nil, domainErrors.ErrInvalidTransition
	}

	u.logger.Info("order settled",
		slog.String("order", order.ID),
		slog.String("status", string(model.PaymentStatusCancelled)),
		slog.String("source", "user"),
	)

	return u.orders.GetByID(ctx, orderID)
}

// PendingBatch returns pending orders for the sweep to reconcile.
func (u *SettlementUseCase) PendingBatch(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectPendingBatch(ctx, limit)
}

// Reconcile settles one pending order during the sweep. An order past its
// reservation deadline is force-failed locally without a gateway round-trip;
// anything else is reconciled against gateway ground truth.
func (u *SettlementUseCase) Reconcile(ctx context.Context, order model.Order) error {
	if order.Expired(u.now()) {
		_, err := u.Settle(ctx, order.ID, model.PaymentStatusFailed, Evidence{Source: "sweep"})
		return err
	}

	status, err := u.gateway.GetTransactionStatus(ctx, order.GatewayOrderID)
	if err != nil {
		return err
	}

	_, err = u.Settle(ctx, order.ID, status.Resolve(), Evidence{TransactionID: status.TransactionID, Source: "sweep"})
	return err
}

func (u *SettlementUseCase) ownedOrder(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}
