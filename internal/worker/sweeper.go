package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
	"github.com/vkotelnikov/codemart/internal/domain/model"
)

// SettlementFacade exposes the subset of application functionality required
// by the sweep.
type SettlementFacade interface {
	PendingOrders(ctx context.Context, limit int) ([]model.Order, error)
	ReconcileOrder(ctx context.Context, order model.Order) error
}

// Sweeper periodically reconciles pending orders: expired reservations are
// force-failed locally, live ones are checked against the gateway. It is the
// sole enforcer of the reservation deadline, so abandoned checkouts converge
// back to available stock without any client ever polling them.
type Sweeper struct {
	facade    SettlementFacade
	interval  time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSweeper constructs the reconciliation sweep worker pool.
func NewSweeper(facade SettlementFacade, interval time.Duration, batchSize, workers int, logger *slog.Logger) *Sweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Sweeper{
		facade:    facade,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Sweeper) dispatch(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.jobs)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetchAndDispatch(ctx)
		}
	}
}

func (s *Sweeper) fetchAndDispatch(ctx context.Context) {
	orders, err := s.facade.PendingOrders(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("fetch pending orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- order:
		}
	}
}

func (s *Sweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-s.jobs:
			if !ok {
				return
			}
			s.handleOrder(ctx, order)
		}
	}
}

func (s *Sweeper) handleOrder(ctx context.Context, order model.Order) {
	err := s.facade.ReconcileOrder(ctx, order)
	if err == nil {
		return
	}

	// Gateway trouble is expected and non-fatal: the order stays pending and
	// the next tick retries; the local expiry deadline keeps it bounded.
	if errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		s.logger.Warn("sweep reconcile skipped, gateway unavailable",
			slog.String("order", order.ID),
		)
		return
	}

	s.logger.Error("sweep reconcile failed",
		slog.String("order", order.ID),
		slog.String("error", err.Error()),
	)
}
