package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// OrderDesk exposes the subset of application functionality required by the worker.
type OrderDesk interface {
	OrdersForReconciliation(ctx context.Context, limit int) ([]model.Order, error)
	CheckOrderStatus(ctx context.Context, order *model.Order) (*model.StatusReport, error)
	ApplyStatusReport(ctx context.Context, order *model.Order, report *model.StatusReport) error
	SweepPairs(ctx context.Context) (int, error)
}

// Reconciler polls the venue for order status and folds reports into the
// canonical ladder concurrently. A second ticker sweeps pair intents.
type Reconciler struct {
	facade        OrderDesk
	pollInterval  time.Duration
	sweepInterval time.Duration
	batchSize     int
	workers       int
	logger        *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the reconciliation worker pool.
func NewReconciler(facade OrderDesk, pollInterval, sweepInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Reconciler{
		facade:        facade,
		pollInterval:  pollInterval,
		sweepInterval: sweepInterval,
		batchSize:     batchSize,
		workers:       workers,
		logger:        logger,
		jobs:          make(chan model.Order, batchSize*workers),
	}
}

// Start launches background reconciliation.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)

	r.wg.Add(1)
	go r.sweep(runCtx)
}

// Stop waits for all workers to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *Reconciler) fetchAndDispatch(ctx context.Context) {
	orders, err := r.facade.OrdersForReconciliation(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("fetch orders for reconciliation failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- order:
		}
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flagged, err := r.facade.SweepPairs(ctx)
			if err != nil {
				r.logger.Error("pair sweep failed", slog.String("error", err.Error()))
				continue
			}
			if flagged > 0 {
				r.logger.Warn("pair sweep found unsettled intents", slog.Int("count", flagged))
			}
		}
	}
}

func (r *Reconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-r.jobs:
			if !ok {
				return
			}
			r.handleOrder(ctx, order)
		}
	}
}

func (r *Reconciler) handleOrder(ctx context.Context, order model.Order) {
	report, err := r.facade.CheckOrderStatus(ctx, &order)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			// The venue has not registered the leg yet. Try next cycle.
		case errors.Is(err, domainErrors.ErrUpstreamUnavailable):
			r.logger.Warn("venue unavailable during reconciliation",
				slog.String("order", order.ID),
				slog.String("error", err.Error()),
			)
		default:
			r.logger.Error("status fetch failed",
				slog.String("order", order.ID),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	if err := r.facade.ApplyStatusReport(ctx, &order, report); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUnmappedStatus):
			r.logger.Warn("venue reported unknown status",
				slog.String("order", order.ID),
				slog.String("status", report.Status),
			)
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			// Transition already logged with both endpoints.
		default:
			r.logger.Error("apply status report failed",
				slog.String("order", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}
