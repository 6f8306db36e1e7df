package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/Arvinajith/online-event-server/internal/domain/errors"
	"github.com/Arvinajith/online-event-server/internal/domain/model"
)

// TicketingFacade exposes the subset of application functionality required by the worker.
type TicketingFacade interface {
	PendingOrders(ctx context.Context, limit int, olderThan time.Duration) ([]model.Order, error)
	RetrieveCharge(ctx context.Context, ref model.PaymentReference) (*model.Charge, error)
	SettlePayment(ctx context.Context, ref model.PaymentReference) (*model.Order, error)
}

// PaymentReconciler sweeps stale pending orders and reconciles charges the
// provider settled but whose notifications never arrived. Orders whose
// charge is still open are left pending; nothing ever expires here.
type PaymentReconciler struct {
	facade       TicketingFacade
	pollInterval time.Duration
	minAge       time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentReconciler constructs the reconciliation worker pool.
func NewPaymentReconciler(facade TicketingFacade, pollInterval, minAge time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentReconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentReconciler{
		facade:       facade,
		pollInterval: pollInterval,
		minAge:       minAge,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (p *PaymentReconciler) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentReconciler) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentReconciler) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentReconciler) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.PendingOrders(ctx, p.batchSize, p.minAge)
	if err != nil {
		p.logger.Error("fetch pending orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *PaymentReconciler) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			p.reconcile(ctx, order)
		}
	}
}

func (p *PaymentReconciler) reconcile(ctx context.Context, order model.Order) {
	charge, err := p.facade.RetrieveCharge(ctx, order.PaymentReference)
	if err != nil {
		p.logger.Error("retrieve charge failed",
			slog.String("order_id", order.ID),
			slog.String("payment_reference", string(order.PaymentReference)),
			slog.String("error", err.Error()),
		)
		return
	}

	if charge.Status != model.ChargeStatusSucceeded {
		return
	}

	if _, err := p.facade.SettlePayment(ctx, order.PaymentReference); err != nil {
		// Inventory races are alerted by the orchestrator; everything else
		// is retried on a later sweep.
		if !errors.Is(err, domainErrors.ErrInsufficientInventory) {
			p.logger.Error("reconcile settlement failed",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	p.logger.Info("reconciled missed settlement",
		slog.String("order_id", order.ID),
		slog.String("payment_reference", string(order.PaymentReference)),
	)
}
