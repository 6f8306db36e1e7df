package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Arvinajith/online-event-server/internal/domain/model"
)

// WorkerFacadeStub mimics reconciler interactions with the ticketing facade.
type WorkerFacadeStub struct {
	Batches   [][]model.Order
	PendingFn func(context.Context, int, time.Duration) ([]model.Order, error)
	ChargeFn  func(context.Context, model.PaymentReference) (*model.Charge, error)
	SettleFn  func(context.Context, model.PaymentReference) (*model.Order, error)
	Settled   []model.PaymentReference

	mu               sync.Mutex
	pendingCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// PendingOrders returns batches from the configured queue.
func (s *WorkerFacadeStub) PendingOrders(ctx context.Context, limit int, olderThan time.Duration) ([]model.Order, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit, olderThan)
	}
	call := atomic.AddInt32(&s.pendingCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// RetrieveCharge returns configured charge state, succeeded by default.
func (s *WorkerFacadeStub) RetrieveCharge(ctx context.Context, ref model.PaymentReference) (*model.Charge, error) {
	if s.ChargeFn != nil {
		return s.ChargeFn(ctx, ref)
	}
	return &model.Charge{Reference: ref, Status: model.ChargeStatusSucceeded}, nil
}

// SettlePayment records settlement requests.
func (s *WorkerFacadeStub) SettlePayment(ctx context.Context, ref model.PaymentReference) (*model.Order, error) {
	if s.SettleFn != nil {
		return s.SettleFn(ctx, ref)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Settled = append(s.Settled, ref)
	return &model.Order{PaymentReference: ref, PaymentStatus: model.PaymentStatusPaid}, nil
}
