package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/Arvinajith/online-event-server/internal/domain/errors"
	"github.com/Arvinajith/online-event-server/internal/domain/model"
)

// EventRepositoryStub provides controllable event persistence behaviour.
type EventRepositoryStub struct {
	CreateFn        func(context.Context, *model.Event) (*model.Event, error)
	GetFn           func(context.Context, string) (*model.Event, error)
	ListPublishedFn func(context.Context) ([]model.Event, error)
}

func (s EventRepositoryStub) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, event)
	}
	return event, nil
}

func (s EventRepositoryStub) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return nil, domainErrors.ErrEventNotFound
}

func (s EventRepositoryStub) ListPublished(ctx context.Context) ([]model.Event, error) {
	if s.ListPublishedFn != nil {
		return s.ListPublishedFn(ctx)
	}
	return nil, nil
}

// OrderRepositoryStub provides controllable order persistence behaviour.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, *model.Order) (*model.Order, error)
	GetByRefFn     func(context.Context, model.PaymentReference) (*model.Order, error)
	ListByUserFn   func(context.Context, int64) ([]model.Order, error)
	ClaimPaidFn    func(context.Context, model.PaymentReference) (*model.Order, bool, error)
	SetStatusFn    func(context.Context, string, model.PaymentStatus) error
	PendingBatchFn func(context.Context, int, time.Duration) ([]model.Order, error)

	mu       sync.Mutex
	Created  []*model.Order
	Statuses []model.PaymentStatus
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	s.Created = append(s.Created, order)
	s.mu.Unlock()
	return order, nil
}

func (s *OrderRepositoryStub) GetByPaymentReference(ctx context.Context, ref model.PaymentReference) (*model.Order, error) {
	if s.GetByRefFn != nil {
		return s.GetByRefFn(ctx, ref)
	}
	return nil, domainErrors.ErrOrderNotFound
}

func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (s *OrderRepositoryStub) ClaimPaid(ctx context.Context, ref model.PaymentReference) (*model.Order, bool, error) {
	if s.ClaimPaidFn != nil {
		return s.ClaimPaidFn(ctx, ref)
	}
	return nil, false, domainErrors.ErrOrderNotFound
}

func (s *OrderRepositoryStub) SetStatus(ctx context.Context, orderID string, status model.PaymentStatus) error {
	if s.SetStatusFn != nil {
		return s.SetStatusFn(ctx, orderID, status)
	}
	s.mu.Lock()
	s.Statuses = append(s.Statuses, status)
	s.mu.Unlock()
	return nil
}

func (s *OrderRepositoryStub) SelectPendingBatch(ctx context.Context, limit int, olderThan time.Duration) ([]model.Order, error) {
	if s.PendingBatchFn != nil {
		return s.PendingBatchFn(ctx, limit, olderThan)
	}
	return nil, nil
}

// MemoryLedger is an in-memory inventory repository with the same
// atomicity contract as the Postgres implementation. Useful for
// concurrency tests.
type MemoryLedger struct {
	mu    sync.Mutex
	tiers map[string]*model.TicketTier
}

// NewMemoryLedger builds a ledger preloaded with the provided tiers.
func NewMemoryLedger(eventID string, tiers ...model.TicketTier) *MemoryLedger {
	l := &MemoryLedger{tiers: make(map[string]*model.TicketTier)}
	for i := range tiers {
		tier := tiers[i]
		l.tiers[eventID+"/"+tier.Label] = &tier
	}
	return l
}

func (l *MemoryLedger) TierState(ctx context.Context, eventID, label string) (*model.TicketTier, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tier, ok := l.tiers[eventID+"/"+label]
	if !ok {
		return nil, domainErrors.ErrTierNotFound
	}
	copied := *tier
	return &copied, nil
}

func (l *MemoryLedger) CommitSale(ctx context.Context, eventID, label string, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	tier, ok := l.tiers[eventID+"/"+label]
	if !ok {
		return domainErrors.ErrTierNotFound
	}
	if tier.QuantitySold+quantity > tier.QuantityTotal {
		return domainErrors.ErrInsufficientInventory
	}
	tier.QuantitySold += quantity
	return nil
}

// InventoryRepositoryStub allows error injection for ledger tests.
type InventoryRepositoryStub struct {
	TierStateFn  func(context.Context, string, string) (*model.TicketTier, error)
	CommitSaleFn func(context.Context, string, string, int) error
}

func (s InventoryRepositoryStub) TierState(ctx context.Context, eventID, label string) (*model.TicketTier, error) {
	if s.TierStateFn != nil {
		return s.TierStateFn(ctx, eventID, label)
	}
	return nil, domainErrors.ErrTierNotFound
}

func (s InventoryRepositoryStub) CommitSale(ctx context.Context, eventID, label string, quantity int) error {
	if s.CommitSaleFn != nil {
		return s.CommitSaleFn(ctx, eventID, label, quantity)
	}
	return nil
}

// AlerterStub records operational alerts raised during tests.
type AlerterStub struct {
	mu     sync.Mutex
	Alerts []string
}

func (s *AlerterStub) Alert(ctx context.Context, message string, args ...any) {
	s.mu.Lock()
	s.Alerts = append(s.Alerts, message)
	s.mu.Unlock()
}

// AlertCount returns the number of recorded alerts.
func (s *AlerterStub) AlertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Alerts)
}
