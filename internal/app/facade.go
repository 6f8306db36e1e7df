package app

import (
	"context"
	"time"

	"github.com/Arvinajith/online-event-server/internal/adapter/payment"
	"github.com/Arvinajith/online-event-server/internal/domain/model"
	pkgAuth "github.com/Arvinajith/online-event-server/internal/pkg/auth"
	"github.com/Arvinajith/online-event-server/internal/usecase"
)

// TicketingFacade aggregates the use cases behind a single application
// surface consumed by HTTP handlers and the reconciler worker.
type TicketingFacade struct {
	events   *usecase.EventUseCase
	purchase *usecase.PurchaseUseCase
	payments payment.Client
	tokens   pkgAuth.TokenStrategy
}

// NewTicketingFacade constructs TicketingFacade.
func NewTicketingFacade(
	events *usecase.EventUseCase,
	purchase *usecase.PurchaseUseCase,
	payments payment.Client,
	tokens pkgAuth.TokenStrategy,
) *TicketingFacade {
	return &TicketingFacade{events: events, purchase: purchase, payments: payments, tokens: tokens}
}

// ParseToken resolves a bearer token into the caller's user id.
func (f *TicketingFacade) ParseToken(token string) (int64, error) {
	return f.tokens.ParseToken(token)
}

// Checkout runs a purchase attempt for the user.
func (f *TicketingFacade) Checkout(ctx context.Context, userID int64, req usecase.CheckoutRequest) (*usecase.CheckoutResult, error) {
	return f.purchase.Checkout(ctx, userID, req)
}

// SettlePayment reconciles a successful charge by correlation reference.
func (f *TicketingFacade) SettlePayment(ctx context.Context, ref model.PaymentReference) (*model.Order, error) {
	return f.purchase.Settle(ctx, ref)
}

// ParsePaymentNotification decodes an inbound settlement notification.
func (f *TicketingFacade) ParsePaymentNotification(payload []byte, signature string) (*payment.Notification, error) {
	if f.payments == nil {
		return nil, payment.ErrNotConfigured
	}
	return f.payments.ParseNotification(payload, signature)
}

// Orders lists the user's orders.
func (f *TicketingFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.purchase.Orders(ctx, userID)
}

// PendingOrders claims stale pending orders for reconciliation.
func (f *TicketingFacade) PendingOrders(ctx context.Context, limit int, olderThan time.Duration) ([]model.Order, error) {
	return f.purchase.OrdersForReconciliation(ctx, limit, olderThan)
}

// RetrieveCharge fetches the provider-side state of a charge.
func (f *TicketingFacade) RetrieveCharge(ctx context.Context, ref model.PaymentReference) (*model.Charge, error) {
	if f.payments == nil {
		return nil, payment.ErrNotConfigured
	}
	return f.payments.RetrieveCharge(ctx, ref)
}

// PaymentsConfigured reports whether a provider is wired in.
func (f *TicketingFacade) PaymentsConfigured() bool {
	return f.payments != nil
}

// CreateEvent persists a new event listing for the organizer.
func (f *TicketingFacade) CreateEvent(ctx context.Context, organizerID int64, event *model.Event) (*model.Event, error) {
	return f.events.Create(ctx, organizerID, event)
}

// Event returns one event with its tiers.
func (f *TicketingFacade) Event(ctx context.Context, id string) (*model.Event, error) {
	return f.events.GetByID(ctx, id)
}

// PublishedEvents lists publicly visible events.
func (f *TicketingFacade) PublishedEvents(ctx context.Context) ([]model.Event, error) {
	return f.events.ListPublished(ctx)
}
