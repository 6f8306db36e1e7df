package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Arvinajith/online-event-server/internal/adapter/payment"
	"github.com/Arvinajith/online-event-server/internal/alert"
	domainErrors "github.com/Arvinajith/online-event-server/internal/domain/errors"
	"github.com/Arvinajith/online-event-server/internal/domain/model"
	"github.com/Arvinajith/online-event-server/internal/domain/repository"
)

const providerStripe = "stripe"
const providerMock = "mock"

// CheckoutRequest describes a single purchase attempt.
type CheckoutRequest struct {
	EventID     string
	TicketLabel string
	Quantity    int
	Attendees   []model.Attendee
}

// CheckoutResult carries the created order and, when a provider is
// involved, the client secret needed to complete the charge.
type CheckoutResult struct {
	Order        *model.Order
	ClientSecret string
}

// PurchaseUseCase orchestrates purchase attempts: validation against the
// inventory ledger, order creation, charge initiation, and settlement of
// provider notifications.
type PurchaseUseCase struct {
	events   repository.EventRepository
	orders   repository.OrderRepository
	ledger   *InventoryUseCase
	payments payment.Client
	alerter  alert.Alerter
	currency string
	logger   *slog.Logger
}

// NewPurchaseUseCase constructs PurchaseUseCase. A nil payments client puts
// the orchestrator into offline mode: checkouts settle synchronously.
func NewPurchaseUseCase(
	events repository.EventRepository,
	orders repository.OrderRepository,
	ledger *InventoryUseCase,
	payments payment.Client,
	alerter alert.Alerter,
	currency string,
	logger *slog.Logger,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		events:   events,
		orders:   orders,
		ledger:   ledger,
		payments: payments,
		alerter:  alerter,
		currency: currency,
		logger:   logger,
	}
}

// PaymentsConfigured reports whether a payment provider is wired in.
func (u *PurchaseUseCase) PaymentsConfigured() bool {
	return u.payments != nil
}

// Checkout validates the request, creates the order, and initiates the
// charge. Validation is advisory only; capacity is consumed at settlement.
func (u *PurchaseUseCase) Checkout(ctx context.Context, userID int64, req CheckoutRequest) (*CheckoutResult, error) {
	if req.Quantity <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}

	event, err := u.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	tier, ok := event.Tier(req.TicketLabel)
	if !ok {
		return nil, domainErrors.ErrTierNotFound
	}
	if _, err := u.ledger.ReserveCapacity(ctx, req.EventID, req.TicketLabel, req.Quantity); err != nil {
		return nil, err
	}

	total := tier.UnitPrice * float64(req.Quantity)
	order := &model.Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Items: []model.OrderItem{{
			EventID:     req.EventID,
			TicketLabel: req.TicketLabel,
			UnitPrice:   tier.UnitPrice,
			Quantity:    req.Quantity,
		}},
		TotalAmount: total,
		Attendees:   req.Attendees,
	}

	if u.payments == nil {
		return u.checkoutOffline(ctx, order)
	}

	charge, err := u.payments.CreateCharge(ctx, minorUnits(total), u.currency, map[string]string{
		"user_id":      strconv.FormatInt(userID, 10),
		"event_id":     req.EventID,
		"ticket_label": req.TicketLabel,
		"quantity":     strconv.Itoa(req.Quantity),
	})
	if err != nil {
		return nil, fmt.Errorf("create charge: %w", err)
	}

	order.PaymentStatus = model.PaymentStatusPending
	order.PaymentProvider = providerStripe
	order.PaymentReference = charge.Reference
	if _, err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	return &CheckoutResult{Order: order, ClientSecret: charge.ClientSecret}, nil
}

// checkoutOffline creates the order already paid and commits the sale
// synchronously, the degraded path used when no provider is configured.
func (u *PurchaseUseCase) checkoutOffline(ctx context.Context, order *model.Order) (*CheckoutResult, error) {
	order.PaymentStatus = model.PaymentStatusPaid
	order.PaymentProvider = providerMock
	order.PaymentReference = model.NewMockPaymentReference()
	if _, err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := u.commitItems(ctx, order); err != nil {
		return nil, err
	}
	return &CheckoutResult{Order: order}, nil
}

// Settle reconciles a successful charge into the inventory ledger and the
// order state. Claiming the order pending->paid first makes the operation
// idempotent under redelivered notifications: at most one caller commits
// inventory for a given order.
func (u *PurchaseUseCase) Settle(ctx context.Context, ref model.PaymentReference) (*model.Order, error) {
	order, claimed, err := u.orders.ClaimPaid(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !claimed {
		u.logger.Info("settlement already processed",
			slog.String("order_id", order.ID),
			slog.String("status", string(order.PaymentStatus)),
		)
		return order, nil
	}

	if err := u.commitItems(ctx, order); err != nil {
		return order, err
	}
	return order, nil
}

// commitItems commits every order item to the ledger. A losing commit marks
// the order failed and raises an operational alert; earlier items stay
// committed and are listed for manual reconciliation.
func (u *PurchaseUseCase) commitItems(ctx context.Context, order *model.Order) error {
	for i, item := range order.Items {
		err := u.ledger.CommitSale(ctx, item.EventID, item.TicketLabel, item.Quantity)
		if err == nil {
			continue
		}

		order.PaymentStatus = model.PaymentStatusFailed
		if setErr := u.orders.SetStatus(ctx, order.ID, model.PaymentStatusFailed); setErr != nil {
			u.logger.Error("mark order failed",
				slog.String("order_id", order.ID),
				slog.String("error", setErr.Error()),
			)
		}
		u.alerter.Alert(ctx, "payment captured without inventory, manual reconciliation required",
			slog.String("order_id", order.ID),
			slog.String("payment_reference", string(order.PaymentReference)),
			slog.String("event_id", item.EventID),
			slog.String("ticket_label", item.TicketLabel),
			slog.Int("quantity", item.Quantity),
			slog.Int("items_committed", i),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Orders returns the user's orders, newest first.
func (u *PurchaseUseCase) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// OrdersForReconciliation claims a batch of stale pending orders.
func (u *PurchaseUseCase) OrdersForReconciliation(ctx context.Context, limit int, olderThan time.Duration) ([]model.Order, error) {
	return u.orders.SelectPendingBatch(ctx, limit, olderThan)
}

// minorUnits converts a decimal amount into provider minor units.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
