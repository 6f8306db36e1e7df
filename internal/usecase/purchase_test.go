package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Arvinajith/online-event-server/internal/adapter/payment"
	domainErrors "github.com/Arvinajith/online-event-server/internal/domain/errors"
	"github.com/Arvinajith/online-event-server/internal/domain/model"
	testhelpers "github.com/Arvinajith/online-event-server/internal/test"
)

type paymentClientStub struct {
	CreateFn   func(context.Context, int64, string, map[string]string) (*model.Charge, error)
	RetrieveFn func(context.Context, model.PaymentReference) (*model.Charge, error)
	ParseFn    func([]byte, string) (*payment.Notification, error)
}

func (s paymentClientStub) CreateCharge(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*model.Charge, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, amountMinor, currency, metadata)
	}
	return &model.Charge{Reference: "pi_test", ClientSecret: "pi_test_secret", Status: model.ChargeStatusPending}, nil
}

func (s paymentClientStub) RetrieveCharge(ctx context.Context, ref model.PaymentReference) (*model.Charge, error) {
	if s.RetrieveFn != nil {
		return s.RetrieveFn(ctx, ref)
	}
	return &model.Charge{Reference: ref, Status: model.ChargeStatusPending}, nil
}

func (s paymentClientStub) ParseNotification(payload []byte, signature string) (*payment.Notification, error) {
	if s.ParseFn != nil {
		return s.ParseFn(payload, signature)
	}
	return &payment.Notification{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testEvent() *model.Event {
	return &model.Event{
		ID:    "e1",
		Title: "Go Conference",
		Tiers: []model.TicketTier{
			{Label: "GA", UnitPrice: 50, QuantityTotal: 100},
			{Label: "VIP", UnitPrice: 150, QuantityTotal: 10},
		},
	}
}

func eventRepo(event *model.Event) testhelpers.EventRepositoryStub {
	return testhelpers.EventRepositoryStub{
		GetFn: func(_ context.Context, id string) (*model.Event, error) {
			if event != nil && id == event.ID {
				return event, nil
			}
			return nil, domainErrors.ErrEventNotFound
		},
	}
}

func TestPurchaseUseCaseCheckoutValidation(t *testing.T) {
	ledger := NewInventoryUseCase(testhelpers.NewMemoryLedger("e1",
		model.TicketTier{Label: "GA", UnitPrice: 50, QuantityTotal: 1},
	))
	orders := &testhelpers.OrderRepositoryStub{CreateFn: func(context.Context, *model.Order) (*model.Order, error) {
		t.Fatal("order must not be created on validation errors")
		return nil, nil
	}}
	uc := NewPurchaseUseCase(eventRepo(testEvent()), orders, ledger, paymentClientStub{}, &testhelpers.AlerterStub{}, "usd", testLogger())

	cases := []struct {
		name string
		req  CheckoutRequest
		want error
	}{
		{"zero quantity", CheckoutRequest{EventID: "e1", TicketLabel: "GA"}, domainErrors.ErrInvalidQuantity},
		{"unknown event", CheckoutRequest{EventID: "missing", TicketLabel: "GA", Quantity: 1}, domainErrors.ErrEventNotFound},
		{"unknown tier", CheckoutRequest{EventID: "e1", TicketLabel: "Balcony", Quantity: 1}, domainErrors.ErrTierNotFound},
		{"over capacity", CheckoutRequest{EventID: "e1", TicketLabel: "GA", Quantity: 2}, domainErrors.ErrInsufficientInventory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Checkout(context.Background(), 1, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPurchaseUseCaseCheckoutCreatesCharge(t *testing.T) {
	event := testEvent()
	ledger := NewInventoryUseCase(testhelpers.NewMemoryLedger("e1", event.Tiers...))
	orders := &testhelpers.OrderRepositoryStub{}

	var gotAmount int64
	var gotCurrency string
	var gotMetadata map[string]string
	payments := paymentClientStub{CreateFn: func(_ context.Context, amountMinor int64, currency string, metadata map[string]string) (*model.Charge, error) {
		gotAmount = amountMinor
		gotCurrency = currency
		gotMetadata = metadata
		return &model.Charge{Reference: "pi_123", ClientSecret: "pi_123_secret", Status: model.ChargeStatusPending}, nil
	}}

	uc := NewPurchaseUseCase(eventRepo(event), orders, ledger, payments, &testhelpers.AlerterStub{}, "eur", testLogger())

	result, err := uc.Checkout(context.Background(), 42, CheckoutRequest{
		EventID:     "e1",
		TicketLabel: "GA",
		Quantity:    2,
		Attendees:   []model.Attendee{{Name: "Ada", Email: "ada@example.com"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAmount != 10000 {
		t.Fatalf("expected 10000 minor units, got %d", gotAmount)
	}
	if gotCurrency != "eur" {
		t.Fatalf("expected eur currency, got %s", gotCurrency)
	}
	if gotMetadata["user_id"] != "42" || gotMetadata["event_id"] != "e1" || gotMetadata["quantity"] != "2" {
		t.Fatalf("unexpected charge metadata: %v", gotMetadata)
	}

	order := result.Order
	if order.PaymentStatus != model.PaymentStatusPending {
		t.Fatalf("expected pending order, got %s", order.PaymentStatus)
	}
	if order.PaymentReference != "pi_123" {
		t.Fatalf("expected charge reference on order, got %s", order.PaymentReference)
	}
	if order.PaymentProvider != providerStripe {
		t.Fatalf("expected stripe provider, got %s", order.PaymentProvider)
	}
	if order.TotalAmount != 100 {
		t.Fatalf("expected total 100, got %f", order.TotalAmount)
	}
	if result.ClientSecret != "pi_123_secret" {
		t.Fatalf("expected client secret, got %q", result.ClientSecret)
	}
	if len(orders.Created) != 1 {
		t.Fatalf("expected 1 created order, got %d", len(orders.Created))
	}

	// Capacity must remain untouched until settlement.
	tier, err := ledger.ReserveCapacity(context.Background(), "e1", "GA", 1)
	if err != nil {
		t.Fatalf("reserve after checkout returned error: %v", err)
	}
	if tier.QuantitySold != 0 {
		t.Fatalf("checkout must not consume capacity, sold=%d", tier.QuantitySold)
	}
}

func TestPurchaseUseCaseCheckoutOffline(t *testing.T) {
	event := testEvent()
	memory := testhelpers.NewMemoryLedger("e1", event.Tiers...)
	orders := &testhelpers.OrderRepositoryStub{}
	uc := NewPurchaseUseCase(eventRepo(event), orders, NewInventoryUseCase(memory), nil, &testhelpers.AlerterStub{}, "usd", testLogger())

	result, err := uc.Checkout(context.Background(), 7, CheckoutRequest{EventID: "e1", TicketLabel: "VIP", Quantity: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := result.Order
	if order.PaymentStatus != model.PaymentStatusPaid {
		t.Fatalf("offline checkout must settle immediately, got %s", order.PaymentStatus)
	}
	if order.PaymentProvider != providerMock {
		t.Fatalf("expected mock provider, got %s", order.PaymentProvider)
	}
	if !strings.HasPrefix(string(order.PaymentReference), "mock_") {
		t.Fatalf("expected mock reference, got %s", order.PaymentReference)
	}
	if result.ClientSecret != "" {
		t.Fatalf("offline checkout must not return a client secret")
	}

	tier, err := memory.TierState(context.Background(), "e1", "VIP")
	if err != nil {
		t.Fatalf("tier state returned error: %v", err)
	}
	if tier.QuantitySold != 3 {
		t.Fatalf("expected 3 sold, got %d", tier.QuantitySold)
	}
}

func pendingOrder(ref model.PaymentReference) *model.Order {
	return &model.Order{
		ID:               "o1",
		UserID:           42,
		Items:            []model.OrderItem{{EventID: "e1", TicketLabel: "GA", UnitPrice: 50, Quantity: 2}},
		TotalAmount:      100,
		PaymentStatus:    model.PaymentStatusPaid,
		PaymentProvider:  providerStripe,
		PaymentReference: ref,
	}
}

func TestPurchaseUseCaseSettleCommitsInventory(t *testing.T) {
	memory := testhelpers.NewMemoryLedger("e1", model.TicketTier{Label: "GA", UnitPrice: 50, QuantityTotal: 10})
	orders := &testhelpers.OrderRepositoryStub{ClaimPaidFn: func(_ context.Context, ref model.PaymentReference) (*model.Order, bool, error) {
		return pendingOrder(ref), true, nil
	}}
	alerter := &testhelpers.AlerterStub{}
	uc := NewPurchaseUseCase(eventRepo(nil), orders, NewInventoryUseCase(memory), paymentClientStub{}, alerter, "usd", testLogger())

	order, err := uc.Settle(context.Background(), "pi_123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.PaymentStatus != model.PaymentStatusPaid {
		t.Fatalf("expected paid order, got %s", order.PaymentStatus)
	}

	tier, _ := memory.TierState(context.Background(), "e1", "GA")
	if tier.QuantitySold != 2 {
		t.Fatalf("expected 2 sold after settlement, got %d", tier.QuantitySold)
	}
	if alerter.AlertCount() != 0 {
		t.Fatalf("no alert expected, got %d", alerter.AlertCount())
	}
}

func TestPurchaseUseCaseSettleIdempotent(t *testing.T) {
	memory := testhelpers.NewMemoryLedger("e1", model.TicketTier{Label: "GA", UnitPrice: 50, QuantityTotal: 10})
	claimed := false
	orders := &testhelpers.OrderRepositoryStub{ClaimPaidFn: func(_ context.Context, ref model.PaymentReference) (*model.Order, bool, error) {
		order := pendingOrder(ref)
		if claimed {
			return order, false, nil
		}
		claimed = true
		return order, true, nil
	}}
	uc := NewPurchaseUseCase(eventRepo(nil), orders, NewInventoryUseCase(memory), paymentClientStub{}, &testhelpers.AlerterStub{}, "usd", testLogger())

	for i := 0; i < 3; i++ {
		if _, err := uc.Settle(context.Background(), "pi_123"); err != nil {
			t.Fatalf("settle %d returned error: %v", i, err)
		}
	}

	tier, _ := memory.TierState(context.Background(), "e1", "GA")
	if tier.QuantitySold != 2 {
		t.Fatalf("redelivery must not commit twice, sold=%d", tier.QuantitySold)
	}
}

func TestPurchaseUseCaseSettleUnknownReference(t *testing.T) {
	uc := NewPurchaseUseCase(eventRepo(nil), &testhelpers.OrderRepositoryStub{}, NewInventoryUseCase(testhelpers.InventoryRepositoryStub{}), paymentClientStub{}, &testhelpers.AlerterStub{}, "usd", testLogger())

	if _, err := uc.Settle(context.Background(), "pi_unknown"); !errors.Is(err, domainErrors.ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestPurchaseUseCaseSettleInventoryRaceAlerts(t *testing.T) {
	// The GA tier sold out between checkout validation and settlement.
	memory := testhelpers.NewMemoryLedger("e1", model.TicketTier{Label: "GA", UnitPrice: 50, QuantityTotal: 1, QuantitySold: 1})
	orders := &testhelpers.OrderRepositoryStub{ClaimPaidFn: func(_ context.Context, ref model.PaymentReference) (*model.Order, bool, error) {
		return pendingOrder(ref), true, nil
	}}
	alerter := &testhelpers.AlerterStub{}
	uc := NewPurchaseUseCase(eventRepo(nil), orders, NewInventoryUseCase(memory), paymentClientStub{}, alerter, "usd", testLogger())

	order, err := uc.Settle(context.Background(), "pi_123")
	if !errors.Is(err, domainErrors.ErrInsufficientInventory) {
		t.Fatalf("expected insufficient inventory, got %v", err)
	}
	if order.PaymentStatus != model.PaymentStatusFailed {
		t.Fatalf("expected failed order, got %s", order.PaymentStatus)
	}
	if len(orders.Statuses) != 1 || orders.Statuses[0] != model.PaymentStatusFailed {
		t.Fatalf("expected one failed status update, got %v", orders.Statuses)
	}
	if alerter.AlertCount() != 1 {
		t.Fatalf("expected one operational alert, got %d", alerter.AlertCount())
	}
}

func TestPurchaseUseCasePartialCommitStays(t *testing.T) {
	// First item commits, second loses the race. The committed item is not
	// rolled back; the incident goes to the alerter instead.
	memory := testhelpers.NewMemoryLedger("e1",
		model.TicketTier{Label: "GA", UnitPrice: 50, QuantityTotal: 10},
		model.TicketTier{Label: "VIP", UnitPrice: 150, QuantityTotal: 0},
	)
	orders := &testhelpers.OrderRepositoryStub{ClaimPaidFn: func(_ context.Context, ref model.PaymentReference) (*model.Order, bool, error) {
		return &model.Order{
			ID: "o1",
			Items: []model.OrderItem{
				{EventID: "e1", TicketLabel: "GA", UnitPrice: 50, Quantity: 1},
				{EventID: "e1", TicketLabel: "VIP", UnitPrice: 150, Quantity: 1},
			},
			PaymentStatus:    model.PaymentStatusPaid,
			PaymentReference: ref,
		}, true, nil
	}}
	alerter := &testhelpers.AlerterStub{}
	uc := NewPurchaseUseCase(eventRepo(nil), orders, NewInventoryUseCase(memory), paymentClientStub{}, alerter, "usd", testLogger())

	if _, err := uc.Settle(context.Background(), "pi_123"); !errors.Is(err, domainErrors.ErrInsufficientInventory) {
		t.Fatalf("expected insufficient inventory, got %v", err)
	}

	ga, _ := memory.TierState(context.Background(), "e1", "GA")
	if ga.QuantitySold != 1 {
		t.Fatalf("committed item must stay committed, sold=%d", ga.QuantitySold)
	}
	if alerter.AlertCount() != 1 {
		t.Fatalf("expected one operational alert, got %d", alerter.AlertCount())
	}
}

func TestPurchaseUseCaseOrdersDelegation(t *testing.T) {
	want := []model.Order{{ID: "o1"}, {ID: "o2"}}
	orders := &testhelpers.OrderRepositoryStub{ListByUserFn: func(_ context.Context, userID int64) ([]model.Order, error) {
		if userID != 42 {
			t.Fatalf("unexpected user id %d", userID)
		}
		return want, nil
	}}
	uc := NewPurchaseUseCase(eventRepo(nil), orders, NewInventoryUseCase(testhelpers.InventoryRepositoryStub{}), nil, &testhelpers.AlerterStub{}, "usd", testLogger())

	got, err := uc.Orders(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d orders, got %d", len(want), len(got))
	}
}

func TestPurchaseUseCasePaymentsConfigured(t *testing.T) {
	offline := NewPurchaseUseCase(eventRepo(nil), &testhelpers.OrderRepositoryStub{}, NewInventoryUseCase(testhelpers.InventoryRepositoryStub{}), nil, &testhelpers.AlerterStub{}, "usd", testLogger())
	if offline.PaymentsConfigured() {
		t.Fatal("nil client must report offline mode")
	}

	online := NewPurchaseUseCase(eventRepo(nil), &testhelpers.OrderRepositoryStub{}, NewInventoryUseCase(testhelpers.InventoryRepositoryStub{}), paymentClientStub{}, &testhelpers.AlerterStub{}, "usd", testLogger())
	if !online.PaymentsConfigured() {
		t.Fatal("expected configured payments")
	}
}

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{0, 0},
		{50, 5000},
		{19.99, 1999},
		{0.1 + 0.2, 30},
	}
	for _, tc := range cases {
		if got := minorUnits(tc.amount); got != tc.want {
			t.Fatalf("minorUnits(%f)=%d, want %d", tc.amount, got, tc.want)
		}
	}
}
