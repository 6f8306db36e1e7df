package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/Arvinajith/online-event-server/internal/domain/model"
)

// ErrInvalidSignature indicates a settlement notification that failed
// signature verification and must be rejected, not acknowledged.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ErrNotConfigured is returned when no payment provider is wired in.
var ErrNotConfigured = errors.New("payment provider not configured")

// EventPaymentSucceeded is the only notification type the core reacts to.
const EventPaymentSucceeded = "payment_intent.succeeded"

// Notification is a decoded settlement notification from the provider.
type Notification struct {
	Type      string
	Reference model.PaymentReference
}

// Succeeded reports whether the notification settles a charge.
func (n Notification) Succeeded() bool {
	return n.Type == EventPaymentSucceeded
}

// Client exposes the charge operations the purchase flow relies on:
// idempotent create, retrieve, and webhook decoding.
type Client interface {
	CreateCharge(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*model.Charge, error)
	RetrieveCharge(ctx context.Context, ref model.PaymentReference) (*model.Charge, error)
	ParseNotification(payload []byte, signature string) (*Notification, error)
}

// StripeClient implements Client on top of Stripe PaymentIntents.
type StripeClient struct {
	webhookSecret string
	logger        *slog.Logger
}

// NewStripeClient configures the global Stripe key and returns a client.
func NewStripeClient(secretKey, webhookSecret string, logger *slog.Logger) (*StripeClient, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	stripe.Key = secretKey
	return &StripeClient{webhookSecret: webhookSecret, logger: logger}, nil
}

// CreateCharge creates a PaymentIntent for the given minor-unit amount.
func (c *StripeClient) CreateCharge(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*model.Charge, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: metadata,
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &model.Charge{
		Reference:    model.PaymentReference(pi.ID),
		ClientSecret: pi.ClientSecret,
		Status:       chargeStatus(pi.Status),
	}, nil
}

// RetrieveCharge fetches the current state of a previously created charge.
func (c *StripeClient) RetrieveCharge(ctx context.Context, ref model.PaymentReference) (*model.Charge, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(string(ref), params)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}

	return &model.Charge{
		Reference:    model.PaymentReference(pi.ID),
		ClientSecret: pi.ClientSecret,
		Status:       chargeStatus(pi.Status),
	}, nil
}

// ParseNotification decodes an inbound webhook payload. With a signing
// secret configured the signature is verified; otherwise the payload is
// trusted as-is, matching providers without signed deliveries.
func (c *StripeClient) ParseNotification(payload []byte, signature string) (*Notification, error) {
	var event stripe.Event
	if c.webhookSecret != "" {
		verified, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		event = verified
	} else if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}

	notification := &Notification{Type: string(event.Type)}
	if event.Data != nil && len(event.Data.Raw) > 0 {
		var object struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
			return nil, fmt.Errorf("decode webhook object: %w", err)
		}
		notification.Reference = model.PaymentReference(object.ID)
	}
	return notification, nil
}

func chargeStatus(status stripe.PaymentIntentStatus) model.ChargeStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return model.ChargeStatusSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return model.ChargeStatusCanceled
	default:
		return model.ChargeStatusPending
	}
}
