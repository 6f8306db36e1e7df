package handlers

import (
	"context"

	"github.com/Arvinajith/online-event-server/internal/adapter/payment"
	"github.com/Arvinajith/online-event-server/internal/domain/model"
	"github.com/Arvinajith/online-event-server/internal/usecase"
)

// PurchaseFacade encapsulates purchase operations exposed via HTTP.
type PurchaseFacade interface {
	Checkout(ctx context.Context, userID int64, req usecase.CheckoutRequest) (*usecase.CheckoutResult, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
}

// WebhookFacade handles inbound settlement notifications.
type WebhookFacade interface {
	ParsePaymentNotification(payload []byte, signature string) (*payment.Notification, error)
	SettlePayment(ctx context.Context, ref model.PaymentReference) (*model.Order, error)
}

// EventFacade provides event listing operations.
type EventFacade interface {
	CreateEvent(ctx context.Context, organizerID int64, event *model.Event) (*model.Event, error)
	Event(ctx context.Context, id string) (*model.Event, error)
	PublishedEvents(ctx context.Context) ([]model.Event, error)
}

// TokenFacade resolves bearer tokens for the auth middleware.
type TokenFacade interface {
	ParseToken(token string) (int64, error)
}

// TicketingFacade aggregates the full set of operations used across handlers.
type TicketingFacade interface {
	PurchaseFacade
	WebhookFacade
	EventFacade
	TokenFacade
}
