package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus describes order settlement lifecycle.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentReference correlates an order with its payment provider charge.
// It is unique per order.
type PaymentReference string

// NewMockPaymentReference generates a reference for orders settled without
// a payment provider.
func NewMockPaymentReference() PaymentReference {
	return PaymentReference("mock_" + uuid.NewString())
}

// OrderItem is a single purchased position of an order.
type OrderItem struct {
	EventID     string
	TicketLabel string
	UnitPrice   float64
	Quantity    int
}

// Attendee holds per-ticket attendee details captured at checkout.
type Attendee struct {
	Name  string
	Email string
}

// Order describes a purchase attempt and its settlement state.
type Order struct {
	ID               string
	UserID           int64
	Items            []OrderItem
	TotalAmount      float64
	PaymentStatus    PaymentStatus
	PaymentProvider  string
	PaymentReference PaymentReference
	Attendees        []Attendee
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
