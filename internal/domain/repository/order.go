package repository

import (
	"context"
	"time"

	"github.com/Arvinajith/online-event-server/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByPaymentReference(ctx context.Context, ref model.PaymentReference) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	// ClaimPaid atomically flips the order identified by ref from pending to
	// paid. The boolean reports whether this call performed the transition;
	// false means the order was already settled one way or another.
	ClaimPaid(ctx context.Context, ref model.PaymentReference) (*model.Order, bool, error)
	SetStatus(ctx context.Context, orderID string, status model.PaymentStatus) error
	// SelectPendingBatch claims pending orders untouched for at least
	// olderThan, bumping their updated_at so concurrent sweeps skip them.
	SelectPendingBatch(ctx context.Context, limit int, olderThan time.Duration) ([]model.Order, error)
}
