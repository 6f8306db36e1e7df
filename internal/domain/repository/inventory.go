package repository

import (
	"context"

	"github.com/Arvinajith/online-event-server/internal/domain/model"
)

// InventoryRepository owns the sold counters of ticket tiers. CommitSale is
// the only mutation path for quantity_sold.
type InventoryRepository interface {
	// TierState reads the current state of a tier.
	TierState(ctx context.Context, eventID, label string) (*model.TicketTier, error)
	// CommitSale increments quantity_sold by quantity only if the result
	// stays within quantity_total. The check and the increment happen in a
	// single atomic statement; on capacity exhaustion it returns
	// ErrInsufficientInventory and leaves state untouched.
	CommitSale(ctx context.Context, eventID, label string, quantity int) error
}
