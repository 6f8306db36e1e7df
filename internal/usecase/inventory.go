package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/Arvinajith/online-event-server/internal/domain/errors"
	"github.com/Arvinajith/online-event-server/internal/domain/model"
	"github.com/Arvinajith/online-event-server/internal/domain/repository"
)

const (
	commitSaleAttempts = 3
	commitSaleBackoff  = 50 * time.Millisecond
)

// InventoryUseCase is the inventory ledger. It owns every mutation of the
// per-tier sold counter and guarantees the sold<=total bound after every
// committed call.
type InventoryUseCase struct {
	inventory repository.InventoryRepository
}

// NewInventoryUseCase constructs InventoryUseCase.
func NewInventoryUseCase(inventory repository.InventoryRepository) *InventoryUseCase {
	return &InventoryUseCase{inventory: inventory}
}

// ReserveCapacity checks that the tier can currently absorb the requested
// quantity. The check is advisory: it does not hold capacity, and a later
// CommitSale may still fail if concurrent commits consume the tier first.
func (u *InventoryUseCase) ReserveCapacity(ctx context.Context, eventID, label string, quantity int) (*model.TicketTier, error) {
	if quantity <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	tier, err := u.inventory.TierState(ctx, eventID, label)
	if err != nil {
		return nil, err
	}
	if tier.QuantitySold+quantity > tier.QuantityTotal {
		return nil, domainErrors.ErrInsufficientInventory
	}
	return tier, nil
}

// CommitSale records the sale through the repository's atomic
// check-and-increment. Transient store failures retry the same atomic
// statement; the counter is never re-read and rewritten.
func (u *InventoryUseCase) CommitSale(ctx context.Context, eventID, label string, quantity int) error {
	if quantity <= 0 {
		return domainErrors.ErrInvalidQuantity
	}

	var err error
	for attempt := 0; attempt < commitSaleAttempts; attempt++ {
		err = u.inventory.CommitSale(ctx, eventID, label, quantity)
		if err == nil ||
			errors.Is(err, domainErrors.ErrInsufficientInventory) ||
			errors.Is(err, domainErrors.ErrTierNotFound) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(commitSaleBackoff):
		}
	}
	return err
}
