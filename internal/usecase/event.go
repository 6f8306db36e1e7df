package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/Arvinajith/online-event-server/internal/domain/errors"
	"github.com/Arvinajith/online-event-server/internal/domain/model"
	"github.com/Arvinajith/online-event-server/internal/domain/repository"
)

// EventUseCase manages event listings the purchase flow consumes.
type EventUseCase struct {
	events repository.EventRepository
}

// NewEventUseCase constructs EventUseCase.
func NewEventUseCase(events repository.EventRepository) *EventUseCase {
	return &EventUseCase{events: events}
}

// Create validates and persists a new event with its ticket tiers.
func (u *EventUseCase) Create(ctx context.Context, organizerID int64, event *model.Event) (*model.Event, error) {
	if strings.TrimSpace(event.Title) == "" {
		return nil, domainErrors.ErrInvalidEvent
	}
	if err := ValidateTiers(event.Tiers); err != nil {
		return nil, err
	}

	event.ID = uuid.NewString()
	event.OrganizerID = organizerID
	for i := range event.Tiers {
		event.Tiers[i].QuantitySold = 0
	}
	return u.events.Create(ctx, event)
}

// GetByID returns the event with its tiers.
func (u *EventUseCase) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return u.events.GetByID(ctx, id)
}

// ListPublished returns publicly visible events.
func (u *EventUseCase) ListPublished(ctx context.Context) ([]model.Event, error) {
	return u.events.ListPublished(ctx)
}
