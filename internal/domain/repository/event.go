package repository

import (
	"context"

	"github.com/Arvinajith/online-event-server/internal/domain/model"
)

// EventRepository describes persistence operations for events and their tiers.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	ListPublished(ctx context.Context) ([]model.Event, error)
}
