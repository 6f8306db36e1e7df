package model

import "time"

// TicketTier is one priced ticket class of an event. QuantitySold only
// moves through the inventory ledger and never exceeds QuantityTotal.
type TicketTier struct {
	Label         string
	UnitPrice     float64
	QuantityTotal int
	QuantitySold  int
}

// Remaining returns the tickets still available in the tier.
func (t TicketTier) Remaining() int {
	return t.QuantityTotal - t.QuantitySold
}

// Event is a listed happening with its ticket tiers.
type Event struct {
	ID          string
	OrganizerID int64
	Title       string
	Description string
	Location    string
	StartDate   time.Time
	EndDate     time.Time
	Tiers       []TicketTier
	Published   bool
	CreatedAt   time.Time
}

// Tier looks up a tier by its label.
func (e *Event) Tier(label string) (*TicketTier, bool) {
	for i := range e.Tiers {
		if e.Tiers[i].Label == label {
			return &e.Tiers[i], true
		}
	}
	return nil, false
}
