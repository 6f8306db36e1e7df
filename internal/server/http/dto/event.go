package dto

import "time"

// TicketTierPayload describes a tier in event create requests.
type TicketTierPayload struct {
	Label         string  `json:"label"`
	Price         float64 `json:"price"`
	QuantityTotal int     `json:"quantityTotal"`
}

// CreateEventRequest describes the event creation payload.
type CreateEventRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Location    string              `json:"location"`
	StartDate   time.Time           `json:"startDate"`
	EndDate     time.Time           `json:"endDate"`
	Published   bool                `json:"isPublished"`
	TicketTypes []TicketTierPayload `json:"ticketTypes"`
}

// TicketTierResponse describes a tier with its live sold counter.
type TicketTierResponse struct {
	Label         string  `json:"label"`
	Price         float64 `json:"price"`
	QuantityTotal int     `json:"quantityTotal"`
	QuantitySold  int     `json:"quantitySold"`
}

// EventResponse describes an event listing.
type EventResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Location    string               `json:"location"`
	StartDate   time.Time            `json:"startDate"`
	EndDate     time.Time            `json:"endDate"`
	Published   bool                 `json:"isPublished"`
	TicketTypes []TicketTierResponse `json:"ticketTypes"`
}
