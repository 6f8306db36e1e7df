package dto

import "time"

// OrderItemResponse describes a purchased position.
type OrderItemResponse struct {
	EventID     string  `json:"eventId"`
	TicketLabel string  `json:"ticketLabel"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
}

// OrderResponse describes an order in user-facing listings.
type OrderResponse struct {
	ID               string              `json:"id"`
	Items            []OrderItemResponse `json:"items"`
	TotalAmount      float64             `json:"totalAmount"`
	PaymentStatus    string              `json:"paymentStatus"`
	PaymentReference string              `json:"paymentReference"`
	CreatedAt        time.Time           `json:"createdAt"`
}
