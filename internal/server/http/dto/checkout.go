package dto

// AttendeePayload carries attendee details captured at checkout.
type AttendeePayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CheckoutRequest describes the purchase payload.
type CheckoutRequest struct {
	EventID     string            `json:"eventId"`
	TicketLabel string            `json:"ticketLabel"`
	Quantity    int               `json:"quantity"`
	Attendees   []AttendeePayload `json:"attendees"`
}

// CheckoutResponse is returned after a purchase attempt is accepted.
// ClientSecret is null on the offline path.
type CheckoutResponse struct {
	OrderID          string  `json:"orderId"`
	PaymentReference string  `json:"paymentReference"`
	ClientSecret     *string `json:"clientSecret"`
}
