package model

// ChargeStatus is the provider-side state of a charge.
type ChargeStatus string

const (
	ChargeStatusPending   ChargeStatus = "pending"
	ChargeStatusSucceeded ChargeStatus = "succeeded"
	ChargeStatusCanceled  ChargeStatus = "canceled"
)

// Charge is the provider's view of a payment attempt.
type Charge struct {
	Reference    PaymentReference
	ClientSecret string
	Status       ChargeStatus
}
