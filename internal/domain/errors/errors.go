package errors

import "errors"

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrTierNotFound          = errors.New("ticket tier not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrInsufficientInventory = errors.New("not enough tickets available")
	ErrAlreadyExists         = errors.New("already exists")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInvalidTier           = errors.New("invalid ticket tier")
	ErrInvalidEvent          = errors.New("invalid event")
)
