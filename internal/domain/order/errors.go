package order

import "errors"

var (
	ErrNotFound           = errors.New("order not found")
	ErrConsentRequired    = errors.New("consent required")
	ErrInvalidTargetLink  = errors.New("invalid target link")
	ErrQuantityOutOfRange = errors.New("quantity out of range")
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrAlreadyRefunded    = errors.New("order already refunded")
)
