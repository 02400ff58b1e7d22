package catalog

import "errors"

var (
	ErrNotFound        = errors.New("service not found")
	ErrInactive        = errors.New("service is not active")
	ErrInvalidQuantity = errors.New("quantity bounds are invalid")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
)
