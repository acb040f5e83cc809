package types

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidRange      = errors.New("invalid date range")
	ErrTransport         = errors.New("transport failure")
	ErrValidation        = errors.New("validation failure")
	ErrInvalidTransition = errors.New("invalid status transition")
)
