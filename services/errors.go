package services

import "errors"

// Error kinds returned by the service layer. Controllers translate these into
// HTTP status codes; storage-level detail never reaches the caller.
var (
	ErrValidation       = errors.New("validation failed")
	ErrInvalidOperand   = errors.New("invalid operand")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrInvalidState     = errors.New("invalid state")
	ErrInvalidOperation = errors.New("invalid operation")
)
