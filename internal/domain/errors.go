package domain

import "errors"

// Construction-time validation errors. These indicate a programming or
// configuration defect and are always surfaced to the caller.
var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidInterestEpoch = errors.New("invalid interest epoch")
	ErrInvalidInputs        = errors.New("invalid inputs")
)

// ErrProjectionNotFound is returned by repositories for unknown projection IDs
var ErrProjectionNotFound = errors.New("projection not found")
