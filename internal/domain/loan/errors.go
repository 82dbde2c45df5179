package loan

import "errors"

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidPIN        = errors.New("invalid PIN")
	ErrActiveLoanExists  = errors.New("you must repay your current loan before applying for a new one")
	ErrAlreadyApproved   = errors.New("loan already approved")
	ErrInvalidTransition = errors.New("loan not in a state that allows this action")
	ErrInvalidAmount     = errors.New("amount must be a positive integer")
	ErrInvalidStatus     = errors.New("status must be one of processing, approved, cleared")
	ErrInvalidDate       = errors.New("invalid approved date")
)
