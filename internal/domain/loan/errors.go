package loan

import "errors"

var (
	ErrNotFound          = errors.New("loan application not found")
	ErrInvalidAmount     = errors.New("loan amount must be between 10000 and 500000")
	ErrInvalidStatus     = errors.New("unknown application status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrTerminalState     = errors.New("application is in a terminal state")
	ErrInvalidKYC        = errors.New("kyc status change not allowed")
)
