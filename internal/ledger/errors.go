package ledger

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidRequest      = errors.New("invalid_request")
	ErrUnknownSubject      = errors.New("unknown_subject")
	ErrInsufficientBalance = errors.New("insufficient_balance")
)
