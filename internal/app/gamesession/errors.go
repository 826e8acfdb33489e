package gamesession

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInvalidMode    = errors.New("invalid_mode")
)
