package sessionmode

import "errors"

var (
	ErrInvalidMode          = errors.New("invalid_mode")
	ErrTransitionInProgress = errors.New("mode_transition_in_progress")
)
