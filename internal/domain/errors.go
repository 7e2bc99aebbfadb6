package domain

import "errors"

// Sentinel errors for the moderation domain. The strings are stable error
// codes that API clients match on, so they must never change.
var (
	ErrNoTopic              = errors.New("no-topic")
	ErrInvalidData          = errors.New("invalid-data")
	ErrNoPrivileges         = errors.New("no-privileges")
	ErrAlreadyDeleted       = errors.New("topic-already-deleted")
	ErrAlreadyRestored      = errors.New("topic-already-restored")
	ErrCantPinScheduled     = errors.New("cant-pin-scheduled")
	ErrCantMoveSameCategory = errors.New("cant-move-topic-to-same-category")
)
