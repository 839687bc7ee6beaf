package game

import (
	"errors"
	"fmt"
)

// ErrInvalidUpdate is returned when a replicated update references state
// that cannot satisfy it, such as a non-buyable field or an unknown deck.
type ErrInvalidUpdate struct {
	Reason string
}

func (e *ErrInvalidUpdate) Error() string {
	return fmt.Sprintf("invalid update: %s", e.Reason)
}

func IsInvalidUpdate(err error) bool {
	var target *ErrInvalidUpdate
	return errors.As(err, &target)
}

func invalidUpdate(format string, args ...interface{}) error {
	return &ErrInvalidUpdate{Reason: fmt.Sprintf(format, args...)}
}
