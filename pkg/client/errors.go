package client

import (
	"errors"
	"fmt"
)

// ErrResyncFailed is reported when the authority did not answer a full game
// request after every attempt.
type ErrResyncFailed struct {
	Attempts int
}

func (e *ErrResyncFailed) Error() string {
	return fmt.Sprintf("full game resync failed after %d attempts", e.Attempts)
}

func IsResyncFailed(err error) bool {
	var e *ErrResyncFailed
	return errors.As(err, &e)
}

// ErrNotReady is returned while no full game has been installed yet.
type ErrNotReady struct{}

func (e *ErrNotReady) Error() string {
	return "no full game received yet"
}

func IsNotReady(err error) bool {
	var e *ErrNotReady
	return errors.As(err, &e)
}
