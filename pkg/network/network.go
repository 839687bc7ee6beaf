package network

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/monopoly/pkg/messages"
)

// Channel is an ordered, reliable, connection oriented message channel.
type Channel interface {
	// Send writes one message. It is not safe for concurrent use.
	Send(ctx context.Context, msg *messages.Message) error
	// Receive blocks until a message arrives. A message that cannot be
	// decoded returns an ErrMalformedMessage and leaves the channel usable.
	Receive(ctx context.Context) (*messages.Message, error)
	Close() error
	RemoteAddr() string
}

// ErrConnectionClosed is returned when the peer closed the channel
type ErrConnectionClosed struct{}

func (e *ErrConnectionClosed) Error() string {
	return "connection closed"
}

func IsConnectionClosed(err error) bool {
	var target *ErrConnectionClosed
	return errors.As(err, &target)
}

// ErrMalformedMessage is returned when a single message could not be decoded
type ErrMalformedMessage struct {
	Err error
}

func (e *ErrMalformedMessage) Error() string {
	return fmt.Sprintf("malformed message: %v", e.Err)
}

func (e *ErrMalformedMessage) Unwrap() error {
	return e.Err
}

func IsMalformedMessage(err error) bool {
	var target *ErrMalformedMessage
	return errors.As(err, &target)
}
