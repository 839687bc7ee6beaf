package network

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/cbodonnell/monopoly/pkg/messages"
)

const frameHeaderSize = 4

// TCPChannel frames messages on a stream with a 4 byte big endian length prefix.
type TCPChannel struct {
	conn net.Conn
}

func NewTCPChannel(conn net.Conn) *TCPChannel {
	return &TCPChannel{conn: conn}
}

// DialTCP connects to a TCP server.
func DialTCP(ctx context.Context, addr string) (*TCPChannel, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %v", addr, err)
	}
	return NewTCPChannel(conn), nil
}

func (c *TCPChannel) Send(ctx context.Context, msg *messages.Message) error {
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetWriteDeadline(deadline)
	}
	return WriteMessageToTCP(c.conn, msg)
}

func (c *TCPChannel) Receive(ctx context.Context) (*messages.Message, error) {
	return ReadMessageFromTCP(c.conn)
}

func (c *TCPChannel) Close() error {
	return c.conn.Close()
}

func (c *TCPChannel) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// WriteMessageToTCP writes a length framed Message to a stream
func WriteMessageToTCP(w io.Writer, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}
	if len(b) > messages.MaxMessageSize {
		return fmt.Errorf("message of %d bytes exceeds the maximum of %d", len(b), messages.MaxMessageSize)
	}

	frame := make([]byte, frameHeaderSize+len(b))
	binary.BigEndian.PutUint32(frame, uint32(len(b)))
	copy(frame[frameHeaderSize:], b)
	if _, err := w.Write(frame); err != nil {
		if isClosedError(err) {
			return &ErrConnectionClosed{}
		}
		return fmt.Errorf("failed to write message to TCP connection: %v", err)
	}

	return nil
}

// ReadMessageFromTCP reads one length framed Message from a stream
func ReadMessageFromTCP(r io.Reader) (*messages.Message, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if isClosedError(err) {
			return nil, &ErrConnectionClosed{}
		}
		return nil, fmt.Errorf("failed to read frame header from TCP connection: %v", err)
	}

	size := binary.BigEndian.Uint32(header[:])
	if size > messages.MaxMessageSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds the maximum of %d", size, messages.MaxMessageSize)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		if isClosedError(err) {
			return nil, &ErrConnectionClosed{}
		}
		return nil, fmt.Errorf("failed to read frame from TCP connection: %v", err)
	}

	msg, err := messages.DeserializeMessage(buf)
	if err != nil {
		return nil, &ErrMalformedMessage{Err: err}
	}

	return msg, nil
}

func isClosedError(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}
