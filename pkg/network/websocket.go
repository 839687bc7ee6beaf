package network

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cbodonnell/monopoly/pkg/messages"
	"nhooyr.io/websocket"
)

// WSChannel carries one message per binary WebSocket frame.
type WSChannel struct {
	conn   *websocket.Conn
	remote string
}

func NewWSChannel(conn *websocket.Conn, remote string) *WSChannel {
	conn.SetReadLimit(messages.MaxMessageSize)
	return &WSChannel{conn: conn, remote: remote}
}

// DialWS connects to a WebSocket server.
func DialWS(ctx context.Context, url string) (*WSChannel, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %v", url, err)
	}
	return NewWSChannel(conn, url), nil
}

// AcceptWS upgrades an HTTP request to a WebSocket channel.
func AcceptWS(w http.ResponseWriter, r *http.Request) (*WSChannel, error) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept WebSocket connection: %v", err)
	}
	return NewWSChannel(conn, r.RemoteAddr), nil
}

func (c *WSChannel) Send(ctx context.Context, msg *messages.Message) error {
	return WriteMessageToWS(ctx, c.conn, msg)
}

func (c *WSChannel) Receive(ctx context.Context) (*messages.Message, error) {
	return ReadMessageFromWS(ctx, c.conn)
}

func (c *WSChannel) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

func (c *WSChannel) RemoteAddr() string {
	return c.remote
}

// WriteMessageToWS writes a Message to a WebSocket connection
func WriteMessageToWS(ctx context.Context, conn *websocket.Conn, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	if err := conn.Write(ctx, websocket.MessageBinary, b); err != nil {
		if websocket.CloseStatus(err) != -1 {
			return &ErrConnectionClosed{}
		}
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// ReadMessageFromWS reads a Message from a WebSocket connection
func ReadMessageFromWS(ctx context.Context, conn *websocket.Conn) (*messages.Message, error) {
	_, b, err := conn.Read(ctx)
	if err != nil {
		if websocket.CloseStatus(err) != -1 {
			return nil, &ErrConnectionClosed{}
		}
		return nil, fmt.Errorf("failed to read message from WebSocket connection: %v", err)
	}

	msg, err := messages.DeserializeMessage(b)
	if err != nil {
		return nil, &ErrMalformedMessage{Err: err}
	}

	return msg, nil
}
