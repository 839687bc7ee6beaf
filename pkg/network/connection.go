package network

import (
	"context"
	"sync"

	"github.com/cbodonnell/monopoly/pkg/log"
	"github.com/cbodonnell/monopoly/pkg/messages"
	"github.com/cbodonnell/monopoly/pkg/queue"
)

const (
	// DefaultOutboundQueueSize is the number of messages buffered per connection
	DefaultOutboundQueueSize = 256
)

// MessageHandler is called from the listening goroutine for every message
// received on a connection, in arrival order.
type MessageHandler func(c *Connection, msg *messages.Message)

// TimeoutHandler is called at most once, when the connection became unusable.
type TimeoutHandler func(c *Connection, err error)

// Connection drives one Channel with a listening goroutine and a writer
// goroutine. It is used by both the server and the client.
type Connection struct {
	id        string
	channel   Channel
	outbound  queue.Queue
	onMessage MessageHandler
	onTimeout TimeoutHandler

	closeOnce sync.Once
	done      chan struct{}
	cancel    context.CancelFunc
	lock      sync.Mutex
	err       error
}

type NewConnectionOptions struct {
	ID        string
	Channel   Channel
	QueueSize int
	OnMessage MessageHandler
	OnTimeout TimeoutHandler
}

func NewConnection(opts NewConnectionOptions) *Connection {
	size := opts.QueueSize
	if size <= 0 {
		size = DefaultOutboundQueueSize
	}
	return &Connection{
		id:        opts.ID,
		channel:   opts.Channel,
		outbound:  queue.NewInMemoryQueue(size),
		onMessage: opts.OnMessage,
		onTimeout: opts.OnTimeout,
		done:      make(chan struct{}),
	}
}

func (c *Connection) ID() string {
	return c.id
}

func (c *Connection) RemoteAddr() string {
	return c.channel.RemoteAddr()
}

// Start launches the listening and writer goroutines. They stop when ctx is
// done, on the first I/O error, or on Close.
func (c *Connection) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.lock.Lock()
	c.cancel = cancel
	c.lock.Unlock()

	go c.listen(ctx)
	go c.write(ctx)
	go func() {
		select {
		case <-ctx.Done():
			c.shutdown(ctx.Err(), false)
		case <-c.done:
		}
	}()
}

// Send queues a message for the writer goroutine. It never blocks: when the
// queue is full or the connection is closed the message is dropped.
func (c *Connection) Send(msg *messages.Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	if err := c.outbound.Enqueue(msg); err != nil {
		log.Warn("Dropped %s message for connection %s: %v", msg.Type, c.id, err)
		return false
	}
	return true
}

// Close stops the connection without raising the timeout notification.
func (c *Connection) Close() {
	c.shutdown(&ErrConnectionClosed{}, false)
}

// Done is closed once the connection stopped.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Err returns the reason the connection stopped, if it did.
func (c *Connection) Err() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.err
}

func (c *Connection) listen(ctx context.Context) {
	for {
		msg, err := c.channel.Receive(ctx)
		if err != nil {
			if IsMalformedMessage(err) {
				log.Warn("Skipping malformed message from connection %s: %v", c.id, err)
				continue
			}
			c.shutdown(err, true)
			return
		}
		log.Trace("Received %s message from connection %s", msg.Type, c.id)
		if c.onMessage != nil {
			c.onMessage(c, msg)
		}
	}
}

func (c *Connection) write(ctx context.Context) {
	for {
		item, err := c.outbound.Dequeue(ctx)
		if err != nil {
			return
		}
		msg, ok := item.(*messages.Message)
		if !ok {
			log.Error("Unexpected item of type %T in outbound queue of connection %s", item, c.id)
			continue
		}
		if err := c.channel.Send(ctx, msg); err != nil {
			c.shutdown(err, true)
			return
		}
	}
}

func (c *Connection) shutdown(err error, notify bool) {
	c.closeOnce.Do(func() {
		c.lock.Lock()
		c.err = err
		cancel := c.cancel
		c.lock.Unlock()

		close(c.done)
		if cancel != nil {
			cancel()
		}
		if closeErr := c.channel.Close(); closeErr != nil {
			log.Trace("Failed to close channel of connection %s: %v", c.id, closeErr)
		}
		c.outbound.ClearQueue()

		if notify && c.onTimeout != nil {
			log.Debug("Connection %s timed out: %v", c.id, err)
			c.onTimeout(c, err)
		}
	})
}
