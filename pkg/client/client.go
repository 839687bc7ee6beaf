// Package client runs a replica of a match. It mirrors the authority's game
// from delta updates, verifies every update against the authority's
// fingerprint and falls back to a full resync when they disagree.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/log"
	"github.com/cbodonnell/monopoly/pkg/messages"
	"github.com/cbodonnell/monopoly/pkg/network"
)

const (
	DefaultResyncTimeout     = 5 * time.Second
	DefaultMaxResyncAttempts = 3
)

// ConnectionLostHandler is called at most once, when the connection to the
// authority is gone or could not be brought back in sync.
type ConnectionLostHandler func(err error)

type Client struct {
	conn              *network.Connection
	listeners         []game.Listener
	resyncTimeout     time.Duration
	maxResyncAttempts int
	onConnectionLost  ConnectionLostHandler

	lock           sync.Mutex
	game           *game.Game
	connectionID   string
	matchID        string
	resyncPending  bool
	resyncAttempts int
	// resyncGeneration invalidates timers of a finished resync
	resyncGeneration int
	resyncTimer      *time.Timer
	stats            Stats

	ready    chan struct{}
	lostOnce sync.Once
}

type NewClientOptions struct {
	Channel network.Channel
	// Listeners are subscribed to the replica once it exists and survive
	// every full resync
	Listeners         []game.Listener
	QueueSize         int
	ResyncTimeout     time.Duration
	MaxResyncAttempts int
	OnConnectionLost  ConnectionLostHandler
}

// Stats counts what happened to the replica so far.
type Stats struct {
	Applied    int
	Ignored    int
	Mismatches int
	Resyncs    int
}

func NewClient(opts NewClientOptions) *Client {
	c := &Client{
		listeners:         opts.Listeners,
		resyncTimeout:     opts.ResyncTimeout,
		maxResyncAttempts: opts.MaxResyncAttempts,
		onConnectionLost:  opts.OnConnectionLost,
		ready:             make(chan struct{}),
	}
	if c.resyncTimeout <= 0 {
		c.resyncTimeout = DefaultResyncTimeout
	}
	if c.maxResyncAttempts <= 0 {
		c.maxResyncAttempts = DefaultMaxResyncAttempts
	}
	c.conn = network.NewConnection(network.NewConnectionOptions{
		Channel:   opts.Channel,
		QueueSize: opts.QueueSize,
		OnMessage: c.handleMessage,
		OnTimeout: c.handleTimeout,
	})
	return c
}

// Start starts the connection and asks the authority for the full game.
func (c *Client) Start(ctx context.Context) {
	c.conn.Start(ctx)
	c.lock.Lock()
	defer c.lock.Unlock()
	c.requestFullGame()
}

// Close stops the client without raising the connection lost notification.
func (c *Client) Close() {
	c.lock.Lock()
	c.stopResync()
	c.lock.Unlock()
	c.conn.Close()
}

// Done is closed once the connection stopped.
func (c *Client) Done() <-chan struct{} {
	return c.conn.Done()
}

// Ready is closed once the first full game was installed.
func (c *Client) Ready() <-chan struct{} {
	return c.ready
}

// WaitReady blocks until the first full game was installed.
func (c *Client) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-c.conn.Done():
		return fmt.Errorf("connection closed before the game was received: %v", c.conn.Err())
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Game returns the replica, or nil before the first full game.
func (c *Client) Game() *game.Game {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.game
}

func (c *Client) ConnectionID() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.connectionID
}

func (c *Client) MatchID() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.matchID
}

// Resyncing reports whether a full game request is outstanding.
func (c *Client) Resyncing() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.resyncPending
}

func (c *Client) Stats() Stats {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.stats
}

// RequestFullGame asks the authority for the full game, as after a
// fingerprint mismatch.
func (c *Client) RequestFullGame() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.requestFullGame()
}

// SendIntent asks the authority to run a turn command. The command takes
// effect on the replica once its deltas arrive. It returns ErrNotReady before
// the first full game.
func (c *Client) SendIntent(intent game.Intent) error {
	if c.Game() == nil {
		return &ErrNotReady{}
	}
	msg, err := messages.NewPlayerIntent(intent)
	if err != nil {
		return fmt.Errorf("failed to create player intent: %v", err)
	}
	if !c.conn.Send(msg) {
		return fmt.Errorf("failed to send player intent %s", intent.Action)
	}
	return nil
}

func (c *Client) handleMessage(_ *network.Connection, msg *messages.Message) {
	switch {
	case msg.Type == messages.MessageTypeServerHello:
		c.handleServerHello(msg)
	case msg.Type == messages.MessageTypeFullGameUpdate:
		c.handleFullGameUpdate(msg)
	case messages.IsDelta(msg.Type):
		c.handleDelta(msg)
	default:
		log.Warn("Unexpected %s message from server", msg.Type)
	}
}

func (c *Client) handleServerHello(msg *messages.Message) {
	hello := &messages.ServerHello{}
	if err := messages.DecodePayload(msg, hello); err != nil {
		log.Error("Failed to decode server hello: %v", err)
		return
	}
	c.lock.Lock()
	c.connectionID = hello.ConnectionID
	c.matchID = hello.MatchID
	c.lock.Unlock()
	log.Info("Connected to match %s as %s", hello.MatchID, hello.ConnectionID)
}

// handleFullGameUpdate installs the snapshot wholesale. The game is never
// touched while the client lock is held because its listeners may call back
// into the client.
func (c *Client) handleFullGameUpdate(msg *messages.Message) {
	snapshot, err := messages.DecodeFullGame(msg)
	if err != nil {
		log.Error("Failed to decode full game update: %v", err)
		return
	}

	replica := c.Game()
	first := replica == nil
	if first {
		replica, err = game.FromSnapshot(snapshot)
		if err == nil {
			for _, l := range c.listeners {
				replica.AddListener(l)
			}
		}
	} else {
		err = replica.Restore(snapshot)
	}
	if err != nil {
		log.Error("Failed to install full game update: %v", err)
		return
	}

	fingerprint := replica.Fingerprint()
	c.lock.Lock()
	defer c.lock.Unlock()
	if first {
		c.game = replica
		close(c.ready)
	}
	if fingerprint != msg.Fingerprint {
		// keep the resync pending so the timer asks again
		log.Warn("Full game update fingerprint %016x does not match %016x", fingerprint, msg.Fingerprint)
		return
	}
	if c.resyncPending {
		c.stats.Resyncs++
	}
	c.stopResync()
	log.Debug("Installed full game with fingerprint %016x", fingerprint)
}

func (c *Client) handleDelta(msg *messages.Message) {
	c.lock.Lock()
	replica := c.game
	ignore := replica == nil || c.resyncPending
	if ignore {
		c.stats.Ignored++
	}
	c.lock.Unlock()
	if ignore {
		log.Trace("Ignoring %s update while waiting for the full game", msg.Type)
		return
	}

	if err := messages.ApplyUpdate(replica, msg); err != nil {
		if !game.IsInvalidUpdate(err) {
			log.Error("Failed to apply %s update: %v", msg.Type, err)
			return
		}
		log.Warn("Applied invalid %s update: %v", msg.Type, err)
	}
	fingerprint := replica.Fingerprint()

	c.lock.Lock()
	defer c.lock.Unlock()
	c.stats.Applied++
	if fingerprint == msg.Fingerprint {
		return
	}
	c.stats.Mismatches++
	log.Warn("Fingerprint mismatch after %s update: local %016x, server %016x", msg.Type, fingerprint, msg.Fingerprint)
	c.requestFullGame()
}

// requestFullGame starts a resync unless one is already pending. The client
// lock must be held.
func (c *Client) requestFullGame() {
	if c.resyncPending {
		return
	}
	c.resyncPending = true
	c.resyncAttempts = 0
	c.resyncGeneration++
	c.sendResyncRequest()
}

func (c *Client) sendResyncRequest() {
	c.resyncAttempts++
	if !c.conn.Send(messages.NewRequestFullGame()) {
		log.Warn("Failed to send full game request (attempt %d)", c.resyncAttempts)
	}
	generation := c.resyncGeneration
	c.resyncTimer = time.AfterFunc(c.resyncTimeout, func() {
		c.resyncTimedOut(generation)
	})
}

func (c *Client) resyncTimedOut(generation int) {
	c.lock.Lock()
	if !c.resyncPending || generation != c.resyncGeneration {
		c.lock.Unlock()
		return
	}
	if c.resyncAttempts < c.maxResyncAttempts {
		log.Warn("Full game request timed out, retrying (attempt %d of %d)", c.resyncAttempts+1, c.maxResyncAttempts)
		c.sendResyncRequest()
		c.lock.Unlock()
		return
	}
	attempts := c.resyncAttempts
	c.stopResync()
	c.lock.Unlock()

	err := &ErrResyncFailed{Attempts: attempts}
	log.Error("Giving up on the server: %v", err)
	c.connectionLost(err)
	c.conn.Close()
}

// stopResync ends the pending resync. The client lock must be held.
func (c *Client) stopResync() {
	c.resyncPending = false
	c.resyncAttempts = 0
	c.resyncGeneration++
	if c.resyncTimer != nil {
		c.resyncTimer.Stop()
		c.resyncTimer = nil
	}
}

func (c *Client) handleTimeout(_ *network.Connection, err error) {
	c.lock.Lock()
	c.stopResync()
	c.lock.Unlock()
	c.connectionLost(err)
}

func (c *Client) connectionLost(err error) {
	c.lostOnce.Do(func() {
		if c.onConnectionLost != nil {
			c.onConnectionLost(err)
		}
	})
}
