// Package server runs the authoritative side of a match: it owns the game,
// broadcasts a stamped delta for every event and answers full game requests.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/log"
	"github.com/cbodonnell/monopoly/pkg/messages"
	"github.com/cbodonnell/monopoly/pkg/network"
	"github.com/cbodonnell/monopoly/pkg/queue"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	game        *game.Game
	matchID     string
	connections *network.ConnectionManager
	intentQueue queue.Queue
	queueSize   int
	tcpPort     int
	wsPort      int
}

type NewServerOptions struct {
	Game    *game.Game
	MatchID string
	// IntentQueue receives PlayerIntent messages for the GameManager
	IntentQueue queue.Queue
	// QueueSize is the outbound queue size of every connection
	QueueSize int
	// TCPPort and WSPort disable their listener when zero
	TCPPort int
	WSPort  int
}

// NewServer creates a server and subscribes it to the game's events.
func NewServer(opts NewServerOptions) *Server {
	matchID := opts.MatchID
	if matchID == "" {
		matchID = uuid.NewString()
	}
	intentQueue := opts.IntentQueue
	if intentQueue == nil {
		intentQueue = queue.NewInMemoryQueue(queue.QueueBufferSize)
	}
	s := &Server{
		game:        opts.Game,
		matchID:     matchID,
		connections: network.NewConnectionManager(),
		intentQueue: intentQueue,
		queueSize:   opts.QueueSize,
		tcpPort:     opts.TCPPort,
		wsPort:      opts.WSPort,
	}
	opts.Game.AddListener(game.ListenerFunc(s.handleGameEvent))
	return s
}

func (s *Server) MatchID() string {
	return s.matchID
}

func (s *Server) Game() *game.Game {
	return s.game
}

func (s *Server) Connections() *network.ConnectionManager {
	return s.connections
}

func (s *Server) IntentQueue() queue.Queue {
	return s.intentQueue
}

// Start runs the configured listeners until ctx is done, then closes every
// connection.
func (s *Server) Start(ctx context.Context) error {
	defer s.connections.CloseAll()

	g, ctx := errgroup.WithContext(ctx)
	if s.tcpPort > 0 {
		g.Go(func() error {
			listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.tcpPort))
			if err != nil {
				return fmt.Errorf("failed to listen on TCP port %d: %v", s.tcpPort, err)
			}
			log.Info("TCP server listening on %s", listener.Addr().String())
			return s.ServeTCP(ctx, listener)
		})
	}
	if s.wsPort > 0 {
		g.Go(func() error {
			return s.serveWS(ctx)
		})
	}
	return g.Wait()
}

// ServeTCP accepts connections on listener until ctx is done.
func (s *Server) ServeTCP(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Error("Failed to accept TCP connection: %v", err)
			continue
		}
		s.Attach(ctx, network.NewTCPChannel(conn))
	}
}

// WSHandler upgrades every request to a WebSocket connection bound to ctx.
func (s *Server) WSHandler(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		channel, err := network.AcceptWS(w, r)
		if err != nil {
			log.Error("Failed to upgrade to WebSocket: %v", err)
			return
		}
		s.Attach(ctx, channel)
	})
}

func (s *Server) serveWS(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.wsPort)
	server := &http.Server{Addr: addr, Handler: s.WSHandler(ctx)}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	log.Info("WebSocket server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("WebSocket server closed")
			return nil
		}
		return fmt.Errorf("WebSocket server error: %v", err)
	}
	return nil
}

// Attach registers a new connection over channel, greets it and starts it.
func (s *Server) Attach(ctx context.Context, channel network.Channel) *network.Connection {
	conn := network.NewConnection(network.NewConnectionOptions{
		ID:        uuid.NewString(),
		Channel:   channel,
		QueueSize: s.queueSize,
		OnMessage: s.handleMessage,
		OnTimeout: s.handleTimeout,
	})

	hello, err := messages.NewMessage(messages.MessageTypeServerHello, 0, messages.ServerHello{
		ConnectionID: conn.ID(),
		MatchID:      s.matchID,
	})
	if err != nil {
		log.Error("Failed to create server hello: %v", err)
	} else {
		conn.Send(hello)
	}

	s.connections.Add(conn)
	conn.Start(ctx)
	log.Info("Connection %s established from %s", conn.ID(), conn.RemoteAddr())
	return conn
}

// handleGameEvent runs under the game lock, so every connection receives the
// deltas in the order the authority produced them.
func (s *Server) handleGameEvent(event game.Event, fingerprint uint64) {
	msg, err := messages.NewUpdateFromEvent(event, fingerprint)
	if err != nil {
		log.Error("Failed to create update for %T: %v", event, err)
		return
	}
	if msg == nil {
		return
	}
	s.connections.Broadcast(msg)
}

func (s *Server) handleMessage(c *network.Connection, msg *messages.Message) {
	switch msg.Type {
	case messages.MessageTypeRequestFullGame:
		s.sendFullGame(c)
	case messages.MessageTypePlayerIntent:
		msg.ConnectionID = c.ID()
		if err := s.intentQueue.Enqueue(msg); err != nil {
			log.Error("Failed to enqueue intent from connection %s: %v", c.ID(), err)
		}
	default:
		log.Warn("Unexpected %s message from connection %s", msg.Type, c.ID())
	}
}

// sendFullGame queues the snapshot before the game lock is released, so the
// reply is ordered after every delta it already reflects.
func (s *Server) sendFullGame(c *network.Connection) {
	s.game.WithSnapshot(func(snapshot *game.Snapshot, fingerprint uint64) {
		msg, err := messages.NewFullGameUpdate(snapshot, fingerprint)
		if err != nil {
			log.Error("Failed to create full game update: %v", err)
			return
		}
		if !c.Send(msg) {
			log.Warn("Full game update for connection %s was dropped", c.ID())
		}
	})
}

func (s *Server) handleTimeout(c *network.Connection, err error) {
	if s.connections.Remove(c.ID()) {
		log.Info("Connection %s timed out: %v", c.ID(), err)
	}
}
