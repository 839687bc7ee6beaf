package server

import (
	"context"
	"time"

	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/log"
	"github.com/cbodonnell/monopoly/pkg/messages"
	"github.com/cbodonnell/monopoly/pkg/queue"
)

const (
	// DefaultGameLoopInterval is how often queued intents are applied
	DefaultGameLoopInterval = 50 * time.Millisecond
)

// GameManager applies the player intents received from remote connections
// to the authoritative game.
type GameManager struct {
	game             *game.Game
	intentQueue      queue.Queue
	gameLoopInterval time.Duration
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	Game             *game.Game
	IntentQueue      queue.Queue
	GameLoopInterval time.Duration
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	interval := opts.GameLoopInterval
	if interval <= 0 {
		interval = DefaultGameLoopInterval
	}
	return &GameManager{
		game:             opts.Game,
		intentQueue:      opts.IntentQueue,
		gameLoopInterval: interval,
	}
}

// Start starts the game loop.
func (gm *GameManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			gm.processClientMessages()
		}
	}
}

// processClientMessages applies all pending intents in arrival order.
func (gm *GameManager) processClientMessages() {
	pendingMessages, err := gm.intentQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read client messages: %v", err)
		return
	}
	for _, item := range pendingMessages {
		message, ok := item.(*messages.Message)
		if !ok {
			log.Error("Failed to cast message to messages.Message")
			continue
		}

		switch message.Type {
		case messages.MessageTypePlayerIntent:
			playerIntent := &messages.PlayerIntent{}
			if err := messages.DecodePayload(message, playerIntent); err != nil {
				log.Error("Failed to decode player intent: %v", err)
				continue
			}
			if !gm.game.Perform(playerIntent.Intent) {
				log.Debug("Intent %s of player %d from connection %s had no effect", playerIntent.Intent.Action, playerIntent.Intent.Player, message.ConnectionID)
			}
		default:
			log.Error("Unhandled message type: %s", message.Type)
		}
	}
}
