// Package bot drives a player automatically. A bot only calls the public turn
// commands, in the order the current task asks for them.
package bot

import (
	"context"
	"time"

	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/log"
)

const (
	DefaultPollInterval = 250 * time.Millisecond
)

// Game is what a bot needs to play. *game.Game plays locally on the
// authority, *client.Client sends intents from a replica.
type Game interface {
	Board() *game.Board
	Turn() int
	NextTask() game.TurnTask
	Player(i int) (game.Player, bool)
	PropertyToBuy() (int, game.Field, bool)
	BuildableFields(player int) []int
	Perform(intent game.Intent) bool
}

type Bot struct {
	game         Game
	player       int
	strategy     Strategy
	pollInterval time.Duration
}

type NewBotOptions struct {
	Game   Game
	Player int
	// Strategy defaults to CautiousStrategy
	Strategy     Strategy
	PollInterval time.Duration
}

func NewBot(opts NewBotOptions) *Bot {
	strategy := opts.Strategy
	if strategy == nil {
		strategy = CautiousStrategy{}
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Bot{
		game:         opts.Game,
		player:       opts.Player,
		strategy:     strategy,
		pollInterval: interval,
	}
}

func (b *Bot) Player() int {
	return b.player
}

// Start polls the game until ctx is done and acts whenever the bot holds the
// turn.
func (b *Bot) Start(ctx context.Context) error {
	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			b.Act()
		}
	}
}

// Act issues at most one command for the current task and reports whether
// one was accepted.
func (b *Bot) Act() bool {
	if b.game.Turn() != b.player {
		return false
	}
	player, ok := b.game.Player(b.player)
	if !ok {
		return false
	}

	intent := game.Intent{Player: b.player}
	switch task := b.game.NextTask(); task {
	case game.TaskCastDice, game.TaskTurnFinished:
		// a replica sees TaskTurnFinished until the authority starts the turn
		intent.Action = game.ActionCastDice
		if player.InJail() && b.strategy.UseJailCard(player) {
			intent.Action = game.ActionUseJailCard
		}
	case game.TaskMovePlayingPiece:
		intent.Action = game.ActionMovePiece
	case game.TaskBuyProperty:
		intent.Action = game.ActionDeclineProperty
		if _, field, ok := b.game.PropertyToBuy(); ok && b.strategy.BuyProperty(player, field) {
			intent.Action = game.ActionBuyProperty
		}
	case game.TaskPayRent:
		intent.Action = game.ActionPayRent
	case game.TaskPayTax:
		intent.Action = game.ActionPayTax
	case game.TaskDrawCard:
		intent.Action = game.ActionDrawCard
	case game.TaskFollowCard:
		intent.Action = game.ActionFollowCard
	case game.TaskBuyHouses, game.TaskEndTurn:
		intent.Action = game.ActionEndTurn
		if field, ok := b.houseToBuild(player); ok {
			intent.Action = game.ActionBuyHouse
			intent.Field = field
		}
	default:
		log.Warn("Bot for player %d does not know task %s", b.player, task)
		return false
	}

	if b.perform(intent) {
		return true
	}
	if intent.Action == game.ActionBuyHouse {
		return b.perform(game.Intent{Player: b.player, Action: game.ActionEndTurn})
	}
	return false
}

func (b *Bot) perform(intent game.Intent) bool {
	if !b.game.Perform(intent) {
		log.Debug("Bot for player %d: %s had no effect", b.player, intent.Action)
		return false
	}
	log.Trace("Bot for player %d: %s", b.player, intent.Action)
	return true
}

func (b *Bot) houseToBuild(player game.Player) (int, bool) {
	board := b.game.Board()
	if board == nil {
		return 0, false
	}
	for _, i := range b.game.BuildableFields(b.player) {
		field, ok := board.Field(i)
		if ok && b.strategy.BuildHouse(player, field) {
			return i, true
		}
	}
	return 0, false
}
