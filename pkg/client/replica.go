package client

import (
	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/log"
)

// The methods below read the replica so that a Client can stand in for a
// local game, for example to drive a bot. Before the first full game they
// report that nobody holds the turn.

func (c *Client) Board() *game.Board {
	if g := c.Game(); g != nil {
		return g.Board()
	}
	return nil
}

func (c *Client) Turn() int {
	if g := c.Game(); g != nil {
		return g.Turn()
	}
	return -1
}

func (c *Client) NextTask() game.TurnTask {
	if g := c.Game(); g != nil {
		return g.NextTask()
	}
	return game.TaskTurnFinished
}

func (c *Client) Player(i int) (game.Player, bool) {
	if g := c.Game(); g != nil {
		return g.Player(i)
	}
	return game.Player{}, false
}

func (c *Client) PropertyToBuy() (int, game.Field, bool) {
	if g := c.Game(); g != nil {
		return g.PropertyToBuy()
	}
	return 0, game.Field{}, false
}

func (c *Client) BuildableFields(player int) []int {
	if g := c.Game(); g != nil {
		return g.BuildableFields(player)
	}
	return nil
}

// Perform sends the intent to the authority. It reports whether the intent
// was queued, not whether it had an effect.
func (c *Client) Perform(intent game.Intent) bool {
	if err := c.SendIntent(intent); err != nil {
		log.Warn("Failed to perform %s: %v", intent.Action, err)
		return false
	}
	return true
}
