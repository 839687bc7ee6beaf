package bot

import "github.com/cbodonnell/monopoly/pkg/game"

// Strategy makes the decisions a turn leaves open. Everything else a bot
// does follows the task order of the turn.
type Strategy interface {
	BuyProperty(player game.Player, field game.Field) bool
	BuildHouse(player game.Player, field game.Field) bool
	UseJailCard(player game.Player) bool
}

// CautiousStrategy never spends money it does not have to.
type CautiousStrategy struct{}

func (CautiousStrategy) BuyProperty(game.Player, game.Field) bool { return false }
func (CautiousStrategy) BuildHouse(game.Player, game.Field) bool  { return false }
func (CautiousStrategy) UseJailCard(game.Player) bool             { return false }

// ReserveStrategy buys and builds as long as the player keeps at least
// Reserve afterwards.
type ReserveStrategy struct {
	Reserve int64
}

func (s ReserveStrategy) BuyProperty(player game.Player, field game.Field) bool {
	return player.Wealth-field.Price >= s.Reserve
}

func (s ReserveStrategy) BuildHouse(player game.Player, field game.Field) bool {
	return field.HousePrice > 0 && player.Wealth-field.HousePrice >= s.Reserve
}

func (s ReserveStrategy) UseJailCard(player game.Player) bool {
	return len(player.KeptCards) > 0
}
