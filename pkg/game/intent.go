package game

// Action names a turn command a player can ask for.
type Action string

const (
	ActionCastDice        Action = "cast-dice"
	ActionMovePiece       Action = "move-piece"
	ActionBuyProperty     Action = "buy-property"
	ActionDeclineProperty Action = "decline-property"
	ActionPayRent         Action = "pay-rent"
	ActionPayTax          Action = "pay-tax"
	ActionDrawCard        Action = "draw-card"
	ActionFollowCard      Action = "follow-card"
	ActionBuyHouse        Action = "buy-house"
	ActionEndTurn         Action = "end-turn"
	ActionUseJailCard     Action = "use-jail-card"
)

// Intent is a request by a player to run one turn command. Field is only
// used by ActionBuyHouse.
type Intent struct {
	Player int    `json:"player"`
	Action Action `json:"action"`
	Field  int    `json:"field,omitempty"`
}

// Perform runs the intent if the player holds the turn. It reports whether
// the command had an effect; false covers both a foreign turn and an illegal
// call in the current task.
func (g *Game) Perform(intent Intent) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.random == nil || intent.Player != g.turn {
		return false
	}

	switch intent.Action {
	case ActionCastDice:
		if g.ensureTurn().task != TaskCastDice {
			return false
		}
		g.castDice()
		return true
	case ActionMovePiece:
		return g.movePiece()
	case ActionBuyProperty:
		return g.buyProperty(true)
	case ActionDeclineProperty:
		if g.ensureTurn().task != TaskBuyProperty {
			return false
		}
		g.buyProperty(false)
		return true
	case ActionPayRent:
		return g.payRent()
	case ActionPayTax:
		return g.payTax()
	case ActionDrawCard:
		if g.ensureTurn().task != TaskDrawCard {
			return false
		}
		g.drawCard()
		return true
	case ActionFollowCard:
		return g.followCard()
	case ActionBuyHouse:
		return g.buyHouse(intent.Field)
	case ActionEndTurn:
		return g.endTurn()
	case ActionUseJailCard:
		return g.useJailCard()
	default:
		return false
	}
}
