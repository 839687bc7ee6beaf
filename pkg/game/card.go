package game

// CardKind identifies the instruction a Card carries.
type CardKind string

const (
	CardKindAdvanceTo         CardKind = "advance-to"
	CardKindAdvanceToUtility  CardKind = "advance-to-utility"
	CardKindAdvanceToRailroad CardKind = "advance-to-railroad"
	CardKindGoRelative        CardKind = "go-relative"
	CardKindGetMoney          CardKind = "get-money"
	CardKindGetMoneyPerPlayer CardKind = "get-money-per-player"
	CardKindGetOutOfJail      CardKind = "get-out-of-jail"
	CardKindGoToJail          CardKind = "go-to-jail"
	CardKindPayPerHouse       CardKind = "pay-per-house"
)

// Card is an immutable instruction. Which attributes are meaningful depends on Kind:
//
//	advance-to:           Position, MoveForward
//	go-relative:          Steps (negative moves backwards)
//	get-money:            Money (negative pays the bank)
//	get-money-per-player: Money received from every other player (negative pays them)
//	pay-per-house:        PerHouse, PerHotel
type Card struct {
	Kind        CardKind `json:"kind"`
	Text        string   `json:"text"`
	Position    int      `json:"position,omitempty"`
	MoveForward bool     `json:"moveForward,omitempty"`
	Steps       int      `json:"steps,omitempty"`
	Money       int64    `json:"money,omitempty"`
	PerHouse    int64    `json:"perHouse,omitempty"`
	PerHotel    int64    `json:"perHotel,omitempty"`
}

// Keepable reports whether a player holds on to the card after following it.
func (c Card) Keepable() bool {
	return c.Kind == CardKindGetOutOfJail
}

// CardRef identifies one physical card: the deck it belongs to and its
// index in that deck's definition on the board.
type CardRef struct {
	Deck  string `json:"deck"`
	Index int    `json:"index"`
}

// Deck is the definition of a named card collection.
type Deck struct {
	Name  string `json:"name"`
	Cards []Card `json:"cards"`
}
