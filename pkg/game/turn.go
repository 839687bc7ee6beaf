package game

import (
	"github.com/cbodonnell/monopoly/pkg/game/constants"
)

// TurnTask is the next action required in the current turn.
type TurnTask int

const (
	TaskCastDice TurnTask = iota
	TaskMovePlayingPiece
	TaskBuyProperty
	TaskPayRent
	TaskPayTax
	TaskDrawCard
	TaskFollowCard
	TaskBuyHouses
	TaskEndTurn
	TaskTurnFinished
)

func (t TurnTask) String() string {
	switch t {
	case TaskCastDice:
		return "CAST_DICE"
	case TaskMovePlayingPiece:
		return "MOVE_PLAYING_PIECE"
	case TaskBuyProperty:
		return "BUY_PROPERTY"
	case TaskPayRent:
		return "PAY_RENT"
	case TaskPayTax:
		return "PAY_TAX"
	case TaskDrawCard:
		return "DRAW_CARD"
	case TaskFollowCard:
		return "FOLLOW_CARD"
	case TaskBuyHouses:
		return "BUY_HOUSES"
	case TaskEndTurn:
		return "END_TURN"
	case TaskTurnFinished:
		return "TURN_FINISHED"
	default:
		return "UNKNOWN"
	}
}

func (t TurnTask) valid() bool {
	return t >= TaskCastDice && t <= TaskTurnFinished
}

// TurnState is the transient state of the live turn handler.
type TurnState struct {
	Turn     int      `json:"turn"`
	LastCast [2]int   `json:"lastCast"`
	Drawn    *CardRef `json:"drawn,omitempty"`
	Task     TurnTask `json:"task"`
}

func (s TurnState) copy() TurnState {
	c := s
	if s.Drawn != nil {
		drawn := *s.Drawn
		c.Drawn = &drawn
	}
	return c
}

func (s TurnState) equal(o TurnState) bool {
	if s.Turn != o.Turn || s.LastCast != o.LastCast || s.Task != o.Task {
		return false
	}
	if s.Drawn == nil || o.Drawn == nil {
		return s.Drawn == nil && o.Drawn == nil
	}
	return *s.Drawn == *o.Drawn
}

// turnHandler drives a single player's turn. A new one is created for every turn.
type turnHandler struct {
	turn     int
	lastCast [2]int
	drawn    *CardRef
	task     TurnTask
}

func (h *turnHandler) state() TurnState {
	return TurnState{Turn: h.turn, LastCast: h.lastCast, Drawn: h.drawn, Task: h.task}.copy()
}

func (h *turnHandler) doubles() bool {
	return h.lastCast[0] == h.lastCast[1]
}

func (h *turnHandler) castValue() int {
	return h.lastCast[0] + h.lastCast[1]
}

// ensureTurn returns the live handler, starting the turn when there is none.
// Replicas never start turns and get nil until one is installed.
func (g *Game) ensureTurn() *turnHandler {
	if g.handler != nil || g.random == nil {
		return g.handler
	}
	if p := g.players[g.turn]; p.InJail() {
		g.setJailRounds(g.turn, p.InJailRounds-1)
	}
	g.handler = &turnHandler{turn: g.turn, task: TaskCastDice}
	g.publish()
	return g.handler
}

// commandTurn is ensureTurn for commands, which only run on the authority.
func (g *Game) commandTurn() *turnHandler {
	if g.random == nil {
		return nil
	}
	return g.ensureTurn()
}

// publish makes the handler state visible to the fingerprint and raises a
// TurnStateChangedEvent when it changed. Commands call it once they are done
// so that every event in between is stamped with the previous turn state.
func (g *Game) publish() {
	if g.handler == nil {
		g.published = nil
		return
	}
	s := g.handler.state()
	if g.published != nil && g.published.equal(s) {
		return
	}
	g.published = &s
	g.fire(TurnStateChangedEvent{State: s.copy()})
}

// NextTask returns the action the current player has to take next.
func (g *Game) NextTask() TurnTask {
	g.mu.Lock()
	defer g.mu.Unlock()
	if h := g.ensureTurn(); h != nil {
		return h.task
	}
	return TaskTurnFinished
}

// LastCast returns the dice of the current turn, zero before casting.
func (g *Game) LastCast() [2]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if h := g.ensureTurn(); h != nil {
		return h.lastCast
	}
	return [2]int{}
}

// DrawnCard returns the card most recently drawn in the current turn.
func (g *Game) DrawnCard() (Card, CardRef, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	h := g.ensureTurn()
	if h == nil || h.drawn == nil {
		return Card{}, CardRef{}, false
	}
	card, ok := g.board.Card(*h.drawn)
	return card, *h.drawn, ok
}

// TurnState returns the published state of the live turn handler.
func (g *Game) TurnState() (TurnState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensureTurn()
	if g.published == nil {
		return TurnState{}, false
	}
	return g.published.copy(), true
}

// PropertyToBuy returns the buyable field the current player stands on.
func (g *Game) PropertyToBuy() (int, Field, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	position := g.players[g.turn].Piece.Position
	f := g.board.Fields[position]
	if !f.Buyable() {
		return 0, Field{}, false
	}
	return position, f, true
}

// CalculateRent returns the rent due for the field the current player stands on.
func (g *Game) CalculateRent() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	h := g.ensureTurn()
	if h == nil {
		return 0
	}
	return g.calculateRent(h)
}

// CastDice rolls two dice. Outside CAST_DICE it returns the last cast and
// changes nothing.
func (g *Game) CastDice() [2]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.castDice()
}

// MovePiece moves the current piece by the cast value and resolves the landing.
func (g *Game) MovePiece() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.movePiece()
}

// BuyProperty buys, or declines, the field the player landed on. The turn
// only moves on when the outcome matches buy, so a purchase that fails for
// lack of money can be retried or declined.
func (g *Game) BuyProperty(buy bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buyProperty(buy)
}

func (g *Game) PayRent() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.payRent()
}

func (g *Game) PayTax() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.payTax()
}

// DrawCard draws from the deck named after the current field.
func (g *Game) DrawCard() (Card, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.drawCard()
}

func (g *Game) FollowCard() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.followCard()
}

// BuyHouse places one house on a property of a fully owned group. The house
// and the charge are applied together or not at all.
func (g *Game) BuyHouse(field int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buyHouse(field)
}

func (g *Game) EndTurn() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.endTurn()
}

// UseJailCard spends a kept get-out-of-jail card before casting the dice.
func (g *Game) UseJailCard() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.useJailCard()
}

func (g *Game) castDice() [2]int {
	h := g.commandTurn()
	if h == nil {
		return [2]int{}
	}
	defer g.publish()
	if h.task != TaskCastDice {
		return h.lastCast
	}

	h.lastCast = [2]int{
		g.random.Intn(constants.DiceSides) + 1,
		g.random.Intn(constants.DiceSides) + 1,
	}
	if g.players[h.turn].InJail() {
		if h.doubles() {
			g.setJailRounds(h.turn, 0)
			h.task = TaskMovePlayingPiece
		} else {
			h.task = TaskEndTurn
		}
	} else {
		h.task = TaskMovePlayingPiece
	}
	return h.lastCast
}

func (g *Game) movePiece() bool {
	h := g.commandTurn()
	if h == nil {
		return false
	}
	defer g.publish()
	if h.task != TaskMovePlayingPiece {
		return false
	}

	before := g.players[h.turn].Piece.Position
	after := (before + h.castValue()) % g.board.Len()
	g.setPosition(h.turn, after)
	g.payStartMoney(h.turn, before, after)
	g.landedOnField(h, after)
	return true
}

// payStartMoney pays the pass money of every start field strictly between
// before and after. Landing on a start field is handled by landedOnField.
func (g *Game) payStartMoney(player int, before int, after int) {
	n := g.board.Len()
	for i := (before + 1) % n; i != after; i = (i + 1) % n {
		if f := g.board.Fields[i]; f.Kind == FieldKindStart {
			g.pay(player, f.PassMoney)
		}
	}
}

func (g *Game) landedOnField(h *turnHandler, position int) {
	f := g.board.Fields[position]
	switch f.Kind {
	case FieldKindProperty, FieldKindRailroad, FieldKindCompany:
		switch owner := g.owner(position); {
		case owner < 0:
			h.task = TaskBuyProperty
		case owner == h.turn:
			h.task = TaskEndTurn
		default:
			h.task = TaskPayRent
		}
	case FieldKindDrawCard:
		h.task = TaskDrawCard
	case FieldKindTax:
		h.task = TaskPayTax
	case FieldKindStart:
		g.pay(h.turn, f.VisitMoney)
		h.task = TaskEndTurn
	case FieldKindGoToJail:
		g.sendToJail(h.turn)
		h.task = TaskEndTurn
	case FieldKindPlain, FieldKindCorner, FieldKindJail, FieldKindFreeParking:
		h.task = TaskEndTurn
	default:
		h.task = TaskEndTurn
	}
}

func (g *Game) buyProperty(buy bool) bool {
	h := g.commandTurn()
	if h == nil {
		return false
	}
	defer g.publish()
	if h.task != TaskBuyProperty {
		return false
	}

	bought := false
	position := g.players[h.turn].Piece.Position
	f := g.board.Fields[position]
	if buy && f.Buyable() && g.owner(position) < 0 && g.players[h.turn].Wealth >= f.Price {
		g.charge(h.turn, f.Price)
		g.addPossession(h.turn, position)
		bought = true
	}
	if buy == bought {
		h.task = TaskEndTurn
	}
	return bought
}

func (g *Game) payRent() bool {
	h := g.commandTurn()
	if h == nil {
		return false
	}
	defer g.publish()
	if h.task != TaskPayRent {
		return false
	}

	position := g.players[h.turn].Piece.Position
	if !g.board.Fields[position].Buyable() {
		return false
	}
	if owner := g.owner(position); owner >= 0 && owner != h.turn {
		rent := g.calculateRent(h)
		g.charge(h.turn, rent)
		g.pay(owner, rent)
	}
	h.task = TaskEndTurn
	return true
}

func (g *Game) payTax() bool {
	h := g.commandTurn()
	if h == nil {
		return false
	}
	defer g.publish()
	if h.task != TaskPayTax {
		return false
	}

	f := g.board.Fields[g.players[h.turn].Piece.Position]
	if f.Kind != FieldKindTax {
		return false
	}
	g.charge(h.turn, f.Tax)
	h.task = TaskEndTurn
	return true
}

func (g *Game) calculateRent(h *turnHandler) int64 {
	position := g.players[h.turn].Piece.Position
	f := g.board.Fields[position]
	owner := g.owner(position)
	if owner < 0 {
		return 0
	}

	switch f.Kind {
	case FieldKindProperty:
		return f.Rent(g.houses.Count(position))
	case FieldKindRailroad:
		if count := g.countOwned(owner, FieldKindRailroad); count > 0 && count <= len(f.Rents) {
			return f.Rents[count-1]
		}
	case FieldKindCompany:
		if count := g.countOwned(owner, FieldKindCompany); count > 0 && count <= len(f.Rents) {
			return f.Rents[count-1] * int64(h.castValue())
		}
	}
	return 0
}

func (g *Game) drawCard() (Card, bool) {
	h := g.commandTurn()
	if h == nil {
		return Card{}, false
	}
	defer g.publish()
	if h.task != TaskDrawCard {
		return Card{}, false
	}

	h.task = TaskFollowCard
	f := g.board.Fields[g.players[h.turn].Piece.Position]
	if f.Kind != FieldKindDrawCard {
		return Card{}, false
	}
	card, ref, ok := g.drawFrom(f.Name)
	if !ok {
		return Card{}, false
	}
	h.drawn = &ref
	return card, true
}

func (g *Game) followCard() bool {
	h := g.commandTurn()
	if h == nil {
		return false
	}
	defer g.publish()
	if h.task != TaskFollowCard {
		return false
	}

	if h.drawn != nil {
		if card, ok := g.board.Card(*h.drawn); ok {
			g.executeCard(h, card, *h.drawn)
		}
	}
	if h.task == TaskFollowCard {
		h.task = TaskEndTurn
	}
	return true
}

// executeCard applies a card to the current player. Movement cards resolve
// the landing field, which may change the task again.
func (g *Game) executeCard(h *turnHandler, card Card, ref CardRef) {
	player := h.turn
	position := g.players[player].Piece.Position
	n := g.board.Len()

	switch card.Kind {
	case CardKindAdvanceTo:
		g.advance(h, position, card.Position, card.MoveForward)
	case CardKindAdvanceToUtility:
		g.advance(h, position, g.board.NextIndexOfKind(position, FieldKindCompany), true)
	case CardKindAdvanceToRailroad:
		g.advance(h, position, g.board.NextIndexOfKind(position, FieldKindRailroad), true)
	case CardKindGoRelative:
		target := ((position+card.Steps)%n + n) % n
		g.advance(h, position, target, card.Steps > 0)
	case CardKindGetMoney:
		g.pay(player, card.Money)
	case CardKindGetMoneyPerPlayer:
		for i := range g.players {
			if i != player {
				g.charge(i, card.Money)
				g.pay(player, card.Money)
			}
		}
	case CardKindGetOutOfJail:
		g.keepCard(player, ref)
	case CardKindGoToJail:
		g.sendToJail(player)
	case CardKindPayPerHouse:
		houses, hotels := g.housesAndHotels(player)
		g.charge(player, card.PerHouse*int64(houses)+card.PerHotel*int64(hotels))
	}
}

func (g *Game) advance(h *turnHandler, from int, to int, forward bool) {
	g.setPosition(h.turn, to)
	if forward {
		g.payStartMoney(h.turn, from, to)
	}
	g.landedOnField(h, to)
}

func (g *Game) buyHouse(field int) bool {
	h := g.commandTurn()
	if h == nil {
		return false
	}
	defer g.publish()
	if h.task != TaskEndTurn {
		return false
	}

	f, ok := g.board.Field(field)
	if !ok || f.Kind != FieldKindProperty || !g.ownsGroup(h.turn, f.Group) {
		return false
	}
	count := g.houses.Count(field)
	if count >= g.board.MaxHouses || g.players[h.turn].Wealth < f.HousePrice {
		return false
	}
	g.setHouses(field, count+1)
	g.charge(h.turn, f.HousePrice)
	return true
}

func (g *Game) endTurn() bool {
	h := g.commandTurn()
	if h == nil {
		return false
	}
	if h.task != TaskEndTurn {
		return false
	}

	h.task = TaskTurnFinished
	player := g.turn
	g.turn = (g.turn + 1) % len(g.players)
	g.handler = nil
	g.published = nil
	g.fire(TurnEndedEvent{Player: player, Turn: g.turn})
	return true
}

func (g *Game) useJailCard() bool {
	h := g.commandTurn()
	if h == nil {
		return false
	}
	defer g.publish()
	if h.task != TaskCastDice {
		return false
	}

	p := g.players[h.turn]
	if !p.InJail() {
		return false
	}
	for _, ref := range p.KeptCards {
		if card, ok := g.board.Card(ref); ok && card.Kind == CardKindGetOutOfJail {
			g.useCard(h.turn, ref)
			g.setJailRounds(h.turn, 0)
			return true
		}
	}
	return false
}
