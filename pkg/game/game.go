// Package game holds the Monopoly game state model and the turn state machine.
package game

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cbodonnell/monopoly/pkg/game/constants"
	"golang.org/x/exp/rand"
)

// Game is the aggregate of everything that changes during a match. All reads
// and writes go through a single mutex.
type Game struct {
	mu          sync.Mutex
	board       *Board
	boardDigest uint64
	players     []*Player
	turn        int
	handler     *turnHandler
	// published is the handler state that replicas know about
	published *TurnState
	houses    *HouseRegister
	decks     map[string]*ShuffledDeck
	// random is only set on the authority
	random    *rand.Rand
	listeners []Listener
}

// NewGameOptions contains options for creating a new Game.
type NewGameOptions struct {
	Board   *Board
	Players []NewPlayerOptions
	// Seed for dice and shuffles, 0 picks a time based seed
	Seed uint64
}

type NewPlayerOptions struct {
	Name  string
	Color string
}

// NewGame creates an authoritative game. Decks are shuffled with the game's
// own random source, which is also used for every dice roll.
func NewGame(opts NewGameOptions) (*Game, error) {
	if opts.Board == nil {
		return nil, fmt.Errorf("board is required")
	}
	if err := opts.Board.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board: %v", err)
	}
	if len(opts.Players) == 0 {
		return nil, fmt.Errorf("at least one player is required")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	random := rand.New(rand.NewSource(seed))

	board := opts.Board.copy()
	g := &Game{
		board:       board,
		boardDigest: digestBoard(board),
		houses:      NewHouseRegister(),
		decks:       make(map[string]*ShuffledDeck, len(board.Decks)),
		random:      random,
	}
	for _, deck := range board.Decks {
		g.decks[deck.Name] = NewShuffledDeck(deck.Name, len(deck.Cards), random.Shuffle)
	}
	for i, opt := range opts.Players {
		name := opt.Name
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		color := opt.Color
		if color == "" {
			color = constants.PieceColors[i%len(constants.PieceColors)]
		}
		g.players = append(g.players, &Player{
			Name:        name,
			Wealth:      board.StartMoney,
			Possessions: []int{},
			KeptCards:   []CardRef{},
			Piece:       PlayingPiece{Position: 0, Color: color},
		})
	}

	return g, nil
}

// FromSnapshot creates a replica game from a full snapshot. Replicas have no
// random source, so turn commands on them are no-ops.
func FromSnapshot(s *Snapshot) (*Game, error) {
	g := &Game{}
	if err := g.restore(s); err != nil {
		return nil, err
	}
	return g, nil
}

// Authoritative reports whether this game owns the random source and may run
// turn commands.
func (g *Game) Authoritative() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.random != nil
}

// AddListener subscribes l to every event of the game.
func (g *Game) AddListener(l Listener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, l)
}

// Board returns the static board. It must not be modified.
func (g *Game) Board() *Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board
}

// Turn returns the index of the player whose turn it is.
func (g *Game) Turn() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turn
}

func (g *Game) NPlayers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// Player returns a copy of the player at index i.
func (g *Game) Player(i int) (Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i < 0 || i >= len(g.players) {
		return Player{}, false
	}
	return g.players[i].copy(), true
}

// Players returns copies of all players in turn order.
func (g *Game) Players() []Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	players := make([]Player, len(g.players))
	for i, p := range g.players {
		players[i] = p.copy()
	}
	return players
}

// Owner returns the index of the player owning the field, or -1.
func (g *Game) Owner(field int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.owner(field)
}

// HousesOn returns the house count of the field.
func (g *Game) HousesOn(field int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.houses.Count(field)
}

// Monopolies returns the names of the groups fully owned by the player.
func (g *Game) Monopolies(player int) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.monopolies(player)
}

// BuildableFields returns the property fields on which the player may place
// another house, ignoring the player's wealth.
func (g *Game) BuildableFields(player int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	var fields []int
	for _, name := range g.monopolies(player) {
		group, _ := g.board.Group(name)
		for _, i := range group.Fields {
			if g.houses.Count(i) < g.board.MaxHouses {
				fields = append(fields, i)
			}
		}
	}
	sort.Ints(fields)
	return fields
}

// Fingerprint returns the 64-bit digest of the current state.
func (g *Game) Fingerprint() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fingerprint()
}

func (g *Game) fire(e Event) {
	if len(g.listeners) == 0 {
		return
	}
	fingerprint := g.fingerprint()
	for _, l := range g.listeners {
		l.HandleEvent(e, fingerprint)
	}
}

func (g *Game) owner(field int) int {
	for i, p := range g.players {
		if p.Possesses(field) {
			return i
		}
	}
	return -1
}

func (g *Game) countOwned(player int, kind FieldKind) int {
	count := 0
	for _, f := range g.players[player].Possessions {
		if g.board.Fields[f].Kind == kind {
			count++
		}
	}
	return count
}

func (g *Game) ownsGroup(player int, name string) bool {
	group, ok := g.board.Group(name)
	if !ok || len(group.Fields) == 0 {
		return false
	}
	for _, f := range group.Fields {
		if !g.players[player].Possesses(f) {
			return false
		}
	}
	return true
}

func (g *Game) monopolies(player int) []string {
	if player < 0 || player >= len(g.players) {
		return nil
	}
	var names []string
	for _, group := range g.board.Groups {
		if g.ownsGroup(player, group.Name) {
			names = append(names, group.Name)
		}
	}
	return names
}

// housesAndHotels counts the player's buildings. A field at MaxHouses counts
// as one hotel and no houses.
func (g *Game) housesAndHotels(player int) (houses int, hotels int) {
	for _, f := range g.players[player].Possessions {
		if g.board.Fields[f].Kind != FieldKindProperty {
			continue
		}
		count := g.houses.Count(f)
		if count < g.board.MaxHouses {
			houses += count
		} else {
			hotels++
		}
	}
	return houses, hotels
}

func (g *Game) setWealth(player int, wealth int64) {
	p := g.players[player]
	old := p.Wealth
	if old == wealth {
		return
	}
	p.Wealth = wealth
	g.fire(WealthChangedEvent{Player: player, OldWealth: old, Wealth: wealth})
	if old >= 0 && wealth < 0 {
		g.fire(BankruptEvent{Player: player})
	}
}

func (g *Game) charge(player int, amount int64) {
	g.setWealth(player, g.players[player].Wealth-amount)
}

func (g *Game) pay(player int, amount int64) {
	g.setWealth(player, g.players[player].Wealth+amount)
}

func (g *Game) setPosition(player int, position int) {
	piece := &g.players[player].Piece
	old := piece.Position
	if old == position {
		return
	}
	piece.Position = position
	g.fire(PieceMovedEvent{Player: player, OldPosition: old, Position: position})
}

func (g *Game) setJailRounds(player int, rounds int) {
	p := g.players[player]
	old := p.InJailRounds
	if old == rounds {
		return
	}
	p.InJailRounds = rounds
	g.fire(JailChangedEvent{Player: player, OldRounds: old, Rounds: rounds})
}

func (g *Game) addPossession(player int, field int) {
	if g.players[player].Possesses(field) {
		return
	}
	for i, p := range g.players {
		if i != player {
			p.removePossession(field)
		}
	}
	g.players[player].Possessions = append(g.players[player].Possessions, field)
	g.fire(PropertyObtainedEvent{Player: player, Field: field})
}

func (g *Game) keepCard(player int, ref CardRef) {
	p := g.players[player]
	if p.Keeps(ref) {
		return
	}
	p.KeptCards = append(p.KeptCards, ref)
	g.fire(CardKeptEvent{Player: player, Card: ref})
}

func (g *Game) useCard(player int, ref CardRef) {
	if g.players[player].removeKeptCard(ref) {
		g.fire(CardUsedEvent{Player: player, Card: ref})
	}
}

func (g *Game) setHouses(field int, count int) {
	old := g.houses.Count(field)
	if old == count {
		return
	}
	g.houses.set(field, count)
	g.fire(HouseCountChangedEvent{Field: field, OldCount: old, Count: count})
}

func (g *Game) drawFrom(deckName string) (Card, CardRef, bool) {
	deck, ok := g.decks[deckName]
	if !ok {
		return Card{}, CardRef{}, false
	}
	index, ok := deck.Draw()
	if !ok {
		return Card{}, CardRef{}, false
	}
	ref := CardRef{Deck: deckName, Index: index}
	card, _ := g.board.Card(ref)
	g.fire(CardDrawnEvent{Deck: deckName, Card: index})
	return card, ref, true
}

func (g *Game) sendToJail(player int) {
	g.setJailRounds(player, constants.JailStandardStay)
	if jail, ok := g.board.JailIndex(); ok {
		g.setPosition(player, jail)
	}
}
