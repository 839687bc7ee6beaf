package game

import (
	"fmt"
	"sort"
)

// Snapshot is a deep copy of the complete game state, used to install a game
// wholesale on a replica.
type Snapshot struct {
	Board     *Board      `json:"board"`
	Players   []Player    `json:"players"`
	Turn      int         `json:"turn"`
	TurnState *TurnState  `json:"turnState,omitempty"`
	Houses    map[int]int `json:"houses"`
	Decks     []DeckOrder `json:"decks"`
}

// DeckOrder is the current draw order of one shuffled deck.
type DeckOrder struct {
	Name  string `json:"name"`
	Order []int  `json:"order"`
}

// Snapshot returns a deep copy of the current state.
func (g *Game) Snapshot() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

// WithSnapshot calls fn with a snapshot and its fingerprint while the game is
// still locked, so nothing fn enqueues can be overtaken by a later event.
func (g *Game) WithSnapshot(fn func(s *Snapshot, fingerprint uint64)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.snapshot(), g.fingerprint())
}

// Restore replaces the whole state with the snapshot and raises a
// RestoredEvent. Listeners and the random source are kept. On error the game
// is left untouched.
func (g *Game) Restore(s *Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.restore(s); err != nil {
		return err
	}
	g.fire(RestoredEvent{})
	return nil
}

func (g *Game) snapshot() *Snapshot {
	s := &Snapshot{
		Board:   g.board.copy(),
		Players: make([]Player, len(g.players)),
		Turn:    g.turn,
		Houses:  g.houses.toMap(),
		Decks:   make([]DeckOrder, 0, len(g.decks)),
	}
	for i, p := range g.players {
		s.Players[i] = p.copy()
	}
	if g.published != nil {
		ts := g.published.copy()
		s.TurnState = &ts
	}
	for name, deck := range g.decks {
		s.Decks = append(s.Decks, DeckOrder{Name: name, Order: deck.Order()})
	}
	sort.Slice(s.Decks, func(i, j int) bool { return s.Decks[i].Name < s.Decks[j].Name })
	return s
}

func (g *Game) restore(s *Snapshot) error {
	if err := validateSnapshot(s); err != nil {
		return err
	}

	board := s.Board.copy()
	players := make([]*Player, len(s.Players))
	for i := range s.Players {
		p := s.Players[i].copy()
		players[i] = &p
	}
	houses := NewHouseRegister()
	for f, c := range s.Houses {
		houses.set(f, c)
	}
	decks := make(map[string]*ShuffledDeck, len(s.Decks))
	for _, d := range s.Decks {
		decks[d.Name] = &ShuffledDeck{name: d.Name, order: append([]int(nil), d.Order...)}
	}

	g.board = board
	g.boardDigest = digestBoard(board)
	g.players = players
	g.turn = s.Turn
	g.houses = houses
	g.decks = decks
	g.handler = nil
	g.published = nil
	if s.TurnState != nil {
		ts := s.TurnState.copy()
		g.handler = &turnHandler{turn: ts.Turn, lastCast: ts.LastCast, drawn: ts.Drawn, task: ts.Task}
		g.published = &ts
	}
	return nil
}

func validateSnapshot(s *Snapshot) error {
	if s == nil || s.Board == nil {
		return fmt.Errorf("snapshot has no board")
	}
	if err := s.Board.Validate(); err != nil {
		return fmt.Errorf("invalid board: %v", err)
	}
	b := s.Board
	if len(s.Players) == 0 {
		return fmt.Errorf("snapshot has no players")
	}
	if s.Turn < 0 || s.Turn >= len(s.Players) {
		return fmt.Errorf("turn %d out of range", s.Turn)
	}

	owned := make(map[int]bool)
	for i, p := range s.Players {
		if p.Piece.Position < 0 || p.Piece.Position >= b.Len() {
			return fmt.Errorf("player %d is at invalid position %d", i, p.Piece.Position)
		}
		if p.InJailRounds < 0 {
			return fmt.Errorf("player %d has negative jail rounds", i)
		}
		for _, f := range p.Possessions {
			field, ok := b.Field(f)
			if !ok || !field.Buyable() {
				return fmt.Errorf("player %d owns non-buyable field %d", i, f)
			}
			if owned[f] {
				return fmt.Errorf("field %d is owned twice", f)
			}
			owned[f] = true
		}
		for _, ref := range p.KeptCards {
			card, ok := b.Card(ref)
			if !ok || !card.Keepable() {
				return fmt.Errorf("player %d keeps invalid card %s/%d", i, ref.Deck, ref.Index)
			}
		}
	}

	for f, c := range s.Houses {
		field, ok := b.Field(f)
		if !ok || field.Kind != FieldKindProperty {
			return fmt.Errorf("houses on non-property field %d", f)
		}
		if c < 0 || c > b.MaxHouses {
			return fmt.Errorf("field %d has invalid house count %d", f, c)
		}
	}

	if len(s.Decks) != len(b.Decks) {
		return fmt.Errorf("snapshot has %d decks, board has %d", len(s.Decks), len(b.Decks))
	}
	for _, d := range s.Decks {
		def, ok := b.Deck(d.Name)
		if !ok {
			return fmt.Errorf("unknown deck %q", d.Name)
		}
		if !isPermutation(d.Order, len(def.Cards)) {
			return fmt.Errorf("deck %q order is not a permutation of its cards", d.Name)
		}
	}

	if ts := s.TurnState; ts != nil {
		if ts.Turn != s.Turn {
			return fmt.Errorf("turn state belongs to player %d, turn is %d", ts.Turn, s.Turn)
		}
		if !ts.Task.valid() {
			return fmt.Errorf("invalid task %d", ts.Task)
		}
		if ts.Drawn != nil {
			if _, ok := b.Card(*ts.Drawn); !ok {
				return fmt.Errorf("drawn card %s/%d does not exist", ts.Drawn.Deck, ts.Drawn.Index)
			}
		}
	}
	return nil
}

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}
