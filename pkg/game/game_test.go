package game

import (
	"testing"

	"github.com/cbodonnell/monopoly/pkg/game/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newTestGame(t *testing.T, players int) *Game {
	t.Helper()
	opts := NewGameOptions{Board: StandardBoard(), Seed: 42}
	for i := 0; i < players; i++ {
		opts.Players = append(opts.Players, NewPlayerOptions{})
	}
	g, err := NewGame(opts)
	require.NoError(t, err)
	return g
}

// setTurn installs a handler for the current player in the given task.
func setTurn(g *Game, task TurnTask, cast [2]int) *turnHandler {
	g.handler = &turnHandler{turn: g.turn, lastCast: cast, task: task}
	g.publish()
	return g.handler
}

// seedForCast returns a seed whose first roll is (or is not) a double.
func seedForCast(double bool) uint64 {
	for seed := uint64(1); ; seed++ {
		r := rand.New(rand.NewSource(seed))
		a, b := r.Intn(constants.DiceSides), r.Intn(constants.DiceSides)
		if (a == b) == double {
			return seed
		}
	}
}

func totalWealth(g *Game) int64 {
	var total int64
	for _, p := range g.Players() {
		total += p.Wealth
	}
	return total
}

func TestNewGame(t *testing.T) {
	tests := []struct {
		name    string
		opts    NewGameOptions
		wantErr bool
	}{
		{
			name:    "no board",
			opts:    NewGameOptions{Players: []NewPlayerOptions{{}}},
			wantErr: true,
		},
		{
			name:    "no players",
			opts:    NewGameOptions{Board: StandardBoard()},
			wantErr: true,
		},
		{
			name: "invalid board",
			opts: NewGameOptions{
				Board:   &Board{Fields: make([]Field, 3), MaxHouses: 5},
				Players: []NewPlayerOptions{{}},
			},
			wantErr: true,
		},
		{
			name: "standard board",
			opts: NewGameOptions{
				Board:   StandardBoard(),
				Players: []NewPlayerOptions{{Name: "alice", Color: "black"}, {}},
				Seed:    7,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGame(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, g.Authoritative())
			players := g.Players()
			require.Len(t, players, 2)
			assert.Equal(t, "alice", players[0].Name)
			assert.Equal(t, "black", players[0].Piece.Color)
			assert.Equal(t, "Player 2", players[1].Name)
			assert.Equal(t, constants.PieceColors[1], players[1].Piece.Color)
			for _, p := range players {
				assert.Equal(t, constants.StandardStartMoney, p.Wealth)
				assert.Equal(t, 0, p.Piece.Position)
			}
			assert.Equal(t, TaskCastDice, g.NextTask())
		})
	}
}

func TestBuyPropertyScenario(t *testing.T) {
	g := newTestGame(t, 2)
	setTurn(g, TaskMovePlayingPiece, [2]int{2, 3})

	require.True(t, g.MovePiece())
	assert.Equal(t, TaskBuyProperty, g.NextTask())
	position, field, ok := g.PropertyToBuy()
	require.True(t, ok)
	assert.Equal(t, 5, position)
	assert.Equal(t, int64(200), field.Price)

	assert.True(t, g.BuyProperty(true))
	p, _ := g.Player(0)
	assert.Equal(t, int64(1300), p.Wealth)
	assert.Equal(t, 0, g.Owner(5))
	assert.Equal(t, TaskEndTurn, g.NextTask())
}

func TestBuyPropertyInsufficientFunds(t *testing.T) {
	g := newTestGame(t, 2)
	g.players[0].Wealth = 100
	g.players[0].Piece.Position = 5
	setTurn(g, TaskBuyProperty, [2]int{2, 3})

	assert.False(t, g.BuyProperty(true))
	assert.Equal(t, TaskBuyProperty, g.NextTask(), "failed purchase leaves the task unresolved")
	assert.Equal(t, -1, g.Owner(5))

	assert.False(t, g.BuyProperty(false))
	assert.Equal(t, TaskEndTurn, g.NextTask())
	p, _ := g.Player(0)
	assert.Equal(t, int64(100), p.Wealth)
}

func TestJailNonDoubleScenario(t *testing.T) {
	g := newTestGame(t, 1)
	g.random = rand.New(rand.NewSource(seedForCast(false)))
	g.players[0].InJailRounds = 2
	setTurn(g, TaskCastDice, [2]int{})

	cast := g.CastDice()
	assert.NotEqual(t, cast[0], cast[1])
	p, _ := g.Player(0)
	assert.Equal(t, 2, p.InJailRounds, "no decrement on the failed roll")
	assert.Equal(t, 0, p.Piece.Position)
	assert.Equal(t, TaskEndTurn, g.NextTask())

	require.True(t, g.EndTurn())
	assert.Equal(t, TaskCastDice, g.NextTask())
	p, _ = g.Player(0)
	assert.Equal(t, 1, p.InJailRounds, "decrement at the start of the next turn")
}

func TestJailDoubleReleases(t *testing.T) {
	g := newTestGame(t, 1)
	g.random = rand.New(rand.NewSource(seedForCast(true)))
	g.players[0].InJailRounds = 2
	setTurn(g, TaskCastDice, [2]int{})

	cast := g.CastDice()
	assert.Equal(t, cast[0], cast[1])
	p, _ := g.Player(0)
	assert.Equal(t, 0, p.InJailRounds)
	assert.Equal(t, TaskMovePlayingPiece, g.NextTask())
}

func TestPayRentScenario(t *testing.T) {
	g := newTestGame(t, 2)
	g.board.Fields[1].Rents = []int64{25, 50, 100, 200, 300, 400}
	g.addPossession(1, 1)
	g.setHouses(1, 2)
	g.players[0].Piece.Position = 1
	setTurn(g, TaskPayRent, [2]int{1, 2})

	before := totalWealth(g)
	assert.Equal(t, int64(100), g.CalculateRent())
	assert.True(t, g.PayRent())

	a, _ := g.Player(0)
	b, _ := g.Player(1)
	assert.Equal(t, int64(1400), a.Wealth)
	assert.Equal(t, int64(1600), b.Wealth)
	assert.Equal(t, before, totalWealth(g))
	assert.Equal(t, TaskEndTurn, g.NextTask())
}

func TestCalculateRent(t *testing.T) {
	tests := []struct {
		name     string
		owned    []int
		houses   map[int]int
		position int
		cast     [2]int
		want     int64
	}{
		{name: "unowned", position: 1, want: 0},
		{name: "property without houses", owned: []int{1}, position: 1, want: 2},
		{name: "property with hotel", owned: []int{39}, houses: map[int]int{39: 5}, position: 39, want: 2000},
		{name: "one railroad", owned: []int{5}, position: 5, want: 25},
		{name: "three railroads", owned: []int{5, 15, 25}, position: 15, want: 100},
		{name: "one company", owned: []int{12}, position: 12, cast: [2]int{3, 4}, want: 28},
		{name: "both companies", owned: []int{12, 28}, position: 28, cast: [2]int{6, 6}, want: 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 2)
			for _, f := range tt.owned {
				g.addPossession(1, f)
			}
			for f, c := range tt.houses {
				g.setHouses(f, c)
			}
			g.players[0].Piece.Position = tt.position
			setTurn(g, TaskPayRent, tt.cast)
			assert.Equal(t, tt.want, g.CalculateRent())
		})
	}
}

func TestGoToJailCardScenario(t *testing.T) {
	g := newTestGame(t, 2)
	g.players[0].Piece.Position = 5
	h := setTurn(g, TaskFollowCard, [2]int{1, 4})
	h.drawn = &CardRef{Deck: DeckChance, Index: 10}
	card, ok := g.board.Card(*h.drawn)
	require.True(t, ok)
	require.Equal(t, CardKindGoToJail, card.Kind)

	assert.True(t, g.FollowCard())
	p, _ := g.Player(0)
	jail, _ := g.board.JailIndex()
	assert.Equal(t, jail, p.Piece.Position)
	assert.Equal(t, constants.JailStandardStay, p.InJailRounds)
	assert.Equal(t, TaskEndTurn, g.NextTask())
}

func TestLandedOnField(t *testing.T) {
	tests := []struct {
		name         string
		from         int
		cast         [2]int
		ownedByOther []int
		ownedBySelf  []int
		wantPosition int
		wantTask     TurnTask
		wantWealth   int64
	}{
		{name: "unowned property", from: 0, cast: [2]int{1, 2}, wantPosition: 3, wantTask: TaskBuyProperty, wantWealth: 1500},
		{name: "own property", from: 0, cast: [2]int{1, 2}, ownedBySelf: []int{3}, wantPosition: 3, wantTask: TaskEndTurn, wantWealth: 1500},
		{name: "foreign property", from: 0, cast: [2]int{1, 2}, ownedByOther: []int{3}, wantPosition: 3, wantTask: TaskPayRent, wantWealth: 1500},
		{name: "tax", from: 0, cast: [2]int{2, 2}, wantPosition: 4, wantTask: TaskPayTax, wantWealth: 1500},
		{name: "draw card", from: 0, cast: [2]int{3, 4}, wantPosition: 7, wantTask: TaskDrawCard, wantWealth: 1500},
		{name: "jail visit", from: 5, cast: [2]int{2, 3}, wantPosition: 10, wantTask: TaskEndTurn, wantWealth: 1500},
		{name: "go to jail", from: 25, cast: [2]int{2, 3}, wantPosition: 10, wantTask: TaskEndTurn, wantWealth: 1500},
		{name: "passing start", from: 38, cast: [2]int{2, 3}, wantPosition: 3, wantTask: TaskBuyProperty, wantWealth: 1700},
		{name: "landing on start pays once", from: 36, cast: [2]int{2, 2}, wantPosition: 0, wantTask: TaskEndTurn, wantWealth: 1700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 2)
			for _, f := range tt.ownedByOther {
				g.addPossession(1, f)
			}
			for _, f := range tt.ownedBySelf {
				g.addPossession(0, f)
			}
			g.players[0].Piece.Position = tt.from
			setTurn(g, TaskMovePlayingPiece, tt.cast)

			require.True(t, g.MovePiece())
			p, _ := g.Player(0)
			assert.Equal(t, tt.wantPosition, p.Piece.Position)
			assert.Equal(t, tt.wantTask, g.NextTask())
			assert.Equal(t, tt.wantWealth, p.Wealth)
		})
	}
}

func TestIllegalCallsAreNoOps(t *testing.T) {
	g := newTestGame(t, 2)
	require.Equal(t, TaskCastDice, g.NextTask())
	fingerprint := g.Fingerprint()

	assert.False(t, g.MovePiece())
	assert.False(t, g.BuyProperty(true))
	assert.False(t, g.BuyProperty(false))
	assert.False(t, g.PayRent())
	assert.False(t, g.PayTax())
	_, drawn := g.DrawCard()
	assert.False(t, drawn)
	assert.False(t, g.FollowCard())
	assert.False(t, g.BuyHouse(1))
	assert.False(t, g.EndTurn())
	assert.False(t, g.UseJailCard())

	assert.Equal(t, TaskCastDice, g.NextTask())
	assert.Equal(t, fingerprint, g.Fingerprint())

	g.CastDice()
	cast := g.LastCast()
	fingerprint = g.Fingerprint()
	assert.Equal(t, cast, g.CastDice(), "casting twice returns the last cast")
	assert.Equal(t, fingerprint, g.Fingerprint())
	assert.Equal(t, TaskMovePlayingPiece, g.NextTask())
}

func TestPayTax(t *testing.T) {
	g := newTestGame(t, 2)
	g.players[0].Piece.Position = 38
	setTurn(g, TaskPayTax, [2]int{1, 1})

	assert.True(t, g.PayTax())
	p, _ := g.Player(0)
	assert.Equal(t, int64(1400), p.Wealth)
	assert.Equal(t, TaskEndTurn, g.NextTask())
	assert.False(t, g.PayTax())
}

func TestDrawAndFollowCard(t *testing.T) {
	g := newTestGame(t, 2)
	g.players[0].Piece.Position = 7
	g.decks[DeckChance] = &ShuffledDeck{name: DeckChance, order: []int{7, 0, 1, 2, 3, 4, 5, 6, 8, 9, 10, 11, 12, 13, 14, 15}}
	setTurn(g, TaskDrawCard, [2]int{3, 4})

	card, ok := g.DrawCard()
	require.True(t, ok)
	assert.Equal(t, CardKindGetMoney, card.Kind)
	assert.Equal(t, TaskFollowCard, g.NextTask())
	_, ref, ok := g.DrawnCard()
	require.True(t, ok)
	assert.Equal(t, CardRef{Deck: DeckChance, Index: 7}, ref)
	top, _ := g.decks[DeckChance].Peek()
	assert.Equal(t, 0, top)

	assert.True(t, g.FollowCard())
	p, _ := g.Player(0)
	assert.Equal(t, int64(1550), p.Wealth)
	assert.Equal(t, TaskEndTurn, g.NextTask())
}

func TestExecuteCard(t *testing.T) {
	tests := []struct {
		name         string
		ref          CardRef
		from         int
		wantPosition int
		wantTask     TurnTask
		wantWealth   int64
	}{
		{name: "advance to boardwalk", ref: CardRef{DeckChance, 0}, from: 7, wantPosition: 39, wantTask: TaskBuyProperty, wantWealth: 1500},
		{name: "advance to go", ref: CardRef{DeckChance, 1}, from: 36, wantPosition: 0, wantTask: TaskEndTurn, wantWealth: 1700},
		{name: "advance to st charles passing go", ref: CardRef{DeckChance, 3}, from: 36, wantPosition: 11, wantTask: TaskBuyProperty, wantWealth: 1700},
		{name: "nearest railroad", ref: CardRef{DeckChance, 4}, from: 7, wantPosition: 15, wantTask: TaskBuyProperty, wantWealth: 1500},
		{name: "nearest railroad wraps", ref: CardRef{DeckChance, 4}, from: 36, wantPosition: 5, wantTask: TaskBuyProperty, wantWealth: 1700},
		{name: "nearest utility", ref: CardRef{DeckChance, 6}, from: 22, wantPosition: 28, wantTask: TaskBuyProperty, wantWealth: 1500},
		{name: "go back three", ref: CardRef{DeckChance, 9}, from: 7, wantPosition: 4, wantTask: TaskPayTax, wantWealth: 1500},
		{name: "go back three wraps without pay", ref: CardRef{DeckChance, 9}, from: 2, wantPosition: 39, wantTask: TaskBuyProperty, wantWealth: 1500},
		{name: "speeding fine", ref: CardRef{DeckChance, 12}, from: 7, wantPosition: 7, wantTask: TaskEndTurn, wantWealth: 1485},
		{name: "go to jail", ref: CardRef{DeckCommunityChest, 5}, from: 2, wantPosition: 10, wantTask: TaskEndTurn, wantWealth: 1500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 2)
			g.players[0].Piece.Position = tt.from
			h := setTurn(g, TaskFollowCard, [2]int{1, 2})
			ref := tt.ref
			h.drawn = &ref

			require.True(t, g.FollowCard())
			p, _ := g.Player(0)
			assert.Equal(t, tt.wantPosition, p.Piece.Position)
			assert.Equal(t, tt.wantTask, g.NextTask())
			assert.Equal(t, tt.wantWealth, p.Wealth)
		})
	}
}

func TestMoneyPerPlayerIsConserved(t *testing.T) {
	tests := []struct {
		name      string
		ref       CardRef
		wantOwn   int64
		wantOther int64
	}{
		{name: "chairman of the board", ref: CardRef{DeckChance, 14}, wantOwn: 1400, wantOther: 1550},
		{name: "birthday", ref: CardRef{DeckCommunityChest, 8}, wantOwn: 1520, wantOther: 1490},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 3)
			h := setTurn(g, TaskFollowCard, [2]int{1, 2})
			ref := tt.ref
			h.drawn = &ref
			before := totalWealth(g)

			require.True(t, g.FollowCard())
			players := g.Players()
			assert.Equal(t, tt.wantOwn, players[0].Wealth)
			assert.Equal(t, tt.wantOther, players[1].Wealth)
			assert.Equal(t, tt.wantOther, players[2].Wealth)
			assert.Equal(t, before, totalWealth(g))
		})
	}
}

func TestPayPerHouse(t *testing.T) {
	g := newTestGame(t, 2)
	g.addPossession(0, 1)
	g.addPossession(0, 3)
	g.setHouses(1, 2)
	g.setHouses(3, 5)
	h := setTurn(g, TaskFollowCard, [2]int{1, 2})
	h.drawn = &CardRef{Deck: DeckChance, Index: 11}

	require.True(t, g.FollowCard())
	p, _ := g.Player(0)
	assert.Equal(t, int64(1500-2*25-100), p.Wealth)
}

func TestJailCard(t *testing.T) {
	g := newTestGame(t, 2)
	ref := CardRef{Deck: DeckChance, Index: 8}
	h := setTurn(g, TaskFollowCard, [2]int{1, 2})
	h.drawn = &ref
	require.True(t, g.FollowCard())
	p, _ := g.Player(0)
	assert.Equal(t, []CardRef{ref}, p.KeptCards)
	assert.Len(t, g.decks[DeckChance].Order(), 16, "kept cards stay in the deck rotation")

	g.players[0].InJailRounds = 2
	setTurn(g, TaskEndTurn, [2]int{1, 2})
	assert.False(t, g.UseJailCard(), "only before casting")

	setTurn(g, TaskCastDice, [2]int{})
	assert.True(t, g.UseJailCard())
	p, _ = g.Player(0)
	assert.Equal(t, 0, p.InJailRounds)
	assert.Empty(t, p.KeptCards)
	assert.False(t, g.UseJailCard())
}

func TestBuyHouse(t *testing.T) {
	tests := []struct {
		name       string
		owned      []int
		houses     int
		wealth     int64
		task       TurnTask
		field      int
		want       bool
		wantHouses int
	}{
		{name: "full group", owned: []int{1, 3}, wealth: 1500, task: TaskEndTurn, field: 1, want: true, wantHouses: 1},
		{name: "incomplete group", owned: []int{1}, wealth: 1500, task: TaskEndTurn, field: 1, want: false},
		{name: "not a property", owned: []int{5, 15}, wealth: 1500, task: TaskEndTurn, field: 5, want: false},
		{name: "too poor", owned: []int{1, 3}, wealth: 49, task: TaskEndTurn, field: 1, want: false},
		{name: "hotel already", owned: []int{1, 3}, houses: 5, wealth: 1500, task: TaskEndTurn, field: 1, want: false, wantHouses: 5},
		{name: "wrong task", owned: []int{1, 3}, wealth: 1500, task: TaskCastDice, field: 1, want: false},
		{name: "off the board", owned: []int{1, 3}, wealth: 1500, task: TaskEndTurn, field: 99, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 2)
			for _, f := range tt.owned {
				g.addPossession(0, f)
			}
			g.setHouses(1, tt.houses)
			g.players[0].Wealth = tt.wealth
			setTurn(g, tt.task, [2]int{1, 2})

			assert.Equal(t, tt.want, g.BuyHouse(tt.field))
			assert.Equal(t, tt.wantHouses, g.HousesOn(1))
			p, _ := g.Player(0)
			if tt.want {
				assert.Equal(t, tt.wealth-50, p.Wealth)
			} else {
				assert.Equal(t, tt.wealth, p.Wealth)
			}
		})
	}
}

func TestBuildableFieldsAndMonopolies(t *testing.T) {
	g := newTestGame(t, 2)
	g.addPossession(0, 1)
	g.addPossession(0, 3)
	g.addPossession(0, 6)
	g.setHouses(3, 5)

	assert.Equal(t, []string{"brown"}, g.Monopolies(0))
	assert.Equal(t, []int{1}, g.BuildableFields(0))
	assert.Empty(t, g.Monopolies(1))
}

func TestEndTurn(t *testing.T) {
	g := newTestGame(t, 3)
	var ended []TurnEndedEvent
	g.AddListener(ListenerFunc(func(e Event, _ uint64) {
		if te, ok := e.(TurnEndedEvent); ok {
			ended = append(ended, te)
		}
	}))
	setTurn(g, TaskEndTurn, [2]int{1, 2})

	assert.True(t, g.EndTurn())
	assert.Equal(t, 1, g.Turn())
	assert.Equal(t, []TurnEndedEvent{{Player: 0, Turn: 1}}, ended)
	assert.Equal(t, TaskCastDice, g.NextTask())
	assert.Equal(t, [2]int{}, g.LastCast())

	g.turn = 2
	setTurn(g, TaskEndTurn, [2]int{1, 2})
	assert.True(t, g.EndTurn())
	assert.Equal(t, 0, g.Turn())
}

func TestBankruptEvent(t *testing.T) {
	g := newTestGame(t, 2)
	var bankrupt []int
	g.AddListener(ListenerFunc(func(e Event, _ uint64) {
		if b, ok := e.(BankruptEvent); ok {
			bankrupt = append(bankrupt, b.Player)
		}
	}))
	g.players[0].Wealth = 50
	g.players[0].Piece.Position = 4
	setTurn(g, TaskPayTax, [2]int{1, 3})

	assert.True(t, g.PayTax())
	p, _ := g.Player(0)
	assert.Equal(t, int64(-150), p.Wealth)
	assert.Equal(t, []int{0}, bankrupt)
}

func TestPerform(t *testing.T) {
	g := newTestGame(t, 2)

	assert.False(t, g.Perform(Intent{Player: 1, Action: ActionCastDice}), "not their turn")
	assert.True(t, g.Perform(Intent{Player: 0, Action: ActionCastDice}))
	assert.False(t, g.Perform(Intent{Player: 0, Action: ActionCastDice}), "already cast")
	assert.False(t, g.Perform(Intent{Player: 0, Action: "dance"}))
	assert.True(t, g.Perform(Intent{Player: 0, Action: ActionMovePiece}))

	replica, err := FromSnapshot(g.Snapshot())
	require.NoError(t, err)
	assert.False(t, replica.Perform(Intent{Player: 0, Action: ActionEndTurn}), "replicas never run commands")
}
