package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	g := newTestGame(t, 3)
	g.addPossession(1, 5)
	g.addPossession(0, 1)
	g.addPossession(0, 3)
	g.setHouses(1, 3)
	g.keepCard(2, CardRef{Deck: DeckCommunityChest, Index: 4})
	g.decks[DeckChance].Draw()
	h := setTurn(g, TaskFollowCard, [2]int{4, 5})
	h.drawn = &CardRef{Deck: DeckChance, Index: 3}
	g.publish()

	data, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)
	var s Snapshot
	require.NoError(t, json.Unmarshal(data, &s))

	replica, err := FromSnapshot(&s)
	require.NoError(t, err)
	assert.False(t, replica.Authoritative())
	assert.Equal(t, g.Fingerprint(), replica.Fingerprint())
	assert.Equal(t, 3, replica.HousesOn(1))
	assert.Equal(t, 1, replica.Owner(5))
	assert.Equal(t, TaskFollowCard, replica.NextTask())
	_, ref, ok := replica.DrawnCard()
	require.True(t, ok)
	assert.Equal(t, CardRef{Deck: DeckChance, Index: 3}, ref)

	assert.Equal(t, [2]int{}, replica.CastDice(), "replicas have no dice")
	assert.False(t, replica.FollowCard())
	assert.Equal(t, g.Fingerprint(), replica.Fingerprint())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	g := newTestGame(t, 2)
	s := g.Snapshot()
	s.Players[0].Wealth = 1
	s.Board.Fields[1].Rents[0] = 999
	s.Decks[0].Order[0] = -1

	p, _ := g.Player(0)
	assert.Equal(t, int64(1500), p.Wealth)
	assert.Equal(t, int64(2), g.Board().Fields[1].Rents[0])
	assert.Equal(t, g.Fingerprint(), newTestGame(t, 2).Fingerprint())
}

func TestRestoreRejectsInvalidSnapshots(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{name: "no board", mutate: func(s *Snapshot) { s.Board = nil }},
		{name: "no players", mutate: func(s *Snapshot) { s.Players = nil }},
		{name: "turn out of range", mutate: func(s *Snapshot) { s.Turn = 5 }},
		{name: "position off board", mutate: func(s *Snapshot) { s.Players[0].Piece.Position = 40 }},
		{name: "non-buyable possession", mutate: func(s *Snapshot) { s.Players[0].Possessions = []int{0} }},
		{name: "field owned twice", mutate: func(s *Snapshot) {
			s.Players[0].Possessions = []int{1}
			s.Players[1].Possessions = []int{1}
		}},
		{name: "non-keepable card", mutate: func(s *Snapshot) { s.Players[0].KeptCards = []CardRef{{DeckChance, 0}} }},
		{name: "houses on railroad", mutate: func(s *Snapshot) { s.Houses = map[int]int{5: 1} }},
		{name: "too many houses", mutate: func(s *Snapshot) { s.Houses = map[int]int{1: 6} }},
		{name: "missing deck", mutate: func(s *Snapshot) { s.Decks = s.Decks[:1] }},
		{name: "deck order not a permutation", mutate: func(s *Snapshot) { s.Decks[0].Order[0] = s.Decks[0].Order[1] }},
		{name: "turn state of another player", mutate: func(s *Snapshot) { s.TurnState = &TurnState{Turn: 1} }},
		{name: "unknown task", mutate: func(s *Snapshot) { s.TurnState = &TurnState{Task: 42} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 2)
			before := g.Fingerprint()
			s := g.Snapshot()
			tt.mutate(s)
			assert.Error(t, g.Restore(s))
			assert.Equal(t, before, g.Fingerprint(), "failed restore leaves the game untouched")

			_, err := FromSnapshot(s)
			assert.Error(t, err)
		})
	}
}

func TestRestoreKeepsListeners(t *testing.T) {
	g := newTestGame(t, 2)
	var events []Event
	g.AddListener(ListenerFunc(func(e Event, _ uint64) { events = append(events, e) }))

	other := newTestGame(t, 2)
	other.players[1].Wealth = 10
	require.NoError(t, g.Restore(other.Snapshot()))
	assert.Equal(t, []Event{RestoredEvent{}}, events)

	require.NoError(t, g.ApplyWealthChanged(0, 1))
	assert.Len(t, events, 2)
	assert.True(t, g.Authoritative(), "restoring keeps the random source")
}

func TestApplyRejectsInvalidUpdates(t *testing.T) {
	g := newTestGame(t, 2)
	tests := []struct {
		name  string
		apply func() error
	}{
		{name: "unknown player", apply: func() error { return g.ApplyWealthChanged(7, 1) }},
		{name: "position off board", apply: func() error { return g.ApplyPieceMoved(0, 40) }},
		{name: "negative jail", apply: func() error { return g.ApplyJailChanged(0, -1) }},
		{name: "non-buyable field", apply: func() error { return g.ApplyPropertyObtained(0, 0) }},
		{name: "non-keepable card", apply: func() error { return g.ApplyCardKept(0, CardRef{DeckChance, 0}) }},
		{name: "card not kept", apply: func() error { return g.ApplyCardUsed(0, CardRef{DeckChance, 8}) }},
		{name: "houses on railroad", apply: func() error { return g.ApplyHouseCountChanged(5, 1) }},
		{name: "house count too high", apply: func() error { return g.ApplyHouseCountChanged(1, 6) }},
		{name: "unknown deck", apply: func() error { return g.ApplyCardDrawn("Nope") }},
		{name: "unknown task", apply: func() error { return g.ApplyTurnStateChanged(TurnState{Task: 42}) }},
		{name: "unknown drawn card", apply: func() error {
			return g.ApplyTurnStateChanged(TurnState{Task: TaskFollowCard, Drawn: &CardRef{DeckChance, 99}})
		}},
		{name: "turn out of range", apply: func() error { return g.ApplyTurnEnded(0, 2) }},
	}
	before := g.Fingerprint()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.apply()
			require.Error(t, err)
			assert.True(t, IsInvalidUpdate(err))
		})
	}
	assert.Equal(t, before, g.Fingerprint())
}
