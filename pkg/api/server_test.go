package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	mocks "github.com/cbodonnell/monopoly/mocks/github.com/cbodonnell/monopoly/pkg/repositories"
	"github.com/cbodonnell/monopoly/pkg/api/handlers"
	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/network"
	"github.com/cbodonnell/monopoly/pkg/repositories"
	"github.com/cbodonnell/monopoly/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.NewGame(game.NewGameOptions{
		Board:   game.StandardBoard(),
		Players: []game.NewPlayerOptions{{Name: "player-1"}, {Name: "player-2"}},
		Seed:    7,
	})
	require.NoError(t, err)
	return g
}

func newTestHandler(t *testing.T, g *game.Game, cm *network.ConnectionManager, repo repositories.Repository) http.Handler {
	t.Helper()
	if cm == nil {
		cm = network.NewConnectionManager()
	}
	return NewHandler(NewAPIServerOptions{
		AllowOrigins: []string{"http://localhost:3000"},
		MatchID:      "match-1",
		Game:         g,
		Connections:  cm,
		Repository:   repo,
	})
}

func get(t *testing.T, h http.Handler, target string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestGetMatch(t *testing.T) {
	g := newTestGame(t)
	h := newTestHandler(t, g, nil, nil)

	var status handlers.MatchStatus
	rec := get(t, h, "/match", &status)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "match-1", status.MatchID)
	assert.Equal(t, 0, status.Turn)
	assert.Equal(t, game.TaskTurnFinished.String(), status.Task)
	assert.Len(t, status.Fingerprint, 16)
	require.Len(t, status.Players, 2)
	assert.Equal(t, "player-2", status.Players[1].Name)
	assert.Equal(t, game.StandardBoard().StartMoney, status.Players[0].Wealth)

	cast := g.CastDice()
	state, ok := g.TurnState()
	require.True(t, ok)

	rec = get(t, h, "/match", &status)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, state.Task.String(), status.Task)
	assert.Equal(t, cast, status.LastCast)
}

func TestGetSnapshot(t *testing.T) {
	g := newTestGame(t)
	h := newTestHandler(t, g, nil, nil)

	var snapshot game.Snapshot
	rec := get(t, h, "/match/snapshot", &snapshot)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, snapshot.Players, 2)
	assert.NotEmpty(t, snapshot.Decks)

	replica, err := game.FromSnapshot(&snapshot)
	require.NoError(t, err)
	assert.Equal(t, rec.Header().Get("X-Fingerprint"), fmt.Sprintf("%016x", replica.Fingerprint()))
}

func TestListConnections(t *testing.T) {
	cm := network.NewConnectionManager()
	local, remote := net.Pipe()
	defer local.Close()
	defer remote.Close()
	cm.Add(network.NewConnection(network.NewConnectionOptions{ID: "conn-1", Channel: network.NewTCPChannel(local)}))

	h := newTestHandler(t, newTestGame(t), cm, nil)

	var list []handlers.ConnectionStatus
	rec := get(t, h, "/connections", &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)
	assert.Equal(t, "conn-1", list[0].ID)
}

func TestListJournal(t *testing.T) {
	entries := []*models.JournalEntry{
		{MatchID: "match-1", Round: 1, Player: 0, NextTurn: 1, Fingerprint: 0xff},
		{MatchID: "match-1", Round: 2, Player: 1, NextTurn: 0, Fingerprint: 1 << 63},
	}

	tests := []struct {
		name      string
		target    string
		setup     func(repo *mocks.Repository)
		noRepo    bool
		wantCode  int
		wantCount int
	}{
		{
			name:   "default limit",
			target: "/journal",
			setup: func(repo *mocks.Repository) {
				repo.EXPECT().ListJournalEntries(mock.Anything, "match-1", 100).Return(entries, nil).Once()
			},
			wantCode:  http.StatusOK,
			wantCount: 2,
		},
		{
			name:   "limit is capped",
			target: "/journal?limit=5000",
			setup: func(repo *mocks.Repository) {
				repo.EXPECT().ListJournalEntries(mock.Anything, "match-1", handlers.MaxJournalLimit).Return(entries[:1], nil).Once()
			},
			wantCode:  http.StatusOK,
			wantCount: 1,
		},
		{
			name:     "invalid limit",
			target:   "/journal?limit=zero",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "negative limit",
			target:   "/journal?limit=-1",
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "repository error",
			target: "/journal",
			setup: func(repo *mocks.Repository) {
				repo.EXPECT().ListJournalEntries(mock.Anything, "match-1", 100).Return(nil, errors.New("boom")).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name:     "journal disabled",
			target:   "/journal",
			noRepo:   true,
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var repo repositories.Repository
			if !tt.noRepo {
				mockRepo := mocks.NewRepository(t)
				if tt.setup != nil {
					tt.setup(mockRepo)
				}
				repo = mockRepo
			}
			h := newTestHandler(t, newTestGame(t), nil, repo)

			var list []handlers.JournalEntry
			rec := get(t, h, tt.target, &list)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Len(t, list, tt.wantCount)
				assert.Equal(t, "00000000000000ff", list[0].Fingerprint)
			}
		})
	}
}

func TestGetLatestJournalEntry(t *testing.T) {
	repo := mocks.NewRepository(t)
	repo.EXPECT().LatestJournalEntry(mock.Anything, "match-1").
		Return(nil, &repositories.ErrNotFound{}).Once()
	repo.EXPECT().LatestJournalEntry(mock.Anything, "match-1").
		Return(&models.JournalEntry{MatchID: "match-1", Round: 7, Player: 1, NextTurn: 0, Fingerprint: 0xabc}, nil).Once()
	h := newTestHandler(t, newTestGame(t), nil, repo)

	rec := get(t, h, "/journal/latest", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var entry handlers.JournalEntry
	rec = get(t, h, "/journal/latest", &entry)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), entry.Round)
	assert.Equal(t, "0000000000000abc", entry.Fingerprint)
}

func TestVersionAndMethods(t *testing.T) {
	h := newTestHandler(t, newTestGame(t), nil, nil)

	var v map[string]string
	rec := get(t, h, "/version", &v)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", v["version"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/match", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = get(t, h, "/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	h := newTestHandler(t, newTestGame(t), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
