package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/log"
	"github.com/cbodonnell/monopoly/pkg/network"
	"github.com/cbodonnell/monopoly/pkg/repositories"
	"github.com/cbodonnell/monopoly/pkg/repositories/models"
	"github.com/cbodonnell/monopoly/pkg/version"
)

// MaxJournalLimit caps the number of journal entries returned at once.
const MaxJournalLimit = 1000

type PlayerStatus struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	Wealth       int64  `json:"wealth"`
	Position     int    `json:"position"`
	InJailRounds int    `json:"inJailRounds"`
	Possessions  []int  `json:"possessions"`
	Bankrupt     bool   `json:"bankrupt"`
}

type MatchStatus struct {
	MatchID     string         `json:"matchId"`
	Turn        int            `json:"turn"`
	Task        string         `json:"task"`
	LastCast    [2]int         `json:"lastCast"`
	Fingerprint string         `json:"fingerprint"`
	Players     []PlayerStatus `json:"players"`
}

type ConnectionStatus struct {
	ID         string `json:"id"`
	RemoteAddr string `json:"remoteAddr"`
}

type JournalEntry struct {
	Round       int64  `json:"round"`
	Player      int    `json:"player"`
	NextTurn    int    `json:"nextTurn"`
	Fingerprint string `json:"fingerprint"`
	Timestamp   int64  `json:"timestamp"`
}

func formatFingerprint(fingerprint uint64) string {
	return fmt.Sprintf("%016x", fingerprint)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}

// HandleGetMatch reports the turn and the players as of one consistent
// snapshot. It never starts a turn, so the task is the published one.
func HandleGetMatch(matchID string, g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status MatchStatus
		g.WithSnapshot(func(s *game.Snapshot, fingerprint uint64) {
			status = MatchStatus{
				MatchID:     matchID,
				Turn:        s.Turn,
				Task:        game.TaskTurnFinished.String(),
				Fingerprint: formatFingerprint(fingerprint),
				Players:     make([]PlayerStatus, 0, len(s.Players)),
			}
			if s.TurnState != nil {
				status.Task = s.TurnState.Task.String()
				status.LastCast = s.TurnState.LastCast
			}
			for i, p := range s.Players {
				status.Players = append(status.Players, PlayerStatus{
					Index:        i,
					Name:         p.Name,
					Wealth:       p.Wealth,
					Position:     p.Piece.Position,
					InJailRounds: p.InJailRounds,
					Possessions:  append([]int{}, p.Possessions...),
					Bankrupt:     p.Wealth < 0,
				})
			}
		})
		writeJSON(w, status)
	}
}

func HandleGetSnapshot(g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snapshot *game.Snapshot
		var fingerprint uint64
		g.WithSnapshot(func(s *game.Snapshot, fp uint64) {
			snapshot, fingerprint = s, fp
		})
		w.Header().Set("X-Fingerprint", formatFingerprint(fingerprint))
		writeJSON(w, snapshot)
	}
}

func HandleListConnections(connections *network.ConnectionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := make([]ConnectionStatus, 0, connections.Count())
		for _, c := range connections.GetConnections() {
			list = append(list, ConnectionStatus{ID: c.ID(), RemoteAddr: c.RemoteAddr()})
		}
		writeJSON(w, list)
	}
}

func HandleListJournal(repository repositories.Repository, matchID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repository == nil {
			http.Error(w, "Journal is disabled", http.StatusServiceUnavailable)
			return
		}

		limit := 100
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = parsed
		}
		if limit > MaxJournalLimit {
			limit = MaxJournalLimit
		}

		entries, err := repository.ListJournalEntries(r.Context(), matchID, limit)
		if err != nil {
			log.Error("failed to list journal entries: %v", err)
			http.Error(w, "Failed to list journal entries", http.StatusInternalServerError)
			return
		}

		list := make([]JournalEntry, 0, len(entries))
		for _, e := range entries {
			list = append(list, newJournalEntry(e))
		}
		writeJSON(w, list)
	}
}

func HandleGetLatestJournalEntry(repository repositories.Repository, matchID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repository == nil {
			http.Error(w, "Journal is disabled", http.StatusServiceUnavailable)
			return
		}

		entry, err := repository.LatestJournalEntry(r.Context(), matchID)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "No turn has been recorded yet", http.StatusNotFound)
				return
			}
			log.Error("failed to get latest journal entry: %v", err)
			http.Error(w, "Failed to get latest journal entry", http.StatusInternalServerError)
			return
		}
		writeJSON(w, newJournalEntry(entry))
	}
}

func newJournalEntry(e *models.JournalEntry) JournalEntry {
	return JournalEntry{
		Round:       e.Round,
		Player:      e.Player,
		NextTurn:    e.NextTurn,
		Fingerprint: formatFingerprint(e.Fingerprint),
		Timestamp:   e.Timestamp,
	}
}

func HandleGetVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"version": version.Get()})
	}
}
