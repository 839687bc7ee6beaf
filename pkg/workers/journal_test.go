package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mocks "github.com/cbodonnell/monopoly/mocks/github.com/cbodonnell/monopoly/pkg/repositories"
	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestJournalWorkerHandleEvent(t *testing.T) {
	w := NewJournalWorker(NewJournalWorkerOptions{MatchID: "m1"})

	w.HandleEvent(game.PieceMovedEvent{Player: 0, Position: 4}, 1)
	w.HandleEvent(game.TurnEndedEvent{Player: 0, Turn: 1}, 0xabc)
	w.HandleEvent(game.TurnEndedEvent{Player: 1, Turn: 0}, 0xdef)

	require.Len(t, w.entryChan, 2)
	first := <-w.entryChan
	second := <-w.entryChan
	assert.Equal(t, "m1", first.MatchID)
	assert.Equal(t, int64(1), first.Round)
	assert.Equal(t, 0, first.Player)
	assert.Equal(t, 1, first.NextTurn)
	assert.Equal(t, uint64(0xabc), first.Fingerprint)
	assert.Equal(t, int64(2), second.Round)
	assert.Equal(t, 1, second.Player)
	assert.Equal(t, 0, second.NextTurn)
}

func TestJournalWorkerDropsWhenLagging(t *testing.T) {
	w := NewJournalWorker(NewJournalWorkerOptions{MatchID: "m1", ChannelSize: 1})

	w.HandleEvent(game.TurnEndedEvent{Player: 0, Turn: 1}, 1)
	w.HandleEvent(game.TurnEndedEvent{Player: 1, Turn: 0}, 2)

	require.Len(t, w.entryChan, 1)
	// the dropped round still counts
	w.HandleEvent(game.TurnEndedEvent{Player: 0, Turn: 1}, 3)
	assert.Equal(t, int64(3), w.round)
}

func TestJournalWorkerFlushesFullBatch(t *testing.T) {
	repo := mocks.NewRepository(t)
	saved := make(chan []*models.JournalEntry, 1)
	repo.EXPECT().SaveJournalEntries(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, entries []*models.JournalEntry) {
			saved <- entries
		}).
		Return(nil).Once()

	w := NewJournalWorker(NewJournalWorkerOptions{Repository: repo, MatchID: "m1", BatchSize: 3, Interval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Start(ctx)
	}()

	for i := 0; i < 3; i++ {
		w.HandleEvent(game.TurnEndedEvent{Player: i % 2, Turn: (i + 1) % 2}, uint64(i))
	}

	select {
	case entries := <-saved:
		require.Len(t, entries, 3)
		for i, entry := range entries {
			assert.Equal(t, int64(i+1), entry.Round)
		}
	case <-time.After(time.Second):
		t.Fatal("batch was not saved")
	}

	cancel()
	wg.Wait()
}

func TestJournalWorkerFlushesOnShutdown(t *testing.T) {
	repo := mocks.NewRepository(t)
	repo.EXPECT().SaveJournalEntries(mock.Anything, mock.MatchedBy(func(entries []*models.JournalEntry) bool {
		return len(entries) == 2
	})).Return(nil).Once()

	w := NewJournalWorker(NewJournalWorkerOptions{Repository: repo, MatchID: "m1", Interval: time.Hour})
	w.HandleEvent(game.TurnEndedEvent{Player: 0, Turn: 1}, 1)
	w.HandleEvent(game.TurnEndedEvent{Player: 1, Turn: 0}, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)

	assert.Empty(t, w.pending)
}

func TestJournalWorkerKeepsEntriesAfterFailedSave(t *testing.T) {
	repo := mocks.NewRepository(t)
	repo.EXPECT().SaveJournalEntries(mock.Anything, mock.Anything).Return(errors.New("database is down")).Once()
	repo.EXPECT().SaveJournalEntries(mock.Anything, mock.MatchedBy(func(entries []*models.JournalEntry) bool {
		return len(entries) == 2
	})).Return(nil).Once()

	w := NewJournalWorker(NewJournalWorkerOptions{Repository: repo, MatchID: "m1"})
	w.pending = []*models.JournalEntry{{MatchID: "m1", Round: 1}}

	w.flush(context.Background())
	require.Len(t, w.pending, 1)

	w.pending = append(w.pending, &models.JournalEntry{MatchID: "m1", Round: 2})
	w.flush(context.Background())
	assert.Empty(t, w.pending)
}
