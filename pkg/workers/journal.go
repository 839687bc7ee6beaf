package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/log"
	"github.com/cbodonnell/monopoly/pkg/repositories"
	"github.com/cbodonnell/monopoly/pkg/repositories/models"
)

const (
	DefaultJournalInterval    = 5 * time.Second
	DefaultJournalBatchSize   = 64
	DefaultJournalChannelSize = 1024
)

// JournalWorker records every finished turn of a match and saves the
// records to the repository in batches.
type JournalWorker struct {
	repository repositories.Repository
	matchID    string
	entryChan  chan *models.JournalEntry
	interval   time.Duration
	batchSize  int
	// round is only touched from HandleEvent, which the game serializes
	round   int64
	pending []*models.JournalEntry
}

type NewJournalWorkerOptions struct {
	Repository  repositories.Repository
	MatchID     string
	Interval    time.Duration
	BatchSize   int
	ChannelSize int
}

// NewJournalWorker creates a new JournalWorker. Subscribe it to the game
// with AddListener and run Start to save what it collects.
func NewJournalWorker(opts NewJournalWorkerOptions) *JournalWorker {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultJournalInterval
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultJournalBatchSize
	}
	channelSize := opts.ChannelSize
	if channelSize <= 0 {
		channelSize = DefaultJournalChannelSize
	}
	return &JournalWorker{
		repository: opts.Repository,
		matchID:    opts.MatchID,
		entryChan:  make(chan *models.JournalEntry, channelSize),
		interval:   interval,
		batchSize:  batchSize,
	}
}

// HandleEvent turns a TurnEndedEvent into a journal entry. It runs under the
// game lock and never blocks; entries are dropped when the worker lags.
func (w *JournalWorker) HandleEvent(event game.Event, fingerprint uint64) {
	e, ok := event.(game.TurnEndedEvent)
	if !ok {
		return
	}
	w.round++
	entry := &models.JournalEntry{
		MatchID:     w.matchID,
		Round:       w.round,
		Player:      e.Player,
		NextTurn:    e.Turn,
		Fingerprint: fingerprint,
		Timestamp:   time.Now().UnixMilli(),
	}
	select {
	case w.entryChan <- entry:
	default:
		log.Warn("Journal is lagging, dropped round %d of match %s", entry.Round, w.matchID)
	}
}

func (w *JournalWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.drain()
			w.flush(context.Background())
			return
		case entry := <-w.entryChan:
			w.pending = append(w.pending, entry)
			if len(w.pending) >= w.batchSize {
				w.flush(ctx)
			}
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *JournalWorker) drain() {
	for {
		select {
		case entry := <-w.entryChan:
			w.pending = append(w.pending, entry)
		default:
			return
		}
	}
}

func (w *JournalWorker) flush(ctx context.Context) {
	if len(w.pending) == 0 {
		return
	}
	if err := w.repository.SaveJournalEntries(ctx, w.pending); err != nil {
		log.Error("Failed to save %d journal entries: %v", len(w.pending), err)
		return
	}
	log.Debug("Saved %d journal entries of match %s", len(w.pending), w.matchID)
	w.pending = nil
}
