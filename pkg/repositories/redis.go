package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/monopoly/pkg/log"
	"github.com/cbodonnell/monopoly/pkg/repositories/models"
	"github.com/go-redis/redis/v8"
)

// RedisRepository keeps the journal of every match in a list of JSON entries.
type RedisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(ctx context.Context, url string) (*RedisRepository, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}
	log.Info("Connected to Redis at %s", opts.Addr)

	return &RedisRepository{rdb: rdb}, nil
}

func journalKey(matchID string) string {
	return "journal:" + matchID
}

func (r *RedisRepository) Close(ctx context.Context) error {
	return r.rdb.Close()
}

func (r *RedisRepository) SaveJournalEntries(ctx context.Context, entries []*models.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	pipe := r.rdb.TxPipeline()
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal journal entry: %v", err)
		}
		pipe.RPush(ctx, journalKey(e.MatchID), data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push journal entries: %v", err)
	}

	return nil
}

func (r *RedisRepository) ListJournalEntries(ctx context.Context, matchID string, limit int) ([]*models.JournalEntry, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	values, err := r.rdb.LRange(ctx, journalKey(matchID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %v", err)
	}

	entries := make([]*models.JournalEntry, 0, len(values))
	for _, value := range values {
		e := &models.JournalEntry{}
		if err := json.Unmarshal([]byte(value), e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal journal entry: %v", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *RedisRepository) LatestJournalEntry(ctx context.Context, matchID string) (*models.JournalEntry, error) {
	value, err := r.rdb.LIndex(ctx, journalKey(matchID), -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to read journal: %v", err)
	}

	e := &models.JournalEntry{}
	if err := json.Unmarshal([]byte(value), e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal entry: %v", err)
	}
	return e, nil
}
