package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbodonnell/monopoly/pkg/log"
	"github.com/cbodonnell/monopoly/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
)

// PostgresRepository shares one connection, which pgx does not allow to be
// used concurrently.
type PostgresRepository struct {
	conn *pgx.Conn
	lock sync.Mutex
}

// NewPostgresRepository connects to the database and applies the migrations
// found in the migrations directory.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (*PostgresRepository, error) {
	conn, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}

	r := &PostgresRepository{conn: conn}
	if err := r.migrate(ctx, migrations); err != nil {
		conn.Close(ctx)
		return nil, err
	}
	return r, nil
}

func connectDb(ctx context.Context, connStr string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return conn, nil
}

func (r *PostgresRepository) migrate(ctx context.Context, dir string) error {
	migrations, err := readMigrations(dir)
	if err != nil {
		return err
	}
	for i, migration := range migrations {
		if _, err := r.conn.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %d in %s: %v", i+1, dir, err)
		}
	}
	return nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveJournalEntries(ctx context.Context, entries []*models.JournalEntry) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
		INSERT INTO journal (match_id, round, player, next_turn, fingerprint, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6);
		`, e.MatchID, e.Round, e.Player, e.NextTurn, formatFingerprint(e.Fingerprint), e.Timestamp)
	}

	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert journal entries: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *PostgresRepository) ListJournalEntries(ctx context.Context, matchID string, limit int) ([]*models.JournalEntry, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	q := `
	SELECT match_id, round, player, next_turn, fingerprint, timestamp
	FROM journal WHERE match_id = $1 ORDER BY round DESC
	`
	args := []interface{}{matchID}
	if limit > 0 {
		q += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %v", err)
	}
	defer rows.Close()

	entries := []*models.JournalEntry{}
	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %v", err)
	}

	reverse(entries)
	return entries, nil
}

func (r *PostgresRepository) LatestJournalEntry(ctx context.Context, matchID string) (*models.JournalEntry, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	q := `
	SELECT match_id, round, player, next_turn, fingerprint, timestamp
	FROM journal WHERE match_id = $1 ORDER BY round DESC LIMIT 1;
	`
	rows, err := r.conn.Query(ctx, q, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read journal: %v", err)
		}
		return nil, &ErrNotFound{}
	}
	return scanJournalEntry(rows)
}
