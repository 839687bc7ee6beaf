package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cbodonnell/monopoly/pkg/repositories/models"
)

// sqlJournal implements the journal on database/sql drivers that use ?
// placeholders.
type sqlJournal struct {
	db *sql.DB
}

func (j *sqlJournal) migrate(ctx context.Context, dir string) error {
	migrations, err := readMigrations(dir)
	if err != nil {
		return err
	}
	for i, migration := range migrations {
		if _, err := j.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %d in %s: %v", i+1, dir, err)
		}
	}
	return nil
}

func (j *sqlJournal) SaveJournalEntries(ctx context.Context, entries []*models.JournalEntry) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	q := `
	INSERT INTO journal (match_id, round, player, next_turn, fingerprint, timestamp)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	for _, e := range entries {
		_, err := tx.ExecContext(ctx, q, e.MatchID, e.Round, e.Player, e.NextTurn, formatFingerprint(e.Fingerprint), e.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to insert journal entry: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (j *sqlJournal) ListJournalEntries(ctx context.Context, matchID string, limit int) ([]*models.JournalEntry, error) {
	q := `
	SELECT match_id, round, player, next_turn, fingerprint, timestamp
	FROM journal WHERE match_id = ? ORDER BY round DESC
	`
	args := []interface{}{matchID}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
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

func (j *sqlJournal) LatestJournalEntry(ctx context.Context, matchID string) (*models.JournalEntry, error) {
	q := `
	SELECT match_id, round, player, next_turn, fingerprint, timestamp
	FROM journal WHERE match_id = ? ORDER BY round DESC LIMIT 1;
	`
	e, err := scanJournalEntry(j.db.QueryRowContext(ctx, q, matchID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, err
	}
	return e, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJournalEntry(row scanner) (*models.JournalEntry, error) {
	e := &models.JournalEntry{}
	var fingerprint string
	if err := row.Scan(&e.MatchID, &e.Round, &e.Player, &e.NextTurn, &fingerprint, &e.Timestamp); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan journal entry: %v", err)
	}
	f, err := parseFingerprint(fingerprint)
	if err != nil {
		return nil, err
	}
	e.Fingerprint = f
	return e, nil
}

func reverse(entries []*models.JournalEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
