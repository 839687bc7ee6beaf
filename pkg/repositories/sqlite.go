package repositories

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	sqlJournal
}

// NewSQLiteRepository opens the database at path and applies the migrations
// found in the migrations directory.
func NewSQLiteRepository(ctx context.Context, path string, migrations string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// a single connection serializes writers and keeps :memory: databases alive
	db.SetMaxOpenConns(1)

	r := &SQLiteRepository{sqlJournal{db: db}}
	if err := r.migrate(ctx, migrations); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}
