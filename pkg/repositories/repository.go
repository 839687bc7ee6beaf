package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cbodonnell/monopoly/pkg/repositories/models"
)

// Repository stores the turn journal of matches.
type Repository interface {
	Close(ctx context.Context) error
	SaveJournalEntries(ctx context.Context, entries []*models.JournalEntry) error
	// ListJournalEntries returns the last limit entries of a match, oldest
	// first. A non-positive limit returns every entry.
	ListJournalEntries(ctx context.Context, matchID string, limit int) ([]*models.JournalEntry, error)
	// LatestJournalEntry returns ErrNotFound when the match has no entries.
	LatestJournalEntry(ctx context.Context, matchID string) (*models.JournalEntry, error)
}

// NewRepository opens the backend named by the scheme of url. SQL backends
// apply the migrations found in migrationsDir/<backend>.
func NewRepository(ctx context.Context, url string, migrationsDir string) (Repository, error) {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return nil, fmt.Errorf("database url %q has no scheme", url)
	}

	switch scheme {
	case "sqlite", "sqlite3":
		return NewSQLiteRepository(ctx, rest, filepath.Join(migrationsDir, "sqlite"))
	case "postgres", "postgresql":
		return NewPostgresRepository(ctx, url, filepath.Join(migrationsDir, "postgres"))
	case "mysql":
		return NewMySQLRepository(ctx, rest, filepath.Join(migrationsDir, "mysql"))
	case "redis", "rediss":
		return NewRedisRepository(ctx, url)
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// readMigrations returns the contents of every file in dir in name order.
func readMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	var migrations []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}

		migrationPath := filepath.Join(dir, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}
		migrations = append(migrations, string(migration))
	}
	return migrations, nil
}
