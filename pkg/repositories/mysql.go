package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

type MySQLRepository struct {
	sqlJournal
}

// NewMySQLRepository connects with a go-sql-driver DSN such as
// user:password@tcp(localhost:3306)/monopoly.
func NewMySQLRepository(ctx context.Context, dsn string, migrations string) (*MySQLRepository, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MySQL DSN: %v", err)
	}
	cfg.MultiStatements = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create MySQL connector: %v", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL: %v", err)
	}

	r := &MySQLRepository{sqlJournal{db: db}}
	if err := r.migrate(ctx, migrations); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *MySQLRepository) Close(ctx context.Context) error {
	return r.db.Close()
}
