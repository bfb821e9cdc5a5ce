package journal

import (
	"context"
	"database/sql"
	_ "embed"

	neterrors "github.com/ClipFinance/netguard/common/errors"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// Schema creates the network_switch_outcomes table and its address index.
//
//go:embed schema.sql
var Schema string

// Journal records network guard outcomes in Postgres.
type Journal struct {
	db *sql.DB
}

// Open connects to Postgres with the provided connection string.
//
// Parameters:
// - ctx: the context for managing the connection check.
// - connStr: the database connection string.
//
// Returns:
// - *Journal: the journal.
// - error: ErrDatabaseConnect if the database is unreachable.
func Open(ctx context.Context, connStr string) (*Journal, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(neterrors.ErrDatabaseConnect, err.Error())
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(neterrors.ErrDatabaseConnect, err.Error())
	}
	return New(db), nil
}

// New wraps an existing database handle.
func New(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Close closes the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Migrate creates the outcome table if it does not exist yet.
//
// Parameters:
// - ctx: the context for managing the request.
//
// Returns:
// - error: an error if the schema cannot be applied.
func (j *Journal) Migrate(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, Schema); err != nil {
		return errors.Wrap(err, "failed to apply journal schema")
	}
	return nil
}
