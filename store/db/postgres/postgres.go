package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the Postgres driver.
	_ "github.com/lib/pq"

	"github.com/briefd/briefd/internal/profile"
	"github.com/briefd/briefd/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a connection to the Postgres database specified by the DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	driver := DB{db: db, profile: profile}

	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM information_schema.tables WHERE table_name = 'exchange')").Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check if database is initialized")
	}
	return exists, nil
}

// Migrate applies the exchange schema, dropping any previous table first.
// Intended to be run once by `briefd init-db` before first use.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `DROP TABLE IF EXISTS exchange`); err != nil {
		return errors.Wrap(err, "failed to drop exchange table")
	}
	stmt := `
		CREATE TABLE exchange (
			id BIGSERIAL PRIMARY KEY,
			prompt TEXT NOT NULL,
			response TEXT NOT NULL,
			created_ts BIGINT NOT NULL DEFAULT extract(epoch from now())::bigint
		)
	`
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to create exchange table")
	}
	return nil
}
