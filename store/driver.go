package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all the database operations the exchange log needs.
// Exchange operations run on an explicit *sql.Conn so callers control the
// request-scoped connection lifecycle.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// IsInitialized reports whether the schema has been applied.
	IsInitialized(ctx context.Context) (bool, error)

	// Migrate drops and recreates the exchange table. Administrative
	// operation; never run as part of steady-state request handling.
	Migrate(ctx context.Context) error

	CreateExchange(ctx context.Context, conn *sql.Conn, create *CreateExchange) (*Exchange, error)
	ListExchanges(ctx context.Context, conn *sql.Conn) ([]*Exchange, error)
	ClearExchanges(ctx context.Context, conn *sql.Conn) error
}
