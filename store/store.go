package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/briefd/briefd/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// IsInitialized reports whether the schema has been applied by init-db.
func (s *Store) IsInitialized(ctx context.Context) (bool, error) {
	return s.driver.IsInitialized(ctx)
}

// Migrate drops and recreates the exchange schema. Run by `briefd init-db`,
// out-of-band from request traffic.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

// Acquire checks a dedicated connection out of the pool for one request.
// The caller owns the returned session for the lifetime of the request and
// must Close it on every exit path; closing more than once is a no-op.
// The session is never shared across requests.
func (s *Store) Acquire(ctx context.Context) (*Session, error) {
	conn, err := s.driver.GetDB().Conn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to acquire database connection")
	}
	return &Session{conn: conn, driver: s.driver}, nil
}

// Session is a request-scoped database connection. It is threaded explicitly
// through handler calls rather than read from ambient state.
type Session struct {
	conn   *sql.Conn
	driver Driver
	closed bool
}

// Close returns the connection to the pool. Safe to call more than once.
func (sess *Session) Close() error {
	if sess.closed {
		return nil
	}
	sess.closed = true
	return sess.conn.Close()
}

// CreateExchange appends one exchange to the log. The row is durable when
// this returns without error.
func (sess *Session) CreateExchange(ctx context.Context, create *CreateExchange) (*Exchange, error) {
	return sess.driver.CreateExchange(ctx, sess.conn, create)
}

// ListExchanges returns every exchange ordered by id descending, newest
// first. The result is a snapshot taken at call time.
func (sess *Session) ListExchanges(ctx context.Context) ([]*Exchange, error) {
	return sess.driver.ListExchanges(ctx, sess.conn)
}

// ClearExchanges deletes every exchange. Durable when this returns.
func (sess *Session) ClearExchanges(ctx context.Context) error {
	return sess.driver.ClearExchanges(ctx, sess.conn)
}
