package store_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briefd/briefd/internal/profile"
	"github.com/briefd/briefd/store"
	"github.com/briefd/briefd/store/db/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dataDir := t.TempDir()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		Data:   dataDir,
		DSN:    filepath.Join(dataDir, "briefd_test.db"),
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)

	s := store.New(driver, p)
	t.Cleanup(func() {
		_ = s.Close()
	})

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestIsInitialized(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		Data:   dataDir,
		DSN:    filepath.Join(dataDir, "briefd_test.db"),
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	s := store.New(driver, p)
	defer s.Close()

	initialized, err := s.IsInitialized(ctx)
	require.NoError(t, err)
	assert.False(t, initialized, "fresh database should not be initialized")

	require.NoError(t, s.Migrate(ctx))

	initialized, err = s.IsInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, initialized)
}

func TestExchangeLogOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.Acquire(ctx)
	require.NoError(t, err)
	defer sess.Close()

	const n = 5
	for i := 1; i <= n; i++ {
		created, err := sess.CreateExchange(ctx, &store.CreateExchange{
			Prompt:   fmt.Sprintf("prompt %d", i),
			Response: fmt.Sprintf("summary %d", i),
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("prompt %d", i), created.Prompt)
		assert.Equal(t, fmt.Sprintf("summary %d", i), created.Response)

		// The exchange submitted last must appear first in the very next read.
		exchanges, err := sess.ListExchanges(ctx)
		require.NoError(t, err)
		require.Len(t, exchanges, i)
		assert.Equal(t, created.ID, exchanges[0].ID)
	}

	exchanges, err := sess.ListExchanges(ctx)
	require.NoError(t, err)
	require.Len(t, exchanges, n)
	for i := 1; i < len(exchanges); i++ {
		assert.Greater(t, exchanges[i-1].ID, exchanges[i].ID, "ids must be strictly descending")
	}
}

func TestClearExchanges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.Acquire(ctx)
	require.NoError(t, err)
	defer sess.Close()

	for i := 0; i < 2; i++ {
		_, err := sess.CreateExchange(ctx, &store.CreateExchange{
			Prompt:   "some text",
			Response: "a summary",
		})
		require.NoError(t, err)
	}

	require.NoError(t, sess.ClearExchanges(ctx))

	exchanges, err := sess.ListExchanges(ctx)
	require.NoError(t, err)
	assert.Empty(t, exchanges)

	// Clearing an already empty log is fine.
	require.NoError(t, sess.ClearExchanges(ctx))
}

func TestIdleReadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.Acquire(ctx)
	require.NoError(t, err)
	defer sess.Close()

	_, err = sess.CreateExchange(ctx, &store.CreateExchange{Prompt: "p", Response: "r"})
	require.NoError(t, err)

	first, err := sess.ListExchanges(ctx)
	require.NoError(t, err)
	second, err := sess.ListExchanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.Acquire(ctx)
	require.NoError(t, err)

	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close(), "double close must be a no-op")
}

// Concurrent requests each hold their own session; ids stay strictly
// increasing across writers.
func TestConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	done := make(chan error, 2)
	for w := 0; w < 2; w++ {
		go func(w int) {
			sess, err := s.Acquire(ctx)
			if err != nil {
				done <- err
				return
			}
			defer sess.Close()
			for i := 0; i < 10; i++ {
				if _, err := sess.CreateExchange(ctx, &store.CreateExchange{
					Prompt:   fmt.Sprintf("writer %d prompt %d", w, i),
					Response: "summary",
				}); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}(w)
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, <-done)
	}

	sess, err := s.Acquire(ctx)
	require.NoError(t, err)
	defer sess.Close()

	exchanges, err := sess.ListExchanges(ctx)
	require.NoError(t, err)
	require.Len(t, exchanges, 20)
	for i := 1; i < len(exchanges); i++ {
		assert.Greater(t, exchanges[i-1].ID, exchanges[i].ID)
	}
}

// Migrate drops existing content: it is the administrative reset.
func TestMigrateDropsExistingRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.Acquire(ctx)
	require.NoError(t, err)
	_, err = sess.CreateExchange(ctx, &store.CreateExchange{Prompt: "p", Response: "r"})
	require.NoError(t, err)
	require.NoError(t, sess.Close())

	require.NoError(t, s.Migrate(ctx))

	sess, err = s.Acquire(ctx)
	require.NoError(t, err)
	defer sess.Close()
	exchanges, err := sess.ListExchanges(ctx)
	require.NoError(t, err)
	assert.Empty(t, exchanges)
}
