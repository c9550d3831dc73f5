package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/briefd/briefd/store"
)

// CreateExchange appends one exchange row. The insert is a single statement,
// so the row is either fully visible or absent.
func (d *DB) CreateExchange(ctx context.Context, conn *sql.Conn, create *store.CreateExchange) (*store.Exchange, error) {
	stmt := `
		INSERT INTO exchange (prompt, response)
		VALUES ($1, $2)
		RETURNING id, prompt, response, created_ts
	`
	var exchange store.Exchange
	err := conn.QueryRowContext(ctx, stmt,
		create.Prompt,
		create.Response,
	).Scan(
		&exchange.ID,
		&exchange.Prompt,
		&exchange.Response,
		&exchange.CreatedTs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create exchange")
	}
	return &exchange, nil
}

// ListExchanges returns every exchange, newest first.
func (d *DB) ListExchanges(ctx context.Context, conn *sql.Conn) ([]*store.Exchange, error) {
	query := `
		SELECT id, prompt, response, created_ts
		FROM exchange
		ORDER BY id DESC
	`
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list exchanges")
	}
	defer rows.Close()

	var exchanges []*store.Exchange
	for rows.Next() {
		var exchange store.Exchange
		err := rows.Scan(
			&exchange.ID,
			&exchange.Prompt,
			&exchange.Response,
			&exchange.CreatedTs,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan exchange")
		}
		exchanges = append(exchanges, &exchange)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exchanges, nil
}

// ClearExchanges deletes every exchange row in one statement.
func (d *DB) ClearExchanges(ctx context.Context, conn *sql.Conn) error {
	stmt := `DELETE FROM exchange`
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to clear exchanges")
	}
	return nil
}
