package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jdelgato/chatgate/internal/domain"
)

// timeLayout stores millisecond precision so descending order stays stable
// under concurrent writes.
const timeLayout = "2006-01-02 15:04:05.000"

// ExchangeStore persists completed chat exchanges. It is the single source
// of truth for exchange history; it is safe for concurrent use via
// database/sql's connection pooling.
type ExchangeStore struct {
	db *DB
}

// NewExchangeStore creates an exchange store using the given database.
func NewExchangeStore(db *DB) *ExchangeStore {
	return &ExchangeStore{db: db}
}

// Append inserts one exchange record with a server-assigned timestamp and
// returns it. Storage errors always propagate to the caller; whether a
// failure aborts the surrounding chat request is the endpoint's policy
// decision, not the store's.
func (s *ExchangeStore) Append(ctx context.Context, sessionID, query, response string) (domain.Exchange, error) {
	now := time.Now().UTC()

	res, err := s.db.sql.ExecContext(ctx,
		`INSERT INTO exchanges (session_id, created_at, query, response)
		 VALUES (?, ?, ?, ?)`,
		sessionID, now.Format(timeLayout), query, response,
	)
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("inserting exchange: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("reading insert id: %w", err)
	}

	return domain.Exchange{
		ID:        id,
		SessionID: sessionID,
		CreatedAt: now,
		Query:     query,
		Response:  response,
	}, nil
}

// ListAll returns all exchanges ordered by timestamp descending.
func (s *ExchangeStore) ListAll(ctx context.Context) ([]domain.Exchange, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT id, session_id, created_at, query, response
		 FROM exchanges ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing exchanges: %w", err)
	}
	defer rows.Close()

	return scanExchanges(rows)
}

// ListBySession returns the exchanges for one session identity, ordered by
// timestamp descending.
func (s *ExchangeStore) ListBySession(ctx context.Context, sessionID string) ([]domain.Exchange, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT id, session_id, created_at, query, response
		 FROM exchanges WHERE session_id = ? ORDER BY created_at DESC, id DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing exchanges for session: %w", err)
	}
	defer rows.Close()

	return scanExchanges(rows)
}

// DeleteAll irreversibly removes every exchange record and returns the
// number of rows deleted.
func (s *ExchangeStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.sql.ExecContext(ctx, `DELETE FROM exchanges`)
	if err != nil {
		return 0, fmt.Errorf("deleting exchanges: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted exchanges: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanExchanges(rows rowScanner) ([]domain.Exchange, error) {
	exchanges := []domain.Exchange{}
	for rows.Next() {
		var ex domain.Exchange
		var createdAt string
		if err := rows.Scan(&ex.ID, &ex.SessionID, &createdAt, &ex.Query, &ex.Response); err != nil {
			return nil, fmt.Errorf("scanning exchange: %w", err)
		}
		ts, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			// Rows written by SQLite's own default use the same layout;
			// anything else is a schema violation worth surfacing.
			return nil, fmt.Errorf("parsing exchange timestamp %q: %w", createdAt, err)
		}
		ex.CreatedAt = ts.UTC()
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exchanges: %w", err)
	}
	return exchanges, nil
}
