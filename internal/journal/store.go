// Package journal persists a local audit trail of order mutations issued
// through the gateway. The brokerage remains the source of truth for order
// state; the journal only records what was sent and the acknowledged status.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kis-tradegw/internal/model"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS order_journal (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	action     TEXT NOT NULL,
	order_id   TEXT NOT NULL,
	stock_code TEXT NOT NULL,
	side       TEXT NOT NULL,
	method     TEXT NOT NULL,
	quantity   TEXT NOT NULL,
	price      TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_journal_created_at ON order_journal (created_at);
`

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path. Pass
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	// modernc sqlite serializes writes itself; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Record(ctx context.Context, e model.JournalEntry) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO order_journal (action, order_id, stock_code, side, method, quantity, price, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Action, e.OrderID, e.Code, e.Side, e.Method,
		e.Quantity.String(), e.Price.String(), e.Status, created,
	)
	if err != nil {
		return fmt.Errorf("record journal entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]model.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, order_id, stock_code, side, method, quantity, price, status, created_at
		FROM order_journal ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	entries := make([]model.JournalEntry, 0, limit)
	for rows.Next() {
		var e model.JournalEntry
		var qty, price string
		if err := rows.Scan(&e.ID, &e.Action, &e.OrderID, &e.Code, &e.Side, &e.Method, &qty, &price, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		e.Quantity, _ = decimal.NewFromString(qty)
		e.Price, _ = decimal.NewFromString(price)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
