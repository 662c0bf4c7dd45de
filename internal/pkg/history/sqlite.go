package history

import (
	"context"
	"database/sql"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/pkg/errors"

	"github.com/ofirzvishaboo/mcp-server/internal/pkg/scrape"
)

// product_key holds the case-folded product name; SQLite's NOCASE
// collation only folds ASCII, so the fold happens in Go instead.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	product     TEXT NOT NULL,
	product_key TEXT NOT NULL,
	quotes      TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_product_key_created_at ON runs (product_key, created_at);
`

// SQLiteStore persists runs in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures
// the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open history database %s failed", path)
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent tool calls.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create history schema failed")
	}
	return &SQLiteStore{db: db}, nil
}

// Record inserts a run.
func (s *SQLiteStore) Record(ctx context.Context, product string, quotes []scrape.Quote) (Run, error) {
	run := Run{
		ID:        uuid.New(),
		Product:   product,
		Quotes:    quotes,
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(run.Quotes)
	if err != nil {
		return Run{}, errors.Wrap(err, "marshal quotes failed")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, product, product_key, quotes, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID.String(), run.Product, productKey(run.Product), string(payload), run.CreatedAt,
	)
	if err != nil {
		return Run{}, errors.Wrap(err, "insert run failed")
	}
	return run, nil
}

// Recent returns up to limit runs for the product, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, product string, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product, quotes, created_at FROM runs
		 WHERE product_key = ?
		 ORDER BY created_at DESC LIMIT ?`,
		productKey(product), limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query runs failed")
	}
	defer rows.Close() // nolint: errcheck

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			id      string
			payload string
		)
		if err := rows.Scan(&id, &run.Product, &payload, &run.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan run failed")
		}
		run.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, errors.Wrap(err, "parse run id failed")
		}
		if err := json.Unmarshal([]byte(payload), &run.Quotes); err != nil {
			return nil, errors.Wrap(err, "unmarshal quotes failed")
		}
		runs = append(runs, run)
	}
	return runs, errors.Wrap(rows.Err(), "iterate runs failed")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return errors.Wrap(s.db.Close(), "close history database failed")
}
