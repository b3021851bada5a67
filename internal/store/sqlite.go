package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobhydra/internal/model"
)

// SQLiteSink persists matches in a local SQLite database. Unlike a sheet, the
// correlation id is stored explicitly as the row_id primary key, so ids stay
// valid even if rows are later deleted or reordered.
type SQLiteSink struct {
	db *sql.DB
}

var _ model.Sink = (*SQLiteSink)(nil)

// NewSQLiteSink opens (or creates) a SQLite database at dbPath and ensures the
// matches table exists.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS matches (
		row_id        INTEGER PRIMARY KEY,
		status        TEXT NOT NULL,
		label         TEXT NOT NULL,
		title         TEXT NOT NULL,
		company       TEXT NOT NULL,
		link          TEXT NOT NULL,
		found_at      TEXT NOT NULL,
		match_percent TEXT NOT NULL,
		suitability   TEXT NOT NULL,
		cover_letter  TEXT NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating matches table: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// LoadHistory returns every stored link and the number of stored rows.
func (s *SQLiteSink) LoadHistory(ctx context.Context) (model.History, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT link FROM matches ORDER BY row_id")
	if err != nil {
		return model.History{}, fmt.Errorf("loading stored links: %w", err)
	}
	defer rows.Close()

	var h model.History
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return model.History{}, fmt.Errorf("scanning stored link: %w", err)
		}
		h.Links = append(h.Links, link)
	}
	if err := rows.Err(); err != nil {
		return model.History{}, fmt.Errorf("loading stored links: %w", err)
	}

	// Ids continue after the highest one stored, which equals the row count
	// as long as nothing was deleted.
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(row_id), 0) FROM matches").Scan(&h.RowCount); err != nil {
		return model.History{}, fmt.Errorf("counting stored rows: %w", err)
	}
	return h, nil
}

// Append inserts rows in one transaction. A duplicate row_id fails the whole batch.
func (s *SQLiteSink) Append(ctx context.Context, rows []model.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO matches
		(row_id, status, label, title, company, link, found_at, match_percent, suitability, cover_letter)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing append: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		v := r.Values()
		if _, err := stmt.ExecContext(ctx, r.ID, v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8]); err != nil {
			return fmt.Errorf("inserting row %d: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing append: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
