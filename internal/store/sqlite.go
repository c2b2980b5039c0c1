package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/mvoronova/skillscan/internal/model"
)

// Ensure SQLiteStore implements model.PageStore.
var _ model.PageStore = (*SQLiteStore)(nil)

// SQLiteStore caches raw API pages in a SQLite database so the pipeline can be
// re-run offline without re-fetching. One row per (query, country, page).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// raw_pages table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS raw_pages (
		query      TEXT NOT NULL,
		country    TEXT NOT NULL,
		page       INTEGER NOT NULL,
		payload    TEXT NOT NULL,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (query, country, page)
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating raw_pages table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SavePage stores the records of one fetched page, replacing any previous
// payload for the same (query, country, page).
func (s *SQLiteStore) SavePage(q model.Query, page int, records []model.RawPosting) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding page payload: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO raw_pages (query, country, page, payload) VALUES (?, ?, ?, ?)",
		q.Role, q.Country, page, string(payload),
	)
	if err != nil {
		return fmt.Errorf("saving page %d for %q/%s: %w", page, q.Role, q.Country, err)
	}
	return nil
}

// LoadAll returns every cached record, ordered by (query, country, page) so
// two loads of the same cache always yield the same sequence.
func (s *SQLiteStore) LoadAll() ([]model.RawPosting, error) {
	rows, err := s.db.Query("SELECT payload FROM raw_pages ORDER BY query, country, page")
	if err != nil {
		return nil, fmt.Errorf("loading cached pages: %w", err)
	}
	defer rows.Close()

	var all []model.RawPosting
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning cached page: %w", err)
		}
		var records []model.RawPosting
		if err := json.Unmarshal([]byte(payload), &records); err != nil {
			return nil, fmt.Errorf("decoding cached page: %w", err)
		}
		all = append(all, records...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cached pages: %w", err)
	}
	return all, nil
}

// Clear deletes all cached pages.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM raw_pages"); err != nil {
		return fmt.Errorf("clearing raw_pages: %w", err)
	}
	return nil
}

// IsEmpty returns true if the cache holds no pages.
func (s *SQLiteStore) IsEmpty() (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM raw_pages").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking if cache is empty: %w", err)
	}
	return count == 0, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
