package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/scanforge/artifact-fetch/internal/domain"
	"github.com/scanforge/artifact-fetch/internal/port"
)

// Journal persists fetch outcomes in a local SQLite database so an
// operator can audit what was downloaded and which URIs failed. It is not
// the surrounding pipeline's record store; that stays external.
type Journal struct {
	db *sql.DB
}

// Ensure Journal implements port.Journal
var _ port.Journal = (*Journal)(nil)

// Open opens (creating if needed) the journal database at dbPath.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}
	return j, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

func (j *Journal) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS fetches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uri TEXT NOT NULL,
			succeeded BOOLEAN NOT NULL,
			path TEXT,
			size INTEGER NOT NULL DEFAULT 0,
			sha1 TEXT,
			md5 TEXT,
			error TEXT,
			fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_fetches_uri ON fetches(uri)`,
		`CREATE INDEX IF NOT EXISTS idx_fetches_fetched_at ON fetches(fetched_at)`,
	}

	for _, migration := range migrations {
		if _, err := j.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, migration)
		}
	}
	return nil
}

// RecordDownload records a verified download.
func (j *Journal) RecordDownload(d *domain.Download) error {
	_, err := j.db.Exec(
		`INSERT INTO fetches (uri, succeeded, path, size, sha1, md5) VALUES (?, TRUE, ?, ?, ?, ?)`,
		d.URI, d.Path, d.Size, d.SHA1, d.MD5,
	)
	return err
}

// RecordFailure records a failed fetch attempt with its diagnostic reason.
func (j *Journal) RecordFailure(uri string, reason string) error {
	_, err := j.db.Exec(
		`INSERT INTO fetches (uri, succeeded, error) VALUES (?, FALSE, ?)`,
		uri, reason,
	)
	return err
}

// RecentEntries returns up to limit entries, newest first.
func (j *Journal) RecentEntries(limit int) ([]domain.JournalEntry, error) {
	rows, err := j.db.Query(
		`SELECT id, uri, succeeded, COALESCE(path, ''), size, COALESCE(sha1, ''), COALESCE(md5, ''), COALESCE(error, '')
		 FROM fetches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.ID, &e.URI, &e.Succeeded, &e.Path, &e.Size, &e.SHA1, &e.MD5, &e.Error); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
