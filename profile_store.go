package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// endpointProfile is one gateway endpoint the user has connected to.
type endpointProfile struct {
	URL      string
	Label    string
	LastUsed time.Time
}

type profileStore struct {
	db   *sql.DB
	path string
}

func openProfileStore() (*profileStore, error) {
	dir := resolveConfigDir()
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	sqlitePath := filepath.Join(dir, "profiles.sqlite")
	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return nil, err
	}
	if err := migrateProfileStore(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &profileStore{db: db, path: sqlitePath}, nil
}

func migrateProfileStore(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS endpoints (
			url TEXT PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			last_used TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("profile store migration failed: %w", err)
		}
	}
	return nil
}

func (s *profileStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// List returns known endpoints, most recently used first.
func (s *profileStore) List() ([]endpointProfile, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT url, COALESCE(NULLIF(label, ''), url), last_used
		FROM endpoints ORDER BY last_used DESC, url ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []endpointProfile
	for rows.Next() {
		var profile endpointProfile
		if err := rows.Scan(&profile.URL, &profile.Label, &profile.LastUsed); err != nil {
			return nil, err
		}
		if strings.TrimSpace(profile.URL) == "" {
			continue
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Touch records a connection to url, inserting it on first use.
func (s *profileStore) Touch(url string) error {
	if s == nil || s.db == nil {
		return nil
	}
	clean := strings.TrimRight(strings.TrimSpace(url), "/")
	if clean == "" {
		return nil
	}
	_, err := s.db.Exec(`INSERT INTO endpoints (url, label, last_used) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(url) DO UPDATE SET last_used = CURRENT_TIMESTAMP`, clean, labelForEndpoint(clean))
	return err
}

func (s *profileStore) Remove(url string) error {
	if s == nil || s.db == nil {
		return nil
	}
	clean := strings.TrimRight(strings.TrimSpace(url), "/")
	if clean == "" {
		return nil
	}
	_, err := s.db.Exec(`DELETE FROM endpoints WHERE url = ?`, clean)
	return err
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

func labelForEndpoint(url string) string {
	label := strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")
	if idx := strings.Index(label, "/"); idx > 0 {
		label = label[:idx]
	}
	return label
}
