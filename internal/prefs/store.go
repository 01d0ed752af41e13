package prefs

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

const (
	keyVolume = "volume"
	keyMuted  = "muted"
	keyRate   = "rate"
	keyTheme  = "theme"
)

const schema = `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updatedAt REAL NOT NULL
	);
`

// Store reads and writes the preferences table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns the default database path under the config dir.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "prefs.sqlite")
}

// Open opens or creates the database with WAL.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create prefs dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(2000)", path)
	if path == ":memory:" {
		dsn = path
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the stored preferences. Missing or unparsable keys keep
// their defaults.
func (s *Store) Load() (Prefs, error) {
	p := Defaults()
	rows, err := s.db.Query(`SELECT key, value, updatedAt FROM preferences`)
	if err != nil {
		return p, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		var updatedAt float64
		if err := rows.Scan(&key, &value, &updatedAt); err != nil {
			return p, fmt.Errorf("scan preference: %w", err)
		}
		if t := timeFromUnix(updatedAt); t.After(p.UpdatedAt) {
			p.UpdatedAt = t
		}
		switch key {
		case keyVolume:
			if v, err := strconv.ParseFloat(value, 64); err == nil && v >= 0 && v <= 1 {
				p.Volume = v
			}
		case keyMuted:
			if b, err := strconv.ParseBool(value); err == nil {
				p.Muted = b
			}
		case keyRate:
			if r, err := strconv.ParseFloat(value, 64); err == nil && r > 0 {
				p.Rate = r
			}
		case keyTheme:
			p.Theme = value
		}
	}
	return p, rows.Err()
}

// Save writes every preference in one transaction.
func (s *Store) Save(p Prefs) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	ts := float64(s.now().UnixNano()) / 1e9
	values := map[string]string{
		keyVolume: strconv.FormatFloat(p.Volume, 'f', -1, 64),
		keyMuted:  strconv.FormatBool(p.Muted),
		keyRate:   strconv.FormatFloat(p.Rate, 'f', -1, 64),
		keyTheme:  p.Theme,
	}
	for k, v := range values {
		if _, err := tx.Exec(`
			INSERT INTO preferences (key, value, updatedAt) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = excluded.updatedAt
		`, k, v, ts); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
