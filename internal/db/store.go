package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store provides access to the local monitor database.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path under the user's
// config directory.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "mindbot-monitor", "monitor.sqlite")
}

// Open opens (creating if needed) the database with WAL and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: database}
	if err := store.ensureSchema(); err != nil {
		database.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			sessionId TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			createdAt REAL NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_messages_session
			ON messages(sessionId, createdAt);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Setting returns the value stored under key, or empty string if none.
func (s *Store) Setting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting stores value under key, overwriting any prior value. Empty
// values are ignored so a known identifier is never cleared.
func (s *Store) SetSetting(key, value string) error {
	if value == "" {
		return nil
	}
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// SessionID returns the persisted session identifier, or empty string.
func (s *Store) SessionID() (string, error) {
	return s.Setting(KeySessionID)
}

// SetSessionID persists a non-empty server-issued identifier.
func (s *Store) SetSessionID(id string) error {
	return s.SetSetting(KeySessionID, id)
}

// Theme returns the persisted theme preference, or empty string.
func (s *Store) Theme() (string, error) {
	return s.Setting(KeyTheme)
}

// SetTheme persists the theme preference.
func (s *Store) SetTheme(name string) error {
	return s.SetSetting(KeyTheme, name)
}

// SaveMessage appends a transcript entry and returns it.
func (s *Store) SaveMessage(sessionID, role, content string) (Message, error) {
	msg := Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	_, err := s.db.Exec(`
		INSERT INTO messages (id, sessionId, role, content, createdAt)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.SessionID, msg.Role, msg.Content, float64(msg.CreatedAt.UnixNano())/1e9)
	if err != nil {
		return Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

// MessagesForSession returns up to limit transcript entries for the
// session, oldest first.
func (s *Store) MessagesForSession(sessionID string, limit int) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT id, sessionId, role, content, createdAt
		FROM messages
		WHERE sessionId = ?
		ORDER BY createdAt ASC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		var createdAt float64
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.CreatedAt = timeFromUnix(createdAt)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
