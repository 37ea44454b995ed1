// Package db persists the client's local state in SQLite: the
// server-issued session identifier, the theme preference and a local
// copy of the chat transcript.
package db

import "time"

// Fixed setting keys. Both values survive restarts for the life of the
// local profile.
const (
	KeySessionID = "session_id"
	KeyTheme     = "theme"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one transcript entry.
type Message struct {
	ID        string
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}
