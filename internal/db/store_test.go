package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// createTestStore opens a store over an in-memory SQLite database.
func createTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := &Store{db: database}
	if err := store.ensureSchema(); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return store
}

func TestSettingRoundTrip(t *testing.T) {
	store := createTestStore(t)

	got, err := store.Setting("missing")
	if err != nil {
		t.Fatalf("Setting: %v", err)
	}
	if got != "" {
		t.Errorf("missing setting = %q, want empty", got)
	}

	if err := store.SetSetting("theme", "dark"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	got, err = store.Setting("theme")
	if err != nil {
		t.Fatalf("Setting: %v", err)
	}
	if got != "dark" {
		t.Errorf("theme = %q, want %q", got, "dark")
	}
}

func TestSetSettingOverwrites(t *testing.T) {
	store := createTestStore(t)

	store.SetSessionID("sess-old")
	store.SetSessionID("sess-new")

	got, err := store.SessionID()
	if err != nil {
		t.Fatalf("SessionID: %v", err)
	}
	if got != "sess-new" {
		t.Errorf("session id = %q, want %q", got, "sess-new")
	}
}

func TestSetSessionIDIgnoresEmpty(t *testing.T) {
	store := createTestStore(t)

	store.SetSessionID("sess-1")
	if err := store.SetSessionID(""); err != nil {
		t.Fatalf("SetSessionID: %v", err)
	}

	got, _ := store.SessionID()
	if got != "sess-1" {
		t.Errorf("session id = %q, an empty set must never clear it", got)
	}
}

func TestSaveAndLoadMessages(t *testing.T) {
	store := createTestStore(t)

	first, err := store.SaveMessage("sess-1", RoleUser, "fever and cough")
	if err != nil {
		t.Fatalf("SaveMessage: %v", err)
	}
	if first.ID == "" {
		t.Error("message should get a generated id")
	}
	store.SaveMessage("sess-1", RoleAssistant, "Rest and hydrate.")
	store.SaveMessage("sess-other", RoleUser, "unrelated")

	messages, err := store.MessagesForSession("sess-1", 50)
	if err != nil {
		t.Fatalf("MessagesForSession: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Role != RoleUser || messages[0].Content != "fever and cough" {
		t.Errorf("messages[0] = %+v", messages[0])
	}
	if messages[1].Role != RoleAssistant {
		t.Errorf("messages[1].Role = %q, want assistant", messages[1].Role)
	}
}

func TestMessagesLimit(t *testing.T) {
	store := createTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveMessage("sess-1", RoleUser, "msg")
	}

	messages, err := store.MessagesForSession("sess-1", 3)
	if err != nil {
		t.Fatalf("MessagesForSession: %v", err)
	}
	if len(messages) != 3 {
		t.Errorf("got %d messages, want 3", len(messages))
	}
}

func TestOpenCreatesFileAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "monitor.sqlite")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.SetTheme("light"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	theme, err := store.Theme()
	if err != nil {
		t.Fatalf("Theme: %v", err)
	}
	if theme != "light" {
		t.Errorf("theme = %q, want %q", theme, "light")
	}
}
