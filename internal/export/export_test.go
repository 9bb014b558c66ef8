package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mindwell/mindwell/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(store.NewMemoryKV())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBuild_EmptyStore(t *testing.T) {
	s := newTestStore(t)

	snapshot, err := Build(s)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if snapshot.ExportedAt.IsZero() {
		t.Error("expected an export timestamp")
	}
	if snapshot.JournalEntries == nil || len(snapshot.JournalEntries) != 0 {
		t.Errorf("expected empty non-nil journal slice, got %v", snapshot.JournalEntries)
	}
	// An empty store still exports the default settings.
	if snapshot.UserSettings != store.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", snapshot.UserSettings)
	}
}

func TestBuild_CollectsAllCollections(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveJournalEntry(store.JournalEntry{ID: "j1", Content: "entry", Timestamp: time.Now()}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SaveChatMessage(store.ChatMessage{ID: "c1", Role: store.RoleUser, Content: "hi", Timestamp: time.Now()}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SaveMoodEntry(store.MoodEntry{Date: "2026-08-30", Mood: 6, Stress: 4, Energy: 5, Sleep: 7}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SaveVoiceAnalysis(store.VoiceAnalysis{ID: "v1", Timestamp: time.Now(), StressLevel: 35}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	snapshot, err := Build(s)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(snapshot.JournalEntries) != 1 || len(snapshot.ChatMessages) != 1 ||
		len(snapshot.MoodEntries) != 1 || len(snapshot.VoiceAnalyses) != 1 {
		t.Errorf("incomplete snapshot: %+v", snapshot)
	}
}

func TestWrite_ProducesIndentedJSON(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveJournalEntry(store.JournalEntry{ID: "j1", Content: "entry", Timestamp: time.Now()}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(s, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	for _, key := range []string{"exportedAt", "journal_entries", "voice_analyses", "chat_messages", "mood_entries", "user_settings"} {
		if !strings.Contains(out, `"`+key+`"`) {
			t.Errorf("output missing key %q", key)
		}
	}
	if !strings.Contains(out, "\n  ") {
		t.Error("expected indented output")
	}

	// The document round-trips as valid JSON.
	var decoded Snapshot
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.JournalEntries) != 1 {
		t.Errorf("decoded %d journal entries, want 1", len(decoded.JournalEntries))
	}
}
