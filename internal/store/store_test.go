package store

import (
	"testing"
	"time"

	"github.com/mindwell/mindwell/internal/analysis"
)

// newTestStore creates a store over an in-memory SQLite database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	kv, err := OpenKV(":memory:")
	if err != nil {
		t.Fatalf("failed to open test KV: %v", err)
	}
	s := New(kv)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEmptyCollections(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.JournalEntries()
	if err != nil {
		t.Fatalf("JournalEntries failed: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", entries)
	}

	messages, err := s.ChatMessages()
	if err != nil {
		t.Fatalf("ChatMessages failed: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("expected no messages, got %d", len(messages))
	}
}

func TestJournalEntry_SaveAndList(t *testing.T) {
	s := newTestStore(t)

	record := analysis.Analyze("a good day")
	entry := JournalEntry{
		ID:        NewID(),
		Content:   "a good day",
		Timestamp: time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC),
		Analysis:  &record,
	}
	if err := s.SaveJournalEntry(entry); err != nil {
		t.Fatalf("SaveJournalEntry failed: %v", err)
	}

	entries, err := s.JournalEntries()
	if err != nil {
		t.Fatalf("JournalEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	got := entries[0]
	if got.ID != entry.ID || got.Content != entry.Content {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	// Timestamps serialize as ISO-8601 and come back as the same instant.
	if !got.Timestamp.Equal(entry.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, entry.Timestamp)
	}
	if got.Analysis == nil || got.Analysis.Mood != record.Mood {
		t.Errorf("analysis not preserved: %+v", got.Analysis)
	}
}

func TestJournalEntry_UpsertReplacesById(t *testing.T) {
	s := newTestStore(t)

	id := NewID()
	first := JournalEntry{ID: id, Content: "draft", Timestamp: time.Now()}
	if err := s.SaveJournalEntry(first); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Re-save with the same id attaches analysis; full replace, no duplicate.
	record := analysis.Analyze("draft")
	first.Analysis = &record
	if err := s.SaveJournalEntry(first); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}

	entries, _ := s.JournalEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after re-save, got %d", len(entries))
	}
	if entries[0].Analysis == nil {
		t.Error("re-save did not replace the stored entry")
	}
}

func TestJournalEntry_DeleteNonexistentIsNoop(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveJournalEntry(JournalEntry{ID: "keep", Content: "x", Timestamp: time.Now()}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.DeleteJournalEntry("no-such-id"); err != nil {
		t.Fatalf("delete of nonexistent id should be a no-op, got %v", err)
	}

	entries, _ := s.JournalEntries()
	if len(entries) != 1 {
		t.Errorf("collection length changed: %d", len(entries))
	}

	if err := s.DeleteJournalEntry("keep"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	entries, _ = s.JournalEntries()
	if len(entries) != 0 {
		t.Errorf("expected empty collection, got %d entries", len(entries))
	}
}

func TestJournalEntries_InsertionOrder(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := s.SaveJournalEntry(JournalEntry{ID: id, Content: id, Timestamp: time.Now()}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	entries, _ := s.JournalEntries()
	for i, want := range []string{"a", "b", "c"} {
		if entries[i].ID != want {
			t.Errorf("entries[%d].ID = %q, want %q", i, entries[i].ID, want)
		}
	}
}

func TestVoiceAnalysis_AppendOnly(t *testing.T) {
	s := newTestStore(t)

	// Same id twice: appends both, caller owns id uniqueness.
	va := VoiceAnalysis{ID: "dup", Timestamp: time.Now(), StressLevel: 50}
	if err := s.SaveVoiceAnalysis(va); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SaveVoiceAnalysis(va); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	analyses, _ := s.VoiceAnalyses()
	if len(analyses) != 2 {
		t.Errorf("expected 2 analyses, got %d", len(analyses))
	}

	if err := s.DeleteVoiceAnalysis("dup"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	analyses, _ = s.VoiceAnalyses()
	if len(analyses) != 0 {
		t.Errorf("delete by id should remove all matches, got %d", len(analyses))
	}
}

func TestChatMessages_AppendAndClear(t *testing.T) {
	s := newTestStore(t)

	msgs := []ChatMessage{
		{ID: NewID(), Role: RoleUser, Content: "hi", Timestamp: time.Now()},
		{ID: NewID(), Role: RoleAI, Content: "hello", Timestamp: time.Now(), Suggestions: []string{"a", "b"}},
	}
	for _, m := range msgs {
		if err := s.SaveChatMessage(m); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	stored, _ := s.ChatMessages()
	if len(stored) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(stored))
	}
	if stored[0].Role != RoleUser || stored[1].Role != RoleAI {
		t.Errorf("roles not preserved: %+v", stored)
	}
	if len(stored[1].Suggestions) != 2 {
		t.Errorf("suggestions not preserved: %+v", stored[1])
	}

	if err := s.ClearChatMessages(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	stored, _ = s.ChatMessages()
	if len(stored) != 0 {
		t.Errorf("expected empty collection after clear, got %d", len(stored))
	}
}

func TestMoodEntry_UpsertByDate(t *testing.T) {
	s := newTestStore(t)

	first := MoodEntry{Date: "2026-08-30", Mood: 4, Stress: 8, Energy: 3, Sleep: 5}
	if err := s.SaveMoodEntry(first); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Same date replaces; collection length unaffected by repeat saves.
	second := MoodEntry{Date: "2026-08-30", Mood: 7, Stress: 3, Energy: 6, Sleep: 8, Notes: "better evening"}
	if err := s.SaveMoodEntry(second); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}

	entries, _ := s.MoodEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry for the date, got %d", len(entries))
	}
	if entries[0].Mood != 7 || entries[0].Notes != "better evening" {
		t.Errorf("re-save did not replace: %+v", entries[0])
	}

	// A different date appends.
	if err := s.SaveMoodEntry(MoodEntry{Date: "2026-08-31", Mood: 6, Stress: 4, Energy: 5, Sleep: 7}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	entries, _ = s.MoodEntries()
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}

func TestSettings_DefaultsWhenUnset(t *testing.T) {
	s := newTestStore(t)

	settings, err := s.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}

	want := DefaultSettings()
	if settings != want {
		t.Errorf("settings = %+v, want defaults %+v", settings, want)
	}
	if !settings.Notifications.DailyReminders || settings.Notifications.ResearchUpdates {
		t.Errorf("unexpected notification defaults: %+v", settings.Notifications)
	}
	if settings.Privacy.VoiceRetention || !settings.Privacy.ResearchParticipation {
		t.Errorf("unexpected privacy defaults: %+v", settings.Privacy)
	}
}

func TestSettings_SaveReplacesFully(t *testing.T) {
	s := newTestStore(t)

	settings := DefaultSettings()
	settings.Privacy.VoiceRetention = true
	settings.Notifications.DailyReminders = false
	if err := s.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	got, err := s.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if got != settings {
		t.Errorf("settings = %+v, want %+v", got, settings)
	}
}

func TestCollectionsAreIndependent(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveJournalEntry(JournalEntry{ID: "j1", Content: "x", Timestamp: time.Now()}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SaveMoodEntry(MoodEntry{Date: "2026-08-30", Mood: 5, Stress: 5, Energy: 5, Sleep: 5}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.ClearChatMessages(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	entries, _ := s.JournalEntries()
	moods, _ := s.MoodEntries()
	if len(entries) != 1 || len(moods) != 1 {
		t.Errorf("cross-collection interference: %d entries, %d moods", len(entries), len(moods))
	}
}

func TestMemoryKV(t *testing.T) {
	s := New(NewMemoryKV())
	defer s.Close()

	if err := s.SaveJournalEntry(JournalEntry{ID: "m1", Content: "in memory", Timestamp: time.Now()}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	entries, err := s.JournalEntries()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" || seen[id] {
			t.Fatalf("duplicate or empty id: %q", id)
		}
		seen[id] = true
	}
}
