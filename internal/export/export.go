// Package export assembles the full-snapshot data dump offered for user
// download: all five collections concatenated into one JSON document.
// Read-only; no logic beyond aggregation.
package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/mindwell/mindwell/internal/store"
)

// Snapshot is the aggregate export document.
type Snapshot struct {
	ExportedAt     time.Time             `json:"exportedAt"`
	JournalEntries []store.JournalEntry  `json:"journal_entries"`
	VoiceAnalyses  []store.VoiceAnalysis `json:"voice_analyses"`
	ChatMessages   []store.ChatMessage   `json:"chat_messages"`
	MoodEntries    []store.MoodEntry     `json:"mood_entries"`
	UserSettings   store.Settings        `json:"user_settings"`
}

// Build reads every collection and assembles a Snapshot.
func Build(s *store.Store) (*Snapshot, error) {
	journal, err := s.JournalEntries()
	if err != nil {
		return nil, err
	}
	voice, err := s.VoiceAnalyses()
	if err != nil {
		return nil, err
	}
	messages, err := s.ChatMessages()
	if err != nil {
		return nil, err
	}
	moods, err := s.MoodEntries()
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings()
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		ExportedAt:     time.Now().UTC(),
		JournalEntries: journal,
		VoiceAnalyses:  voice,
		ChatMessages:   messages,
		MoodEntries:    moods,
		UserSettings:   settings,
	}, nil
}

// Write builds a Snapshot and writes it to w as indented JSON.
func Write(s *store.Store, w io.Writer) error {
	snapshot, err := Build(s)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot)
}
