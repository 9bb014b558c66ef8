// Package store provides the local persistence layer: five independent,
// insertion-ordered collections serialized as JSON documents in a
// key-partitioned KV backed by SQLite.
//
// Identity rules differ per collection and are deliberate:
//   - journal entries upsert by opaque id (re-save replaces)
//   - mood entries upsert by calendar date (one entry per day)
//   - voice analyses and chat messages are append-only
//   - settings are a singleton with built-in defaults
//
// The store is not safe for use from multiple processes without external
// synchronization; within one process callers are expected to serialize
// access themselves (the MCP server does).
package store

import (
	"encoding/json"
	"fmt"
)

// Store owns the canonical copy of every record. Consumers receive
// transient read copies from the list methods.
type Store struct {
	kv KV
}

// New creates a Store over the given KV.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Close closes the underlying KV.
func (s *Store) Close() error {
	return s.kv.Close()
}

// readCollection deserializes a collection. An absent storage slot yields
// an empty slice, never an error.
func readCollection[T any](kv KV, key string) ([]T, error) {
	raw, ok, err := kv.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding collection %q: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func writeCollection[T any](kv KV, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding collection %q: %w", key, err)
	}
	return kv.Set(key, string(raw))
}

// --- Journal entries ---

// JournalEntries returns all journal entries in insertion order.
func (s *Store) JournalEntries() ([]JournalEntry, error) {
	return readCollection[JournalEntry](s.kv, KeyJournalEntries)
}

// SaveJournalEntry upserts an entry by id: an existing entry with the same
// id is fully replaced, otherwise the entry is appended.
func (s *Store) SaveJournalEntry(entry JournalEntry) error {
	entries, err := s.JournalEntries()
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	return writeCollection(s.kv, KeyJournalEntries, entries)
}

// DeleteJournalEntry removes the entry with the given id. Deleting a
// nonexistent id is a no-op, not an error.
func (s *Store) DeleteJournalEntry(id string) error {
	entries, err := s.JournalEntries()
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return writeCollection(s.kv, KeyJournalEntries, kept)
}

// --- Voice analyses ---

// VoiceAnalyses returns all voice analyses in insertion order.
func (s *Store) VoiceAnalyses() ([]VoiceAnalysis, error) {
	return readCollection[VoiceAnalysis](s.kv, KeyVoiceAnalyses)
}

// SaveVoiceAnalysis appends regardless of id collision; the caller is
// responsible for id uniqueness.
func (s *Store) SaveVoiceAnalysis(va VoiceAnalysis) error {
	analyses, err := s.VoiceAnalyses()
	if err != nil {
		return err
	}
	return writeCollection(s.kv, KeyVoiceAnalyses, append(analyses, va))
}

// DeleteVoiceAnalysis removes the analysis with the given id; no-op if absent.
func (s *Store) DeleteVoiceAnalysis(id string) error {
	analyses, err := s.VoiceAnalyses()
	if err != nil {
		return err
	}
	kept := analyses[:0]
	for _, a := range analyses {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	return writeCollection(s.kv, KeyVoiceAnalyses, kept)
}

// --- Chat messages ---

// ChatMessages returns the conversation in insertion order.
func (s *Store) ChatMessages() ([]ChatMessage, error) {
	return readCollection[ChatMessage](s.kv, KeyChatMessages)
}

// SaveChatMessage appends a message to the conversation.
func (s *Store) SaveChatMessage(msg ChatMessage) error {
	messages, err := s.ChatMessages()
	if err != nil {
		return err
	}
	return writeCollection(s.kv, KeyChatMessages, append(messages, msg))
}

// ClearChatMessages empties the conversation atomically.
func (s *Store) ClearChatMessages() error {
	return writeCollection(s.kv, KeyChatMessages, []ChatMessage{})
}

// --- Mood entries ---

// MoodEntries returns all mood entries in insertion order.
func (s *Store) MoodEntries() ([]MoodEntry, error) {
	return readCollection[MoodEntry](s.kv, KeyMoodEntries)
}

// SaveMoodEntry upserts by calendar date: a save with an existing date
// replaces that date's entry, keeping the one-entry-per-day invariant.
func (s *Store) SaveMoodEntry(entry MoodEntry) error {
	entries, err := s.MoodEntries()
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].Date == entry.Date {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	return writeCollection(s.kv, KeyMoodEntries, entries)
}

// --- Settings ---

// Settings returns the singleton settings record, or the built-in defaults
// when none have ever been saved.
func (s *Store) Settings() (Settings, error) {
	raw, ok, err := s.kv.Get(KeyUserSettings)
	if err != nil {
		return Settings{}, err
	}
	if !ok {
		return DefaultSettings(), nil
	}
	var settings Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return settings, nil
}

// SaveSettings fully replaces the stored settings object.
func (s *Store) SaveSettings(settings Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return s.kv.Set(KeyUserSettings, string(raw))
}
