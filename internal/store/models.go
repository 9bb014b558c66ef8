package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/mindwell/mindwell/internal/analysis"
)

// Collection keys. Collections must serialize under exactly these logical
// keys for compatibility with existing data.
const (
	KeyJournalEntries = "journal_entries"
	KeyVoiceAnalyses  = "voice_analyses"
	KeyChatMessages   = "chat_messages"
	KeyMoodEntries    = "mood_entries"
	KeyUserSettings   = "user_settings"
)

// CollectionKeys lists every collection key, in export order.
var CollectionKeys = []string{
	KeyJournalEntries,
	KeyVoiceAnalyses,
	KeyChatMessages,
	KeyMoodEntries,
	KeyUserSettings,
}

// Chat message roles.
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// NewID returns an opaque record id. Collision probability is negligible.
func NewID() string {
	return uuid.NewString()
}

// JournalEntry is a single journal entry. Re-saving with the same ID fully
// replaces the stored entry, which is how analysis gets attached after the
// initial save.
type JournalEntry struct {
	ID        string           `json:"id"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Analysis  *analysis.Record `json:"analysis,omitempty"`
}

// VoiceFeatures holds the enumerated voice characteristics.
type VoiceFeatures struct {
	Pitch  string `json:"pitch"`  // Low, Normal, High
	Pace   string `json:"pace"`   // Slow, Steady, Fast
	Energy string `json:"energy"` // Low, Moderate, High
}

// VoiceAnalysis is one voice sample analysis. Append-only: there is no
// update-in-place, only creation and explicit deletion.
type VoiceAnalysis struct {
	ID              string        `json:"id"`
	Timestamp       time.Time     `json:"timestamp"`
	StressLevel     int           `json:"stressLevel"` // 0-100
	EmotionalState  string        `json:"emotionalState"`
	VoiceFeatures   VoiceFeatures `json:"voiceFeatures"`
	RiskFactors     []string      `json:"riskFactors"`
	Recommendations []string      `json:"recommendations"`
}

// ChatMessage is one turn in the companion conversation. Append-only within
// a session; the whole collection is cleared atomically.
type ChatMessage struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"` // RoleUser or RoleAI
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

// MoodEntry records self-reported metrics for one calendar day. Unlike the
// other collections its identity is the Date (YYYY-MM-DD), not an opaque id:
// saving twice for the same date replaces the earlier entry.
type MoodEntry struct {
	Date   string `json:"date"`
	Mood   int    `json:"mood"` // 1-10
	Stress int    `json:"stress"`
	Energy int    `json:"energy"`
	Sleep  int    `json:"sleep"`
	Notes  string `json:"notes,omitempty"`
}

// NotificationSettings are the notification toggles.
type NotificationSettings struct {
	DailyReminders  bool `json:"dailyReminders"`
	WeeklyReports   bool `json:"weeklyReports"`
	CrisisAlerts    bool `json:"crisisAlerts"`
	ResearchUpdates bool `json:"researchUpdates"`
}

// PrivacySettings are the privacy toggles.
type PrivacySettings struct {
	DataAnalytics         bool `json:"dataAnalytics"`
	VoiceRetention        bool `json:"voiceRetention"`
	ResearchParticipation bool `json:"researchParticipation"`
}

// Settings is the per-user singleton settings record.
type Settings struct {
	Notifications NotificationSettings `json:"notifications"`
	Privacy       PrivacySettings      `json:"privacy"`
}

// DefaultSettings returns the built-in settings, used whenever none have
// been persisted.
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			DailyReminders:  true,
			WeeklyReports:   true,
			CrisisAlerts:    true,
			ResearchUpdates: false,
		},
		Privacy: PrivacySettings{
			DataAnalytics:         true,
			VoiceRetention:        false,
			ResearchParticipation: true,
		},
	}
}
