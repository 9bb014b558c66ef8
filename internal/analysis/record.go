// Package analysis normalizes free-form model output and plain journal text
// into strictly-typed analysis records.
//
// The pipeline has three stages:
//   - Extract locates and repairs the JSON payload embedded in raw model text
//   - Build validates/defaults the payload into a Record
//   - Analyze is the deterministic keyword fallback when no model is available
//
// Build is total: whatever happens upstream, callers always receive a
// well-formed Record they can render and persist.
package analysis

// Mood labels. Unknown is the canonical failure label, never produced by
// the heuristic analyzer.
const (
	MoodPositive = "Positive"
	MoodNegative = "Negative"
	MoodNeutral  = "Neutral"
	MoodUnknown  = "Unknown"
)

// Record is the normalized output of text analysis. Every field is present
// and correctly typed after Build runs; Sentiment is always in [0,1].
type Record struct {
	Mood        string   `json:"mood"`
	Emotions    []string `json:"emotions"`
	Sentiment   float64  `json:"sentiment"`
	KeyThemes   []string `json:"keyThemes"`
	Suggestions []string `json:"suggestions"`
}

// Payload is the loosely-typed mapping produced by Extract, prior to
// validation. Field presence and types are checked by Build, never trusted
// downstream.
type Payload map[string]any
