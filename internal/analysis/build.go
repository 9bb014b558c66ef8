package analysis

// Build validates and defaults an extracted payload into a Record. It is a
// total function: given an extraction error or a payload that fails shape
// validation it returns the canonical Unknown record, never an error.
//
// Well-formed fields pass through unchanged except sentiment, which is
// clamped into [0,1]. Absent sequence fields default to empty slices.
func Build(p Payload, err error) Record {
	if err != nil {
		return unknownRecord(Diagnostic(err))
	}

	mood, ok := p["mood"].(string)
	if !ok || mood == "" {
		return unknownRecord([]string{"analysis payload missing mood field"})
	}

	sentiment, ok := toFloat(p["sentiment"])
	if !ok {
		return unknownRecord([]string{"analysis payload missing sentiment field"})
	}
	if sentiment < 0 {
		sentiment = 0
	}
	if sentiment > 1 {
		sentiment = 1
	}

	return Record{
		Mood:        mood,
		Emotions:    toStrings(p["emotions"]),
		Sentiment:   sentiment,
		KeyThemes:   toStrings(p["keyThemes"]),
		Suggestions: toStrings(p["suggestions"]),
	}
}

// unknownRecord is the canonical failure record. Always well-formed and
// renderable; callers never special-case a build failure.
func unknownRecord(diagnostics []string) Record {
	if diagnostics == nil {
		diagnostics = []string{}
	}
	return Record{
		Mood:        MoodUnknown,
		Emotions:    []string{},
		Sentiment:   0.5,
		KeyThemes:   []string{},
		Suggestions: diagnostics,
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// toStrings converts a JSON array value into a string slice, skipping
// non-string elements. Absence is not an error; it yields an empty slice.
func toStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
