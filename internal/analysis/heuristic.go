package analysis

import "strings"

// Keyword sets for the heuristic analyzer. The anxiety set is checked
// independently and deliberately overlaps the negative set; detection is
// presence-based, not exclusive.
var (
	positiveWords = wordSet(
		"happy", "good", "great", "amazing", "wonderful", "excited",
		"love", "joy", "grateful", "blessed", "fantastic", "excellent",
	)
	negativeWords = wordSet(
		"sad", "bad", "terrible", "awful", "hate", "angry",
		"depressed", "anxious", "worried", "stressed", "overwhelmed", "frustrated",
	)
	anxietyWords = wordSet(
		"nervous", "worried", "anxious", "panic", "fear", "scared", "overwhelmed", "stress",
	)

	fatigueWords = wordSet("tired", "exhausted", "drained")
	hopeWords    = wordSet("hope", "optimistic", "future")

	workWords    = wordSet("work", "job", "boss", "colleague", "office")
	familyWords  = wordSet("family", "parent", "child", "spouse", "relationship")
	healthWords  = wordSet("health", "doctor", "medicine", "sick")
	moneyWords   = wordSet("money", "financial", "bills", "budget")
	futureWords  = wordSet("future", "goal", "plan", "dream")
)

// Analyze derives a Record directly from input text using lexical rules.
// It is the dependency-free fallback when no model provider is configured,
// and always succeeds. Fully deterministic: no randomness, no hidden state.
func Analyze(text string) Record {
	words := strings.Fields(strings.ToLower(text))

	var pos, neg, anx int
	for _, w := range words {
		if positiveWords[w] {
			pos++
		}
		if negativeWords[w] {
			neg++
		}
		if anxietyWords[w] {
			anx++
		}
	}

	// Centers neutral text at 0.5, one match shifts by 0.1, bounded away
	// from the extremes so short text never scores 0 or 1.
	sentiment := (float64(pos-neg) + 5) / 10
	if sentiment < 0.1 {
		sentiment = 0.1
	}
	if sentiment > 0.9 {
		sentiment = 0.9
	}

	// The boundary is inclusive so a short entry with two positive matches
	// (sentiment exactly 0.7) still reads as Positive.
	mood := MoodNeutral
	switch {
	case sentiment >= 0.7:
		mood = MoodPositive
	case sentiment < 0.4:
		mood = MoodNegative
	}

	// Check order is fixed and determines output order.
	emotions := []string{}
	if pos > 0 {
		emotions = append(emotions, "Happiness")
	}
	if neg > 0 {
		emotions = append(emotions, "Sadness")
	}
	if anx > 0 {
		emotions = append(emotions, "Anxiety")
	}
	if containsAny(words, fatigueWords) {
		emotions = append(emotions, "Fatigue")
	}
	if containsAny(words, hopeWords) {
		emotions = append(emotions, "Hope")
	}
	if len(emotions) == 0 {
		emotions = append(emotions, "Calm")
	}

	themes := []string{}
	if containsAny(words, workWords) {
		themes = append(themes, "Work")
	}
	if containsAny(words, familyWords) {
		themes = append(themes, "Relationships")
	}
	if containsAny(words, healthWords) {
		themes = append(themes, "Health")
	}
	if containsAny(words, moneyWords) {
		themes = append(themes, "Finances")
	}
	if containsAny(words, futureWords) {
		themes = append(themes, "Future Planning")
	}
	if len(themes) == 0 {
		themes = append(themes, "Daily Life")
	}

	suggestions := []string{}
	if sentiment < 0.5 {
		suggestions = append(suggestions,
			"Consider practicing deep breathing exercises when feeling overwhelmed",
			"Remember that difficult emotions are temporary and valid")
	}
	if anx > 0 {
		suggestions = append(suggestions,
			"Try the 5-4-3-2-1 grounding technique when feeling anxious")
	}
	if pos > 0 {
		suggestions = append(suggestions,
			"Your positive outlook is a strength - continue building on it")
	}
	// The professional-help reminder is always last, regardless of matches.
	suggestions = append(suggestions,
		"Consider speaking with a mental health professional if these feelings persist")

	return Record{
		Mood:        mood,
		Emotions:    emotions,
		Sentiment:   sentiment,
		KeyThemes:   themes,
		Suggestions: suggestions,
	}
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func containsAny(words []string, set map[string]bool) bool {
	for _, w := range words {
		if set[w] {
			return true
		}
	}
	return false
}
