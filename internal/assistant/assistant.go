// Package assistant orchestrates the generative analysis flow: it builds
// mode-specific prompts, calls the configured LLM provider, and normalizes
// whatever comes back. When no provider is configured it falls back to the
// deterministic heuristic analyzer and the scripted chat responder, so every
// operation succeeds offline.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mindwell/mindwell/internal/analysis"
	"github.com/mindwell/mindwell/internal/chat"
	"github.com/mindwell/mindwell/internal/llm"
)

// Mode selects the prompt and response handling for a generative request.
type Mode string

const (
	ModeJournal Mode = "journal"
	ModeChat    Mode = "chat"
)

// journalSystemPrompt instructs the model to emit bare JSON. Models ignore
// this often enough that the extractor repairs the output anyway.
const journalSystemPrompt = `You are a journaling assistant. Respond ONLY with a valid JSON object. DO NOT include explanations, introductions, or comments.

Example output:
{
  "mood": "Positive",
  "emotions": ["happy", "grateful"],
  "sentiment": 0.87,
  "keyThemes": ["work", "stress", "relationships"],
  "suggestions": ["Try meditating", "Talk to a friend", "Focus on what's in your control"]
}`

const chatSystemPrompt = `You are a compassionate mental health AI companion. Respond with supportive, empathetic responses. Offer emotional validation, encouragement, and helpful suggestions when appropriate.`

// ParseMode validates a mode string. Anything other than journal or chat is
// a request-validation error, reported before any network call.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeJournal:
		return ModeJournal, nil
	case ModeChat:
		return ModeChat, nil
	default:
		return "", fmt.Errorf("invalid mode %q (supported: journal, chat)", s)
	}
}

// Assistant answers journal and chat requests. A nil provider is valid and
// selects the offline fallbacks.
type Assistant struct {
	provider llm.Provider
	log      zerolog.Logger
}

// New creates an Assistant. provider may be nil.
func New(provider llm.Provider, log zerolog.Logger) *Assistant {
	return &Assistant{provider: provider, log: log}
}

// AnalyzeJournal analyzes journal text into a Record. This never fails:
// provider errors and malformed model output both collapse into the
// canonical Unknown record, with the diagnostic visible in Suggestions.
func (a *Assistant) AnalyzeJournal(ctx context.Context, text string) analysis.Record {
	if a.provider == nil {
		return analysis.Analyze(text)
	}

	prompt := fmt.Sprintf("Now analyze this journal entry and return only the JSON object:\n\nJournal Entry:\n%s\n", text)
	raw, err := a.provider.Complete(ctx, prompt, llm.CompletionOpts{
		Temperature: 0.1,
		System:      journalSystemPrompt,
		Format:      "json",
	})
	if err != nil {
		a.log.Warn().Err(err).Str("provider", a.provider.Name()).Msg("journal analysis call failed")
		return analysis.Build(nil, fmt.Errorf("analysis service unavailable: %w", err))
	}

	return analysis.Build(analysis.Extract(raw))
}

// ChatReply produces one companion turn. Provider output is used verbatim
// (no extraction); with no provider, or on provider failure, the scripted
// responder answers instead.
func (a *Assistant) ChatReply(ctx context.Context, text string) chat.Reply {
	if a.provider == nil {
		return chat.Respond(text)
	}

	raw, err := a.provider.Complete(ctx, text, llm.CompletionOpts{
		Temperature: 0.7,
		System:      chatSystemPrompt,
	})
	if err != nil {
		a.log.Warn().Err(err).Str("provider", a.provider.Name()).Msg("chat call failed, using scripted responder")
		return chat.Respond(text)
	}

	return chat.Reply{Content: raw}
}
