// Package mcp exposes Mindwell over the Model Context Protocol: journaling,
// companion chat, mood logging, collection listing, and data export as MCP
// tools, plus the full data snapshot as a resource. Stdio transport only.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mindwell/mindwell/internal/assistant"
	"github.com/mindwell/mindwell/internal/export"
	"github.com/mindwell/mindwell/internal/store"
	"github.com/mindwell/mindwell/internal/voice"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Store     *store.Store
	Assistant *assistant.Assistant
	Version   string
}

// storeMu serializes all tool calls that touch the store. The mcp-go
// library dispatches handlers concurrently via goroutines, and the store's
// read-modify-write collection updates assume a single writer.
var storeMu sync.Mutex

// NewServer creates a configured MCP server with all Mindwell tools and
// resources.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"Mindwell",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	registerJournalTool(s, cfg.Store, cfg.Assistant)
	registerChatTool(s, cfg.Store, cfg.Assistant)
	registerMoodTool(s, cfg.Store)
	registerVoiceTool(s, cfg.Store)
	registerListTool(s, cfg.Store)
	registerExportTool(s, cfg.Store)

	registerSnapshotResource(s, cfg.Store)

	return s
}

// --- Tools ---

func registerJournalTool(s *server.MCPServer, st *store.Store, asst *assistant.Assistant) {
	tool := mcp.NewTool("mindwell_journal",
		mcp.WithDescription("Save a journal entry and analyze it (mood, emotions, sentiment, themes, suggestions). Analysis never fails; malformed model output degrades to an Unknown record with diagnostics."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The journal entry text"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil || strings.TrimSpace(text) == "" {
			return mcp.NewToolResultError("text is required"), nil
		}

		record := asst.AnalyzeJournal(ctx, text)

		storeMu.Lock()
		defer storeMu.Unlock()

		entry := store.JournalEntry{
			ID:        store.NewID(),
			Content:   text,
			Timestamp: time.Now(),
			Analysis:  &record,
		}
		if err := st.SaveJournalEntry(entry); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("save entry error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(entry, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerChatTool(s *server.MCPServer, st *store.Store, asst *assistant.Assistant) {
	tool := mcp.NewTool("mindwell_chat",
		mcp.WithDescription("Send a message to the wellbeing companion and get a supportive reply with follow-up suggestions. Both turns are appended to the chat history."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The user's message"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil || strings.TrimSpace(message) == "" {
			return mcp.NewToolResultError("message is required"), nil
		}

		reply := asst.ChatReply(ctx, message)

		storeMu.Lock()
		defer storeMu.Unlock()

		now := time.Now()
		userMsg := store.ChatMessage{
			ID:        store.NewID(),
			Role:      store.RoleUser,
			Content:   message,
			Timestamp: now,
		}
		aiMsg := store.ChatMessage{
			ID:          store.NewID(),
			Role:        store.RoleAI,
			Content:     reply.Content,
			Timestamp:   now,
			Suggestions: reply.Suggestions,
		}
		if err := st.SaveChatMessage(userMsg); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("save message error: %v", err)), nil
		}
		if err := st.SaveChatMessage(aiMsg); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("save message error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(aiMsg, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerMoodTool(s *server.MCPServer, st *store.Store) {
	tool := mcp.NewTool("mindwell_mood",
		mcp.WithDescription("Log mood metrics for a calendar date (one entry per day; logging the same date again replaces the earlier entry)."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("date",
			mcp.Description("Calendar date YYYY-MM-DD (default: today)"),
		),
		mcp.WithNumber("mood", mcp.Required(), mcp.Description("Mood 1-10")),
		mcp.WithNumber("stress", mcp.Required(), mcp.Description("Stress 1-10")),
		mcp.WithNumber("energy", mcp.Required(), mcp.Description("Energy 1-10")),
		mcp.WithNumber("sleep", mcp.Required(), mcp.Description("Sleep quality 1-10")),
		mcp.WithString("notes", mcp.Description("Optional free-text notes")),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entry := store.MoodEntry{Date: time.Now().Format("2006-01-02")}

		if date, err := req.RequireString("date"); err == nil && date != "" {
			if _, err := time.Parse("2006-01-02", date); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", date)), nil
			}
			entry.Date = date
		}

		scales := []struct {
			name string
			dst  *int
		}{
			{"mood", &entry.Mood},
			{"stress", &entry.Stress},
			{"energy", &entry.Energy},
			{"sleep", &entry.Sleep},
		}
		for _, s := range scales {
			v, err := req.RequireFloat(s.name)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("%s is required", s.name)), nil
			}
			n := int(v)
			if n < 1 || n > 10 {
				return mcp.NewToolResultError(fmt.Sprintf("%s must be between 1 and 10", s.name)), nil
			}
			*s.dst = n
		}

		if notes, err := req.RequireString("notes"); err == nil {
			entry.Notes = notes
		}

		storeMu.Lock()
		defer storeMu.Unlock()

		if err := st.SaveMoodEntry(entry); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("save mood error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(entry, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerVoiceTool(s *server.MCPServer, st *store.Store) {
	analyzer := voice.New()

	tool := mcp.NewTool("mindwell_voice",
		mcp.WithDescription("Record a simulated voice-sample analysis (stress level, emotional state, voice features, risk factors, recommendations) and append it to the voice history."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		storeMu.Lock()
		defer storeMu.Unlock()

		va := analyzer.Analyze()
		if err := st.SaveVoiceAnalysis(va); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("save voice analysis error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(va, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerListTool(s *server.MCPServer, st *store.Store) {
	tool := mcp.NewTool("mindwell_list",
		mcp.WithDescription("List the contents of one collection."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("collection",
			mcp.Required(),
			mcp.Description("Collection to list"),
			mcp.Enum(store.KeyJournalEntries, store.KeyVoiceAnalyses, store.KeyChatMessages, store.KeyMoodEntries, store.KeyUserSettings),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		collection, err := req.RequireString("collection")
		if err != nil {
			return mcp.NewToolResultError("collection is required"), nil
		}

		storeMu.Lock()
		defer storeMu.Unlock()

		var payload any
		switch collection {
		case store.KeyJournalEntries:
			payload, err = st.JournalEntries()
		case store.KeyVoiceAnalyses:
			payload, err = st.VoiceAnalyses()
		case store.KeyChatMessages:
			payload, err = st.ChatMessages()
		case store.KeyMoodEntries:
			payload, err = st.MoodEntries()
		case store.KeyUserSettings:
			payload, err = st.Settings()
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown collection %q", collection)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerExportTool(s *server.MCPServer, st *store.Store) {
	tool := mcp.NewTool("mindwell_export",
		mcp.WithDescription("Export a full snapshot of all collections as one JSON document."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		storeMu.Lock()
		defer storeMu.Unlock()

		snapshot, err := export.Build(st)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("export error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(snapshot, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

// --- Resources ---

func registerSnapshotResource(s *server.MCPServer, st *store.Store) {
	resource := mcp.NewResource(
		"mindwell://snapshot",
		"Data Snapshot",
		mcp.WithResourceDescription("Full snapshot of journal entries, voice analyses, chat history, mood entries, and settings."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		storeMu.Lock()
		defer storeMu.Unlock()

		snapshot, err := export.Build(st)
		if err != nil {
			return nil, fmt.Errorf("building snapshot: %w", err)
		}

		data, _ := json.MarshalIndent(snapshot, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
