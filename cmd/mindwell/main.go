// Command mindwell is a local-first wellbeing journal: write entries, chat
// with a supportive companion, log mood metrics, and keep everything in a
// local SQLite database. With no LLM configured every command still works
// via the built-in heuristic analyzer and scripted responder.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/mindwell/mindwell/internal/assistant"
	"github.com/mindwell/mindwell/internal/config"
	"github.com/mindwell/mindwell/internal/export"
	"github.com/mindwell/mindwell/internal/llm"
	"github.com/mindwell/mindwell/internal/logger"
	mcpserver "github.com/mindwell/mindwell/internal/mcp"
	"github.com/mindwell/mindwell/internal/store"
	"github.com/mindwell/mindwell/internal/voice"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "journal":
		err = runJournal(os.Args[2:])
	case "chat":
		err = runChat(os.Args[2:])
	case "mood":
		err = runMood(os.Args[2:])
	case "voice":
		err = runVoice(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "delete":
		err = runDelete(os.Args[2:])
	case "clear-chat":
		err = runClearChat(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "settings":
		err = runSettings(os.Args[2:])
	case "mcp":
		err = runMCP(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("mindwell %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`mindwell - local-first wellbeing journal

Usage:
  mindwell journal <text>              Save and analyze a journal entry
  mindwell chat <message>              Talk to the wellbeing companion
  mindwell mood --mood N --stress N --energy N --sleep N [--date YYYY-MM-DD] [--notes text]
  mindwell voice                       Record a simulated voice analysis
  mindwell list <collection>           List a collection
  mindwell delete <collection> <id>    Delete a journal entry or voice analysis
  mindwell clear-chat                  Clear the chat history
  mindwell export [--out file]         Export all data as JSON
  mindwell settings [set <key> <bool>] Show or change settings
  mindwell mcp                         Serve the MCP stdio server
  mindwell version                     Print version

Global flags: --db <path>, --llm <provider[/model]>, --offline, --verbose
Collections: journal_entries, voice_analyses, chat_messages, mood_entries, user_settings
`)
}

// app bundles the wired-up dependencies shared by every command.
type app struct {
	store *store.Store
	asst  *assistant.Assistant
	log   zerolog.Logger
}

// globalFlags are extracted from any position in the arg list; remaining
// args are returned for per-command parsing.
type globalFlags struct {
	db      string
	llm     string
	offline bool
	verbose bool
}

func splitGlobalFlags(args []string) (globalFlags, []string, error) {
	var g globalFlags
	var rest []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--offline":
			g.offline = true
		case args[i] == "--verbose":
			g.verbose = true
		case args[i] == "--db" || args[i] == "--llm":
			if i+1 >= len(args) {
				return g, nil, fmt.Errorf("%s requires a value", args[i])
			}
			if args[i] == "--db" {
				g.db = args[i+1]
			} else {
				g.llm = args[i+1]
			}
			i++
		default:
			rest = append(rest, args[i])
		}
	}
	return g, rest, nil
}

// newApp resolves config and wires the store and assistant. If the database
// cannot be opened the app degrades to an in-memory store so reads return
// empty collections and writes are process-local no-ops, never a crash.
func newApp(g globalFlags) (*app, func(), error) {
	log := logger.New("cli", g.verbose)

	cfg, err := config.Resolve(config.ResolveOptions{CLILLM: g.llm, CLIDBPath: g.db})
	if err != nil {
		return nil, nil, err
	}

	kv, err := store.OpenKV(store.ExpandPath(cfg.DBPath.Value))
	if err != nil {
		log.Warn().Err(err).Msg("local storage unavailable, continuing in-memory")
		kv = store.NewMemoryKV()
	}
	st := store.New(kv)

	var provider llm.Provider
	if !g.offline {
		provider = buildProvider(cfg, log)
	}

	a := &app{
		store: st,
		asst:  assistant.New(provider, log),
		log:   log,
	}
	return a, func() { st.Close() }, nil
}

// buildProvider returns nil when no provider is configured or no API key is
// available; nil selects the offline heuristic fallbacks.
func buildProvider(cfg config.ResolvedConfig, log zerolog.Logger) llm.Provider {
	if cfg.LLMProvider.Value == "" && len(cfg.LLMKeys) == 0 {
		return nil
	}

	llmCfg, err := llm.ParseProviderFlag(cfg.LLMProvider.Value)
	if err != nil {
		log.Warn().Err(err).Msg("invalid LLM configuration, using heuristic analyzer")
		return nil
	}
	llmCfg.APIKey = cfg.APIKeyFor(orValue(cfg.LLMProvider.Value, llmCfg.Provider)).Value

	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		log.Debug().Err(err).Msg("no LLM provider available, using heuristic analyzer")
		return nil
	}
	log.Debug().Str("provider", provider.Name()).Msg("LLM provider configured")
	return provider
}

func orValue(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func runJournal(args []string) error {
	g, rest, err := splitGlobalFlags(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("usage: mindwell journal <text>")
	}
	text := strings.Join(rest, " ")

	a, cleanup, err := newApp(g)
	if err != nil {
		return err
	}
	defer cleanup()

	record := a.asst.AnalyzeJournal(context.Background(), text)
	entry := store.JournalEntry{
		ID:        store.NewID(),
		Content:   text,
		Timestamp: time.Now(),
		Analysis:  &record,
	}
	if err := a.store.SaveJournalEntry(entry); err != nil {
		return err
	}

	fmt.Printf("Saved entry %s\n", entry.ID)
	fmt.Printf("  Mood:        %s (sentiment %.2f)\n", record.Mood, record.Sentiment)
	fmt.Printf("  Emotions:    %s\n", strings.Join(record.Emotions, ", "))
	fmt.Printf("  Themes:      %s\n", strings.Join(record.KeyThemes, ", "))
	for _, s := range record.Suggestions {
		fmt.Printf("  - %s\n", s)
	}
	return nil
}

func runChat(args []string) error {
	g, rest, err := splitGlobalFlags(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("usage: mindwell chat <message>")
	}
	message := strings.Join(rest, " ")

	a, cleanup, err := newApp(g)
	if err != nil {
		return err
	}
	defer cleanup()

	reply := a.asst.ChatReply(context.Background(), message)

	now := time.Now()
	if err := a.store.SaveChatMessage(store.ChatMessage{
		ID: store.NewID(), Role: store.RoleUser, Content: message, Timestamp: now,
	}); err != nil {
		return err
	}
	if err := a.store.SaveChatMessage(store.ChatMessage{
		ID: store.NewID(), Role: store.RoleAI, Content: reply.Content, Timestamp: now,
		Suggestions: reply.Suggestions,
	}); err != nil {
		return err
	}

	fmt.Println(reply.Content)
	if len(reply.Suggestions) > 0 {
		fmt.Println("\nYou could ask:")
		for _, s := range reply.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
	return nil
}

func runMood(args []string) error {
	g, rest, err := splitGlobalFlags(args)
	if err != nil {
		return err
	}

	entry := store.MoodEntry{Date: time.Now().Format("2006-01-02")}
	scales := map[string]*int{
		"--mood":   &entry.Mood,
		"--stress": &entry.Stress,
		"--energy": &entry.Energy,
		"--sleep":  &entry.Sleep,
	}
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if dst, ok := scales[arg]; ok {
			if i+1 >= len(rest) {
				return fmt.Errorf("%s requires a value", arg)
			}
			var n int
			if _, err := fmt.Sscanf(rest[i+1], "%d", &n); err != nil || n < 1 || n > 10 {
				return fmt.Errorf("%s must be an integer between 1 and 10", arg)
			}
			*dst = n
			i++
			continue
		}
		switch arg {
		case "--date":
			if i+1 >= len(rest) {
				return fmt.Errorf("--date requires a value")
			}
			if _, err := time.Parse("2006-01-02", rest[i+1]); err != nil {
				return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", rest[i+1])
			}
			entry.Date = rest[i+1]
			i++
		case "--notes":
			if i+1 >= len(rest) {
				return fmt.Errorf("--notes requires a value")
			}
			entry.Notes = rest[i+1]
			i++
		default:
			return fmt.Errorf("unknown flag: %s", arg)
		}
	}
	if entry.Mood == 0 || entry.Stress == 0 || entry.Energy == 0 || entry.Sleep == 0 {
		return fmt.Errorf("usage: mindwell mood --mood N --stress N --energy N --sleep N [--date YYYY-MM-DD] [--notes text]")
	}

	a, cleanup, err := newApp(g)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.store.SaveMoodEntry(entry); err != nil {
		return err
	}
	fmt.Printf("Logged mood for %s (mood %d, stress %d, energy %d, sleep %d)\n",
		entry.Date, entry.Mood, entry.Stress, entry.Energy, entry.Sleep)
	return nil
}

func runVoice(args []string) error {
	g, _, err := splitGlobalFlags(args)
	if err != nil {
		return err
	}

	a, cleanup, err := newApp(g)
	if err != nil {
		return err
	}
	defer cleanup()

	va := voice.New().Analyze()
	if err := a.store.SaveVoiceAnalysis(va); err != nil {
		return err
	}

	fmt.Printf("Voice analysis %s\n", va.ID)
	fmt.Printf("  Stress level:    %d%%\n", va.StressLevel)
	fmt.Printf("  Emotional state: %s\n", va.EmotionalState)
	fmt.Printf("  Voice features:  pitch %s, pace %s, energy %s\n",
		va.VoiceFeatures.Pitch, va.VoiceFeatures.Pace, va.VoiceFeatures.Energy)
	for _, r := range va.RiskFactors {
		fmt.Printf("  ! %s\n", r)
	}
	for _, r := range va.Recommendations {
		fmt.Printf("  - %s\n", r)
	}
	return nil
}

func runList(args []string) error {
	g, rest, err := splitGlobalFlags(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: mindwell list <collection>")
	}

	a, cleanup, err := newApp(g)
	if err != nil {
		return err
	}
	defer cleanup()

	switch rest[0] {
	case store.KeyJournalEntries:
		entries, err := a.store.JournalEntries()
		if err != nil {
			return err
		}
		for _, e := range entries {
			mood := "-"
			if e.Analysis != nil {
				mood = e.Analysis.Mood
			}
			fmt.Printf("%s  %s  [%s]  %s\n", e.ID, e.Timestamp.Format(time.RFC3339), mood, firstLine(e.Content))
		}
	case store.KeyVoiceAnalyses:
		analyses, err := a.store.VoiceAnalyses()
		if err != nil {
			return err
		}
		for _, v := range analyses {
			fmt.Printf("%s  %s  stress %d%%  %s\n", v.ID, v.Timestamp.Format(time.RFC3339), v.StressLevel, v.EmotionalState)
		}
	case store.KeyChatMessages:
		messages, err := a.store.ChatMessages()
		if err != nil {
			return err
		}
		for _, m := range messages {
			fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("15:04"), m.Role, m.Content)
		}
	case store.KeyMoodEntries:
		entries, err := a.store.MoodEntries()
		if err != nil {
			return err
		}
		for _, m := range entries {
			fmt.Printf("%s  mood %d  stress %d  energy %d  sleep %d  %s\n",
				m.Date, m.Mood, m.Stress, m.Energy, m.Sleep, m.Notes)
		}
	case store.KeyUserSettings:
		return printSettings(a.store)
	default:
		return fmt.Errorf("unknown collection %q", rest[0])
	}
	return nil
}

func runDelete(args []string) error {
	g, rest, err := splitGlobalFlags(args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return fmt.Errorf("usage: mindwell delete <collection> <id>")
	}

	a, cleanup, err := newApp(g)
	if err != nil {
		return err
	}
	defer cleanup()

	switch rest[0] {
	case store.KeyJournalEntries:
		err = a.store.DeleteJournalEntry(rest[1])
	case store.KeyVoiceAnalyses:
		err = a.store.DeleteVoiceAnalysis(rest[1])
	default:
		return fmt.Errorf("delete supports %s and %s", store.KeyJournalEntries, store.KeyVoiceAnalyses)
	}
	if err != nil {
		return err
	}
	fmt.Println("Deleted (if present).")
	return nil
}

func runClearChat(args []string) error {
	g, _, err := splitGlobalFlags(args)
	if err != nil {
		return err
	}
	a, cleanup, err := newApp(g)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.store.ClearChatMessages(); err != nil {
		return err
	}
	fmt.Println("Chat history cleared.")
	return nil
}

func runExport(args []string) error {
	g, rest, err := splitGlobalFlags(args)
	if err != nil {
		return err
	}

	out := ""
	for i := 0; i < len(rest); i++ {
		if rest[i] == "--out" {
			if i+1 >= len(rest) {
				return fmt.Errorf("--out requires a value")
			}
			out = rest[i+1]
			i++
			continue
		}
		return fmt.Errorf("unknown flag: %s", rest[i])
	}

	a, cleanup, err := newApp(g)
	if err != nil {
		return err
	}
	defer cleanup()

	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	if err := export.Write(a.store, w); err != nil {
		return err
	}
	if out != "" {
		fmt.Printf("Exported to %s\n", out)
	}
	return nil
}

func runSettings(args []string) error {
	g, rest, err := splitGlobalFlags(args)
	if err != nil {
		return err
	}

	a, cleanup, err := newApp(g)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(rest) == 0 {
		return printSettings(a.store)
	}
	if len(rest) != 3 || rest[0] != "set" {
		return fmt.Errorf("usage: mindwell settings [set <key> <true|false>]")
	}

	value := rest[2] == "true"
	if rest[2] != "true" && rest[2] != "false" {
		return fmt.Errorf("value must be true or false")
	}

	settings, err := a.store.Settings()
	if err != nil {
		return err
	}

	toggles := map[string]*bool{
		"notifications.dailyReminders":  &settings.Notifications.DailyReminders,
		"notifications.weeklyReports":   &settings.Notifications.WeeklyReports,
		"notifications.crisisAlerts":    &settings.Notifications.CrisisAlerts,
		"notifications.researchUpdates": &settings.Notifications.ResearchUpdates,
		"privacy.dataAnalytics":         &settings.Privacy.DataAnalytics,
		"privacy.voiceRetention":        &settings.Privacy.VoiceRetention,
		"privacy.researchParticipation": &settings.Privacy.ResearchParticipation,
	}
	dst, ok := toggles[rest[1]]
	if !ok {
		keys := make([]string, 0, len(toggles))
		for k := range toggles {
			keys = append(keys, k)
		}
		return fmt.Errorf("unknown setting %q (known: %s)", rest[1], strings.Join(keys, ", "))
	}
	*dst = value

	if err := a.store.SaveSettings(settings); err != nil {
		return err
	}
	fmt.Printf("Set %s = %v\n", rest[1], value)
	return nil
}

func printSettings(st *store.Store) error {
	settings, err := st.Settings()
	if err != nil {
		return err
	}
	fmt.Println("notifications:")
	fmt.Printf("  dailyReminders:  %v\n", settings.Notifications.DailyReminders)
	fmt.Printf("  weeklyReports:   %v\n", settings.Notifications.WeeklyReports)
	fmt.Printf("  crisisAlerts:    %v\n", settings.Notifications.CrisisAlerts)
	fmt.Printf("  researchUpdates: %v\n", settings.Notifications.ResearchUpdates)
	fmt.Println("privacy:")
	fmt.Printf("  dataAnalytics:         %v\n", settings.Privacy.DataAnalytics)
	fmt.Printf("  voiceRetention:        %v\n", settings.Privacy.VoiceRetention)
	fmt.Printf("  researchParticipation: %v\n", settings.Privacy.ResearchParticipation)
	return nil
}

func runMCP(args []string) error {
	g, _, err := splitGlobalFlags(args)
	if err != nil {
		return err
	}

	a, cleanup, err := newApp(g)
	if err != nil {
		return err
	}
	defer cleanup()

	s := mcpserver.NewServer(mcpserver.ServerConfig{
		Store:     a.store,
		Assistant: a.asst,
		Version:   version,
	})
	return server.ServeStdio(s)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	if len(s) > 60 {
		return s[:60] + "…"
	}
	return s
}
