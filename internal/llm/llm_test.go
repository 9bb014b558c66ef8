package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseProviderFlag(t *testing.T) {
	tests := []struct {
		flag         string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{"", "together", "", false},
		{"together", "together", "", false},
		{"openrouter", "openrouter", "", false},
		{"google/gemini-2.5-flash", "google", "gemini-2.5-flash", false},
		{"together/meta-llama/Llama-3.3-70B-Instruct-Turbo", "together", "meta-llama/Llama-3.3-70B-Instruct-Turbo", false},
		{"Together", "together", "", false},
		{"ollama", "", "", true},
	}

	for _, tt := range tests {
		cfg, err := ParseProviderFlag(tt.flag)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseProviderFlag(%q): expected error", tt.flag)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseProviderFlag(%q): %v", tt.flag, err)
			continue
		}
		if cfg.Provider != tt.wantProvider || cfg.Model != tt.wantModel {
			t.Errorf("ParseProviderFlag(%q) = %+v, want provider %q model %q",
				tt.flag, cfg, tt.wantProvider, tt.wantModel)
		}
	}
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	t.Setenv("TOGETHER_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	for _, provider := range []string{"together", "openrouter", "google"} {
		if _, err := NewProvider(Config{Provider: provider}); err == nil {
			t.Errorf("NewProvider(%q) without a key should fail", provider)
		}
	}

	if _, err := NewProvider(Config{Provider: "together", APIKey: "explicit"}); err != nil {
		t.Errorf("explicit key should satisfy the requirement: %v", err)
	}
}

func TestNewProvider_DefaultModels(t *testing.T) {
	p, err := NewProvider(Config{Provider: "together", APIKey: "k"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if p.Name() != "together/meta-llama/Llama-3.3-70B-Instruct-Turbo" {
		t.Errorf("Name() = %q", p.Name())
	}

	p, err = NewProvider(Config{Provider: "google", APIKey: "k", Model: "gemini-2.5-pro"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if p.Name() != "google/gemini-2.5-pro" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func chatCompletionBody(content string) string {
	return `{"choices": [{"message": {"content": ` + mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestChatProvider_Complete(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(chatCompletionBody("  All good.  ")))
	}))
	defer server.Close()

	p := newChatProvider("together", "secret", "", server.URL, "test-model")

	out, err := p.Complete(context.Background(), "hello", CompletionOpts{
		Temperature: 0.1,
		System:      "be brief",
		Format:      "json",
		MaxTokens:   128,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if out != "All good." {
		t.Errorf("output = %q, want trimmed content", out)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Content != "hello" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v", gotReq.ResponseFormat)
	}
	if gotReq.MaxTokens != 128 {
		t.Errorf("max_tokens = %d", gotReq.MaxTokens)
	}
}

func TestChatProvider_OpenRouterHeaders(t *testing.T) {
	var referer, title string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("HTTP-Referer")
		title = r.Header.Get("X-Title")
		w.Write([]byte(chatCompletionBody("ok")))
	}))
	defer server.Close()

	p := newChatProvider("openrouter", "k", "m", server.URL, "m")
	if _, err := p.Complete(context.Background(), "hi", CompletionOpts{}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if referer == "" || title == "" {
		t.Errorf("openrouter attribution headers missing: referer=%q title=%q", referer, title)
	}
}

func TestChatProvider_RetriesTransientFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("retry backoff sleeps")
	}

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "upstream hiccup", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(chatCompletionBody("recovered")))
	}))
	defer server.Close()

	p := newChatProvider("together", "k", "m", server.URL, "m")
	out, err := p.Complete(context.Background(), "hi", CompletionOpts{})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "recovered" || attempts != 2 {
		t.Errorf("out=%q attempts=%d", out, attempts)
	}
}

func TestChatProvider_GivesUpAfterMaxRetries(t *testing.T) {
	if testing.Short() {
		t.Skip("retry backoff sleeps")
	}

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "still broken", http.StatusBadGateway)
	}))
	defer server.Close()

	p := newChatProvider("together", "k", "m", server.URL, "m")
	_, err := p.Complete(context.Background(), "hi", CompletionOpts{})
	if err == nil {
		t.Fatal("expected failure after exhausting retries")
	}
	if attempts != maxRetries+1 {
		t.Errorf("attempts = %d, want %d", attempts, maxRetries+1)
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error should carry the status: %v", err)
	}
}

func TestChatProvider_CancelledContextStopsRetrying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newChatProvider("together", "k", "m", server.URL, "m")
	if _, err := p.Complete(ctx, "hi", CompletionOpts{}); err == nil {
		t.Fatal("expected an error with a cancelled context")
	}
}

func TestChatProvider_APIErrorInBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"message": "model not found", "type": "invalid_request"}}`))
	}))
	defer server.Close()

	p := newChatProvider("together", "k", "m", server.URL, "m")
	_, err := p.Complete(context.Background(), "hi", CompletionOpts{})
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("expected the API error message, got %v", err)
	}
}

func TestGoogleProvider_Complete(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Header.Get("x-goog-api-key") == "" && r.URL.Query().Get("key") == "" {
			t.Error("request missing API key")
		}
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "hello from gemini"}]}}]}`))
	}))
	defer server.Close()

	p := &googleProvider{apiKey: "k", model: "gemini-2.5-flash", baseURL: server.URL}
	out, err := p.Complete(context.Background(), "hi", CompletionOpts{})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "hello from gemini" {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(gotPath, "gemini-2.5-flash") || !strings.Contains(gotPath, "generateContent") {
		t.Errorf("unexpected path %q", gotPath)
	}
}
