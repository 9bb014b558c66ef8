package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// maxRetries is the number of additional attempts after the first failure.
const maxRetries = 2

// chatProvider implements Provider against OpenAI-compatible chat completion
// APIs. Together and OpenRouter share this implementation; only the base URL
// and default model differ.
type chatProvider struct {
	provider string
	apiKey   string
	model    string
	baseURL  string
	client   http.Client
}

func newChatProvider(provider, apiKey, model, baseURL, defaultModel string) *chatProvider {
	if model == "" {
		model = defaultModel
	}
	return &chatProvider{
		provider: provider,
		apiKey:   apiKey,
		model:    model,
		baseURL:  baseURL,
		client:   http.Client{Timeout: 60 * time.Second},
	}
}

// OpenAI-compatible request/response types.
type chatRequest struct {
	Model          string       `json:"model"`
	Messages       []chatTurn   `json:"messages"`
	MaxTokens      int          `json:"max_tokens,omitempty"`
	Temperature    float64      `json:"temperature"`
	ResponseFormat *responseFmt `json:"response_format,omitempty"`
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFmt struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// httpError carries the status code and any Retry-After hint so the retry
// loop can back off appropriately on rate limits.
type httpError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (c *chatProvider) Name() string {
	return c.provider + "/" + c.model
}

// Complete sends the prompt, retrying transient failures with exponential
// backoff (1s, 2s). Rate-limit responses honor Retry-After when present.
func (c *chatProvider) Complete(ctx context.Context, prompt string, opts CompletionOpts) (string, error) {
	messages := make([]chatTurn, 0, 2)
	if opts.System != "" {
		messages = append(messages, chatTurn{Role: "system", Content: opts.System})
	}
	messages = append(messages, chatTurn{Role: "user", Content: prompt})

	req := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if strings.ToLower(opts.Format) == "json" {
		req.ResponseFormat = &responseFmt{Type: "json_object"}
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		content, err := c.attempt(ctx, req)
		if err == nil {
			return content, nil
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}

		backoff := time.Duration(1<<attempt) * time.Second
		if httpErr, ok := err.(*httpError); ok && httpErr.StatusCode == http.StatusTooManyRequests && httpErr.RetryAfter > 0 {
			backoff = httpErr.RetryAfter
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	return "", fmt.Errorf("%s completion failed after %d attempts: %w", c.provider, maxRetries+1, lastErr)
}

func (c *chatProvider) attempt(ctx context.Context, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.provider == "openrouter" {
		httpReq.Header.Set("HTTP-Referer", "https://github.com/mindwell/mindwell")
		httpReq.Header.Set("X-Title", "Mindwell")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var retryAfter time.Duration
		if header := resp.Header.Get("Retry-After"); header != "" {
			if seconds, err := strconv.Atoi(header); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return "", &httpError{StatusCode: resp.StatusCode, Message: string(respBody), RetryAfter: retryAfter}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%s API error: %s", c.provider, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s API", c.provider)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
