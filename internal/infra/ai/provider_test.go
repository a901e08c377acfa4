package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestAnthropicCompleteRoundTrip(t *testing.T) {
	var mu sync.Mutex
	var gotVersion, gotKey string
	var gotReq anthropicRequest

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotVersion = r.Header.Get("anthropic-version")
		gotKey = r.Header.Get("x-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("backend failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"content": [{"text": "The street was quiet for once."}],
			"model": "claude-3-5-haiku-20241022",
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 120, "output_tokens": 30}
		}`))
	}))
	defer backend.Close()

	p := NewAnthropicProvider("test-key", NewBudgetGate(10, 50))
	p.baseURL = backend.URL

	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: "Narrate soberly."},
			{Role: "user", Content: "Week 3."},
		},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Content != "The street was quiet for once." {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.TotalTokens != 150 {
		t.Errorf("TotalTokens = %d, want 150", resp.TotalTokens)
	}
	if resp.FinishReason != "end_turn" {
		t.Errorf("FinishReason = %q", resp.FinishReason)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotKey != "test-key" || gotVersion == "" {
		t.Errorf("auth headers not set: key %q, version %q", gotKey, gotVersion)
	}
	// System prompt rides as a top-level field, never as a message.
	if gotReq.System != "Narrate soberly." {
		t.Errorf("system field = %q", gotReq.System)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("messages = %+v, want single user message", gotReq.Messages)
	}

	stats := p.GetUsageStats()
	if stats.TotalRequests != 1 || stats.TotalTokens != 150 {
		t.Errorf("usage stats = %+v", stats)
	}
}

func TestOpenAICompleteSurfacesAPIError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "model overloaded"}}`, http.StatusTooManyRequests)
	}))
	defer backend.Close()

	p := NewOpenAIProvider("test-key", NewBudgetGate(10, 50))
	p.baseURL = backend.URL

	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages:  []Message{{Role: "user", Content: "Week 1."}},
		MaxTokens: 64,
	})
	if err == nil {
		t.Fatal("expected an error for a 429 response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("error should carry status and body, got: %v", err)
	}
}

func TestCompleteBlockedByBudgetGate(t *testing.T) {
	p := NewAnthropicProvider("test-key", NewBudgetGate(0, 0))

	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "Week 1."}},
	})
	if err == nil || !strings.Contains(err.Error(), "budget limit exceeded") {
		t.Errorf("expected budget error, got: %v", err)
	}
}
