package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/unirag/internal/domain"
)

// chatCompletionRequest mirrors the fields asserted in tests.
type chatCompletionRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatServer(t *testing.T, reply string, capture *chatCompletionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-chat-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": reply},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{
				"prompt_tokens":     100,
				"completion_tokens": 20,
				"total_tokens":      120,
			},
		})
	}))
}

func TestCompleter_Complete(t *testing.T) {
	var captured chatCompletionRequest
	server := chatServer(t, "The deadline is June 30. Sources: [1]", &captured)
	defer server.Close()

	c := NewCompleter(&CompleterConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "test-chat-model",
		Temperature: 0.3,
		MaxTokens:   512,
		Logger:      zap.NewNop(),
	})

	msgs := []domain.Turn{
		{Role: domain.RoleSystem, Content: "You are an advisor."},
		{Role: domain.RoleUser, Content: "when is the deadline?"},
		{Role: domain.RoleAssistant, Content: "Let me check."},
		{Role: domain.RoleUser, Content: "thanks"},
	}
	got, err := c.Complete(context.Background(), msgs)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if got != "The deadline is June 30. Sources: [1]" {
		t.Errorf("reply = %q", got)
	}
	if captured.Model != "test-chat-model" {
		t.Errorf("model = %q", captured.Model)
	}
	if captured.Temperature != 0.3 {
		t.Errorf("temperature = %g, want 0.3", captured.Temperature)
	}
	if captured.MaxTokens != 512 {
		t.Errorf("max_tokens = %d, want 512", captured.MaxTokens)
	}
	if len(captured.Messages) != 4 {
		t.Fatalf("messages = %d, want 4", len(captured.Messages))
	}
	wantRoles := []string{"system", "user", "assistant", "user"}
	for i, want := range wantRoles {
		if captured.Messages[i].Role != want {
			t.Errorf("message %d role = %q, want %q", i, captured.Messages[i].Role, want)
		}
	}
}

func TestCompleter_DefaultTemperature(t *testing.T) {
	var captured chatCompletionRequest
	server := chatServer(t, "ok", &captured)
	defer server.Close()

	c := NewCompleter(&CompleterConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-chat-model",
		Logger:  zap.NewNop(),
	})

	if _, err := c.Complete(context.Background(), []domain.Turn{{Role: domain.RoleUser, Content: "hi"}}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if captured.Temperature != 0.3 {
		t.Errorf("temperature = %g, want default 0.3", captured.Temperature)
	}
}

func TestCompleter_RateLimitMapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "slow down", "type": "rate_limit_error"},
		})
	}))
	defer server.Close()

	c := NewCompleter(&CompleterConfig{
		APIKey: "test-key", BaseURL: server.URL, Model: "test-chat-model", Logger: zap.NewNop(),
	})

	_, err := c.Complete(context.Background(), []domain.Turn{{Role: domain.RoleUser, Content: "hi"}})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestCompleter_ProviderErrorMapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{"detail": "upstream down"})
	}))
	defer server.Close()

	c := NewCompleter(&CompleterConfig{
		APIKey: "test-key", BaseURL: server.URL, Model: "test-chat-model", Logger: zap.NewNop(),
	})

	_, err := c.Complete(context.Background(), []domain.Turn{{Role: domain.RoleUser, Content: "hi"}})
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Fatalf("err = %v, want ErrChatProviderError", err)
	}
}

func TestCompleter_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id": "chatcmpl-1", "object": "chat.completion", "choices": []any{},
		})
	}))
	defer server.Close()

	c := NewCompleter(&CompleterConfig{
		APIKey: "test-key", BaseURL: server.URL, Model: "test-chat-model", Logger: zap.NewNop(),
	})

	_, err := c.Complete(context.Background(), []domain.Turn{{Role: domain.RoleUser, Content: "hi"}})
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Fatalf("err = %v, want ErrChatProviderError", err)
	}
}
