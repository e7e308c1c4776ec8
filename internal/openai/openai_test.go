package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/socraticchat/socratic/internal/dialogue"
)

func testMessages() []dialogue.Message {
	return []dialogue.Message{
		dialogue.NewMessage(dialogue.RoleSystem, "You are a Socratic teacher."),
		dialogue.NewMessage(dialogue.RoleUser, "Why does gravity exist?"),
	}
}

func TestComplete_Success(t *testing.T) {
	var gotReq struct {
		Model       string `json:"model"`
		Temperature float64
		MaxTokens   int `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  What observations led you to ask that?  "}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4", 5*time.Second)
	reply, err := client.Complete(context.Background(), testMessages())
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if reply != "What observations led you to ask that?" {
		t.Errorf("expected trimmed reply, got %q", reply)
	}
	if gotReq.Model != "gpt-4" {
		t.Errorf("expected model gpt-4, got %q", gotReq.Model)
	}
	if gotReq.MaxTokens != 300 {
		t.Errorf("expected max_tokens 300, got %d", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" {
		t.Errorf("expected system message first, got %q", gotReq.Messages[0].Role)
	}
}

func TestComplete_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`,
			wantErr: dialogue.ErrProviderAuth,
		},
		{
			name:    "forbidden",
			status:  http.StatusForbidden,
			body:    `{"error": {"message": "forbidden", "type": "invalid_request_error"}}`,
			wantErr: dialogue.ErrProviderAuth,
		},
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    `{"error": {"message": "Rate limit reached", "type": "rate_limit_error"}}`,
			wantErr: dialogue.ErrProviderRateLimited,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error": {"message": "The server had an error", "type": "server_error"}}`,
			wantErr: dialogue.ErrProviderUnavailable,
		},
		{
			name:    "bad gateway with plain body",
			status:  http.StatusBadGateway,
			body:    "upstream connect error",
			wantErr: dialogue.ErrProviderUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "test-key", "gpt-4", 5*time.Second)
			_, err := client.Complete(context.Background(), testMessages())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestComplete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4", 50*time.Millisecond)
	_, err := client.Complete(context.Background(), testMessages())
	if !errors.Is(err, dialogue.ErrProviderTimeout) {
		t.Errorf("expected ErrProviderTimeout, got %v", err)
	}
}

func TestComplete_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-key", "gpt-4", time.Second)
	_, err := client.Complete(context.Background(), testMessages())
	if !errors.Is(err, dialogue.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4", 5*time.Second)
	_, err := client.Complete(context.Background(), testMessages())
	if !errors.Is(err, dialogue.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestComplete_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4", 5*time.Second)
	_, err := client.Complete(context.Background(), testMessages())
	if !errors.Is(err, dialogue.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", "key", "", time.Second)
	if client.baseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", client.baseURL)
	}
	if client.model != DefaultModel {
		t.Errorf("expected default model, got %q", client.model)
	}
}
