// Package openai implements the dialogue.Completer interface against an
// OpenAI-compatible Chat Completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/socraticchat/socratic/internal/dialogue"
)

const (
	ProviderName   = "openai"
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4"

	// Fixed sampling parameters for the Socratic persona.
	temperature = 0.7
	maxTokens   = 300
)

// Client is a chat completions client. It is stateless after construction
// and safe for concurrent use across requests.
type Client struct {
	baseURL    string
	token      string
	model      string
	httpClient *http.Client
}

// NewClient creates a completion client with a bounded request timeout.
func NewClient(baseURL, token, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Complete sends the message window and returns the generated reply.
// Failures are classified into the dialogue error taxonomy so callers can
// map them without inspecting provider internals.
func (c *Client) Complete(ctx context.Context, messages []dialogue.Message) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    make([]chatMessage, 0, len(messages)),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	for _, m := range messages {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling request: %v", dialogue.ErrProviderUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", dialogue.ErrProviderUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", dialogue.ErrProviderTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", dialogue.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", dialogue.ErrProviderUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", classifyStatus(resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: parsing response: %s", dialogue.ErrProviderUnavailable, truncate(string(body), 400))
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", dialogue.ErrProviderUnavailable)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty completion content", dialogue.ErrProviderUnavailable)
	}
	return content, nil
}

// classifyStatus maps a non-success provider status to the error taxonomy,
// carrying the provider-supplied detail when the body parses.
func classifyStatus(status int, body []byte) error {
	detail := string(body)
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		detail = parsed.Error.Message
	}
	detail = truncate(detail, 400)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", dialogue.ErrProviderAuth, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", dialogue.ErrProviderRateLimited, detail)
	default:
		return fmt.Errorf("%w: status %d: %s", dialogue.ErrProviderUnavailable, status, detail)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
