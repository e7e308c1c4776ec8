// Package normalize canonicalizes user text before it is recorded and
// echoed back as diagnostic output. Normalized text never replaces the raw
// message in conversation history.
package normalize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"
)

// Normalizer maps raw input text to a canonicalized token string.
type Normalizer interface {
	Normalize(ctx context.Context, text string) (string, error)
}

// Fallback is the transform applied when no normalizer is configured or
// the configured one fails. It must stay a plain lowercase/trim so callers
// can rely on normalization never raising.
func Fallback(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Rules is the built-in normalizer: it lowercases alphabetic tokens and
// drops punctuation and English stopwords. It is a cheaper stand-in for a
// full lemmatizing pipeline and never errors.
type Rules struct{}

// Normalize implements Normalizer.
func (Rules) Normalize(_ context.Context, text string) (string, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		token := strings.ToLower(f)
		if _, skip := stopwords[token]; skip {
			continue
		}
		tokens = append(tokens, token)
	}
	return strings.Join(tokens, " "), nil
}

// stopwords is a compact English stopword list covering the words most
// likely to appear in conversational questions.
var stopwords = map[string]struct{}{}

func init() {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "been", "but", "by",
		"can", "could", "did", "do", "does", "doing", "for", "from", "had",
		"has", "have", "he", "her", "here", "him", "his", "how", "i", "if",
		"in", "is", "it", "its", "me", "my", "no", "not", "of", "on", "or",
		"our", "she", "should", "so", "some", "than", "that", "the", "their",
		"them", "then", "there", "these", "they", "this", "to", "up", "us",
		"was", "we", "were", "what", "when", "where", "which", "who", "why",
		"will", "with", "would", "you", "your",
	}
	for _, w := range words {
		stopwords[w] = struct{}{}
	}
}

// Service is a client for an external normalization sidecar. Failures are
// expected to be recovered by the caller with Fallback.
type Service struct {
	url        string
	httpClient *http.Client
}

// NewService creates a sidecar client with a bounded request timeout.
func NewService(url string, timeout time.Duration) *Service {
	return &Service{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type serviceRequest struct {
	Text string `json:"text"`
}

type serviceResponse struct {
	Tokens string `json:"tokens"`
}

// Normalize posts the text to the sidecar and returns its token string.
func (s *Service) Normalize(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(serviceRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("marshaling normalize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating normalize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("normalize request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading normalize response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("normalize service returned status %d", resp.StatusCode)
	}

	var parsed serviceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing normalize response: %w", err)
	}
	return parsed.Tokens, nil
}
