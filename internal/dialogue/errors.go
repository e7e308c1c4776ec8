package dialogue

import "errors"

// Sentinel errors returned by the store and the orchestrator. Callers
// classify with errors.Is; provider errors are wrapped with detail by the
// completion client.
var (
	// ErrEmptyInput is returned when the user message is empty after trimming.
	ErrEmptyInput = errors.New("message is empty")

	// ErrSessionNotFound is returned for lookups on an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrProviderAuth indicates the completion provider rejected the credential.
	ErrProviderAuth = errors.New("provider authentication failed")

	// ErrProviderRateLimited indicates provider backpressure; safe to retry later.
	ErrProviderRateLimited = errors.New("provider rate limit exceeded")

	// ErrProviderTimeout indicates the provider call exceeded its deadline.
	ErrProviderTimeout = errors.New("provider request timed out")

	// ErrProviderUnavailable covers network failures and malformed provider responses.
	ErrProviderUnavailable = errors.New("provider request failed")
)
