package dialogue

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/socraticchat/socratic/internal/normalize"
)

// historyWindow is the number of stored messages sent to the provider per
// request, excluding the persona prompt and the new user turn. Older turns
// stay in the store but are dropped from the model's view.
const historyWindow = 6

// Completer generates a single reply for an ordered message list.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Turn is the result of one successful exchange.
type Turn struct {
	Reply          string
	SessionID      string
	ProcessedInput string
}

// Orchestrator drives a single conversation turn: validate, normalize,
// record the user message, call the completion provider with a bounded
// context window, and record the reply.
type Orchestrator struct {
	store      *Store
	completer  Completer
	normalizer normalize.Normalizer
	persona    string
	logger     *slog.Logger
}

// NewOrchestrator wires the orchestrator's collaborators. normalizer may be
// nil, in which case the lowercase/trim fallback is applied to every input.
func NewOrchestrator(store *Store, completer Completer, normalizer normalize.Normalizer, persona string, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:      store,
		completer:  completer,
		normalizer: normalizer,
		persona:    persona,
		logger:     logger,
	}
}

// HandleTurn processes one user message for the given session. An empty
// sessionID starts a new session under a fresh id. On provider failure the
// already-recorded user turn is kept; only the assistant reply is withheld.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, userText string) (Turn, error) {
	text := strings.TrimSpace(userText)
	if text == "" {
		return Turn{}, ErrEmptyInput
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	processed := o.normalizeInput(ctx, text)
	o.logger.Info("processing turn",
		slog.String("session_id", sessionID),
		slog.String("processed_input", processed))

	sess := o.store.GetOrCreate(sessionID)
	prior := sess.append(NewMessage(RoleUser, text))

	reply, err := o.completer.Complete(ctx, o.buildWindow(prior, text))
	if err != nil {
		if errors.Is(err, ErrProviderAuth) {
			// Likely invalid for every future request, not just this one.
			o.logger.Error("provider rejected credential",
				slog.String("session_id", sessionID),
				slog.Any("error", err))
		} else {
			o.logger.Error("completion failed",
				slog.String("session_id", sessionID),
				slog.Any("error", err))
		}
		return Turn{}, err
	}

	sess.append(NewMessage(RoleAssistant, reply))

	return Turn{
		Reply:          reply,
		SessionID:      sessionID,
		ProcessedInput: processed,
	}, nil
}

// Inspect returns the session for id with its full stored history,
// unbounded by the context window.
func (o *Orchestrator) Inspect(id string) (*Session, error) {
	sess, ok := o.store.Lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Clear removes the session entirely.
func (o *Orchestrator) Clear(id string) error {
	return o.store.Delete(id)
}

// buildWindow assembles the provider request: the persona prompt, the last
// historyWindow messages recorded before this turn, then the new user turn.
func (o *Orchestrator) buildWindow(history []Message, userText string) []Message {
	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	window := make([]Message, 0, len(recent)+2)
	window = append(window, NewMessage(RoleSystem, o.persona))
	window = append(window, recent...)
	window = append(window, NewMessage(RoleUser, userText))
	return window
}

// normalizeInput runs the normalizer, recovering any failure with the
// lowercase/trim fallback. Normalization never fails a turn.
func (o *Orchestrator) normalizeInput(ctx context.Context, text string) string {
	if o.normalizer == nil {
		return normalize.Fallback(text)
	}
	out, err := o.normalizer.Normalize(ctx, text)
	if err != nil {
		o.logger.Warn("normalizer unavailable, using fallback", slog.Any("error", err))
		return normalize.Fallback(text)
	}
	return out
}
