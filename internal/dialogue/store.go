package dialogue

import (
	"sync"
	"time"
)

// Session holds the ordered message history for one conversation.
// The persona system prompt is not stored here; the orchestrator prepends
// it when building each provider request.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	updatedAt time.Time
	messages  []Message
}

// append adds a message and returns a snapshot of the history as it was
// before the append. The snapshot lets the orchestrator build a consistent
// context window without holding the session lock across the provider call.
func (s *Session) append(msg Message) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := make([]Message, len(s.messages))
	copy(prior, s.messages)

	s.messages = append(s.messages, msg)
	s.updatedAt = time.Now()
	return prior
}

// History returns a copy of the full stored history.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]Message, len(s.messages))
	copy(history, s.messages)
	return history
}

// MessageCount returns the number of stored messages.
func (s *Session) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.messages)
}

// UpdatedAt returns the time of the last append.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updatedAt
}

// Store is an in-memory map of session id to conversation history. It is
// the only shared mutable state in the service; its lifetime equals the
// process lifetime. The store-level lock guards the key space only, so
// appends on one session never block requests for other sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for id, creating an empty one on first
// reference. The same id always yields the same session, so appends made
// through it are visible to later calls.
func (st *Store) GetOrCreate(id string) *Session {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return sess
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	// Another request may have created it between the locks.
	if sess, ok := st.sessions[id]; ok {
		return sess
	}

	now := time.Now()
	sess = &Session{
		ID:        id,
		CreatedAt: now,
		updatedAt: now,
		messages:  []Message{},
	}
	st.sessions[id] = sess
	return sess
}

// Lookup returns the session for id without creating it.
func (st *Store) Lookup(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	sess, ok := st.sessions[id]
	return sess, ok
}

// Append adds a message to an existing session.
func (st *Store) Append(id string, msg Message) error {
	sess, ok := st.Lookup(id)
	if !ok {
		return ErrSessionNotFound
	}
	sess.append(msg)
	return nil
}

// Get returns a copy of the stored history for id.
func (st *Store) Get(id string) ([]Message, error) {
	sess, ok := st.Lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess.History(), nil
}

// Delete removes a session entirely.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return len(st.sessions)
}

// Evict removes sessions idle for longer than maxIdle and returns how many
// were removed. The default service policy never calls this; it exists so
// deployments can bound memory growth.
func (st *Store) Evict(maxIdle time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, sess := range st.sessions {
		if now.Sub(sess.UpdatedAt()) > maxIdle {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
