package dialogue

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStore_GetOrCreate(t *testing.T) {
	st := NewStore()

	s1 := st.GetOrCreate("s1")
	if s1 == nil {
		t.Fatal("expected non-nil session")
	}
	if s1.MessageCount() != 0 {
		t.Errorf("expected empty history, got %d messages", s1.MessageCount())
	}

	// Same id yields the same underlying session.
	s1again := st.GetOrCreate("s1")
	if s1 != s1again {
		t.Error("expected same session pointer for same id")
	}

	// Appends through one reference are visible through the other.
	s1.append(NewMessage(RoleUser, "hello"))
	if s1again.MessageCount() != 1 {
		t.Errorf("expected append to be visible, got %d messages", s1again.MessageCount())
	}
}

func TestStore_SessionIsolation(t *testing.T) {
	st := NewStore()

	a := st.GetOrCreate("a")
	b := st.GetOrCreate("b")

	a.append(NewMessage(RoleUser, "only in a"))

	if b.MessageCount() != 0 {
		t.Errorf("append to a leaked into b: %d messages", b.MessageCount())
	}
	history, err := st.Get("b")
	if err != nil {
		t.Fatalf("Get(b) failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history for b, got %d", len(history))
	}
}

func TestStore_AppendUnknownSession(t *testing.T) {
	st := NewStore()

	err := st.Append("never-seen", NewMessage(RoleUser, "hi"))
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStore_GetAndDeleteUnknownSession(t *testing.T) {
	st := NewStore()

	if _, err := st.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get: expected ErrSessionNotFound, got %v", err)
	}
	if err := st.Delete("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Delete: expected ErrSessionNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	st := NewStore()
	st.GetOrCreate("s1")

	if err := st.Delete("s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := st.Get("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected session gone after delete, got %v", err)
	}
	if st.Len() != 0 {
		t.Errorf("expected 0 sessions, got %d", st.Len())
	}
}

func TestStore_HistoryReturnsCopy(t *testing.T) {
	st := NewStore()
	sess := st.GetOrCreate("s1")
	sess.append(NewMessage(RoleUser, "original"))

	history := sess.History()
	history[0].Content = "mutated"

	fresh := sess.History()
	if fresh[0].Content != "original" {
		t.Errorf("history copy mutation leaked into store: %q", fresh[0].Content)
	}
}

func TestSession_AppendReturnsPriorSnapshot(t *testing.T) {
	st := NewStore()
	sess := st.GetOrCreate("s1")

	prior := sess.append(NewMessage(RoleUser, "first"))
	if len(prior) != 0 {
		t.Errorf("expected empty prior snapshot, got %d", len(prior))
	}

	prior = sess.append(NewMessage(RoleAssistant, "second"))
	if len(prior) != 1 || prior[0].Content != "first" {
		t.Errorf("unexpected prior snapshot: %+v", prior)
	}
}

func TestStore_ConcurrentDistinctSessions(t *testing.T) {
	st := NewStore()
	const sessions = 16
	const appends = 50

	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", n)
			sess := st.GetOrCreate(id)
			for j := 0; j < appends; j++ {
				sess.append(NewMessage(RoleUser, fmt.Sprintf("msg-%d", j)))
			}
		}(i)
	}
	wg.Wait()

	if st.Len() != sessions {
		t.Fatalf("expected %d sessions, got %d", sessions, st.Len())
	}
	for i := 0; i < sessions; i++ {
		history, err := st.Get(fmt.Sprintf("session-%d", i))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(history) != appends {
			t.Errorf("session-%d: expected %d messages, got %d", i, appends, len(history))
		}
	}
}

func TestStore_Evict(t *testing.T) {
	st := NewStore()
	old := st.GetOrCreate("old")
	st.GetOrCreate("fresh")

	// Backdate the idle session.
	old.mu.Lock()
	old.updatedAt = time.Now().Add(-2 * time.Hour)
	old.mu.Unlock()

	removed := st.Evict(time.Hour)
	if removed != 1 {
		t.Fatalf("expected 1 eviction, got %d", removed)
	}
	if _, err := st.Get("old"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("expected idle session to be evicted")
	}
	if _, err := st.Get("fresh"); err != nil {
		t.Errorf("fresh session should survive eviction: %v", err)
	}
}
