package campus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeResolver struct {
	mu     sync.Mutex
	result Code
	calls  int
	done   chan struct{}
}

func (f *fakeResolver) ResolveCampus(_ context.Context, _ string) Code {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.done != nil {
		defer close(f.done)
	}
	return f.result
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeAssigner struct {
	assigned map[uint]Code
	err      error
}

func (f *fakeAssigner) AssignCampus(_ context.Context, personID uint, code Code) (Code, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.assigned == nil {
		f.assigned = make(map[uint]Code)
	}
	f.assigned[personID] = code
	return code, nil
}

func TestObserveOthersResolvesSynchronously(t *testing.T) {
	resolver := &fakeResolver{result: Pilani}
	assigner := &fakeAssigner{}
	detector := NewDetector(resolver, assigner, nil, nil)

	got, changed := detector.Observe(context.Background(), 7, Others, "1.2.3.4")
	if !changed || got != Pilani {
		t.Fatalf("expected PIL and changed, got %s %v", got, changed)
	}
	if assigner.assigned[7] != Pilani {
		t.Fatalf("expected campus persisted, got %v", assigner.assigned)
	}
}

func TestObserveOthersUnresolvedIsNotPersisted(t *testing.T) {
	resolver := &fakeResolver{result: Others}
	assigner := &fakeAssigner{}
	detector := NewDetector(resolver, assigner, nil, nil)

	got, changed := detector.Observe(context.Background(), 7, Others, "1.2.3.4")
	if changed || got != Others {
		t.Fatalf("expected OTH unchanged, got %s %v", got, changed)
	}
	if len(assigner.assigned) != 0 {
		t.Fatalf("expected nothing persisted, got %v", assigner.assigned)
	}
}

func TestObservePersistFailureKeepsCurrent(t *testing.T) {
	resolver := &fakeResolver{result: Goa}
	assigner := &fakeAssigner{err: errors.New("db down")}
	detector := NewDetector(resolver, assigner, nil, nil)

	got, changed := detector.Observe(context.Background(), 7, Others, "1.2.3.4")
	if changed || got != Others {
		t.Fatalf("expected OTH unchanged, got %s %v", got, changed)
	}
}

func TestObserveRealCampusRunsDetachedAndDiscards(t *testing.T) {
	resolver := &fakeResolver{result: Dubai, done: make(chan struct{})}
	assigner := &fakeAssigner{}
	executor := NewExecutor(2, nil)
	detector := NewDetector(resolver, assigner, executor, nil)

	got, changed := detector.Observe(context.Background(), 7, Goa, "1.2.3.4")
	if changed || got != Goa {
		t.Fatalf("expected GOA unchanged, got %s %v", got, changed)
	}

	select {
	case <-resolver.done:
	case <-time.After(time.Second):
		t.Fatalf("expected detached lookup to run")
	}
	if err := executor.Close(context.Background()); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if resolver.callCount() != 1 {
		t.Fatalf("expected one lookup, got %d", resolver.callCount())
	}
	if len(assigner.assigned) != 0 {
		t.Fatalf("expected detached result to be discarded, got %v", assigner.assigned)
	}
}
