package spawn

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResolutionHappensOnce(t *testing.T) {
	for _, test := range []struct {
		Name   string
		First  string // "join" or "detach"
		Second string
	}{
		{"joinThenJoin", "join", "join"},
		{"joinThenDetach", "join", "detach"},
		{"detachThenJoin", "detach", "join"},
		{"detachThenDetach", "detach", "detach"},
	} {
		t.Run(test.Name, func(t *testing.T) {
			h := Go(func(Sink) {}, Record())
			if err := resolve(t, h, test.First); err != nil {
				t.Fatalf(`first %s failed: %v`, test.First, err)
			}
			err := resolve(t, h, test.Second)
			if !errors.Is(err, ErrResolved) {
				t.Errorf(`second %s got %v, want ErrResolved`, test.Second, err)
			}
		})
	}
}

func resolve(t *testing.T, h *Handle, op string) error {
	t.Helper()
	switch op {
	case "join":
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return h.Join(ctx)
	case "detach":
		return h.Detach()
	default:
		t.Fatalf(`unknown op %q`, op)
		return nil
	}
}

func TestJoinWaitsForWorker(t *testing.T) {
	sink := Record()
	h := Go(func(sink Sink) {
		for i := 0; i < 20; i++ {
			sink.Say(`Output from thread`)
		}
	}, sink)
	if err := h.Join(context.Background()); err != nil {
		t.Fatalf(`join failed: %v`, err)
	}
	if got := sink.Count(`Output from thread`); got != 20 {
		t.Errorf(`got %d worker lines after join, want 20`, got)
	}
	if st := h.State(); st != StateJoined {
		t.Errorf(`got state %v, want joined`, st)
	}
}

func TestJoinAbandonedByContext(t *testing.T) {
	release := make(chan struct{})
	h := Go(func(Sink) { <-release }, Record())
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := h.Join(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf(`got %v, want context.Canceled`, err)
	}
	// Abandoning the wait does not resolve the handle; it can still be detached.
	if st := h.State(); st != StateCreated {
		t.Fatalf(`got state %v after abandoned join, want created`, st)
	}
	if err := h.Detach(); err != nil {
		t.Errorf(`detach after abandoned join failed: %v`, err)
	}
}

func TestDetachedWorkerRunsOn(t *testing.T) {
	sink := Record()
	started := make(chan struct{})
	release := make(chan struct{})
	h := Go(func(sink Sink) {
		close(started)
		<-release
		sink.Say(`late`)
	}, sink)
	<-started
	if err := h.Detach(); err != nil {
		t.Fatalf(`detach failed: %v`, err)
	}
	if st := h.State(); st != StateDetached {
		t.Fatalf(`got state %v, want detached`, st)
	}
	// The execution context outlives its handle's resolution.
	close(release)
	deadline := time.Now().Add(time.Second)
	for sink.Count(`late`) == 0 {
		if time.Now().After(deadline) {
			t.Fatal(`detached worker never produced its output`)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestOutstandingTracksUnresolvedHandles(t *testing.T) {
	h := Go(func(Sink) {}, Record())
	if !contains(Outstanding(), h.ID()) {
		t.Fatalf(`%v should be outstanding until resolved`, h.ID())
	}
	if err := h.Join(context.Background()); err != nil {
		t.Fatalf(`join failed: %v`, err)
	}
	if contains(Outstanding(), h.ID()) {
		t.Errorf(`%v still outstanding after join`, h.ID())
	}
}

func contains(ids []string, id string) bool {
	for _, it := range ids {
		if it == id {
			return true
		}
	}
	return false
}

func TestStateStrings(t *testing.T) {
	for _, test := range []struct {
		State State
		Str   string
	}{
		{StateCreated, `created`},
		{StateJoined, `joined`},
		{StateDetached, `detached`},
		{State(42), `state#42`},
	} {
		if got := test.State.String(); got != test.Str {
			t.Errorf(`got %q, want %q`, got, test.Str)
		}
	}
}
