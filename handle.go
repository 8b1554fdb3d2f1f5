package spawn

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/nats-io/nuid"

	"github.com/swdunlop/spawn-go/internal/slog"
)

// Go starts task on its own goroutine, writing to sink, and returns a handle to the running worker.
// The handle must be resolved exactly once with Join or Detach before it is discarded; a handle that
// is garbage collected unresolved is a worker leak and will be complained about in the log.
func Go(task Task, sink Sink) *Handle {
	h := &Handle{id: nuid.Next(), done: make(chan struct{})}
	track(h.id)
	go func() {
		defer close(h.done)
		task(sink)
	}()
	runtime.SetFinalizer(h, leakedHandle)
	return h
}

// A Handle owns a live worker until it is joined or detached.  Handles start in StateCreated and end
// in exactly one of StateJoined or StateDetached; any second resolution returns ErrResolved.
type Handle struct {
	id   string
	done chan struct{}

	control sync.Mutex
	state   State
}

// ID returns the worker's unique identifier.
func (h *Handle) ID() string { return h.id }

// State returns the handle's current lifecycle state.
func (h *Handle) State() State {
	h.control.Lock()
	defer h.control.Unlock()
	return h.state
}

// Join blocks until the worker returns, then resolves the handle.  After Join returns nil, everything
// the worker said to its sink has been said.  If ctx is cancelled first, Join returns the context's
// error and the handle remains resolvable -- the worker itself is not stopped.
func (h *Handle) Join(ctx context.Context) error {
	if st := h.State(); st != StateCreated {
		return fmt.Errorf(`%w, cannot join %v handle %v`, ErrResolved, st, h.id)
	}
	select {
	case <-h.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := h.transition(StateCreated, StateJoined); err != nil {
		return err
	}
	h.release()
	return nil
}

// Detach resolves the handle without waiting, relinquishing the worker.  The worker's goroutine runs
// on independently; it cannot be rejoined or queried afterward, and its remaining output may be cut
// short by process exit.
func (h *Handle) Detach() error {
	if err := h.transition(StateCreated, StateDetached); err != nil {
		return err
	}
	h.release()
	return nil
}

// transition moves the handle from one state to another, refusing anything but the expected current
// state so resolution happens at most once.
func (h *Handle) transition(from, to State) error {
	h.control.Lock()
	defer h.control.Unlock()
	if h.state != from {
		return fmt.Errorf(`%w, cannot make %v handle %v %v`, ErrResolved, h.state, h.id, to)
	}
	h.state = to
	return nil
}

// release drops the leak bookkeeping after a successful resolution.
func (h *Handle) release() {
	runtime.SetFinalizer(h, nil)
	untrack(h.id)
}

// leakedHandle is the finalizer for handles that were dropped without join or detach.  This is the
// fault the rest of the package exists to make avoidable; it is reported, not repaired.
func leakedHandle(h *Handle) {
	untrack(h.id)
	slog.Warn(`worker handle dropped without join or detach`, `id`, h.id, `state`, h.State().String())
}

// ErrResolved is returned by Join and Detach when the handle has already been resolved.
var ErrResolved error = errResolved{}

type errResolved struct{}

// Error implements the error interface by returning a static string, "handle already resolved"
func (errResolved) Error() string { return "handle already resolved" }

// A State is a position in the handle lifecycle.
type State int

const (
	// StateCreated handles own a worker that has not been joined or detached yet.
	StateCreated State = iota
	// StateJoined handles were resolved by waiting for the worker to finish.
	StateJoined
	// StateDetached handles were resolved by relinquishing the worker.
	StateDetached
)

// String describes the state in the terms the lifecycle is usually taught with.
func (st State) String() string {
	switch st {
	case StateCreated:
		return `created`
	case StateJoined:
		return `joined`
	case StateDetached:
		return `detached`
	default:
		return fmt.Sprintf(`state#%d`, int(st))
	}
}

// Outstanding returns the sorted ids of handles that have been created but neither joined nor
// detached.  Production paths should always leave this empty; tests lean on that.
func Outstanding() []string {
	tracker.control.Lock()
	defer tracker.control.Unlock()
	ids := make([]string, 0, len(tracker.live))
	for id := range tracker.live {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// tracker remembers unresolved handle ids by value so it never pins the handles themselves in memory,
// which would keep leakedHandle from ever running.
var tracker = struct {
	control sync.Mutex
	live    map[string]struct{}
}{live: map[string]struct{}{}}

func track(id string) {
	tracker.control.Lock()
	defer tracker.control.Unlock()
	tracker.live[id] = struct{}{}
}

func untrack(id string) {
	tracker.control.Lock()
	defer tracker.control.Unlock()
	delete(tracker.live, id)
}
