// Package demo drives the worker lifecycle scenarios: a conditional spawn resolved by join, and the
// same spawn resolved by detach.  Both write through one shared sink with no ordering between the
// caller's line and the worker's, which is the point.
package demo

import (
	"context"

	"github.com/swdunlop/spawn-go"
	"github.com/swdunlop/spawn-go/configuration"
	"github.com/swdunlop/spawn-go/internal/slog"
)

// CallerLine is what the calling goroutine says to the shared sink.
const CallerLine = `Output from main`

// Run spawns the configured task if the platform reports more than one execution unit, says the
// caller's line, and joins the worker.  When Run returns nil every worker line has reached the sink.
// On a single core machine no worker is spawned and only the caller's line appears.
func Run(ctx context.Context, cf configuration.Interface, sink spawn.Sink) error {
	return run(ctx, cf, sink, spawn.Cores(), join)
}

// Detach is Run except the caller does not wait: the handle is detached and the worker's remaining
// output races process exit.  Truncated worker output is tolerated here, not corrected.
func Detach(ctx context.Context, cf configuration.Interface, sink spawn.Sink) error {
	return run(ctx, cf, sink, spawn.Cores(), detach)
}

// run is the scenario shared by Run and Detach, with the core count and the resolution step injected
// so tests can pin both.
func run(
	ctx context.Context, cf configuration.Interface, sink spawn.Sink,
	cores int, resolve func(context.Context, *spawn.Handle) error,
) error {
	if cores <= 1 {
		slog.From(ctx).Info(`multi-core execution unavailable`, `cores`, cores)
		sink.Say(CallerLine)
		return nil
	}
	task, err := newTask(cf)
	if err != nil {
		return err
	}
	h := spawn.Go(task, sink)
	slog.From(ctx).Debug(`spawned worker`, `id`, h.ID(), `cores`, cores)
	sink.Say(CallerLine)
	return resolve(ctx, h)
}

func join(ctx context.Context, h *spawn.Handle) error { return h.Join(ctx) }

func detach(ctx context.Context, h *spawn.Handle) error {
	err := h.Detach()
	if err != nil {
		return err
	}
	slog.From(ctx).Debug(`detached worker`, `id`, h.ID())
	return nil
}

// newTask constructs the configured task, defaulting to the stock "count" implementation.
func newTask(cf configuration.Interface) (spawn.Task, error) {
	name := `count`
	err := configuration.Get(&name, cf, `task`)
	if err != nil {
		return nil, err
	}
	return spawn.New(name, cf)
}
