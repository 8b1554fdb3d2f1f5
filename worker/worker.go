// Package worker provides the stock task implementations, registered under the names "count" and
// "spin".  Import it for its side effects, the way cmd/spawn does.
package worker

import (
	"fmt"
	"runtime"

	"github.com/swdunlop/spawn-go"
	"github.com/swdunlop/spawn-go/configuration"
)

func init() {
	spawn.Register(`count`, newCount)
	spawn.Register(`spin`, newSpin)
}

// DefaultIterations is how many lines the count task writes when nothing says otherwise.
const DefaultIterations = 20

// DefaultLine is what a worker says when nothing says otherwise.
const DefaultLine = `Output from thread`

// Options describes the configuration options shared by the stock tasks.
type Options struct {
	// Iterations is the number of output operations the task performs, defaults to 20.
	Iterations int `cfg:"iterations"`

	// Line is the text of each output operation, defaults to "Output from thread".
	Line string `cfg:"line"`
}

func options(cf configuration.Interface) (Options, error) {
	opts := Options{Iterations: DefaultIterations, Line: DefaultLine}
	err := configuration.Unmarshal(&opts, cf)
	if err != nil {
		return opts, err
	}
	if opts.Iterations < 0 {
		return opts, fmt.Errorf(`iterations must not be negative, got %d`, opts.Iterations)
	}
	return opts, nil
}

// newCount builds the basic demonstration task: a fixed count of independent output operations, then
// return.  The task has no state machine of its own.
func newCount(cf configuration.Interface) (spawn.Task, error) {
	opts, err := options(cf)
	if err != nil {
		return nil, err
	}
	return func(sink spawn.Sink) {
		for i := 0; i < opts.Iterations; i++ {
			sink.Say(opts.Line)
		}
	}, nil
}

// newSpin builds a task that burns CPU between output operations, yielding after each round so a
// single-core scheduler still interleaves it with the caller.  Useful for watching a second core
// actually light up.
func newSpin(cf configuration.Interface) (spawn.Task, error) {
	opts, err := options(cf)
	if err != nil {
		return nil, err
	}
	return func(sink spawn.Sink) {
		for i := 0; i < opts.Iterations; i++ {
			spin()
			sink.Say(opts.Line)
			runtime.Gosched()
		}
	}, nil
}

// spin wastes a little CPU without touching memory shared with anyone else.
func spin() {
	x := 1
	for i := 0; i < 1<<16; i++ {
		x += i ^ x<<1
	}
	burned = x
}

// burned keeps the compiler from deciding spin is worthless.
var burned int
