// Package spawn describes a high level interface to native worker threads suitable for demonstrating the
// spawn / join / detach lifecycle.
package spawn

import (
	"fmt"

	"github.com/swdunlop/spawn-go/configuration"
)

// A Task is the unit of work handed to a spawned worker.  Tasks receive only the sink they should write
// human-readable output to; they own no shared state and return nothing.
type Task func(Sink)

// Register will register a named task implementation.
func Register(name string, fn func(configuration.Interface) (Task, error)) {
	_, dup := implementations[name]
	if dup {
		panic(fmt.Errorf(`%w, %q`, errDuplicateImplementation{}, name))
	}
	implementations[name] = fn
}

// errDuplicateImplementation is returned when an implementation is registered with a name that is already in use.
type errDuplicateImplementation struct{}

// Error implements the error interface by returning a static string, "duplicate implementation"
func (errDuplicateImplementation) Error() string { return "duplicate implementation" }

// New uses the named implementation to create a new task.
func New(implementation string, configuration configuration.Interface) (Task, error) {
	fn, ok := implementations[implementation]
	if !ok {
		return nil, fmt.Errorf(`%w, %q`, errUnknownImplementation{}, implementation)
	}
	return fn(configuration)
}

// implementations maps implementation names to their factory functions.
var implementations = map[string]func(configuration.Interface) (Task, error){}

// errUnknownImplementation is returned when an unknown implementation is requested.
type errUnknownImplementation struct{}

// Error implements the error interface by returning a static string, "unknown implementation"
func (errUnknownImplementation) Error() string { return "unknown implementation" }
