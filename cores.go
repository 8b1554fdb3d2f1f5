package spawn

import "runtime"

// Cores returns the number of concurrently executable threads the platform believes it can support.
// It never fails; a return of 0 means the count could not be determined and callers should assume a
// single core.
func Cores() int {
	if n := numCPU(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Parallel reports whether spawning a worker can actually run it alongside the caller.  A core count
// of 0 is "unknown, assume single core", not an error, so both 0 and 1 answer false.
func Parallel() bool { return Cores() > 1 }
