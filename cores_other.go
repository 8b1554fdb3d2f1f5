//go:build !darwin
// +build !darwin

package spawn

// numCPU has no platform-specific answer here; Cores falls back to the runtime's logical count.
func numCPU() int { return 0 }
