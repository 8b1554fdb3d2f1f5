//go:build darwin
// +build darwin

package spawn

import (
	"strconv"
	"syscall"
)

// numCPU sniffs out the number of performance cores with a sysctl.  On M1 / M2 machines the logical
// count includes efficiency cores that drag a busy worker down, so we prefer the performance cluster
// when the sysctl answers.  Zero means the caller should fall back to the runtime's logical count.
func numCPU() int {
	str, err := syscall.Sysctl("hw.perflevel0.physicalcpu")
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(str)
	if err != nil || n < 1 {
		return 0
	}
	return n
}
