package spawn

import (
	"fmt"
	"runtime"

	"github.com/pbnjay/memory"
)

// Probe returns a snapshot of the hardware and runtime facts that decide whether spawning a worker
// buys any parallelism.
func Probe() Info {
	return Info{
		Cores:      Cores(),
		MaxProcs:   runtime.GOMAXPROCS(0),
		Goroutines: runtime.NumGoroutine(),
		Memory:     memory.TotalMemory(),
	}
}

// Info describes the execution units and memory the platform reports.
type Info struct {
	// Cores is the number of concurrently executable threads, 0 if undeterminable.
	Cores int `json:"cores" yaml:"cores"`

	// MaxProcs is how many OS threads the Go runtime will run simultaneously.
	MaxProcs int `json:"max_procs" yaml:"max_procs"`

	// Goroutines is the number of live goroutines at the time of the probe.
	Goroutines int `json:"goroutines" yaml:"goroutines"`

	// Memory is the total physical memory in bytes.
	Memory uint64 `json:"memory" yaml:"memory"`
}

// Summary writes the probe to a sink, one fact per line.
func (info Info) Summary(sink Sink) {
	cores := fmt.Sprintf(`cores:      %d`, info.Cores)
	if info.Cores == 0 {
		cores += ` (unknown, assuming single core)`
	}
	sink.Say(cores)
	sink.Say(fmt.Sprintf(`max procs:  %d`, info.MaxProcs))
	sink.Say(fmt.Sprintf(`goroutines: %d`, info.Goroutines))
	sink.Say(fmt.Sprintf(`memory:     %.1f GiB`, float64(info.Memory)/(1<<30)))
}
