package spawn

import (
	"strings"
	"testing"
)

func TestProbe(t *testing.T) {
	info := Probe()
	if info.Cores < 0 {
		t.Errorf(`got %d cores, want >= 0`, info.Cores)
	}
	if info.MaxProcs < 1 {
		t.Errorf(`got %d max procs, want >= 1`, info.MaxProcs)
	}
	if info.Goroutines < 1 {
		t.Errorf(`got %d goroutines, the probe itself runs on one`, info.Goroutines)
	}
	if info.Memory == 0 {
		t.Error(`got 0 bytes of memory, which seems unlikely`)
	}
}

func TestInfoSummary(t *testing.T) {
	sink := Record()
	Info{Cores: 4, MaxProcs: 4, Goroutines: 2, Memory: 8 << 30}.Summary(sink)
	lines := sink.Lines()
	if len(lines) != 4 {
		t.Fatalf(`got %d lines, want 4`, len(lines))
	}
	if !strings.HasPrefix(lines[0], `cores:`) {
		t.Errorf(`got %q, want a cores line first`, lines[0])
	}

	sink = Record()
	Info{}.Summary(sink)
	if !strings.Contains(sink.Lines()[0], `assuming single core`) {
		t.Errorf(`got %q, an unknown core count should read as single core`, sink.Lines()[0])
	}
}
