package spawn

import (
	"strings"
	"sync"
	"testing"
)

func TestWriterSink(t *testing.T) {
	var buf strings.Builder
	sink := WriterSink(&buf)
	sink.Say(`a`)
	sink.Say(`b`)
	if got, want := buf.String(), "a\nb\n"; got != want {
		t.Errorf(`got %q, want %q`, got, want)
	}
}

func TestSynchronizedSink(t *testing.T) {
	sink := Synchronized(Record())
	if Synchronized(sink) != sink {
		t.Error(`synchronizing twice should not stack mutexes`)
	}

	const producers, lines = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < lines; j++ {
				sink.Say(`line`)
			}
		}()
	}
	wg.Wait()
	rec := sink.(*syncSink).sink.(*Recorder)
	if got := rec.Count(`line`); got != producers*lines {
		t.Errorf(`got %d lines, want %d; interleaving may reorder lines but never lose them`, got, producers*lines)
	}
}

func TestRecorder(t *testing.T) {
	rec := Record()
	rec.Say(`x`)
	rec.Say(`y`)
	rec.Say(`x`)
	if got := rec.Count(`x`); got != 2 {
		t.Errorf(`got %d, want 2`, got)
	}
	lines := rec.Lines()
	if len(lines) != 3 || lines[1] != `y` {
		t.Errorf(`got %q, want [x y x]`, lines)
	}
	lines[0] = `mutated`
	if rec.Lines()[0] != `x` {
		t.Error(`Lines must return a copy`)
	}
}
