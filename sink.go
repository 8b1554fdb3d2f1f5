package spawn

import (
	"io"
	"sync"
)

// A Sink is where callers and workers say things.  Multiple goroutines may share one sink; unless the
// sink is wrapped with Synchronized, simultaneous writes may interleave at whatever granularity the
// underlying stream permits.
type Sink interface {
	// Say writes a single line of human-readable output.  The line should not contain a newline, the
	// sink supplies one.
	Say(text string)
}

// WriterSink returns a sink that writes each line to w with a trailing newline.  It does not coordinate
// concurrent writers.
func WriterSink(w io.Writer) Sink { return writerSink{w} }

type writerSink struct{ w io.Writer }

func (s writerSink) Say(text string) {
	_, _ = io.WriteString(s.w, text+"\n")
}

// Synchronized wraps a sink with a mutex so each line is produced whole even when callers and workers
// say things at the same time.  Line order between goroutines is still unspecified.
func Synchronized(sink Sink) Sink {
	if _, ok := sink.(*syncSink); ok {
		return sink
	}
	return &syncSink{sink: sink}
}

type syncSink struct {
	control sync.Mutex
	sink    Sink
}

func (s *syncSink) Say(text string) {
	s.control.Lock()
	defer s.control.Unlock()
	s.sink.Say(text)
}

// Record returns a sink that captures lines in memory for inspection, which is mostly useful in tests.
// The recorder is safe for concurrent use.
func Record() *Recorder { return new(Recorder) }

// A Recorder is a sink that remembers every line said to it.
type Recorder struct {
	control sync.Mutex
	lines   []string
}

// Say implements Sink by appending the line to the recorder.
func (r *Recorder) Say(text string) {
	r.control.Lock()
	defer r.control.Unlock()
	r.lines = append(r.lines, text)
}

// Lines returns a copy of the recorded lines in the order they were said.
func (r *Recorder) Lines() []string {
	r.control.Lock()
	defer r.control.Unlock()
	lines := make([]string, len(r.lines))
	copy(lines, r.lines)
	return lines
}

// Count returns how many recorded lines equal text.
func (r *Recorder) Count(text string) int {
	r.control.Lock()
	defer r.control.Unlock()
	n := 0
	for _, line := range r.lines {
		if line == text {
			n++
		}
	}
	return n
}
