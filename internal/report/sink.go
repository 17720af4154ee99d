// Package report writes the per-entry output lines of a disk-usage run.
package report

import (
	"bufio"
	"fmt"
	"io"
)

// Sink is a buffered, ordered writer of result lines. It is not safe for
// concurrent use; parallel walks give each branch its own Sink and splice
// the finished buffers together with Append.
type Sink struct {
	w *bufio.Writer
}

// NewSink creates a Sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

// Line emits one result line: a left-aligned formatted size and a path.
func (s *Sink) Line(size, path string) {
	fmt.Fprintf(s.w, "%-10s %s\n", size, path)
}

// Total emits the closing grand-total line.
func (s *Sink) Total(size string) {
	s.Line(size, "total")
}

// Append splices a completed subtree buffer into the output verbatim.
func (s *Sink) Append(b []byte) {
	_, _ = s.w.Write(b) // write errors stick and surface at Flush
}

// Flush writes any buffered lines to the underlying writer.
func (s *Sink) Flush() error {
	return s.w.Flush()
}
