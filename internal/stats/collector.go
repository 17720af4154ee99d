// Package stats tracks traversal counters for the end-of-run summary.
package stats

import (
	"sync/atomic"
	"time"
)

// Collector counts what a walk observed, using atomic counters so the
// parallel walk can share one instance across branches.
type Collector struct {
	entriesScanned   atomic.Int64
	dirsOpened       atomic.Int64
	filesCounted     atomic.Int64
	hardlinksSkipped atomic.Int64
	entriesExcluded  atomic.Int64
	errorsSkipped    atomic.Int64
	startTime        time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

func (c *Collector) AddEntriesScanned(n int64)   { c.entriesScanned.Add(n) }
func (c *Collector) AddDirsOpened(n int64)       { c.dirsOpened.Add(n) }
func (c *Collector) AddFilesCounted(n int64)     { c.filesCounted.Add(n) }
func (c *Collector) AddHardlinksSkipped(n int64) { c.hardlinksSkipped.Add(n) }
func (c *Collector) AddEntriesExcluded(n int64)  { c.entriesExcluded.Add(n) }
func (c *Collector) AddErrorsSkipped(n int64)    { c.errorsSkipped.Add(n) }

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	EntriesScanned   int64
	DirsOpened       int64
	FilesCounted     int64
	HardlinksSkipped int64
	EntriesExcluded  int64
	ErrorsSkipped    int64
	Elapsed          time.Duration
}

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		EntriesScanned:   c.entriesScanned.Load(),
		DirsOpened:       c.dirsOpened.Load(),
		FilesCounted:     c.filesCounted.Load(),
		HardlinksSkipped: c.hardlinksSkipped.Load(),
		EntriesExcluded:  c.entriesExcluded.Load(),
		ErrorsSkipped:    c.errorsSkipped.Load(),
		Elapsed:          time.Since(c.startTime),
	}
}
