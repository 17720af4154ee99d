package walker

import (
	"bytes"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/bamsammich/dux/internal/report"
)

// fanOut walks the root's entries with sibling subdirectories processed
// concurrently on a bounded pool. Each branch writes into its own buffer
// which is spliced into the shared sink when the subtree completes, so
// output stays grouped per subtree but subtree order is completion order.
func (w *Walker) fanOut(rootFd int, path *walkPath) int64 {
	dir := os.NewFile(uintptr(rootFd), path.disp.String())
	defer dir.Close()
	w.stats.AddDirsOpened(1)

	names, err := dir.Readdirnames(-1)
	if err != nil {
		w.stats.AddErrorsSkipped(1)
		w.log.Debug("partial directory read", "path", path.disp.String(), "error", err)
	}

	var (
		g     errgroup.Group
		total atomic.Int64
		mu    sync.Mutex // guards w.sink
	)
	g.SetLimit(w.cfg.Workers)

	for _, name := range names {
		w.stats.AddEntriesScanned(1)

		var st unix.Stat_t
		if err := unix.Fstatat(rootFd, name, &st, w.statFlags()); err != nil {
			w.stats.AddErrorsSkipped(1)
			w.log.Debug("skipping entry",
				"dir", path.disp.String(), "name", name, "reason", "stat failed", "error", err)
			continue
		}
		if w.cfg.OneFileSystem && statIdentity(&st).dev != w.rootDev {
			w.log.Debug("skipping entry",
				"dir", path.disp.String(), "name", name, "reason", "cross-device")
			continue
		}

		mark := path.push(name)
		display := path.disp.String()
		absolute := path.abs.String()
		path.pop(mark)

		if !w.cfg.Exclusions.Empty() && w.cfg.Exclusions.Match(absolute, name) {
			w.stats.AddEntriesExcluded(1)
			w.log.Debug("skipping entry", "path", display, "reason", "excluded")
			continue
		}

		if st.Mode&unix.S_IFMT != unix.S_IFDIR {
			if !w.cfg.CountHardLinks && statNlink(&st) > 1 {
				if !w.seen.shouldCount(statIdentity(&st)) {
					w.stats.AddHardlinksSkipped(1)
					continue
				}
			}
			size := w.cfg.Mode.FileSize(&st)
			w.stats.AddFilesCounted(1)
			total.Add(size)
			if w.cfg.ListFiles && !w.cfg.Summarize && size >= w.cfg.Threshold {
				mu.Lock()
				w.sink.Line(w.cfg.Format(size), display)
				mu.Unlock()
			}
			continue
		}

		childFd, err := unix.Openat(rootFd, name, w.openFlags(), 0)
		if err != nil {
			w.stats.AddErrorsSkipped(1)
			w.log.Debug("skipping entry", "path", display, "reason", "open failed", "error", err)
			total.Add(w.cfg.Mode.DirSize(&st))
			continue
		}

		own := w.cfg.Mode.DirSize(&st)
		g.Go(func() error {
			var buf bytes.Buffer
			bsink := report.NewSink(&buf)

			branch := *w
			branch.sink = bsink

			sub := own + branch.walkFd(childFd, newWalkPath(display, absolute), 1)
			if !w.cfg.Summarize && sub >= w.cfg.Threshold {
				bsink.Line(w.cfg.Format(sub), display)
			}
			_ = bsink.Flush() // in-memory buffer, cannot fail

			mu.Lock()
			w.sink.Append(buf.Bytes())
			mu.Unlock()
			total.Add(sub)
			return nil
		})
	}

	_ = g.Wait() // branches never return errors; skips are best-effort
	return total.Load()
}
