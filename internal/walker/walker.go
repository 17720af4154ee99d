// Package walker implements the fd-relative traversal engine that computes
// disk usage of a directory tree. Children are opened and stat'd relative
// to their parent's descriptor, so no path is ever re-resolved mid-walk.
package walker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/bamsammich/dux/internal/exclude"
	"github.com/bamsammich/dux/internal/report"
	"github.com/bamsammich/dux/internal/stats"
)

// Config is the immutable traversal configuration, shared by reference
// through the whole recursion.
type Config struct {
	// Root is the directory to walk. Empty means the working directory.
	Root string
	// MaxDepth stops descent below this depth; 0 means unbounded.
	MaxDepth int
	// OneFileSystem skips entries whose device differs from the root's.
	OneFileSystem bool
	// Exclusions skips matching entries entirely.
	Exclusions *exclude.Set
	// Mode converts stat results into accounted sizes.
	Mode SizeMode
	// Format renders an accounted size for output.
	Format func(int64) string
	// Threshold is the minimum reportable size, in Mode units.
	Threshold int64
	// Summarize suppresses every line except the root's.
	Summarize bool
	// ListFiles reports individual files, not just directories.
	ListFiles bool
	// CountHardLinks counts every link to an inode independently.
	CountHardLinks bool
	// FollowSymlinks resolves symlinks when stat'ing and opening.
	FollowSymlinks bool
	// Workers beyond 1 walks the root's subdirectories concurrently.
	// Sibling subtree output order is then undefined.
	Workers int
}

// Walker traverses one directory tree depth-first and reports sizes
// post-order: children before their parent.
type Walker struct {
	cfg     Config
	sink    *report.Sink
	stats   *stats.Collector
	seen    identitySet
	rootDev uint64
	log     *slog.Logger
}

// New creates a Walker emitting to sink and counting into collector.
func New(cfg Config, sink *report.Sink, collector *stats.Collector) *Walker {
	if cfg.Exclusions == nil {
		cfg.Exclusions = exclude.NewSet()
	}
	if cfg.Format == nil {
		cfg.Format = func(n int64) string { return fmt.Sprintf("%d", n) }
	}
	var seen identitySet = make(seenSet)
	if cfg.Workers > 1 {
		seen = newLockedSet()
	}
	return &Walker{
		cfg:   cfg,
		sink:  sink,
		stats: collector,
		seen:  seen,
		log:   slog.Default(),
	}
}

// Walk runs the traversal and returns the tree total in the configured
// unit. Root-level failures are fatal; everything below the root is best
// effort and degrades the total instead of aborting.
func (w *Walker) Walk() (int64, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return 0, fmt.Errorf("resolve working directory: %w", err)
	}

	root := w.cfg.Root
	if root == "" {
		root = cwd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return 0, fmt.Errorf("resolve root %s: %w", root, err)
	}

	var st unix.Stat_t
	if err := unix.Fstatat(unix.AT_FDCWD, root, &st, w.statFlags()); err != nil {
		return 0, fmt.Errorf("stat root %s: %w", root, err)
	}
	if w.cfg.OneFileSystem {
		w.rootDev = statIdentity(&st).dev
	}

	fd, err := unix.Open(root, w.openFlags(), 0)
	if err != nil {
		return 0, fmt.Errorf("open root %s: %w", root, err)
	}

	// Relative-looking output only when walking the working directory.
	display := root
	if absRoot == cwd {
		display = "."
	}

	path := newWalkPath(display, absRoot)
	total := w.cfg.Mode.DirSize(&st)
	if w.cfg.Workers > 1 {
		total += w.fanOut(fd, path)
	} else {
		total += w.walkFd(fd, path, 0)
	}

	if w.cfg.Summarize || total >= w.cfg.Threshold {
		w.sink.Line(w.cfg.Format(total), display)
	}
	return total, nil
}

func (w *Walker) openFlags() int {
	flags := unix.O_RDONLY | unix.O_DIRECTORY
	if !w.cfg.FollowSymlinks {
		flags |= unix.O_NOFOLLOW
	}
	return flags
}

func (w *Walker) statFlags() int {
	if w.cfg.FollowSymlinks {
		return 0
	}
	return unix.AT_SYMLINK_NOFOLLOW
}

// walkFd drains one open directory and returns the subtree total, not
// including the directory's own contribution (the parent folds that in).
// It owns fd and closes it on every return path.
func (w *Walker) walkFd(fd int, path *walkPath, depth int) int64 {
	dir := os.NewFile(uintptr(fd), path.disp.String())
	defer dir.Close()
	w.stats.AddDirsOpened(1)

	// Readdirnames never reports "." or "..". On error it returns the
	// names read so far; an unreadable remainder degrades the total.
	names, err := dir.Readdirnames(-1)
	if err != nil {
		w.stats.AddErrorsSkipped(1)
		w.log.Debug("partial directory read", "path", path.disp.String(), "error", err)
	}

	var total int64
	for _, name := range names {
		total += w.visit(fd, name, path, depth)
	}
	return total
}

// visit applies the per-entry policy chain, in order: stat relative to the
// parent fd, filesystem boundary, exclusion, then directory or leaf
// accounting. It returns the entry's contribution to the parent total.
func (w *Walker) visit(parentFd int, name string, path *walkPath, depth int) int64 {
	w.stats.AddEntriesScanned(1)

	var st unix.Stat_t
	if err := unix.Fstatat(parentFd, name, &st, w.statFlags()); err != nil {
		w.stats.AddErrorsSkipped(1)
		w.log.Debug("skipping entry",
			"dir", path.disp.String(), "name", name, "reason", "stat failed", "error", err)
		return 0
	}

	if w.cfg.OneFileSystem && statIdentity(&st).dev != w.rootDev {
		w.log.Debug("skipping entry",
			"dir", path.disp.String(), "name", name, "reason", "cross-device")
		return 0
	}

	mark := path.push(name)
	defer path.pop(mark)

	if !w.cfg.Exclusions.Empty() && w.cfg.Exclusions.Match(path.abs.String(), name) {
		w.stats.AddEntriesExcluded(1)
		w.log.Debug("skipping entry", "path", path.disp.String(), "reason", "excluded")
		return 0
	}

	if st.Mode&unix.S_IFMT == unix.S_IFDIR {
		return w.visitDir(parentFd, name, &st, path, depth)
	}
	return w.visitLeaf(&st, path.disp.String(), w.sink)
}

// visitDir recurses into a subdirectory and emits its line once the
// subtree completes, children first.
func (w *Walker) visitDir(parentFd int, name string, st *unix.Stat_t, path *walkPath, depth int) int64 {
	own := w.cfg.Mode.DirSize(st)

	// The depth limit cuts descent only; the boundary directory's own
	// stat still counts toward the parent.
	if w.cfg.MaxDepth > 0 && depth >= w.cfg.MaxDepth {
		return own
	}

	childFd, err := unix.Openat(parentFd, name, w.openFlags(), 0)
	if err != nil {
		w.stats.AddErrorsSkipped(1)
		w.log.Debug("skipping entry",
			"path", path.disp.String(), "reason", "open failed", "error", err)
		return own
	}

	sub := own + w.walkFd(childFd, path, depth+1)
	if !w.cfg.Summarize && sub >= w.cfg.Threshold {
		w.sink.Line(w.cfg.Format(sub), path.disp.String())
	}
	return sub
}

// visitLeaf accounts one non-directory entry, deduplicating hard links,
// and reports it eagerly when listing files.
func (w *Walker) visitLeaf(st *unix.Stat_t, display string, sink *report.Sink) int64 {
	if !w.cfg.CountHardLinks && statNlink(st) > 1 {
		if !w.seen.shouldCount(statIdentity(st)) {
			w.stats.AddHardlinksSkipped(1)
			return 0
		}
	}

	size := w.cfg.Mode.FileSize(st)
	w.stats.AddFilesCounted(1)

	if w.cfg.ListFiles && !w.cfg.Summarize && size >= w.cfg.Threshold {
		sink.Line(w.cfg.Format(size), display)
	}
	return size
}
