// Package exclude decides which directory entries a traversal skips, based
// on absolute directory paths and file-extension patterns loaded from an
// exclusion file.
package exclude

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Set holds the exclusion criteria. Directories are excluded by resolved
// absolute path; files are excluded by extension.
type Set struct {
	paths    map[string]struct{}
	patterns map[string]struct{}
}

// NewSet creates an empty exclusion set.
func NewSet() *Set {
	return &Set{
		paths:    make(map[string]struct{}),
		patterns: make(map[string]struct{}),
	}
}

// AddPath registers an absolute directory path to exclude.
func (s *Set) AddPath(path string) {
	s.paths[path] = struct{}{}
}

// AddPattern registers a file extension to exclude, without the leading "*.".
func (s *Set) AddPattern(ext string) {
	s.patterns[ext] = struct{}{}
}

// Empty reports whether the set excludes nothing.
func (s *Set) Empty() bool {
	return len(s.paths) == 0 && len(s.patterns) == 0
}

// Match reports whether an entry is excluded. absPath is the entry's
// resolved absolute path, name its final path component. Either criterion
// excludes: an exact path match, or the extension after the last dot in
// name matching a registered pattern. A leading dot alone is not an
// extension, so dotfiles like ".log" never match pattern "log".
func (s *Set) Match(absPath, name string) bool {
	if _, ok := s.paths[absPath]; ok {
		return true
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 && i < len(name)-1 {
		if _, ok := s.patterns[name[i+1:]]; ok {
			return true
		}
	}
	return false
}

// LoadFile reads an exclusion file into a Set. The file is newline
// delimited: lines naming an existing directory (resolved against cwd when
// relative) become path entries, "*.ext" lines become pattern entries, and
// anything else is ignored. Blank lines and "#" comments are skipped.
func LoadFile(path, cwd string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exclusion file: %w", err)
	}
	defer f.Close()

	set := NewSet()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		resolved := line
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(cwd, resolved)
		}
		if info, err := os.Stat(resolved); err == nil && info.IsDir() {
			set.AddPath(resolved)
			continue
		}
		if ext, ok := strings.CutPrefix(line, "*."); ok && ext != "" {
			set.AddPattern(ext)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read exclusion file: %w", err)
	}
	return set, nil
}
