package dev

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	// ChangeRoute is a +page, +layout, +error or +server file.
	ChangeRoute ChangeType = iota
	// ChangeMatcher is a file in the matchers directory.
	ChangeMatcher
	// ChangeDir is a directory appearing or disappearing.
	ChangeDir
	// ChangeOther is any other file under the routes directory.
	ChangeOther
)

func (t ChangeType) String() string {
	switch t {
	case ChangeRoute:
		return "route"
	case ChangeMatcher:
		return "matcher"
	case ChangeDir:
		return "dir"
	default:
		return "other"
	}
}

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Routes is the routes directory.
	Routes string

	// Matchers is the parameter matcher directory. Optional.
	Matchers string

	// Ignore patterns to skip (globs).
	Ignore []string

	// Interval is the polling interval.
	Interval time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls the routes and matcher directories for changes.
type Watcher struct {
	config     WatcherConfig
	onChange   func([]Change)
	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	scanned    bool
	timestamps map[string]time.Time
	dirs       map[string]struct{}
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval == 0 {
		config.Interval = 100 * time.Millisecond
	}
	config.Ignore = append(append([]string{}, DefaultIgnore...), config.Ignore...)

	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
		dirs:       make(map[string]struct{}),
	}
}

// OnChange sets the callback for a batch of changes.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins watching for file changes. It blocks until ctx is done or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	w.emit(w.poll())

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.emit(w.poll())
		}
	}
}

// Prime records the current state of the watched directories without
// reporting anything. Changes made after Prime are reported once Start
// runs. Prime is a no-op after the first poll.
func (w *Watcher) Prime() {
	w.mu.Lock()
	scanned := w.scanned
	w.mu.Unlock()
	if !scanned {
		w.poll()
	}
}

func (w *Watcher) emit(changes []Change) {
	if len(changes) == 0 {
		return
	}
	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()
	if callback != nil {
		callback(changes)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// poll walks the watched directories and returns what changed since the
// previous poll. The first poll only records state.
func (w *Watcher) poll() []Change {
	files := make(map[string]time.Time)
	dirs := make(map[string]struct{})

	for _, root := range []string{w.config.Routes, w.config.Matchers} {
		if root == "" {
			continue
		}
		filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if p != root && w.shouldIgnore(p) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				dirs[p] = struct{}{}
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			files[p] = info.ModTime()
			return nil
		})
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var changes []Change
	if w.scanned {
		for p, mod := range files {
			if last, ok := w.timestamps[p]; !ok || mod.After(last) {
				changes = append(changes, Change{Path: p, Type: w.classify(p)})
			}
		}
		for p := range w.timestamps {
			if _, ok := files[p]; !ok {
				changes = append(changes, Change{Path: p, Type: w.classify(p)})
			}
		}
		for p := range dirs {
			if _, ok := w.dirs[p]; !ok {
				changes = append(changes, Change{Path: p, Type: ChangeDir})
			}
		}
		for p := range w.dirs {
			if _, ok := dirs[p]; !ok {
				changes = append(changes, Change{Path: p, Type: ChangeDir})
			}
		}
	}
	w.timestamps = files
	w.dirs = dirs
	w.scanned = true

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

// classify determines the type of a changed file.
func (w *Watcher) classify(p string) ChangeType {
	if w.config.Matchers != "" && isWithinDir(p, w.config.Matchers) {
		return ChangeMatcher
	}
	if strings.HasPrefix(filepath.Base(p), "+") {
		return ChangeRoute
	}
	return ChangeOther
}

// shouldIgnore checks if a path should be ignored.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	name := filepath.Base(fullPath)
	normalized := filepath.ToSlash(fullPath)

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		if name == pattern {
			return true
		}

		hasPathSep := strings.Contains(pattern, "/") || strings.Contains(pattern, "\\")
		hasGlob := strings.ContainsAny(pattern, "*?[")

		if hasGlob {
			if hasPathSep {
				if matched, _ := path.Match(filepath.ToSlash(pattern), normalized); matched {
					return true
				}
			} else if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
			continue
		}

		if hasPathSep {
			if pathMatchesSegments(normalized, filepath.ToSlash(pattern)) {
				return true
			}
			continue
		}

		if pathHasSegment(normalized, pattern) {
			return true
		}
	}

	return false
}

func pathHasSegment(path, segment string) bool {
	if segment == "" {
		return false
	}
	for _, part := range splitPathSegments(path) {
		if part == segment {
			return true
		}
	}
	return false
}

func pathMatchesSegments(path, pattern string) bool {
	pathParts := splitPathSegments(path)
	patternParts := splitPathSegments(pattern)
	if len(patternParts) == 0 || len(patternParts) > len(pathParts) {
		return false
	}

	for i := 0; i <= len(pathParts)-len(patternParts); i++ {
		match := true
		for j := range patternParts {
			if pathParts[i+j] != patternParts[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}

	return false
}

func splitPathSegments(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	result := parts[:0]
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}

func isWithinDir(path, dir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	absDir = filepath.Clean(absDir)
	if absPath == absDir {
		return true
	}
	if !strings.HasSuffix(absDir, string(os.PathSeparator)) {
		absDir += string(os.PathSeparator)
	}
	return strings.HasPrefix(absPath, absDir)
}
