package source

import (
	"cmp"
	"context"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/semonto/source/parser"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// WatchConfig configures document file watching.
type WatchConfig struct {
	// Debounce is the quiet period that closes a batch of changes.
	Debounce time.Duration

	// Extensions lists file extensions to watch (e.g., [".nt", ".jsonld"]).
	Extensions []string

	// ExcludeDirs lists directory names to skip (e.g., [".git", "vendor"]).
	ExcludeDirs []string
}

// DefaultWatchConfig returns default watch configuration.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		Debounce:    defaultDebounce,
		Extensions:  parser.SupportedExtensions(),
		ExcludeDirs: []string{".git", "node_modules", "vendor"},
	}
}

// ChangeOp is the kind of content change of a document.
type ChangeOp string

const (
	ChangeCreated  ChangeOp = "create"
	ChangeModified ChangeOp = "modify"
	ChangeDeleted  ChangeOp = "delete"
)

// Change is a content change of one document.
type Change struct {
	// Path is relative to the watched root, slash separated.
	Path    string
	AbsPath string
	Op      ChangeOp
}

// Batch holds the changes of one quiet period in path order, at most one
// per document.
type Batch []Change

// Paths returns the relative paths of the batch.
func (b Batch) Paths() []string {
	out := make([]string, len(b))
	for i, c := range b {
		out[i] = c.Path
	}
	return out
}

// merge folds next into b. A document created and then deleted before the
// batch was consumed disappears; one deleted and recreated is modified.
func (b Batch) merge(next Batch) Batch {
	byPath := make(map[string]Change, len(b)+len(next))
	for _, c := range b {
		byPath[c.Path] = c
	}
	for _, c := range next {
		prev, ok := byPath[c.Path]
		switch {
		case !ok:
			byPath[c.Path] = c
		case prev.Op == ChangeCreated && c.Op == ChangeDeleted:
			delete(byPath, c.Path)
		case prev.Op == ChangeCreated:
			// still new to the consumer
		case prev.Op == ChangeDeleted && c.Op != ChangeDeleted:
			c.Op = ChangeModified
			byPath[c.Path] = c
		default:
			byPath[c.Path] = c
		}
	}
	return slices.SortedFunc(maps.Values(byPath), func(a, b Change) int {
		return cmp.Compare(a.Path, b.Path)
	})
}

// Watcher watches a source tree and emits a Batch once the tree has been
// quiet for the debounce period. Rewrites with identical content are not
// changes. Batches the consumer has not picked up yet absorb later ones, so
// no change is lost while a rebuild runs.
type Watcher struct {
	root       string
	debounce   time.Duration
	fsw        *fsnotify.Watcher
	logger     *slog.Logger
	extensions map[string]bool
	excludes   map[string]bool

	mu     sync.Mutex
	hashes map[string]string // by relative path

	batches chan Batch
	done    chan struct{}
	started atomic.Bool
}

// NewWatcher creates a watcher rooted at root. Empty config fields take
// their defaults.
func NewWatcher(config WatchConfig, root string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultWatchConfig()
	if config.Debounce <= 0 {
		config.Debounce = defaults.Debounce
	}
	if len(config.Extensions) == 0 {
		config.Extensions = defaults.Extensions
	}
	if len(config.ExcludeDirs) == 0 {
		config.ExcludeDirs = defaults.ExcludeDirs
	}

	extensions := make(map[string]bool, len(config.Extensions))
	for _, ext := range config.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}
	excludes := make(map[string]bool, len(config.ExcludeDirs))
	for _, dir := range config.ExcludeDirs {
		excludes[dir] = true
	}

	return &Watcher{
		root:       root,
		debounce:   config.Debounce,
		fsw:        fsw,
		logger:     logger,
		extensions: extensions,
		excludes:   excludes,
		hashes:     make(map[string]string),
		batches:    make(chan Batch),
		done:       make(chan struct{}),
	}, nil
}

// Batches returns the channel of change batches. It is closed once the
// watcher stops.
func (w *Watcher) Batches() <-chan Batch {
	return w.batches
}

// Start adds watches below the root and begins emitting batches.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watchTree(w.root); err != nil {
		return err
	}
	w.started.Store(true)
	go w.run(ctx)

	w.logger.Info("Source watcher started",
		"root", w.root,
		"debounce", w.debounce,
		"extensions", slices.Sorted(maps.Keys(w.extensions)))
	return nil
}

// Stop closes the watcher and waits for the event loop when it was started.
func (w *Watcher) Stop() error {
	err := w.fsw.Close()
	if !w.started.Load() {
		return err
	}
	select {
	case <-w.done:
	case <-time.After(5 * time.Second):
		w.logger.Warn("Source watcher did not stop in time")
	}
	return err
}

// SetHash records the content hash of a loaded document.
func (w *Watcher) SetHash(path, hash string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hashes[path] = hash
}

// Hash returns the recorded content hash of a document.
func (w *Watcher) Hash(path string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	hash, ok := w.hashes[path]
	return hash, ok
}

func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(filepath.Base(path)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) skipDir(base string) bool {
	return w.excludes[base] || strings.HasPrefix(base, ".")
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.batches)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	touched := make(map[string]bool)
	var (
		settled <-chan time.Time
		ready Batch
	)
	for {
		var out chan<- Batch
		if len(ready) > 0 {
			out = w.batches
		}

		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				touched[event.Name] = true
				timer.Reset(w.debounce)
				settled = timer.C
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-settled:
			settled = nil
			ready = ready.merge(w.diff(slices.Sorted(maps.Keys(touched))))
			clear(touched)

		case out <- ready:
			w.logger.Debug("Sources changed", "files", ready.Paths())
			ready = nil
		}
	}
}

// relevant reports whether event touches a watched document. New
// directories are watched as a side effect.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if w.extensions[strings.ToLower(filepath.Ext(event.Name))] {
		return true
	}
	if event.Has(fsnotify.Create) && !w.skipDir(filepath.Base(event.Name)) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watchTree(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
			}
		}
	}
	return false
}

// diff compares the touched files with their recorded hashes.
func (w *Watcher) diff(paths []string) Batch {
	var batch Batch
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, abs := range paths {
		rel := abs
		if r, err := filepath.Rel(w.root, abs); err == nil {
			rel = filepath.ToSlash(r)
		}
		old, known := w.hashes[rel]

		content, err := os.ReadFile(abs)
		switch {
		case os.IsNotExist(err):
			if known {
				delete(w.hashes, rel)
				batch = append(batch, Change{Path: rel, AbsPath: abs, Op: ChangeDeleted})
			}
			continue
		case err != nil:
			w.logger.Warn("Failed to read changed source", "path", rel, "error", err)
			continue
		}

		hash := parser.ContentHash(content)
		if known && hash == old {
			continue
		}
		w.hashes[rel] = hash
		op := ChangeCreated
		if known {
			op = ChangeModified
		}
		batch = append(batch, Change{Path: rel, AbsPath: abs, Op: op})
	}
	return batch
}
