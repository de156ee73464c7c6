// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches an import inbox directory, passes through only snapshot files,
// and waits for a file to go quiet before reporting it (copies and editors
// write a file in several bursts).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must see no events before onFile fires.
const DefaultSettle = 150 * time.Millisecond

// Snapshot suffixes accepted from the inbox.
var snapshotSuffixes = []string{".json", ".json.br"}

// Temp-file suffixes written by editors and partial downloads.
var ignoreSuffixes = []string{".swp", ".tmp", ".part", ".crdownload", "~"}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
	timers  map[string]*time.Timer

	// Settle overrides DefaultSettle when non-zero. Set before Watch.
	Settle time.Duration
}

// NewWatcher creates a new inbox watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:     fw,
		done:   make(chan struct{}),
		timers: make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring dir. onFile is called with the absolute path of
// each snapshot that was created or rewritten, once it has settled.
func (w *Watcher) Watch(dir string, onFile func(path string)) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "watch", Path: absPath, Err: os.ErrInvalid}
	}
	if err := w.fw.Add(absPath); err != nil {
		return err
	}

	settle := w.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if !IsSnapshot(event.Name) {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					w.schedule(event.Name, settle, onFile)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed; fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule (re)starts the settle timer for path.
func (w *Watcher) schedule(path string, settle time.Duration, onFile func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok && t.Stop() {
		t.Reset(settle)
		return
	}
	var t *time.Timer
	t = time.AfterFunc(settle, func() {
		w.mu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			return
		}
		if _, err := os.Stat(path); err != nil {
			return // moved away before it settled
		}
		onFile(path)
	})
	w.timers[path] = t
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	close(w.done)
	return w.fw.Close()
}

// IsSnapshot reports whether path looks like an importable snapshot.
// Hidden files and editor temp files never qualify.
func IsSnapshot(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if strings.HasPrefix(base, ".") {
		return false
	}
	for _, s := range ignoreSuffixes {
		if strings.HasSuffix(base, s) {
			return false
		}
	}
	for _, s := range snapshotSuffixes {
		if strings.HasSuffix(base, s) {
			return true
		}
	}
	return false
}
