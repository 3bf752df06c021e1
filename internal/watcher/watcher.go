package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	DefaultDebounce = 500 * time.Millisecond
	defaultPattern  = "*.json"
)

// Event types
const (
	EventInitial = "initial"
	EventChange  = "change"
)

// ExportWatcher watches one export folder and asks for a full rebuild
// whenever its JSON files settle after a change.
type ExportWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	pattern  string
	debounce time.Duration
	ignored  map[string]bool
	handlers []EventHandler
	mu       sync.RWMutex
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// Event asks handlers to rebuild from Files, the folder's current
// matching files in name order.
type Event struct {
	Type      string    `json:"type"`
	Path      string    `json:"path"`
	Files     []string  `json:"files"`
	Timestamp time.Time `json:"timestamp"`
}

// EventHandler processes rebuild requests
type EventHandler func(event Event) error

// NewExportWatcher creates a watcher for dir. A debounce of zero uses
// DefaultDebounce.
func NewExportWatcher(dir string, debounce time.Duration) (*ExportWatcher, error) {
	if len(dir) >= 2 && dir[:2] == "~/" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, dir[2:])
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("directory does not exist: %s", dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	return &ExportWatcher{
		watcher:  fsWatcher,
		dir:      dir,
		pattern:  defaultPattern,
		debounce: debounce,
		ignored:  make(map[string]bool),
		stopCh:   make(chan struct{}),
	}, nil
}

// AddHandler adds an event handler
func (w *ExportWatcher) AddHandler(handler EventHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Ignore excludes a file from both change detection and Files, typically
// the stats file the handler writes back into the folder.
func (w *ExportWatcher) Ignore(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.ignored[abs] = true
}

// Start emits an initial rebuild for the files already present, then
// begins watching.
func (w *ExportWatcher) Start() error {
	w.rebuild(EventInitial, w.dir)

	w.wg.Add(1)
	go w.watchLoop()

	return nil
}

// Stop stops the watcher
func (w *ExportWatcher) Stop() error {
	close(w.stopCh)
	w.wg.Wait()
	return w.watcher.Close()
}

// Files lists the matching files currently in the folder.
func (w *ExportWatcher) Files() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(w.dir, w.pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	files := matches[:0]
	for _, path := range matches {
		if !w.isIgnored(path) {
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return files, nil
}

func (w *ExportWatcher) watchLoop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	var trigger string

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}

			trigger = event.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.rebuild(EventChange, trigger)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		}
	}
}

func (w *ExportWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if matched, _ := filepath.Match(w.pattern, filepath.Base(event.Name)); !matched {
		return false
	}
	return !w.isIgnored(event.Name)
}

func (w *ExportWatcher) isIgnored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ignored[abs]
}

func (w *ExportWatcher) rebuild(eventType, trigger string) {
	files, err := w.Files()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		return
	}

	w.notifyHandlers(Event{
		Type:      eventType,
		Path:      trigger,
		Files:     files,
		Timestamp: time.Now(),
	})
}

// notifyHandlers sends event to all registered handlers
func (w *ExportWatcher) notifyHandlers(event Event) {
	w.mu.RLock()
	handlers := make([]EventHandler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			fmt.Fprintf(os.Stderr, "Handler error: %v\n", err)
		}
	}
}
