// Package watch triggers a governance run when new record files land in the
// records directory.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDefault coalesces a burst of record writes into a single run.
const debounceDefault = 500 * time.Millisecond

// pollDefault is the default polling interval when fsnotify is unavailable.
const pollDefault = 5 * time.Second

// RecordWatcher watches the records directory with fsnotify and invokes the
// handler once per debounced batch of new record files. Runs are serialized:
// the next batch waits for the handler to return.
type RecordWatcher struct {
	dir      string
	handler  func()
	debounce time.Duration
}

// NewRecordWatcher creates a watcher over the records directory.
func NewRecordWatcher(dir string, handler func()) *RecordWatcher {
	return &RecordWatcher{
		dir:      dir,
		handler:  handler,
		debounce: debounceDefault,
	}
}

// Run watches for new record files. Blocks until ctx is cancelled.
func (w *RecordWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	// pending flags that at least one record event passed debounce.
	// A single timer resets on each event; when it fires, one handler
	// invocation covers everything accumulated since the last run.
	var mu sync.Mutex
	pending := false

	trigger := make(chan struct{}, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range trigger {
			w.handler()
		}
	}()

	flush := func() {
		mu.Lock()
		fire := pending
		pending = false
		mu.Unlock()
		if !fire {
			return
		}
		select {
		case trigger <- struct{}{}:
		default:
			// A run is already queued; it will cover this batch.
		}
	}

	debounceTimer := time.NewTimer(w.debounce)
	debounceTimer.Stop()

	defer func() {
		debounceTimer.Stop()
		flush()
		close(trigger)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-debounceTimer.C:
			flush()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isRecordFile(event.Name) {
				continue
			}

			mu.Lock()
			pending = true
			mu.Unlock()

			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			_ = err
		}
	}
}

// PollWatcher triggers runs by polling the records directory for files not
// seen before. Fallback for filesystems where fsnotify does not work (NFS).
type PollWatcher struct {
	dir      string
	handler  func()
	interval time.Duration
	seen     map[string]bool
}

// NewPollWatcher creates a polling-based watcher.
func NewPollWatcher(dir string, handler func(), interval time.Duration) *PollWatcher {
	if interval == 0 {
		interval = pollDefault
	}
	return &PollWatcher{
		dir:      dir,
		handler:  handler,
		interval: interval,
		seen:     make(map[string]bool),
	}
}

// Run polls the records directory. Blocks until ctx is cancelled.
func (w *PollWatcher) Run(ctx context.Context) error {
	// Prime with existing files so only genuinely new records trigger runs.
	w.scan(false)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.scan(true)
		}
	}
}

// scan marks record files as seen; when fire is set, a batch with any new
// file triggers exactly one handler invocation.
func (w *PollWatcher) scan(fire bool) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	fresh := false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, e.Name())
		if !isRecordFile(path) || w.seen[path] {
			continue
		}
		w.seen[path] = true
		fresh = true
	}
	if fire && fresh {
		w.handler()
	}
}

// isRecordFile returns true for .json record files (not .tmp partial writes).
func isRecordFile(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(name, ".json") && !strings.HasSuffix(name, ".tmp")
}
