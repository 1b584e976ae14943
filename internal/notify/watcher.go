// Package notify watches the archive database file for external changes.
// Local-first archives commonly live in a synced folder (Dropbox, Syncthing),
// where the file can be replaced under a running process; the watcher lets
// the store reload instead of silently overwriting the newer copy on the next
// mutation.
package notify

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// ArchiveWatcher invokes a callback when the watched archive file changes on
// disk. Sync tools write in bursts (temp file, rename, metadata touch), so
// callbacks are rate-limited rather than fired per event.
type ArchiveWatcher struct {
	path     string
	onChange func()
	limiter  *rate.Limiter
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewArchiveWatcher watches archivePath. reloadsPerMinute caps how often
// onChange fires while the file churns; values below 1 fall back to 1.
func NewArchiveWatcher(archivePath string, reloadsPerMinute int, onChange func()) *ArchiveWatcher {
	if reloadsPerMinute < 1 {
		reloadsPerMinute = 1
	}
	return &ArchiveWatcher{
		path:     archivePath,
		onChange: onChange,
		limiter:  rate.NewLimiter(rate.Limit(float64(reloadsPerMinute)/60.0), 1),
		done:     make(chan struct{}),
	}
}

// Start begins watching. The parent directory is watched rather than the file
// itself, because sync tools replace files by rename, which would detach a
// file-level watch. Call Stop to clean up.
func (w *ArchiveWatcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return err
	}
	w.watcher = fsw

	go w.loop()
	log.Printf("notify: watching %s for external changes", w.path)
	return nil
}

// Stop shuts down the watcher and waits for the event loop to exit.
func (w *ArchiveWatcher) Stop() {
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
	<-w.done
}

func (w *ArchiveWatcher) loop() {
	defer close(w.done)
	for {
		select {
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if evt.Name != w.path {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.limiter.Allow() {
				continue
			}
			w.onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("notify: watcher error: %v", err)
		}
	}
}
