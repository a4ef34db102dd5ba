// Package preview re-renders a card whenever its snapshot file changes.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long Watch waits for writes to settle before calling
// onChange. Editors often save a file in several steps.
const Debounce = 100 * time.Millisecond

// Watch calls onChange once up front and then after every settled change
// to path, until ctx is cancelled. Errors from onChange are logged and do
// not stop the watch.
func Watch(ctx context.Context, path string, onChange func() error, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors that replace the file on save would
	// otherwise drop the watch.
	cleanPath := filepath.Clean(path)
	dir := filepath.Dir(cleanPath)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}

	run := func() {
		if err := onChange(); err != nil {
			logger.Error("preview render failed", "path", path, "err", err)
			return
		}
		logger.Info("preview rendered", "path", path)
	}

	logger.Info("watching", "path", path)
	run()

	timer := time.NewTimer(Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != cleanPath {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
				timer.Reset(Debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		case <-timer.C:
			run()
		}
	}
}
