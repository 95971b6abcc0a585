package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchFile calls onChange once, then again each time path is written or
// created. The parent directory is watched rather than the file, so saves
// that write a temp file and rename it over path are still seen. It returns
// nil when ctx is done.
func watchFile(ctx context.Context, path string, logger *log.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	onChange()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if isFileChange(ev, path) {
				logger.Debug("project changed", "op", ev.Op.String(), "path", ev.Name)
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// isFileChange reports whether ev leaves new content at path.
func isFileChange(ev fsnotify.Event, path string) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(path) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
