package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Alia5/padmapper/internal/configpaths"
	"github.com/Alia5/padmapper/internal/log"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval coalesces the burst of events a single save produces.
const DebounceInterval = 100 * time.Millisecond

// Watch reloads the file whenever it is written, created or renamed, until
// ctx is done. The file's directory is watched so that atomic replacement
// by editors is seen.
func (f *File) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := configpaths.EnsureDir(f.path); err != nil {
		return fmt.Errorf("create bindings dir: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	f.logger.Debug("Watching bindings file", "path", f.path)

	target := filepath.Clean(f.path)
	timer := time.NewTimer(DebounceInterval)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			f.logger.Log(ctx, log.LevelTrace, "Bindings file event", "op", ev.Op.String())
			timer.Reset(DebounceInterval)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("Bindings watcher error", "error", err)
		case <-timer.C:
			f.Load()
		}
	}
}
