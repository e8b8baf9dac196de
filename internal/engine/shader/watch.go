package shader

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/tessterrain/internal/logger"
)

// Watcher reports edits to a set of shader source files.
//
// Parent directories are watched rather than the files themselves, so
// editors that save by renaming a temporary file are still seen.
type Watcher struct {
	fs    *fsnotify.Watcher
	files map[string]struct{}
}

// Watch starts watching the given files.
func Watch(files ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader watcher: %w", err)
	}

	w := &Watcher{fs: fw, files: make(map[string]struct{})}
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("shader watcher: %w", err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("shader watcher: watch %s: %w", dir, err)
		}
	}

	logger.Debug("watching shader sources", zap.Int("files", len(w.files)))
	return w, nil
}

// Changed drains pending events without blocking and reports whether any
// watched file was written, created or renamed since the last call.
func (w *Watcher) Changed() bool {
	changed := false
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return changed
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := w.files[abs]; ok {
				logger.Debug("shader source changed", zap.String("path", abs))
				changed = true
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return changed
			}
			logger.Warn("shader watcher error", zap.Error(err))
		default:
			return changed
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
