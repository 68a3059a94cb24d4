// Package watch monitors an input directory for collections becoming ready.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sectionrank/sectionrank/internal/collection"
)

// Watcher emits a collection directory whenever its query file is created or
// rewritten. New subdirectories of the input directory are added to the watch
// as they appear, so dropping a whole collection folder in works too.
type Watcher struct {
	watcher *fsnotify.Watcher
	log     *slog.Logger
}

func New(log *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{watcher: w, log: log}, nil
}

// Watch starts monitoring inputDir and its existing subdirectories. The
// returned channel carries collection directories ready to process and closes
// when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, inputDir string) (<-chan string, error) {
	if err := w.watcher.Add(inputDir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := w.watcher.Add(filepath.Join(inputDir, e.Name())); err != nil {
				w.log.Warn("failed to watch subdirectory", "dir", e.Name(), "error", err)
			}
		}
	}

	ready := make(chan string, 16)

	go func() {
		defer close(ready)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handle(ctx, event, ready)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Warn("watch error", "error", err)
			}
		}
	}()

	return ready, nil
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event, ready chan<- string) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.log.Warn("failed to watch new directory", "dir", event.Name, "error", err)
			}
			// The directory may already hold a query file copied in with it.
			if w.hasQueryFile(event.Name) {
				w.emit(ctx, event.Name, ready)
			}
			return
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if filepath.Base(event.Name) != collection.QueryFileName {
		return
	}
	w.emit(ctx, filepath.Dir(event.Name), ready)
}

func (w *Watcher) emit(ctx context.Context, dir string, ready chan<- string) {
	select {
	case ready <- dir:
	case <-ctx.Done():
	}
}

func (w *Watcher) hasQueryFile(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, collection.QueryFileName))
	return err == nil && !info.IsDir()
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
