package reflux

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a file of action batches and emits its contents each
// time it is written.
type FileWatcher struct {
	path string
}

// NewFileWatcher creates a FileWatcher for the given path.
func NewFileWatcher(path string) *FileWatcher {
	return &FileWatcher{path: path}
}

// Watch emits the current file contents immediately, then again on every
// write or create event that changed them. A single save often raises
// several events; contents equal to the last emission are skipped so a
// batch is not dispatched twice. Read errors skip the event; watcher errors
// are ignored and watching continues.
func (w *FileWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(w.path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch file %s: %w", w.path, err)
	}

	out := make(chan []byte)
	var last []byte
	emit := func() bool {
		data, err := os.ReadFile(w.path)
		if err != nil {
			return true
		}
		if last != nil && bytes.Equal(data, last) {
			return true
		}
		select {
		case out <- data:
			last = data
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(out)
		defer fsw.Close()

		if !emit() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !emit() {
					return
				}

			case _, ok := <-fsw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}
