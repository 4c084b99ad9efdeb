package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"lexbot/internal/logging"
)

// Watcher reloads the intent table when its YAML file changes on disk.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// WatchIntents watches path and invokes onChange after every write to it.
// The callback runs on the watcher goroutine; it must not block.
func WatchIntents(path string, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors commonly replace the
	// file on save, which drops a direct file watch.
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}
	target := filepath.Clean(path)
	log := logging.Get(logging.CategoryBoot)

	go func() {
		defer close(w.done)
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					log.Info("intent table changed, reloading")
					onChange(target)
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.Warn("intent table watch error: " + err.Error())
			}
		}
	}()

	return w, nil
}

// Close stops watching and waits for the watcher goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}
