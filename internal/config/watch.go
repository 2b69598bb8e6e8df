package config

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the resolved config file on disk and delivers a reload
// signal whenever it changes, so the caller can re-run Load and feed a
// WmReloadConfig/ConfigFileChanged event into the reducer (spec.md §6.1's
// hot-reload requirement). Grounded on the standard single-file fsnotify
// watch idiom.
type Watcher struct {
	fsw    *fsnotify.Watcher
	path   string
	events chan struct{}
	errs   chan error
	done   chan struct{}
}

// NewWatcher starts watching path. Many editors save by writing a new
// file and renaming it over the old one, which fsnotify reports as
// Remove+Create rather than Write; both are treated as "the file changed"
// here, and the watch is placed on the parent directory from the start so
// a rename doesn't leave the watch pointing at a deleted inode.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := parentDir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		path:   path,
		events: make(chan struct{}, 1),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	const debounce = 100 * time.Millisecond
	var pending *time.Timer

	fire := func() {
		select {
		case w.events <- struct{}{}:
		default:
		}
	}

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounce, fire)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

// Events delivers a signal each time the watched file has settled after a
// change. Reads from it are coalesced: a burst of writes collapses into a
// single pending event.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Errors delivers watch-level errors (e.g. the watched directory itself
// was removed).
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher and releases its underlying OS resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
