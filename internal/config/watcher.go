package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Store when the global settings document or a project
// rule file changes.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	wg       sync.WaitGroup

	// OnReload runs after every debounced reload.
	OnReload func()
	// OnError receives watcher errors.
	OnError func(error)

	debounce     time.Duration
	pendingTimer *time.Timer
	timerMu      sync.Mutex
	stopOnce     sync.Once
	files        map[string]bool
}

// NewWatcher creates a watcher for store covering the given project dirs.
func NewWatcher(store *Store, projectDirs ...string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		store:    store,
		watcher:  fsWatcher,
		stopChan: make(chan struct{}),
		debounce: 100 * time.Millisecond,
		files:    map[string]bool{filepath.Clean(store.GlobalPath()): true},
	}
	for _, dir := range projectDirs {
		for _, p := range ProjectRulesCandidates(dir) {
			w.files[filepath.Clean(p)] = true
		}
	}
	return w, nil
}

// Dirs returns the directories the watcher observes.
func (w *Watcher) Dirs() []string {
	seen := map[string]bool{}
	var dirs []string
	for f := range w.files {
		d := filepath.Dir(f)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Start adds the watched directories and begins processing events.
// Directories that don't exist yet are created for the global settings and
// skipped for projects.
func (w *Watcher) Start() error {
	globalDir := filepath.Dir(w.store.GlobalPath())
	if err := os.MkdirAll(globalDir, 0o750); err != nil {
		return err
	}
	for _, dir := range w.Dirs() {
		if err := w.watcher.Add(dir); err != nil {
			if dir == globalDir {
				return err
			}
			w.reportError(err)
		}
	}

	w.wg.Add(1)
	go w.run()
	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.wg.Wait()

		w.timerMu.Lock()
		if w.pendingTimer != nil {
			w.pendingTimer.Stop()
		}
		w.timerMu.Unlock()

		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError(err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.files[filepath.Clean(event.Name)] {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.scheduleReload()
}

func (w *Watcher) scheduleReload() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.pendingTimer != nil {
		w.pendingTimer.Stop()
	}
	w.pendingTimer = time.AfterFunc(w.debounce, w.doReload)
}

func (w *Watcher) doReload() {
	w.store.Reload()
	if w.OnReload != nil {
		w.OnReload()
	}
}

func (w *Watcher) reportError(err error) {
	if w.OnError != nil {
		w.OnError(err)
	}
}
