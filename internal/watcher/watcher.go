// Package watcher observes directories for new or rewritten mesh files
// and reports them once writes settle.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/meshvault/meshvault/internal/utils/logger"
)

// DirWatcher watches directories for model files. Editors and slicers
// write STL output in bursts, so each path is debounced: the callback
// fires once per file after debounce of quiet time.
type DirWatcher struct {
	watcher  *fsnotify.Watcher
	callback func(string)
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	exts   map[string]struct{}
}

// NewDirWatcher creates a watcher that reports files whose extension is
// in exts (lowercase, with leading dot) to callback.
func NewDirWatcher(debounce time.Duration, exts []string, callback func(string)) (*DirWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	extSet := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		extSet[strings.ToLower(e)] = struct{}{}
	}

	return &DirWatcher{
		watcher:  fsw,
		callback: callback,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		exts:     extSet,
	}, nil
}

// Watch adds a directory to the watch set
func (dw *DirWatcher) Watch(dir string) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", dir, err)
	}
	if err := dw.watcher.Add(absPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", absPath, err)
	}
	logger.Info("Watching %s", absPath)
	return nil
}

// Start begins delivering debounced file events
func (dw *DirWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-dw.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					dw.handleFileChange(event.Name)
				}

			case err, ok := <-dw.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()
}

// handleFileChange resets the file's debounce timer on every event, so
// the callback only fires after the writer goes quiet.
func (dw *DirWatcher) handleFileChange(path string) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := dw.exts[ext]; !ok {
		return
	}

	dw.mu.Lock()
	defer dw.mu.Unlock()

	if timer, exists := dw.timers[path]; exists {
		timer.Stop()
	}
	dw.timers[path] = time.AfterFunc(dw.debounce, func() {
		dw.mu.Lock()
		delete(dw.timers, path)
		dw.mu.Unlock()
		dw.callback(path)
	})
}

// Close stops the watcher and cancels pending timers
func (dw *DirWatcher) Close() error {
	dw.mu.Lock()
	for path, timer := range dw.timers {
		timer.Stop()
		delete(dw.timers, path)
	}
	dw.mu.Unlock()
	return dw.watcher.Close()
}
