package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher keeps the latest valid configuration of a file on disk.
// Invalid edits are logged and ignored; the previous config stays current.
type Watcher struct {
	path    string
	logger  *log.Logger
	watcher *fsnotify.Watcher

	mu      sync.RWMutex
	current OddOneOutConfig
	onLoad  []func(OddOneOutConfig)

	done chan struct{}
	once sync.Once
}

// Watch loads path and starts watching it for changes.
// The parent directory is watched so editors that replace the file are handled.
func Watch(path string, logger *log.Logger) (*Watcher, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: cannot create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: cannot watch %s: %w", path, err)
	}

	w := &Watcher{
		path:    path,
		logger:  logger,
		watcher: fw,
		current: cfg,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Current returns the most recent valid configuration.
func (w *Watcher) Current() OddOneOutConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnReload registers a callback invoked after each successful reload.
// Callbacks run on the watcher goroutine.
func (w *Watcher) OnReload(fn func(OddOneOutConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onLoad = append(w.onLoad, fn)
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	target := filepath.Clean(w.path)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", "path", w.path, "error", err)
		return
	}
	cfg, err := Parse(data, w.path)
	if err != nil {
		w.logger.Warn("config reload rejected", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	w.current = cfg
	callbacks := append([]func(OddOneOutConfig){}, w.onLoad...)
	w.mu.Unlock()

	w.logger.Info("config reloaded", "path", w.path)
	for _, fn := range callbacks {
		fn(cfg)
	}
}
