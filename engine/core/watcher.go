package core

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reloads a configuration file whenever it changes on disk and
// hands the parsed result to a callback. The callback runs on the watcher
// goroutine; callers that own single threaded state should forward the value
// to their own loop.
type ConfigWatcher struct {
	path     string
	onChange func(*Config)

	mutex    sync.Mutex
	fsnotify *fsnotify.Watcher
	isClosed bool
	started  bool
	done     chan struct{}
	stopped  chan struct{}
}

func NewConfigWatcher(path string, onChange func(*Config)) (*ConfigWatcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fsWatch.Close()
		return nil, err
	}
	return &ConfigWatcher{
		path:     abs,
		onChange: onChange,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Start watches the directory holding the file, editors usually replace the
// file instead of writing it in place.
func (w *ConfigWatcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.isClosed {
		return errors.New("config watcher already closed")
	}
	if err := w.fsnotify.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.started = true
	go w.start()
	return nil
}

func (w *ConfigWatcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return nil
	}
	w.isClosed = true
	started := w.started
	w.mutex.Unlock()

	close(w.done)
	err := w.fsnotify.Close()
	if started {
		<-w.stopped
	}
	return err
}

func (w *ConfigWatcher) start() {
	defer close(w.stopped)
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			cfg, err := LoadConfig(w.path)
			if err != nil {
				// half written files show up as parse errors, the next write fixes it
				LogWarn("config reload of %s failed: %s", w.path, err.Error())
				continue
			}
			LogInfo("config %s reloaded", w.path)
			w.onChange(cfg)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			LogError(err.Error())

		case <-w.done:
			return
		}
	}
}
