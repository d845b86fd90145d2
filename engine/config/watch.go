package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// reloadDebounce is how long the file must stay quiet before it is reloaded. Editors often write
// a file in several steps.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a config file when it changes on disk. Valid configurations are delivered on
// Changes; decode and validation failures on Errors. The previous configuration stays in effect
// after a failure.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	log     logrus.FieldLogger

	Changes chan Config
	Errors  chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// WatcherOption is a functional option for configuring a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for reload diagnostics.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - WatcherOption: option function to apply
func WithWatcherLogger(log logrus.FieldLogger) WatcherOption {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWatcher starts watching path. The containing directory is watched so that editors that
// replace the file (write to temp, rename) are followed.
//
// Parameters:
//   - path: the config file
//   - options: functional options to configure the watcher
//
// Returns:
//   - *Watcher: the running watcher
//   - error: error if the platform watcher cannot be created
func NewWatcher(path string, options ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		path:    abs,
		log:     logger.Discard(),
		Changes: make(chan Config, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and closes Changes and Errors. Safe to call more than once.
//
// Returns:
//   - error: error from the platform watcher
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			pending = time.After(reloadDebounce)
		case <-pending:
			pending = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.deliverError(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.log.WithError(err).Warn("config reload failed")
		w.deliverError(err)
		return
	}
	w.log.WithField("path", w.path).Info("config reloaded")
	// Only the newest configuration matters; replace a pending one.
	select {
	case <-w.Changes:
	default:
	}
	select {
	case w.Changes <- cfg:
	case <-w.closeCh:
	}
}

func (w *Watcher) deliverError(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
