package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/va2bbw/qle/internal/utils"
)

const watchedOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounceDuration sets how long a burst of events coalesces
// before one change is reported
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher reports changes to a single log file. The parent directory
// is watched, so editors that replace the file on save still register.
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	changed  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher for the given log file
func NewWatcher(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch path: %w", err)
	}

	w := &Watcher{
		path:     abs,
		debounce: 200 * time.Millisecond,
		changed:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. Events for other files in the directory are
// ignored.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.fsw = fsw
	go w.run()
	return nil
}

// Stop ends watching. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		if w.fsw != nil {
			w.fsw.Close()
		}
	})
}

// Changed returns the channel a debounced change signal arrives on.
// Signals coalesce while unread.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Done returns a channel closed once the watcher has stopped.
// Listeners blocked on Changed should select on it as well.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Path returns the absolute path of the watched file
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) run() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&watchedOps == 0 {
				continue
			}
			utils.Log.Debugf("[watch] %s", ev)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			w.notify()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			utils.Log.Debugf("[watch] error: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) notify() {
	select {
	case w.changed <- struct{}{}:
	default:
	}
}
