// Package watcher reports changes to the file or directory a trail was
// loaded from, using fsnotify with a polling fallback for filesystems where
// inotify events are unreliable.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/crumbbar/pkg/debug"
)

// DefaultPollInterval is how often a polling watcher stats its path.
const DefaultPollInterval = 2 * time.Second

var (
	ErrFileRemoved    = errors.New("watched path was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDuration sets how long a burst of events is coalesced.
func WithDebounceDuration(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounceDuration = d }
}

// WithPollInterval sets the stat interval used while polling.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithOnChange registers fn to run after each debounced change.
func WithOnChange(fn func()) WatcherOption {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError registers fn to receive removal, permission and fsnotify errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll skips fsnotify and polls from the start.
func WithForcePoll(force bool) WatcherOption {
	return func(w *Watcher) { w.forcePoll = force }
}

// pathState is what polling compares between ticks.
type pathState struct {
	exists bool
	dir    bool
	mtime  time.Time
	size   int64
}

func statPath(path string) (pathState, error) {
	info, err := os.Stat(path)
	if err != nil {
		return pathState{}, err
	}
	return pathState{exists: true, dir: info.IsDir(), mtime: info.ModTime(), size: info.Size()}, nil
}

func (s pathState) differs(prev pathState) bool {
	if s.exists != prev.exists {
		return true
	}
	return s.mtime.After(prev.mtime) || s.size != prev.size
}

// Watcher monitors a file, or the entries of a directory, for changes.
// Changes are debounced and delivered both to the WithOnChange callback and
// on the Changed channel.
type Watcher struct {
	path             string
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool

	mu        sync.RWMutex
	started   bool
	polling   bool
	fsType    FilesystemType
	state     pathState
	fsWatcher *fsnotify.Watcher
	cancel    context.CancelFunc

	debouncer *Debouncer
	changeCh  chan struct{}
}

// NewWatcher creates a stopped watcher for path, made absolute.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:             abs,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounceDuration)
	return w, nil
}

// Start begins watching. A watcher can be started again after Stop.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	state, err := statPath(w.path)
	if err != nil && os.IsPermission(err) {
		return ErrPermission
	}
	w.state = state
	w.fsType = DetectFilesystemType(w.path)
	w.polling = w.forcePoll || envBool("CB_FORCE_POLL") || envBool("CB_FORCE_POLLING") ||
		isRemoteFilesystem(w.fsType)

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	if !w.polling {
		if err := w.startFsnotify(ctx, state.dir); err != nil {
			debug.Log("watcher: fsnotify unavailable for %s, polling: %v", w.path, err)
			w.polling = true
		}
	}
	if w.polling {
		go w.poll(ctx)
	}

	w.started = true
	return nil
}

func (w *Watcher) startFsnotify(ctx context.Context, dir bool) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Files are watched through their directory, which survives the
	// rename-over-original pattern editors use for atomic saves.
	target := w.path
	if !dir {
		target = filepath.Dir(w.path)
	}
	if err := fsw.Add(target); err != nil {
		fsw.Close()
		return err
	}
	w.fsWatcher = fsw
	go w.consume(ctx, fsw, dir)
	return nil
}

// Stop stops watching. The change channel stays open so a command blocked
// on Changed does not spin.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// IsPolling reports whether the running watcher stats instead of using
// fsnotify.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed receives after each debounced change. Sends never block, so a slow
// reader sees one pending signal rather than a backlog.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

func (w *Watcher) Path() string {
	return w.path
}

// FilesystemType is the classification made by the last Start.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

func (w *Watcher) PollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pollInterval
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// relevant reports whether ev concerns the watched path. A watched
// directory cares about every entry; a watched file only about itself.
func (w *Watcher) relevant(ev fsnotify.Event, dir bool) bool {
	if dir {
		return true
	}
	return filepath.Base(ev.Name) == filepath.Base(w.path)
}

func (w *Watcher) consume(ctx context.Context, fsw *fsnotify.Watcher, dir bool) {
	const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev, dir) {
				continue
			}
			if ev.Name == w.path && ev.Has(fsnotify.Remove) {
				w.onError(ErrFileRemoved)
				continue
			}
			if ev.Op&changeOps != 0 {
				w.debouncer.Trigger(w.notifyChange)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// poll stats the path every interval. Removal is reported once; the path
// coming back counts as a change.
func (w *Watcher) poll(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		cur, err := statPath(w.path)
		if err != nil && !os.IsNotExist(err) {
			if os.IsPermission(err) {
				err = ErrPermission
			}
			w.onError(err)
			continue
		}

		w.mu.Lock()
		prev := w.state
		w.state = cur
		w.mu.Unlock()

		switch {
		case prev.exists && !cur.exists:
			w.onError(ErrFileRemoved)
		case cur.differs(prev):
			w.debouncer.Trigger(w.notifyChange)
		}
	}
}

func (w *Watcher) notifyChange() {
	if !w.IsStarted() {
		return
	}
	w.onChange()
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
