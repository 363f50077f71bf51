package adminos

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/AdguardTeam/golibs/container"
	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/service"
	"github.com/fsnotify/fsnotify"
)

// FileWatcher notifies about changes of the tracked files.
type FileWatcher interface {
	service.Interface

	// Events returns the channel to notify about the changes.  Several changes
	// happening in quick succession may be reported as one.
	Events() (e <-chan struct{})

	// Add starts tracking the file.  It returns an error if the file can't be
	// tracked.
	Add(name string) (err error)
}

// OSWatcher is the [FileWatcher] of the file system provided by the OS.  It
// reports writes to the tracked files as well as their replacement, since the
// configuration files are written atomically using renames.
type OSWatcher struct {
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	events  chan struct{}

	// mu protects dirs.
	mu *sync.RWMutex

	// dirs maps the watched directories to the absolute paths of the files
	// tracked in them.
	dirs map[string]*container.MapSet[string]
}

// NewOSWatcher returns a new properly initialized *OSWatcher.  l must not be
// nil.
func NewOSWatcher(l *slog.Logger) (w *OSWatcher, err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	return &OSWatcher{
		logger:  l,
		watcher: watcher,
		events:  make(chan struct{}, 1),
		mu:      &sync.RWMutex{},
		dirs:    map[string]*container.MapSet[string]{},
	}, nil
}

// type check
var _ FileWatcher = (*OSWatcher)(nil)

// Start implements the [service.Interface] interface for *OSWatcher.
func (w *OSWatcher) Start(ctx context.Context) (err error) {
	go w.handleErrors(ctx)
	go w.handleEvents(ctx)

	return nil
}

// Shutdown implements the [service.Interface] interface for *OSWatcher.
func (w *OSWatcher) Shutdown(_ context.Context) (err error) {
	return w.watcher.Close()
}

// Events implements the [FileWatcher] interface for *OSWatcher.
func (w *OSWatcher) Events() (e <-chan struct{}) {
	return w.events
}

// Add implements the [FileWatcher] interface for *OSWatcher.  name must be a
// regular file.
func (w *OSWatcher) Add(name string) (err error) {
	defer func() { err = errors.Annotate(err, "watching %q: %w", name) }()

	name, err = filepath.Abs(name)
	if err != nil {
		return fmt.Errorf("getting absolute path: %w", err)
	}

	fi, err := os.Stat(name)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return err
	} else if fi.IsDir() {
		return errors.Error("not a regular file")
	}

	// Watch the directory and filter the events by the file name, since
	// watching a single file doesn't survive its replacement.
	dirName := filepath.Dir(name)

	w.mu.Lock()
	defer w.mu.Unlock()

	names := w.dirs[dirName]
	if names == nil {
		err = w.watcher.Add(dirName)
		if err != nil {
			return fmt.Errorf("adding directory: %w", err)
		}

		names = container.NewMapSet[string]()
		w.dirs[dirName] = names
	}

	names.Add(name)

	return nil
}

// isTracked returns true if the file with the absolute path name is tracked.
func (w *OSWatcher) isTracked(name string) (ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	names := w.dirs[filepath.Dir(name)]

	return names != nil && names.Has(name)
}

// changeOps are the operations considered to be a change of a tracked file.
const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// handleEvents notifies about the received changes of the tracked files.  It
// is intended to be used as a goroutine.
func (w *OSWatcher) handleEvents(ctx context.Context) {
	defer slogutil.RecoverAndLog(ctx, w.logger)

	defer close(w.events)

	for e := range w.watcher.Events {
		if e.Op&changeOps == 0 || !w.isTracked(e.Name) {
			continue
		}

		w.logger.DebugContext(ctx, "file changed", "name", e.Name, "op", e.Op)

		select {
		case w.events <- struct{}{}:
			// Go on.
		default:
			// There is already a pending notification.
		}
	}
}

// handleErrors logs the errors of the underlying watcher.  It is intended to be
// used as a goroutine.
func (w *OSWatcher) handleErrors(ctx context.Context) {
	defer slogutil.RecoverAndLog(ctx, w.logger)

	for err := range w.watcher.Errors {
		w.logger.ErrorContext(ctx, "watching files", slogutil.KeyError, err)
	}
}

// EmptyFileWatcher is a no-op implementation of the [FileWatcher] interface.
// It may be used on systems not supporting file system events.
type EmptyFileWatcher struct{}

// type check
var _ FileWatcher = EmptyFileWatcher{}

// Start implements the [service.Interface] interface for EmptyFileWatcher.
func (EmptyFileWatcher) Start(_ context.Context) (err error) { return nil }

// Shutdown implements the [service.Interface] interface for EmptyFileWatcher.
func (EmptyFileWatcher) Shutdown(_ context.Context) (err error) { return nil }

// Events implements the [FileWatcher] interface for EmptyFileWatcher.  It
// always returns nil channel.
func (EmptyFileWatcher) Events() (e <-chan struct{}) { return nil }

// Add implements the [FileWatcher] interface for EmptyFileWatcher.
func (EmptyFileWatcher) Add(_ string) (err error) { return nil }
