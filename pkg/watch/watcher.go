package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/oneconcern/nr/pkg/errors"
	"github.com/oneconcern/nr/pkg/jobs"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// EventChange is the name of the events posted for changed paths
const EventChange = "change"

// Filter tells if a path should be watched. Filtered out directories are not descended into.
type Filter func(path string, isDir bool) bool

// Change describes a path that was created, written, removed or renamed
type Change struct {
	Path string
	Op   string
}

// Watcher watches directory trees for changes
type Watcher struct {
	fs     afero.Fs
	fsw    *fsnotify.Watcher
	filter Filter
	logger *zap.Logger

	mu   sync.Mutex
	dirs map[string]struct{}
}

// Option configures a Watcher
type Option func(*Watcher)

// WithFilter skips the paths rejected by f
func WithFilter(f Filter) Option {
	return func(w *Watcher) {
		w.filter = f
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher. Close must be called to release it.
func NewWatcher(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.New("create filesystem watcher").Wrap(err)
	}
	w := &Watcher{
		fs:     afero.NewOsFs(),
		fsw:    fsw,
		filter: func(string, bool) bool { return true },
		logger: zap.NewNop(),
		dirs:   make(map[string]struct{}),
	}
	for _, apply := range opts {
		apply(w)
	}
	return w, nil
}

// Add watches root and all its subdirectories
func (w *Watcher) Add(root string) error {
	return afero.Walk(w.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if p != root && !w.filter(p, true) {
			return filepath.SkipDir
		}
		return w.addDir(p)
	})
}

func (w *Watcher) addDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return errors.New("watch " + dir).Wrap(err)
	}
	w.dirs[dir] = struct{}{}
	w.logger.Debug("watching", zap.String("dir", dir))
	return nil
}

// Dirs is the number of watched directories
func (w *Watcher) Dirs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs)
}

// Run posts changes to the queue until the context is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context, queue *jobs.EventQueue) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			change, keep := w.handle(ev)
			if !keep {
				continue
			}
			if err := queue.Post(EventChange, change); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) (Change, bool) {
	if ev.Op == fsnotify.Chmod {
		return Change{}, false
	}
	isDir := false
	if ev.Op.Has(fsnotify.Create) {
		if info, err := w.fs.Stat(ev.Name); err == nil && info.IsDir() {
			isDir = true
		}
	}
	if !w.filter(ev.Name, isDir) {
		return Change{}, false
	}
	if isDir {
		if err := w.Add(ev.Name); err != nil {
			w.logger.Warn("cannot watch new directory", zap.String("dir", ev.Name), zap.Error(err))
		}
	}
	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		w.mu.Lock()
		delete(w.dirs, ev.Name)
		w.mu.Unlock()
	}
	return Change{Path: ev.Name, Op: ev.Op.String()}, true
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
