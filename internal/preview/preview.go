// Package preview re-renders a report file whenever it changes on disk.
package preview

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/logfields"
)

// DefaultDebounce coalesces bursts of writes from editors.
const DefaultDebounce = 300 * time.Millisecond

// RenderFunc is called with the current file content.
type RenderFunc func(ctx context.Context, content []byte) error

// Watcher renders a file once and again after every change.
type Watcher struct {
	path     string
	render   RenderFunc
	debounce time.Duration
	logger   *slog.Logger
}

// Option customises a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a re-render.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(w *Watcher) { w.logger = l } }

// New returns a watcher for path.
func New(path string, render RenderFunc, opts ...Option) *Watcher {
	w := &Watcher{path: path, render: render, debounce: DefaultDebounce, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run renders the file and then watches it until ctx is done. Render errors
// are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return ferrors.FileSystemError("invalid preview path").WithCause(err).Build()
	}
	if fi, statErr := os.Stat(abs); statErr != nil || fi.IsDir() {
		return ferrors.NotFoundError("preview file not found").WithContext("path", abs).Build()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.FileSystemError("failed to create file watcher").WithCause(err).Build()
	}
	defer func() { _ = watcher.Close() }()

	// Editors often save by replacing the file, so the directory is watched.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return ferrors.FileSystemError("failed to watch directory").
			WithCause(err).WithContext("dir", filepath.Dir(abs)).Build()
	}

	w.renderFile(ctx, abs)

	renderReq, trigger, stop := newDebouncer(w.debounce)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case <-renderReq:
			w.renderFile(ctx, abs)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) renderFile(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("Failed to read preview file", logfields.Path(path), logfields.Error(err))
		return
	}
	if err := w.render(ctx, content); err != nil {
		w.logger.Warn("Render failed", logfields.Path(path), logfields.Error(err))
	}
}

// newDebouncer returns a channel that receives once per burst of trigger
// calls, after d has passed without another call.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return req, trigger, stop
}

func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
