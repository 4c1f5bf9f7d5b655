package daemon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
	"git.home.luguber.info/inful/pillarsync/internal/logfields"
	"git.home.luguber.info/inful/pillarsync/internal/registry"
)

const defaultDebounce = 2 * time.Second

// Watcher reports which courses had HTML files change. It watches each
// course folder and its lessons folder; fsnotify watches are not recursive.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	reg      *registry.Registry
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher watches the course and lessons folders that exist under root.
func NewWatcher(root, pagesDir string, reg *registry.Registry, debounce time.Duration) (*Watcher, error) {
	if reg == nil {
		return nil, errors.ValidationError("registry is required").Build()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve site root").Build()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}

	w := &Watcher{fsw: fsw, root: absRoot, reg: reg, debounce: debounce, logger: slog.Default()}
	watched := 0
	for _, c := range reg.Courses() {
		courseDir := filepath.Join(absRoot, filepath.FromSlash(c.SitePath))
		for _, dir := range []string{courseDir, filepath.Join(courseDir, filepath.FromSlash(pagesDir))} {
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				continue
			}
			if err := fsw.Add(dir); err != nil {
				_ = fsw.Close()
				return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to watch directory").
					WithContext("dir", dir).
					Build()
			}
			watched++
		}
	}
	w.logger.Info("Watching site for changes", slog.Int("dirs", watched), slog.Duration("debounce", debounce))
	return w, nil
}

// WithLogger sets the logger.
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	w.logger = l
	return w
}

// Run delivers debounced batches of changed course keys to onChange until
// ctx is cancelled, then closes the underlying watcher. onChange runs on
// the watcher goroutine; events arriving meanwhile are batched for the
// next call.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, courses []string)) {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("Error closing file watcher", logfields.Error(err))
		}
	}()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	var timerC <-chan time.Time
	pending := map[string]struct{}{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			key, relevant := w.courseFor(ev)
			if !relevant {
				continue
			}
			w.logger.Debug("Site file changed", logfields.File(ev.Name), logfields.Course(key), slog.String("op", ev.Op.String()))
			pending[key] = struct{}{}
			timer.Reset(w.debounce)
			timerC = timer.C
		case <-timerC:
			timerC = nil
			courses := make([]string, 0, len(pending))
			for k := range pending {
				courses = append(courses, k)
			}
			slices.Sort(courses)
			clear(pending)
			onChange(ctx, courses)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

// courseFor maps a file event to the course owning the file. Only content
// changes to .html files count.
func (w *Watcher) courseFor(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return "", false
	}
	if !strings.HasSuffix(ev.Name, ".html") {
		return "", false
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	c, ok := w.reg.ForPath(filepath.ToSlash(rel))
	if !ok {
		return "", false
	}
	return c.Key, true
}
