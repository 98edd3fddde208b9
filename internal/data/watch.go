package data

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow collapses the burst of filesystem events editors
// emit for a single save.
const debounceWindow = 100 * time.Millisecond

// Watcher reloads definitions when files under the data directory
// change. A reload that fails to parse or validate is rejected and
// the registry keeps its previous content.
type Watcher struct {
	dir    string
	reg    *Registry
	fsw    *fsnotify.Watcher
	stopCh chan struct{}
}

func NewWatcher(dir string, reg *Registry) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, d := range []string{dir, filepath.Join(dir, "archetypes")} {
		if err := fsw.Add(d); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return &Watcher{
		dir:    dir,
		reg:    reg,
		fsw:    fsw,
		stopCh: make(chan struct{}),
	}, nil
}

// Start watches for changes (blocks until context is canceled)
func (w *Watcher) Start(ctx context.Context) error {
	defer w.fsw.Close()

	slog.Info("definition watcher started", "dir", w.dir)
	last := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			slog.Info("definition watcher stopping")
			return ctx.Err()

		case <-w.stopCh:
			slog.Info("definition watcher stopped")
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isDefinitionFile(ev.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[ev.Name]; ok && now.Sub(t) < debounceWindow {
				continue
			}
			last[ev.Name] = now
			w.reload(ev.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("definition watcher error", "error", err)
		}
	}
}

// Stop stops the watch loop
func (w *Watcher) Stop() {
	close(w.stopCh)
}

func (w *Watcher) reload(trigger string) {
	fresh, err := LoadDir(w.dir)
	if err != nil {
		slog.Error("definition reload failed, keeping previous data",
			"trigger", trigger, "error", err)
		return
	}

	findings := Validate(fresh)
	for _, f := range findings {
		if f.Severity == SeverityError {
			slog.Error("definition invalid", "finding", f.String())
		} else {
			slog.Warn("definition suspicious", "finding", f.String())
		}
	}
	if HasErrors(findings) {
		slog.Error("definition reload rejected, keeping previous data", "trigger", trigger)
		return
	}

	w.reg.Swap(fresh)
	slog.Info("definitions reloaded",
		"trigger", trigger,
		"abilities", w.reg.AbilityCount(),
		"archetypes", w.reg.ArchetypeCount())
}

func isDefinitionFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
