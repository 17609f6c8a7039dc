// Package watch reruns an action whenever theme sources change.
//
// Runs never overlap: changes seen while a run is in progress schedule
// exactly one follow-up run once it finishes and the debounce period has
// passed without further changes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/minios-linux/themekit/extract"
)

// RunFunc is the action triggered by changes.
type RunFunc func(ctx context.Context) error

// Watcher watches a project tree for changes to files selected by Sources.
type Watcher struct {
	Root     string
	Sources  []string
	Debounce time.Duration
	Logger   zerolog.Logger
}

// Watch blocks until ctx is cancelled, calling run after each settled
// burst of relevant changes. A failing run is logged and watching goes on.
func (w *Watcher) Watch(ctx context.Context, run RunFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	t := &tree{w: w, fw: fw, dirs: make(map[string]bool)}
	if err := t.add(w.Root); err != nil {
		return err
	}

	changes := make(chan string)
	go t.forward(ctx, changes)

	return loop(ctx, changes, w.Debounce, run, w.Logger)
}

// tree tracks the watched directories. After Watch starts it is only
// used from the forward goroutine.
type tree struct {
	w    *Watcher
	fw   *fsnotify.Watcher
	dirs map[string]bool
}

func (t *tree) rel(path string) (string, bool) {
	rel, err := filepath.Rel(t.w.Root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (t *tree) mayContainSources(dir string) bool {
	rel, ok := t.rel(dir)
	return ok && extract.MayContainSources(rel, t.w.Sources)
}

// add registers dir and those of its subdirectories that may hold
// sources.
func (t *tree) add(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !d.IsDir() {
			return nil
		}
		if !t.mayContainSources(path) {
			return filepath.SkipDir
		}
		if err := t.fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		t.dirs[path] = true
		return nil
	})
}

// drop forgets dir and everything registered below it.
func (t *tree) drop(dir string) {
	prefix := dir + string(filepath.Separator)
	for d := range t.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			delete(t.dirs, d)
			_ = t.fw.Remove(d)
		}
	}
}

// firstSource returns the first source file below dir, relative to Root.
func (t *tree) firstSource(dir string) (string, bool) {
	var found string
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if !t.mayContainSources(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if rel, ok := t.rel(path); ok && extract.MatchesSources(rel, t.w.Sources) {
			found = rel
			return filepath.SkipAll
		}
		return nil
	})
	return found, found != ""
}

// changed maps an event to the source path it affects. Directories
// appearing with sources inside, and watched directories going away,
// count as changes.
func (t *tree) changed(ev fsnotify.Event) (string, bool) {
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		if t.dirs[ev.Name] {
			t.drop(ev.Name)
			return t.rel(ev.Name)
		}
	}

	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		if !ev.Has(fsnotify.Create) {
			return "", false
		}
		if err := t.add(ev.Name); err != nil {
			t.w.Logger.Warn().Err(err).Str("dir", ev.Name).Msg("cannot watch new directory")
		}
		return t.firstSource(ev.Name)
	}

	if ev.Op == fsnotify.Chmod {
		return "", false
	}
	rel, ok := t.rel(ev.Name)
	if !ok || !extract.MatchesSources(rel, t.w.Sources) {
		return "", false
	}
	return rel, true
}

// forward filters raw fsnotify events down to relevant source paths.
func (t *tree) forward(ctx context.Context, out chan<- string) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-t.fw.Errors:
			if !ok {
				return
			}
			t.w.Logger.Warn().Err(err).Msg("watch error")
		case ev, ok := <-t.fw.Events:
			if !ok {
				return
			}
			rel, ok := t.changed(ev)
			if !ok {
				continue
			}
			select {
			case out <- rel:
			case <-ctx.Done():
				return
			}
		}
	}
}

// loop debounces change notifications and runs serially. It returns nil
// when ctx is cancelled.
func loop(ctx context.Context, changes <-chan string, debounce time.Duration, run RunFunc, log zerolog.Logger) error {
	// fire is nil while nothing is pending.
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-changes:
			if !ok {
				return nil
			}
			log.Debug().Str("file", path).Msg("change detected")
			fire = time.After(debounce)
		case <-fire:
			fire = nil
			if err := run(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error().Err(err).Msg("run failed")
			}
		}
	}
}
