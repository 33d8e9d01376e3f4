package server

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to fixture files or library directories.
//
// Files are watched through their parent directory so editors that save by rename are still seen.
type Watcher struct {
	fs     *fsnotify.Watcher
	files  map[string]bool
	dirs   []string
	logger *log.Logger
}

// NewWatcher watches each path. Directories are watched recursively.
func NewWatcher(logger *log.Logger, paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{fs: fw, files: map[string]bool{}, logger: logger}
	for _, p := range paths {
		if err := w.add(filepath.Clean(p)); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	if !info.IsDir() {
		w.files[path] = true
		return w.fs.Add(filepath.Dir(path))
	}

	w.dirs = append(w.dirs, path)
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && ignored(d.Name()) {
			return filepath.SkipDir
		}
		return w.fs.Add(p)
	})
}

// relevant reports whether an event on name concerns one of the watched paths.
func (w *Watcher) relevant(name string) bool {
	name = filepath.Clean(name)
	if w.files[name] {
		return true
	}
	if ignored(filepath.Base(name)) {
		return false
	}
	for _, dir := range w.dirs {
		if name == dir || strings.HasPrefix(name, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run calls reload once per burst of changes, after debounce has passed without further events.
// It blocks until ctx is done and closes the watcher on return.
func (w *Watcher) Run(ctx context.Context, debounce time.Duration, reload func()) {
	defer w.fs.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.fs.Add(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func ignored(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp") || strings.HasSuffix(name, "~")
}
