// Package state watches the content root for external edits so the render
// cache and search index can follow along without a rebuild.
package state

import (
	"errors"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/scribe/internal/pathutil"
)

// ContentWatcher recursively watches the content root and reports changed
// paths to a callback. It is best-effort: callers must not rely on it for
// correctness, only freshness.
type ContentWatcher struct {
	watcher  *fsnotify.Watcher
	root     string
	onChange func(string)
	done     chan struct{}
	once     sync.Once
}

// NewContentWatcher builds a watcher over root. onChange receives normalized
// absolute paths for created, written, renamed, and removed entries.
func NewContentWatcher(root string, onChange func(string)) (*ContentWatcher, error) {
	normalized := pathutil.NormalizePath(root)
	if normalized == "" {
		return nil, errors.New("content root cannot be empty")
	}
	if onChange == nil {
		return nil, errors.New("onChange callback is required")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &ContentWatcher{
		watcher:  w,
		root:     normalized,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	if err := watcher.addRecursive(normalized); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

// Start launches the event loop in its own goroutine.
func (w *ContentWatcher) Start() {
	go w.loop()
}

// Close stops the event loop and releases the underlying watcher.
func (w *ContentWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *ContentWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher: %v", err)
		}
	}
}

func (w *ContentWatcher) handle(event fsnotify.Event) {
	name := pathutil.NormalizePath(event.Name)
	if name == "" || hiddenPath(w.root, name) {
		return
	}

	// New directories need their own watch before events inside them fire.
	if event.Op&fsnotify.Create != 0 {
		if err := w.addRecursive(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("watcher: adding %s: %v", name, err)
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
		w.onChange(name)
	}
}

func (w *ContentWatcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && p != path {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

func hiddenPath(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(segment, ".") && segment != "." && segment != ".." {
			return true
		}
	}
	return false
}
