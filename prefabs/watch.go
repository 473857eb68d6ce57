package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind tells prefab edits from script edits.
type ChangeKind int

const (
	ChangePrefab ChangeKind = iota
	ChangeScript
)

// Change is a debounced edit of a watched file. Name is relative to the
// prefab directory, the form Load and LoadScript accept.
type Change struct {
	Kind ChangeKind
	Name string
	Path string
}

// debounce drops repeated events for the same file; editors often write
// twice per save.
const debounce = 100 * time.Millisecond

// Watcher reports prefab and script edits on disk. The frame loop drains
// Changes; nothing is reloaded on the watcher goroutine.
type Watcher struct {
	watcher *fsnotify.Watcher
	Changes chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches the on-disk prefab directory and its scripts.
func NewWatcher() (*Watcher, error) {
	return NewWatcherFor("prefabs", filepath.Join("prefabs", "scripts"))
}

func NewWatcherFor(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Changes)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			change, ok := classify(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Changes <- change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(path string) (Change, bool) {
	base := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return Change{Kind: ChangePrefab, Name: base, Path: path}, true
	case ".tengo":
		return Change{Kind: ChangeScript, Name: base, Path: path}, true
	}
	return Change{}, false
}
