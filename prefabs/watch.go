package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports prefab spec files that changed on disk. Events carries the
// cleaned prefab name (e.g. "arena.yaml"), ready to pass back to Load.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
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
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Poll returns the next changed prefab without blocking.
func (w *Watcher) Poll() (string, bool) {
	if w == nil {
		return "", false
	}
	select {
	case name, ok := <-w.Events:
		return name, ok
	default:
		return "", false
	}
}

// Err returns a pending watch error, or nil.
func (w *Watcher) Err() error {
	if w == nil {
		return nil
	}
	select {
	case err := <-w.Errors:
		return err
	default:
		return nil
	}
}

func (w *Watcher) run() {
	defer close(w.done)
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
			if !isSpecFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < watchDebounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- filepath.Base(event.Name):
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

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
