package world

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/llamasearchai/llamaquest/internal/core/observability/log"
)

const watchDebounce = 100 * time.Millisecond

// Update carries a freshly reloaded map.
type Update struct {
	Path string
	Map  *TileMap
}

// Watcher reloads map files when they change on disk. Bursts of writes to one
// file within the debounce window produce a single reload.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  log.Log
	files   map[string]struct{}

	Updates chan Update
	Errors  chan error

	fire    chan string
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches the directories holding paths. Editors often replace a
// file instead of writing it, so watching the file itself would lose it.
func NewWatcher(logger log.Log, paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create map watcher: %w", err)
	}

	files := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = struct{}{}
	}

	w := &Watcher{
		watcher: fw,
		logger:  log.OrNop(logger).With(log.String("component", "map_watcher")),
		files:   files,
		Updates: make(chan Update, 16),
		Errors:  make(chan error, 4),
		fire:    make(chan string, 16),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops watching and closes Updates and Errors. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Updates)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if _, watched := w.files[name]; !watched {
				continue
			}
			if t, ok := timers[name]; ok {
				t.Reset(watchDebounce)
				continue
			}
			timers[name] = time.AfterFunc(watchDebounce, func() {
				select {
				case w.fire <- name:
				case <-w.closeCh:
				}
			})
		case name := <-w.fire:
			w.reload(name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.emitError(fmt.Errorf("map watcher: %w", err))
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload(path string) {
	m, err := LoadFile(path)
	if err != nil {
		w.logger.Warn("Map reload failed", log.String("path", path), log.Error(err))
		w.emitError(err)
		return
	}
	w.logger.Info("Map reloaded",
		log.String("path", path),
		log.String("name", m.Name),
		log.Int("width", m.Width),
		log.Int("height", m.Height))
	select {
	case w.Updates <- Update{Path: path, Map: m}:
	case <-w.closeCh:
	}
}

func (w *Watcher) emitError(err error) {
	select {
	case w.Errors <- err:
	case <-w.closeCh:
	}
}
