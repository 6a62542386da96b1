package yamldef

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/comalice/fsmx"
)

// DefaultDebounce is the settle time applied between a file change and the
// reload, so editors that write in several bursts trigger a single reload.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a YAML machine declaration whenever the file changes and
// delivers the result to a callback. The watch covers the file's directory,
// so editors that replace the file via rename are still observed.
type Watcher[C any] struct {
	path     string
	reg      *Registry[C]
	onChange func(*fsmx.Definition[string, string, C], error)
	debounce time.Duration

	fw        *fsnotify.Watcher
	closeOnce sync.Once
	done      chan struct{}
}

// Watch starts watching path and invokes onChange with the freshly built
// definition (or the load error) after each change. The callback runs on the
// watcher's goroutine. Close stops the watcher.
func Watch[C any](path string, reg *Registry[C], onChange func(*fsmx.Definition[string, string, C], error)) (*Watcher[C], error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher[C]{
		path:     abs,
		reg:      reg,
		onChange: onChange,
		debounce: DefaultDebounce,
		fw:       fw,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. Pending debounced reloads are dropped.
func (w *Watcher[C]) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher[C]) run() {
	defer close(w.done)

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-pending:
			timer = nil
			pending = nil
			w.onChange(LoadFile(w.path, w.reg))

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}
