package article

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Watcher watches an article directory and fires a callback when an article
// file appears or changes, so a dropped-in file for today is served without a
// restart. Events are debounced: editors produce bursts of writes for a
// single save.
type Watcher struct {
	watcher  *fsnotify.Watcher
	pattern  string
	onChange func()
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

// DefaultDebounce is how long the watcher waits after the last event before
// firing.
const DefaultDebounce = 200 * time.Millisecond

// Watch starts watching dir for changes to files matching pattern (a
// doublestar glob over the base name, e.g. "*.json"). onChange runs on the
// watcher goroutine after the debounce window closes.
func Watch(dir, pattern string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		pattern:  pattern,
		onChange: onChange,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
				continue
			}
			match, err := doublestar.Match(w.pattern, filepath.Base(ev.Name))
			if err != nil || !match {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("article: erreur du watcher : %v", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

// Close stops the watcher and waits for its goroutine to exit. A pending
// debounce timer is cancelled.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}
