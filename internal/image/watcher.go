package image

import (
	"os"
	"sync"
	"time"
)

// Watcher polls a floor-plan image file and reloads it when its
// modification time changes.
type Watcher struct {
	path     string
	interval time.Duration

	mu       sync.Mutex
	modTime  time.Time
	onChange func(*Layer)
	onError  func(error)
	stopCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for path. The baseline is the file's current
// modification time; a file that does not exist yet has a zero baseline.
func NewWatcher(path string, interval time.Duration) *Watcher {
	w := &Watcher{path: path, interval: interval}
	if info, err := os.Stat(path); err == nil {
		w.modTime = info.ModTime()
	}
	return w
}

// OnChange sets the callback invoked with the reloaded layer. It runs on the
// watcher goroutine.
func (w *Watcher) OnChange(fn func(*Layer)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// OnError sets the callback invoked when a changed file fails to decode.
func (w *Watcher) OnError(fn func(error)) {
	w.mu.Lock()
	w.onError = fn
	w.mu.Unlock()
}

// Start begins polling in a background goroutine.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	go w.watchLoop(w.stopCh)
}

// Stop stops polling. Stopping a stopped watcher is a no-op.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) watchLoop(stop chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check compares the file against the baseline and reloads it if newer.
// It reports whether a reload was attempted.
func (w *Watcher) Check() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	if !info.ModTime().After(w.modTime) {
		w.mu.Unlock()
		return false
	}
	w.modTime = info.ModTime()
	onChange, onError := w.onChange, w.onError
	w.mu.Unlock()

	layer, err := Load(w.path)
	if err != nil {
		if onError != nil {
			onError(err)
		}
		return true
	}
	if onChange != nil {
		onChange(layer)
	}
	return true
}
