package app

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/dshills/mirrorpad/internal/dispatcher"
	"github.com/dshills/mirrorpad/internal/document"
	"github.com/dshills/mirrorpad/internal/logging"
)

// Pane is one editor instance: a document, the dispatcher acting on it and
// the window that hosts it.
type Pane struct {
	// Index is the zero-based position of the pane.
	Index int

	// Name is the display name ("pane 1", "pane 2", ...).
	Name string

	Document   *document.Document
	Dispatcher *dispatcher.Dispatcher
	Window     *Window
}

// State returns a snapshot of the pane's document.
func (p *Pane) State(ctx context.Context) (document.State, error) {
	return p.Document.State(ctx)
}

// Window is the top-level resource of a pane. Disposing it is
// fire-and-forget and happens at most once.
type Window struct {
	name      string
	disposed  atomic.Bool
	onDispose func()
	logger    *logging.Logger
}

// NewWindow creates a window. onDispose, if non-nil, runs on the first Dispose.
func NewWindow(name string, logger *logging.Logger, onDispose func()) *Window {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Window{name: name, onDispose: onDispose, logger: logger}
}

// Dispose tears the window down.
func (w *Window) Dispose() {
	if !w.disposed.CompareAndSwap(false, true) {
		return
	}
	w.logger.Info("window disposed", "window", w.name)
	if w.onDispose != nil {
		w.onDispose()
	}
}

// Disposed reports whether Dispose has run.
func (w *Window) Disposed() bool {
	return w.disposed.Load()
}

// Name returns the window name.
func (w *Window) Name() string {
	return w.name
}

// PaneManager tracks the panes of the application and which one is active.
type PaneManager struct {
	mu     sync.RWMutex
	panes  []*Pane
	active int
}

// NewPaneManager creates an empty pane manager.
func NewPaneManager() *PaneManager {
	return &PaneManager{active: -1}
}

// Add appends a pane. The first pane added becomes active.
func (pm *PaneManager) Add(p *Pane) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.panes = append(pm.panes, p)
	if pm.active < 0 {
		pm.active = 0
	}
}

// Get returns the pane at index.
func (pm *PaneManager) Get(index int) (*Pane, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if index < 0 || index >= len(pm.panes) {
		return nil, false
	}
	return pm.panes[index], true
}

// Active returns the active pane, or nil if there are none.
func (pm *PaneManager) Active() *Pane {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if pm.active < 0 {
		return nil
	}
	return pm.panes[pm.active]
}

// SetActive makes the pane at index active.
func (pm *PaneManager) SetActive(index int) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if index < 0 || index >= len(pm.panes) {
		return ErrPaneNotFound
	}
	pm.active = index
	return nil
}

// All returns every pane in order.
func (pm *PaneManager) All() []*Pane {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	panes := make([]*Pane, len(pm.panes))
	copy(panes, pm.panes)
	return panes
}

// Count returns the number of panes.
func (pm *PaneManager) Count() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.panes)
}

// Documents returns the document of every pane in order.
func (pm *PaneManager) Documents() []*document.Document {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	docs := make([]*document.Document, len(pm.panes))
	for i, p := range pm.panes {
		docs[i] = p.Document
	}
	return docs
}

// AllDisposed reports whether every pane's window has been disposed.
func (pm *PaneManager) AllDisposed() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if len(pm.panes) == 0 {
		return false
	}
	for _, p := range pm.panes {
		if !p.Window.Disposed() {
			return false
		}
	}
	return true
}

// Next activates and returns the next pane, wrapping around.
func (pm *PaneManager) Next() *Pane {
	return pm.step(1)
}

// Previous activates and returns the previous pane, wrapping around.
func (pm *PaneManager) Previous() *Pane {
	return pm.step(-1)
}

func (pm *PaneManager) step(delta int) *Pane {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	n := len(pm.panes)
	if n == 0 || pm.active < 0 {
		return nil
	}
	pm.active = ((pm.active+delta)%n + n) % n
	return pm.panes[pm.active]
}

func paneName(index int) string {
	return "pane " + strconv.Itoa(index+1)
}
