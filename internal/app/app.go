// Package app provides the main application structure and coordination
// for mirrorpad. It wires together the panes, their dispatchers, the shared
// UI loop and storage, and manages the application lifecycle.
package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/spf13/afero"

	"github.com/dshills/mirrorpad/internal/config"
	"github.com/dshills/mirrorpad/internal/dispatcher/execctx"
	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
	"github.com/dshills/mirrorpad/internal/document"
	"github.com/dshills/mirrorpad/internal/logging"
	"github.com/dshills/mirrorpad/internal/storage"
	"github.com/dshills/mirrorpad/internal/ui"
)

// Application is the central coordinator for all mirrorpad components.
type Application struct {
	mu sync.RWMutex

	config *config.Config
	logger *logging.Logger

	loop    *ui.Loop
	store   *storage.FileStore
	chooser execctx.Chooser

	panes *PaneManager
	links []*document.Link

	running  atomic.Bool
	done     chan struct{}
	quitOnce sync.Once

	opts Options
}

// Options configures the application.
type Options struct {
	// Config is the loaded configuration. Nil means config.Default().
	Config *config.Config

	// Logger overrides the logger built from Config.Log.
	Logger *logging.Logger

	// LogOutput is where the built logger writes. Defaults to stderr.
	LogOutput io.Writer

	// Fs is the filesystem documents are stored on. Defaults to the OS.
	Fs afero.Fs

	// Chooser selects resources for Open, Save and Save as.
	// Nil means every choice is cancelled.
	Chooser execctx.Chooser
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:  opts,
		done:  make(chan struct{}),
		panes: NewPaneManager(),
	}

	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Execute dispatches label on the pane at index and waits for the result.
func (app *Application) Execute(ctx context.Context, index int, label string) (handler.Result, error) {
	p, ok := app.panes.Get(index)
	if !ok {
		return handler.Result{}, NewOperationError("execute", label, ErrPaneNotFound).
			WithContext(paneName(index))
	}
	return p.Dispatcher.Dispatch(ctx, label), nil
}

// ExecuteActive dispatches label on the active pane.
func (app *Application) ExecuteActive(ctx context.Context, label string) (handler.Result, error) {
	p := app.panes.Active()
	if p == nil {
		return handler.Result{}, NewOperationError("execute", label, ErrPaneNotFound)
	}
	return p.Dispatcher.Dispatch(ctx, label), nil
}

// SetText replaces the content of the pane at index as a user edit.
// The change replicates to every other pane.
func (app *Application) SetText(ctx context.Context, index int, text string) error {
	p, ok := app.panes.Get(index)
	if !ok {
		return NewOperationError("set text", paneName(index), ErrPaneNotFound)
	}
	if err := p.Document.SetText(ctx, text); err != nil {
		return NewOperationError("set text", p.Name, err)
	}
	return nil
}

// Insert inserts text at offset in the pane at index as a user edit.
func (app *Application) Insert(ctx context.Context, index, offset int, text string) error {
	p, ok := app.panes.Get(index)
	if !ok {
		return NewOperationError("insert", paneName(index), ErrPaneNotFound)
	}
	if err := p.Document.Insert(ctx, offset, text); err != nil {
		return NewOperationError("insert", p.Name, err)
	}
	return nil
}

// Delete removes the byte range [start, end) in the pane at index as a user edit.
func (app *Application) Delete(ctx context.Context, index, start, end int) error {
	p, ok := app.panes.Get(index)
	if !ok {
		return NewOperationError("delete", paneName(index), ErrPaneNotFound)
	}
	if err := p.Document.Delete(ctx, start, end); err != nil {
		return NewOperationError("delete", p.Name, err)
	}
	return nil
}

// Text returns the content of the pane at index.
func (app *Application) Text(ctx context.Context, index int) (string, error) {
	p, ok := app.panes.Get(index)
	if !ok {
		return "", NewOperationError("read", paneName(index), ErrPaneNotFound)
	}
	text, err := p.Document.Text(ctx)
	if err != nil {
		return "", NewOperationError("read", p.Name, err)
	}
	return text, nil
}

// ApplyConfig applies the settings that can change while running.
// Only the log level is reloadable.
func (app *Application) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	app.logger.SetLevel(logging.ParseLogLevel(cfg.Log.Level))

	app.mu.Lock()
	app.config.Log.Level = cfg.Log.Level
	app.mu.Unlock()

	app.logger.Info("config reloaded", "log_level", cfg.Log.Level)
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration in effect.
func (app *Application) Config() config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return *app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Panes returns the pane manager.
func (app *Application) Panes() *PaneManager {
	return app.panes
}

// Store returns the document store.
func (app *Application) Store() *storage.FileStore {
	return app.store
}

// Loop returns the UI loop.
func (app *Application) Loop() *ui.Loop {
	return app.loop
}
