package app

import (
	"context"
	"time"

	"github.com/spf13/afero"

	"github.com/dshills/mirrorpad/internal/chooser"
	"github.com/dshills/mirrorpad/internal/config"
	"github.com/dshills/mirrorpad/internal/dispatcher"
	"github.com/dshills/mirrorpad/internal/dispatcher/handlers/edit"
	"github.com/dshills/mirrorpad/internal/dispatcher/handlers/file"
	"github.com/dshills/mirrorpad/internal/document"
	"github.com/dshills/mirrorpad/internal/lock"
	"github.com/dshills/mirrorpad/internal/logging"
	"github.com/dshills/mirrorpad/internal/storage"
	"github.com/dshills/mirrorpad/internal/ui"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 6),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initLoop,
		b.initStore,
		b.initPanes,
		b.initReplication,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initConfig validates the supplied configuration or falls back to defaults.
func (b *bootstrapper) initConfig() error {
	cfg := b.opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return NewComponentError("config", "validate", errs)
	}
	c := *cfg
	b.app.config = &c
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogger builds the application logger from the log settings.
func (b *bootstrapper) initLogger() error {
	logger := b.opts.Logger
	if logger == nil {
		cfg := logging.DefaultConfig()
		cfg.Level = logging.ParseLogLevel(b.app.config.Log.Level)
		cfg.Format = b.app.config.Log.Format
		if b.opts.LogOutput != nil {
			cfg.Output = b.opts.LogOutput
		}
		logger = logging.New(cfg)
	}
	b.app.logger = logger
	b.initOrder = append(b.initOrder, "logger")
	return nil
}

// initLoop creates the UI loop. It is started by Start.
func (b *bootstrapper) initLoop() error {
	b.app.loop = ui.NewLoop(
		ui.WithQueueSize(b.app.config.UI.QueueSize),
		ui.WithLogger(b.app.logger),
	)
	b.initOrder = append(b.initOrder, "loop")
	return nil
}

// initStore creates the document store and the resource chooser.
func (b *bootstrapper) initStore() error {
	perm, err := b.app.config.Storage.FileMode()
	if err != nil {
		return NewComponentError("storage", "parse perm", err)
	}

	fs := b.opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	opts := []storage.Option{storage.WithPerm(perm), storage.WithLogger(b.app.logger)}
	if root := b.app.config.Storage.Root; root != "" {
		opts = append(opts, storage.WithRoot(root))
	}
	b.app.store = storage.NewFileStore(fs, opts...)

	b.app.chooser = b.opts.Chooser
	if b.app.chooser == nil {
		b.app.chooser = chooser.NewQueue(nil)
	}

	b.initOrder = append(b.initOrder, "store")
	return nil
}

// initPanes creates each pane with its own document, window and dispatcher.
func (b *bootstrapper) initPanes() error {
	cfg := b.app.config

	dcfg := dispatcher.DefaultConfig().
		WithMode(cfg.Dispatch.Mode).
		WithPanicRecovery(cfg.Dispatch.RecoverPanics)
	if cfg.Dispatch.Metrics {
		dcfg = dcfg.WithMetrics()
	}

	for i := 0; i < cfg.Panes; i++ {
		name := paneName(i)
		logger := b.app.logger.WithField("pane", name)

		guard, err := lock.NewGuard(cfg.Document.Lock)
		if err != nil {
			return NewComponentError(name, "create lock", err)
		}
		doc := document.New(
			document.WithGuard(guard),
			document.WithHistorySize(cfg.Document.HistorySize),
			document.WithLogger(logger),
		)

		window := NewWindow(name, logger, b.app.windowDisposed)

		d, err := dispatcher.New(dcfg, dispatcher.Deps{
			Document: doc,
			Chooser:  b.app.chooser,
			Store:    b.app.store,
			Window:   window,
			UI:       b.app.loop,
			Logger:   logger,
		})
		if err != nil {
			return NewComponentError(name, "create dispatcher", err)
		}
		if err := d.RegisterHandlers(file.Handlers()...); err != nil {
			return NewComponentError(name, "register handlers", err)
		}
		if err := d.RegisterHandlers(edit.Handlers()...); err != nil {
			return NewComponentError(name, "register handlers", err)
		}

		b.app.panes.Add(&Pane{
			Index:      i,
			Name:       name,
			Document:   doc,
			Dispatcher: d,
			Window:     window,
		})
	}

	b.initOrder = append(b.initOrder, "panes")
	return nil
}

// initReplication cross-subscribes every pair of documents.
func (b *bootstrapper) initReplication() error {
	links, err := document.PairAll(context.Background(), b.app.panes.Documents()...)
	if err != nil {
		return NewComponentError("replication", "pair", err)
	}
	b.app.links = links
	b.initOrder = append(b.initOrder, "replication")
	return nil
}

// cleanup performs cleanup in reverse initialization order.
func (b *bootstrapper) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(ctx, b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(ctx context.Context, component string) {
	switch component {
	case "replication":
		for _, l := range b.app.links {
			_ = l.Close(ctx)
		}
		b.app.links = nil
	case "panes":
		for _, p := range b.app.panes.All() {
			p.Dispatcher.Close()
		}
		b.app.panes = NewPaneManager()
	case "store":
		b.app.store = nil
		b.app.chooser = nil
	case "loop":
		b.app.loop = nil
	case "logger", "config":
	}
}
