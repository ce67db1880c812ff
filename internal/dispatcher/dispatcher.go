package dispatcher

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/dshills/mirrorpad/internal/dispatcher/execctx"
	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
	"github.com/dshills/mirrorpad/internal/dispatcher/hook"
	"github.com/dshills/mirrorpad/internal/document"
	"github.com/dshills/mirrorpad/internal/logging"
)

// Deps are the collaborators handed to every handler invocation.
type Deps struct {
	Document *document.Document
	Chooser  execctx.Chooser
	Store    execctx.Store
	Window   execctx.Window
	UI       execctx.UI
	Logger   *logging.Logger
}

// Dispatcher routes command labels to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	config   Config
	deps     Deps
	logger   *logging.Logger

	// Metrics (nil when disabled)
	metrics *Metrics

	hookManager *hook.Manager
	last        *hook.LastCommandHook

	// In-flight command workers
	workers conc.WaitGroup
	closed  bool
}

// New creates a dispatcher over deps.
// The audit, action-log and last-command hooks are installed on a fresh
// hook manager.
func New(config Config, deps Deps) (*Dispatcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Mode == "" {
		config.Mode = ModeTable
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.WithComponent("dispatcher")

	d := &Dispatcher{
		registry:    NewRegistry(),
		config:      config,
		deps:        deps,
		logger:      logger,
		hookManager: hook.NewManager(),
		last:        hook.NewLastCommandHook(),
	}
	d.hookManager.Register(hook.NewAuditHook(logger))
	d.hookManager.RegisterPost(hook.NewActionLogHook(logger))
	d.hookManager.RegisterPost(d.last)

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d, nil
}

// RegisterHandler registers h under its label.
// Registration order is the order a chain tries the handlers.
func (d *Dispatcher) RegisterHandler(h handler.Handler) error {
	return d.registry.Register(h)
}

// RegisterHandlers registers each handler in turn, stopping at the first error.
func (d *Dispatcher) RegisterHandlers(hs ...handler.Handler) error {
	for _, h := range hs {
		if err := d.registry.Register(h); err != nil {
			return err
		}
	}
	return nil
}

// RegisterHandlerFunc registers a handler function for a label.
func (d *Dispatcher) RegisterHandlerFunc(label string, fn func(context.Context, *execctx.ExecutionContext) handler.Result) error {
	return d.registry.Register(handler.NewHandlerFunc(label, fn))
}

// Dispatch executes a command and waits for its result.
func (d *Dispatcher) Dispatch(ctx context.Context, label string) handler.Result {
	return <-d.Submit(ctx, label)
}

// Submit starts a command on a worker goroutine and returns a channel that
// receives its result exactly once.
//
// A label no handler claims is dropped silently: the channel carries a NoOp
// result and no worker is started.
func (d *Dispatcher) Submit(ctx context.Context, label string) <-chan handler.Result {
	out := make(chan handler.Result, 1)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		out <- handler.Error(ErrDispatcherStopped)
		close(out)
		return out
	}

	run := d.resolve(label)
	if run == nil {
		d.logger.Debug("unknown command dropped", "command", label)
		if d.metrics != nil {
			d.metrics.RecordUnknown()
		}
		out <- handler.NoOp()
		close(out)
		return out
	}

	d.workers.Go(func() {
		defer close(out)
		out <- d.execute(ctx, label, run)
	})
	return out
}

// runFunc runs one resolved command.
type runFunc func(context.Context, *execctx.ExecutionContext) handler.Result

// resolve returns how label runs under the dispatch mode, or nil when no
// handler claims it. In chain mode the command is passed down a chain built
// from the handlers registered now.
func (d *Dispatcher) resolve(label string) runFunc {
	if d.config.Mode == ModeChain {
		chain := d.registry.Chain()
		if _, ok := chain.Resolve(label); !ok {
			return nil
		}
		return func(ctx context.Context, ec *execctx.ExecutionContext) handler.Result {
			result, _ := chain.Handle(ctx, label, ec)
			return result
		}
	}
	h := d.registry.Get(label)
	if h == nil {
		return nil
	}
	return h.Handle
}

// execute is the core dispatch logic for one resolved command.
func (d *Dispatcher) execute(ctx context.Context, label string, run runFunc) handler.Result {
	startTime := time.Now()

	ec := d.buildContext(label)

	manager := d.HookManager()
	if manager != nil {
		if ok, by := manager.RunPreDispatch(ec); !ok {
			result := handler.CancelledWithMessage("cancelled by " + by)
			result.Error = ErrActionCancelled
			d.record(label, startTime, result)
			return result
		}
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(ctx, run, ec)
	} else {
		result = run(ctx, ec)
	}

	d.processResult(ctx, ec, result)

	if manager != nil {
		manager.RunPostDispatch(ec, &result)
	}

	d.record(label, startTime, result)
	return result
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(ctx context.Context, run runFunc, ec *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			ec.Logger.Error("handler panic", "panic", r, "stack", string(stack[:n]))
			result = handler.Error(fmt.Errorf("%w: %s: %v", ErrPanic, ec.Command, r))

			if d.metrics != nil {
				d.metrics.RecordPanic(ec.Command)
			}
		}
	}()

	return run(ctx, ec)
}

// buildContext builds an execution context from the dispatcher's collaborators.
func (d *Dispatcher) buildContext(label string) *execctx.ExecutionContext {
	return execctx.New(label).
		WithDocument(d.deps.Document).
		WithChooser(d.deps.Chooser).
		WithStore(d.deps.Store).
		WithWindow(d.deps.Window).
		WithUI(d.deps.UI).
		WithLogger(d.logger)
}

// processResult notifies subscribers once a mutating handler has released
// the document.
func (d *Dispatcher) processResult(ctx context.Context, ec *execctx.ExecutionContext, result handler.Result) {
	if !result.Mutated || ec.Document == nil {
		return
	}
	if err := ec.Document.Publish(ctx); err != nil {
		ec.Logger.Warn("notify failed", "error", err)
	}
	if d.metrics != nil {
		d.metrics.RecordPublish()
	}
}

func (d *Dispatcher) record(label string, start time.Time, result handler.Result) {
	if d.metrics != nil {
		d.metrics.RecordDispatch(label, time.Since(start), result)
	}
}

// Wait blocks until every in-flight command has finished.
func (d *Dispatcher) Wait() {
	d.workers.Wait()
}

// Close stops accepting commands and waits for in-flight ones.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.workers.Wait()
}

// Labels returns the registered labels in the order a chain tries them.
func (d *Dispatcher) Labels() []string {
	return d.registry.List()
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Document returns the document commands act on.
func (d *Dispatcher) Document() *document.Document {
	return d.deps.Document
}

// Metrics returns the metrics collector (may be nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// LastCommand returns the most recent command that completed with status
// ok. It is not tracked once the hook manager is replaced.
func (d *Dispatcher) LastCommand() (string, bool) {
	label, _, ok := d.last.Last()
	return label, ok
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// HookManager returns the hook manager (may be nil).
func (d *Dispatcher) HookManager() *hook.Manager {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hookManager
}

// SetHookManager replaces the hook manager. A nil manager disables hooks.
func (d *Dispatcher) SetHookManager(manager *hook.Manager) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hookManager = manager
}
