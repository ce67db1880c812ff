package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Task is foreground work run alongside the application, such as an
// interactive console or a script. When a task returns, the application
// shuts down. Returning ErrQuit is a normal exit.
type Task func(ctx context.Context) error

// Start starts the UI loop. Commands can be executed once Start returns.
func (app *Application) Start() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if err := app.loop.Start(); err != nil {
		app.running.Store(false)
		return NewComponentError("ui loop", "start", err)
	}
	app.logger.Info("application started", "panes", app.panes.Count())
	return nil
}

// Run starts the application and runs tasks concurrently until one of them
// returns, ctx is done or Quit is called. It then shuts down.
//
// With no tasks, Run blocks until ctx is done or Quit is called.
func (app *Application) Run(ctx context.Context, tasks ...Task) error {
	if err := app.Start(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			defer cancel()
			if err := task(gctx); err != nil && !errors.Is(err, ErrQuit) && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-app.done:
			cancel()
		}
		return nil
	})

	runErr := g.Wait()

	shutdownCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer stop()
	return errors.Join(runErr, app.Shutdown(shutdownCtx))
}

// Quit asks a running Run to return. It is safe to call more than once.
func (app *Application) Quit() {
	app.quitOnce.Do(func() {
		close(app.done)
	})
}

// Done is closed when Quit has been called.
func (app *Application) Done() <-chan struct{} {
	return app.done
}

// windowDisposed quits once every pane's window is gone.
func (app *Application) windowDisposed() {
	if app.panes.AllDisposed() {
		app.logger.Info("all windows disposed")
		app.Quit()
	}
}
