package app

import (
	"context"
	"sync"
	"time"
)

const shutdownTimeout = 5 * time.Second

// Shutdown stops the application: in-flight commands finish, replication
// links are closed and the UI loop drains and stops.
func (app *Application) Shutdown(ctx context.Context) error {
	if !app.running.CompareAndSwap(true, false) {
		return ErrNotRunning
	}

	errs := NewErrorList()

	// 1. Let dispatchers finish their workers
	var wg sync.WaitGroup
	for _, p := range app.panes.All() {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Dispatcher.Close()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		errs.Add(NewComponentError("dispatcher", "close", ErrShutdownTimeout))
	}

	// 2. Stop replication
	for _, l := range app.links {
		if err := l.Close(ctx); err != nil {
			errs.Add(NewComponentError("replication", "close", err))
		}
	}

	// 3. Stop the UI loop
	if err := app.loop.Stop(ctx); err != nil {
		errs.Add(NewComponentError("ui loop", "stop", err))
	}

	app.logger.Info("application stopped")
	return errs.AsError()
}
