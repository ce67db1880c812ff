// Package dispatcher routes command labels to handlers and coordinates execution.
//
// The dispatcher connects the menu to the editor's document. It receives a
// command label such as "Open" or "Save as" and runs the handler registered
// for it.
//
// # Resolution
//
// Labels are resolved in one of two modes:
//
//  1. Table (default): the Registry maps each label to its handler.
//
//  2. Chain: a chain of responsibility is built from the Registry in
//     registration order. Each link claims the command if the label matches
//     and otherwise forwards it. The end of the chain drops the command.
//
// Labels are unique, so both modes resolve every label to the same handler.
// A label nothing claims yields a NoOp result and is logged at debug level.
//
// # Handler Execution
//
// When a command is submitted:
//
//  1. A worker goroutine is started and tracked for Wait
//  2. An ExecutionContext is built with the document, chooser, store, window and UI
//  3. Pre-dispatch hooks are called (can cancel the command)
//  4. The handler is executed (with optional panic recovery)
//  5. If the result reports a mutation, subscribers are notified
//  6. Post-dispatch hooks are called
//  7. Metrics are recorded (if enabled)
//
// Handlers take write access to the document themselves and release it
// before returning, so step 5 never runs under the document lock. History
// handlers hop onto the UI loop from their worker.
//
// Failures never escape as Go errors or panics. They are logged and carried
// in the Result with StatusError.
//
// # Usage
//
//	d, err := dispatcher.New(dispatcher.DefaultConfig(), dispatcher.Deps{
//	    Document: doc,
//	    Chooser:  chooser,
//	    Store:    store,
//	    Window:   window,
//	    UI:       loop,
//	    Logger:   logger,
//	})
//	if err != nil {
//	    return err
//	}
//	_ = d.RegisterHandlers(file.Handlers()...)
//	_ = d.RegisterHandlers(edit.Handlers()...)
//
//	result := d.Dispatch(ctx, "Save as")
//
// Asynchronously:
//
//	done := d.Submit(ctx, "Open")
//	// ...
//	result := <-done
//
//	d.Close()
package dispatcher
