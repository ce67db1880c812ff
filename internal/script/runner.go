package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/mirrorpad/internal/app"
	"github.com/dshills/mirrorpad/internal/chooser"
	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
	"github.com/dshills/mirrorpad/internal/dispatcher/handlers/file"
	"github.com/dshills/mirrorpad/internal/document"
	"github.com/dshills/mirrorpad/internal/logging"
)

// Runner replays scripts. The application must have been created with
// queue as its chooser.
type Runner struct {
	app    *app.Application
	queue  *chooser.Queue
	logger *logging.Logger
}

// NewRunner creates a runner.
func NewRunner(a *app.Application, queue *chooser.Queue) *Runner {
	return &Runner{
		app:    a,
		queue:  queue,
		logger: a.Logger().WithComponent("script"),
	}
}

// Task returns an app.Task that runs s.
func (r *Runner) Task(s *Script) app.Task {
	return func(ctx context.Context) error {
		return r.Run(ctx, s)
	}
}

// Run executes the steps of s in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, s *Script) error {
	r.logger.Info("script started", "script", s.Name, "steps", len(s.Steps))
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.step(ctx, step); err != nil {
			r.logger.Error("script failed", "script", s.Name, "step", i+1, "error", err)
			return &StepError{Index: i, Err: err}
		}
	}
	r.logger.Info("script finished", "script", s.Name)
	return nil
}

func (r *Runner) step(ctx context.Context, st Step) error {
	pane, err := r.pane(st.Pane)
	if err != nil {
		return err
	}

	var result handler.Result
	switch {
	case st.Command != "":
		result, err = r.command(ctx, pane, st)
	case st.Text != nil:
		err = r.app.SetText(ctx, pane, *st.Text)
	case st.Insert != nil:
		err = r.app.Insert(ctx, pane, st.Insert.Offset, st.Insert.Text)
	case st.Delete != nil:
		err = r.app.Delete(ctx, pane, st.Delete.Start, st.Delete.End)
	}
	if err != nil {
		return err
	}

	if st.Expect == nil {
		return nil
	}
	target := pane
	if st.Expect.Pane > 0 {
		target = st.Expect.Pane - 1
	}
	return r.check(ctx, target, st.Expect, result)
}

func (r *Runner) pane(n int) (int, error) {
	if n == 0 {
		p := r.app.Panes().Active()
		if p == nil {
			return 0, app.ErrPaneNotFound
		}
		return p.Index, nil
	}
	if err := r.app.Panes().SetActive(n - 1); err != nil {
		return 0, err
	}
	return n - 1, nil
}

func (r *Runner) command(ctx context.Context, pane int, st Step) (handler.Result, error) {
	if st.Choose != "" {
		res := document.Resource(st.Choose)
		switch st.Command {
		case file.LabelOpen:
			r.queue.PushOpen(res)
		case file.LabelSave, file.LabelSaveAs:
			r.queue.PushSave(res)
		default:
			return handler.Result{}, fmt.Errorf("%w: %s does not choose a resource", ErrInvalidStep, st.Command)
		}
		// Choices the command did not consume do not leak into later steps.
		defer r.queue.Reset()
	}

	result, err := r.app.Execute(ctx, pane, st.Command)
	if err != nil {
		return result, err
	}
	r.logger.Debug("step executed", "command", st.Command, "pane", pane+1, "status", result.Status.String())
	return result, nil
}

func (r *Runner) check(ctx context.Context, pane int, want *Expect, result handler.Result) error {
	p, ok := r.app.Panes().Get(pane)
	if !ok {
		return app.ErrPaneNotFound
	}
	s, err := p.State(ctx)
	if err != nil {
		return err
	}

	var failures []string
	if want.Status != "" && !strings.EqualFold(want.Status, result.Status.String()) {
		msg := fmt.Sprintf("status %s, want %s", result.Status, want.Status)
		if result.Error != nil {
			msg += fmt.Sprintf(" (%v)", result.Error)
		}
		failures = append(failures, msg)
	}
	if want.Text != nil && *want.Text != s.Content {
		failures = append(failures, fmt.Sprintf("%s text %q, want %q", p.Name, s.Content, *want.Text))
	}
	if want.Resource != nil && *want.Resource != s.Resource.String() {
		failures = append(failures, fmt.Sprintf("%s resource %q, want %q", p.Name, s.Resource, *want.Resource))
	}
	if want.Modified != nil && *want.Modified != s.Modified {
		failures = append(failures, fmt.Sprintf("%s modified %t, want %t", p.Name, s.Modified, *want.Modified))
	}

	if len(failures) > 0 {
		return fmt.Errorf("%w: %s", ErrExpectation, strings.Join(failures, "; "))
	}
	return nil
}
