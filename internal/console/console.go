// Package console implements the line-oriented menu of mirrorpad.
//
// Each input line is either a command label ("New", "Open", "Save",
// "Save as", "Close", "Previous", "Following") dispatched on the active
// pane, or one of the console verbs:
//
//	pane N            make pane N active
//	next, prev        cycle the active pane
//	text STRING       replace the active document's content
//	insert N STRING   insert STRING at offset N
//	delete N M        delete bytes N up to M
//	show              print every pane
//	stats             print dispatch statistics (needs dispatch.metrics)
//	help              list commands
//	quit              exit
//
// The console shares its reader with the prompt chooser, so a command that
// asks for a path reads it from the following line.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/mirrorpad/internal/app"
	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
)

// Prompt is printed before each command line.
const Prompt = "mirrorpad> "

// ErrUsage is reported for malformed console verbs.
var ErrUsage = errors.New("usage")

// Console reads commands from a reader and runs them against an application.
type Console struct {
	app *app.Application
	in  *bufio.Reader
	out io.Writer
}

// New creates a console. in must be the same reader the application's
// prompt chooser reads from.
func New(a *app.Application, in *bufio.Reader, out io.Writer) *Console {
	return &Console{app: a, in: in, out: out}
}

// Run reads and executes lines until input ends, quit is entered, ctx is
// done or the application quits. It has the signature of app.Task.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := c.stopped(ctx); err != nil {
			return err
		}

		fmt.Fprint(c.out, Prompt)
		line, err := c.in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if execErr := c.Execute(ctx, line); execErr != nil {
				if errors.Is(execErr, app.ErrQuit) {
					return app.ErrQuit
				}
				fmt.Fprintf(c.out, "error: %v\n", execErr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
				return app.ErrQuit
			}
			return fmt.Errorf("console: %w", err)
		}
	}
}

func (c *Console) stopped(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.app.Done():
		return app.ErrQuit
	default:
		return nil
	}
}

// Execute runs a single console line.
func (c *Console) Execute(ctx context.Context, line string) error {
	verb, rest, _ := strings.Cut(line, " ")

	switch strings.ToLower(verb) {
	case "quit", "exit":
		return app.ErrQuit
	case "help":
		c.help()
		return nil
	case "show":
		return c.show(ctx)
	case "stats":
		c.stats()
		return nil
	case "pane":
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return fmt.Errorf("%w: pane N", ErrUsage)
		}
		if err := c.app.Panes().SetActive(n - 1); err != nil {
			return err
		}
		c.printActive()
		return nil
	case "next":
		c.app.Panes().Next()
		c.printActive()
		return nil
	case "prev":
		c.app.Panes().Previous()
		c.printActive()
		return nil
	case "text":
		return c.app.SetText(ctx, c.active(), rest)
	case "insert":
		pos, text, ok := strings.Cut(rest, " ")
		offset, err := strconv.Atoi(pos)
		if !ok || err != nil {
			return fmt.Errorf("%w: insert N STRING", ErrUsage)
		}
		return c.app.Insert(ctx, c.active(), offset, text)
	case "delete":
		var start, end int
		if _, err := fmt.Sscan(rest, &start, &end); err != nil {
			return fmt.Errorf("%w: delete N M", ErrUsage)
		}
		return c.app.Delete(ctx, c.active(), start, end)
	}

	result, err := c.app.ExecuteActive(ctx, line)
	if err != nil {
		return err
	}
	c.report(line, result)
	return nil
}

func (c *Console) active() int {
	if p := c.app.Panes().Active(); p != nil {
		return p.Index
	}
	return -1
}

func (c *Console) printActive() {
	if p := c.app.Panes().Active(); p != nil {
		fmt.Fprintf(c.out, "active: %s\n", p.Name)
	}
}

func (c *Console) report(label string, r handler.Result) {
	switch {
	case r.IsError():
		fmt.Fprintf(c.out, "%s: error: %v\n", label, r.Error)
	case r.Message != "":
		fmt.Fprintf(c.out, "%s: %s (%s)\n", label, r.Status, r.Message)
	default:
		fmt.Fprintf(c.out, "%s: %s\n", label, r.Status)
	}
}

func (c *Console) show(ctx context.Context) error {
	active := c.active()
	for _, p := range c.app.Panes().All() {
		s, err := p.State(ctx)
		if err != nil {
			return err
		}

		marker := " "
		if p.Index == active {
			marker = "*"
		}
		modified := ""
		if s.Modified {
			modified = " [modified]"
		}
		closed := ""
		if p.Window.Disposed() {
			closed = " [closed]"
		}
		fmt.Fprintf(c.out, "%s %s: %s%s%s\n  %q\n", marker, p.Name, s.Name(), modified, closed, s.Content)
		if s.NextUndo != "" {
			fmt.Fprintf(c.out, "  undo: %s\n", s.NextUndo)
		}
		if last, ok := p.Dispatcher.LastCommand(); ok {
			fmt.Fprintf(c.out, "  last: %s\n", last)
		}
	}
	return nil
}

func (c *Console) stats() {
	for _, p := range c.app.Panes().All() {
		m := p.Dispatcher.Metrics()
		if m == nil {
			fmt.Fprintf(c.out, "%s: metrics disabled\n", p.Name)
			continue
		}
		s := m.Snapshot()
		fmt.Fprintf(c.out, "%s: %d dispatched, %d errors, %d unknown, %d published, avg %s\n",
			p.Name, s.TotalDispatches, s.TotalErrors, s.TotalUnknown, s.TotalPublishes, s.AverageDuration)
		for _, cm := range m.TopCommands(3) {
			fmt.Fprintf(c.out, "  %s x%d (%s)\n", cm.Label, cm.DispatchCount, cm.LastStatus)
		}
	}
}

func (c *Console) help() {
	fmt.Fprintln(c.out, "commands: New, Open, Save, Save as, Close, Previous, Following")
	fmt.Fprintln(c.out, "console:  pane N, next, prev, text STRING, insert N STRING, delete N M, show, stats, help, quit")
}
