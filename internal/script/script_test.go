package script

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mirrorpad/internal/app"
	"github.com/dshills/mirrorpad/internal/chooser"
	"github.com/dshills/mirrorpad/internal/config"
	"github.com/dshills/mirrorpad/internal/logging"
)

func newRunner(t *testing.T) (*app.Application, *Runner, afero.Fs) {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.Root = "/work"
	fs := afero.NewMemMapFs()
	queue := chooser.NewQueue(nil)

	a, err := app.New(app.Options{Config: cfg, Logger: logging.Nop(), Fs: fs, Chooser: queue})
	require.NoError(t, err)
	return a, NewRunner(a, queue), fs
}

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(`
name: demo
steps:
  - text: abc
  - pane: 2
    command: Open
    choose: a.txt
    expect:
      status: cancelled
      modified: false
  - insert: {offset: 1, text: "x"}
`))
	require.NoError(t, err)

	assert.Equal(t, "demo", s.Name)
	require.Len(t, s.Steps, 3)
	require.NotNil(t, s.Steps[0].Text)
	assert.Equal(t, "abc", *s.Steps[0].Text)
	assert.Equal(t, 2, s.Steps[1].Pane)
	assert.Equal(t, "Open", s.Steps[1].Command)
	assert.Equal(t, "a.txt", s.Steps[1].Choose)
	require.NotNil(t, s.Steps[1].Expect.Modified)
	assert.False(t, *s.Steps[1].Expect.Modified)
	assert.Equal(t, &Insert{Offset: 1, Text: "x"}, s.Steps[2].Insert)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"empty", "", ErrEmptyScript},
		{"no steps", "name: x\n", ErrEmptyScript},
		{"two actions", "steps:\n  - text: a\n    command: New\n", ErrInvalidStep},
		{"nothing", "steps:\n  - pane: 1\n", ErrInvalidStep},
		{"negative pane", "steps:\n  - pane: -1\n    command: New\n", ErrInvalidStep},
		{"choose alone", "steps:\n  - text: a\n    choose: f.txt\n", ErrInvalidStep},
		{"status without command", "steps:\n  - text: a\n    expect: {status: ok}\n", ErrInvalidStep},
		{"negative offset", "steps:\n  - insert: {offset: -2, text: a}\n", ErrInvalidStep},
		{"reversed delete", "steps:\n  - delete: {start: 3, end: 1}\n", ErrInvalidStep},
		{"insert and delete", "steps:\n  - insert: {offset: 0, text: a}\n    delete: {start: 0, end: 1}\n", ErrInvalidStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse(strings.NewReader("steps:\n  - comand: New\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comand")
}

func TestStepErrorIndex(t *testing.T) {
	_, err := Parse(strings.NewReader("steps:\n  - command: New\n  - pane: 1\n"))

	var serr *StepError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 1, serr.Index)
	assert.Contains(t, err.Error(), "step 2")
}

func TestLoadSessionScript(t *testing.T) {
	s, err := Load(afero.NewOsFs(), "testdata/session.yaml")
	require.NoError(t, err)
	assert.Equal(t, "save, replicate and undo", s.Name)

	a, r, fs := newRunner(t)
	require.NoError(t, a.Run(context.Background(), r.Task(s)))

	data, err := afero.ReadFile(fs, "/work/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load script")
}

func TestLoadNamesScriptAfterPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/s.yaml", []byte("steps:\n  - command: New\n"), 0o644))

	s, err := Load(fs, "/s.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/s.yaml", s.Name)
}

func TestRunFailedExpectation(t *testing.T) {
	a, r, _ := newRunner(t)
	require.NoError(t, a.Start())
	defer a.Shutdown(context.Background())

	s, err := Parse(strings.NewReader(`
steps:
  - text: one
  - pane: 2
    expect:
      text: two
`))
	require.NoError(t, err)

	err = r.Run(context.Background(), s)
	require.True(t, errors.Is(err, ErrExpectation), "got %v", err)

	var serr *StepError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 1, serr.Index)
	assert.Contains(t, err.Error(), `pane 2 text "one", want "two"`)
}

func TestRunStatusMismatchReportsError(t *testing.T) {
	a, r, _ := newRunner(t)
	require.NoError(t, a.Start())
	defer a.Shutdown(context.Background())

	s, err := Parse(strings.NewReader(`
steps:
  - command: Open
    choose: missing.txt
    expect:
      status: ok
`))
	require.NoError(t, err)

	err = r.Run(context.Background(), s)
	require.True(t, errors.Is(err, ErrExpectation), "got %v", err)
	assert.Contains(t, err.Error(), "status error, want ok")
}

func TestUnconsumedChoiceIsDropped(t *testing.T) {
	a, r, fs := newRunner(t)
	require.NoError(t, a.Start())
	defer a.Shutdown(context.Background())

	s, err := Parse(strings.NewReader(`
steps:
  - text: data
  - command: Save as
    choose: first.txt
  - command: Save
    choose: ignored.txt
    expect:
      status: ok
      resource: first.txt
  - pane: 2
    command: Save
    expect:
      status: cancelled
`))
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background(), s))

	exists, err := afero.Exists(fs, "/work/ignored.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestChooseRejectedForCommandsWithoutChooser(t *testing.T) {
	a, r, _ := newRunner(t)
	require.NoError(t, a.Start())
	defer a.Shutdown(context.Background())

	s, err := Parse(strings.NewReader("steps:\n  - command: New\n    choose: x.txt\n"))
	require.NoError(t, err)

	err = r.Run(context.Background(), s)
	assert.True(t, errors.Is(err, ErrInvalidStep), "got %v", err)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	a, r, _ := newRunner(t)
	require.NoError(t, a.Start())
	defer a.Shutdown(context.Background())

	s, err := Parse(strings.NewReader("steps:\n  - command: New\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Run(ctx, s), context.Canceled)
}
