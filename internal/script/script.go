// Package script replays YAML session scripts against a mirrorpad application.
//
// A script is a list of steps. Each step targets a pane (1-based; 0 or
// omitted means the active pane) and does at most one of: dispatch a
// command, replace the text, insert text, delete a range. A step may then
// check the result:
//
//	name: save and replicate
//	steps:
//	  - pane: 1
//	    text: hello
//	  - pane: 1
//	    command: Save as
//	    choose: hello.txt
//	    expect:
//	      status: ok
//	      resource: hello.txt
//	  - pane: 2
//	    expect:
//	      text: hello
//
// choose supplies the path a command's chooser returns. Commands that need a
// path and have none are cancelled.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Script errors.
var (
	ErrInvalidStep = errors.New("invalid step")
	ErrExpectation = errors.New("expectation failed")
	ErrEmptyScript = errors.New("script has no steps")
)

// Script is a parsed session script.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one action and its optional checks.
type Step struct {
	Pane    int     `yaml:"pane"`
	Command string  `yaml:"command"`
	Text    *string `yaml:"text"`
	Insert  *Insert `yaml:"insert"`
	Delete  *Delete `yaml:"delete"`
	Choose  string  `yaml:"choose"`
	Expect  *Expect `yaml:"expect"`
}

// Insert places Text at Offset.
type Insert struct {
	Offset int    `yaml:"offset"`
	Text   string `yaml:"text"`
}

// Delete removes the byte range [Start, End).
type Delete struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Expect describes the state a step must leave behind. Unset fields are
// not checked. Status refers to the step's command and needs one.
type Expect struct {
	Pane     int     `yaml:"pane"`
	Status   string  `yaml:"status"`
	Text     *string `yaml:"text"`
	Resource *string `yaml:"resource"`
	Modified *bool   `yaml:"modified"`
}

// StepError reports which step of a script failed.
type StepError struct {
	Index int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Index+1, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Parse decodes a script and validates its steps.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyScript
		}
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(fs afero.Fs, path string) (*Script, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Validate checks that every step is well formed.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return ErrEmptyScript
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return &StepError{Index: i, Err: err}
		}
	}
	return nil
}

func (st Step) validate() error {
	actions := 0
	if st.Command != "" {
		actions++
	}
	if st.Text != nil {
		actions++
	}
	if st.Insert != nil {
		actions++
	}
	if st.Delete != nil {
		actions++
	}

	switch {
	case actions > 1:
		return fmt.Errorf("%w: only one action per step", ErrInvalidStep)
	case actions == 0 && st.Expect == nil:
		return fmt.Errorf("%w: nothing to do", ErrInvalidStep)
	case st.Pane < 0:
		return fmt.Errorf("%w: pane %d", ErrInvalidStep, st.Pane)
	case st.Choose != "" && st.Command == "":
		return fmt.Errorf("%w: choose without command", ErrInvalidStep)
	case st.Expect != nil && st.Expect.Status != "" && st.Command == "":
		return fmt.Errorf("%w: status expectation without command", ErrInvalidStep)
	case st.Insert != nil && st.Insert.Offset < 0:
		return fmt.Errorf("%w: negative insert offset", ErrInvalidStep)
	case st.Delete != nil && (st.Delete.Start < 0 || st.Delete.End < st.Delete.Start):
		return fmt.Errorf("%w: bad delete range", ErrInvalidStep)
	}
	return nil
}
