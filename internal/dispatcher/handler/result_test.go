package handler_test

import (
	"errors"
	"testing"

	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
)

func TestResultStatus(t *testing.T) {
	tests := []struct {
		status   handler.ResultStatus
		expected string
	}{
		{handler.StatusOK, "ok"},
		{handler.StatusNoOp, "no-op"},
		{handler.StatusError, "error"},
		{handler.StatusCancelled, "cancelled"},
		{handler.ResultStatus(99), "unknown"},
	}

	for _, tc := range tests {
		if tc.status.String() != tc.expected {
			t.Errorf("ResultStatus(%d).String() = %q, want %q", tc.status, tc.status.String(), tc.expected)
		}
	}
}

func TestResultConstructors(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		result  handler.Result
		status  handler.ResultStatus
		message string
		err     error
	}{
		{"success", handler.Success(), handler.StatusOK, "", nil},
		{"success message", handler.SuccessWithMessage("saved"), handler.StatusOK, "saved", nil},
		{"noop", handler.NoOp(), handler.StatusNoOp, "", nil},
		{"noop message", handler.NoOpWithMessage("unbound"), handler.StatusNoOp, "unbound", nil},
		{"error", handler.Error(errBoom), handler.StatusError, "", errBoom},
		{"cancelled", handler.Cancelled(), handler.StatusCancelled, "", nil},
		{"cancelled message", handler.CancelledWithMessage("declined"), handler.StatusCancelled, "declined", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.result.Status != tc.status {
				t.Errorf("expected %v, got %v", tc.status, tc.result.Status)
			}
			if tc.result.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, tc.result.Message)
			}
			if !errors.Is(tc.result.Error, tc.err) {
				t.Errorf("expected error %v, got %v", tc.err, tc.result.Error)
			}
			if tc.result.Mutated {
				t.Error("constructors must not report a mutation")
			}
		})
	}
}

func TestErrorf(t *testing.T) {
	result := handler.Errorf("load %s: %w", "a.txt", errors.New("missing"))

	if !result.IsError() {
		t.Error("expected IsError")
	}
	if result.Error.Error() != "load a.txt: missing" {
		t.Errorf("unexpected error text %q", result.Error)
	}
}

func TestWithMutation(t *testing.T) {
	base := handler.Success()
	changed := base.WithMutation(true)

	if base.Mutated {
		t.Error("WithMutation must not modify the receiver")
	}
	if !changed.Mutated || !changed.IsOK() {
		t.Errorf("expected mutated OK result, got %+v", changed)
	}
}

func TestResultData(t *testing.T) {
	result := handler.Success().
		WithData("resource", "f.txt").
		WithData("bound", true).
		WithMessage("saved")

	if result.GetDataString("resource") != "f.txt" {
		t.Errorf("expected resource f.txt, got %q", result.GetDataString("resource"))
	}
	if !result.GetDataBool("bound") {
		t.Error("expected bound true")
	}
	if result.GetDataString("missing") != "" {
		t.Error("expected empty string for missing key")
	}
	if result.GetDataBool("resource") {
		t.Error("expected false for non-bool value")
	}
	if _, ok := handler.NoOp().GetData("x"); ok {
		t.Error("expected no data on bare result")
	}
	if result.Message != "saved" {
		t.Errorf("expected message saved, got %q", result.Message)
	}
}
