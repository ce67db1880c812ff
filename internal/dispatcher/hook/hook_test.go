package hook_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dshills/mirrorpad/internal/dispatcher/execctx"
	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
	"github.com/dshills/mirrorpad/internal/dispatcher/hook"
)

var errDiskFull = errors.New("disk full")

// recordingLogger captures log calls.
type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) record(level, msg string, kv ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprint(append([]any{level, msg}, kv...)...))
}

func (l *recordingLogger) Debug(msg string, kv ...any) { l.record("debug", msg, kv...) }
func (l *recordingLogger) Info(msg string, kv ...any)  { l.record("info", msg, kv...) }
func (l *recordingLogger) Error(msg string, kv ...any) { l.record("error", msg, kv...) }

func (l *recordingLogger) count(prefix string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// TestPreDispatchFunc verifies PreDispatchFunc adapter works.
func TestPreDispatchFunc(t *testing.T) {
	called := false
	h := hook.NewPreDispatchFunc("test-pre", 100, func(ec *execctx.ExecutionContext) bool {
		called = true
		return true
	})

	if h.Name() != "test-pre" {
		t.Errorf("expected name 'test-pre', got %q", h.Name())
	}
	if h.Priority() != 100 {
		t.Errorf("expected priority 100, got %d", h.Priority())
	}

	if !h.PreDispatch(execctx.New("New")) {
		t.Error("expected PreDispatch to return true")
	}
	if !called {
		t.Error("expected PreDispatch to be called")
	}

	var nilFn hook.PreDispatchFunc
	if !nilFn.PreDispatch(execctx.New("New")) {
		t.Error("expected nil function to continue dispatch")
	}
}

// TestPostDispatchFunc verifies PostDispatchFunc adapter works.
func TestPostDispatchFunc(t *testing.T) {
	called := false
	h := hook.NewPostDispatchFunc("test-post", 200, func(ec *execctx.ExecutionContext, result *handler.Result) {
		called = true
	})

	if h.Name() != "test-post" {
		t.Errorf("expected name 'test-post', got %q", h.Name())
	}
	if h.Priority() != 200 {
		t.Errorf("expected priority 200, got %d", h.Priority())
	}

	result := handler.Success()
	h.PostDispatch(execctx.New("Save"), &result)
	if !called {
		t.Error("expected PostDispatch to be called")
	}
}

// TestManagerPriorityOrdering verifies pre-hooks run highest priority first.
func TestManagerPriorityOrdering(t *testing.T) {
	m := hook.NewManager()
	var order []string

	for _, tc := range []struct {
		name string
		prio int
	}{{"low", 10}, {"high", 100}, {"mid", 50}} {
		name := tc.name
		m.RegisterPre(hook.NewPreDispatchFunc(name, tc.prio, func(ec *execctx.ExecutionContext) bool {
			order = append(order, name)
			return true
		}))
	}

	ok, _ := m.RunPreDispatch(execctx.New("New"))
	if !ok {
		t.Fatal("expected dispatch to continue")
	}
	expected := []string{"high", "mid", "low"}
	for i, name := range expected {
		if order[i] != name {
			t.Errorf("position %d: expected %q, got %q", i, name, order[i])
		}
	}
	if names := m.PreHookNames(); names[0] != "high" {
		t.Errorf("expected high first in names, got %v", names)
	}
}

// TestManagerPostHookOrdering verifies post-hooks run lowest priority first.
func TestManagerPostHookOrdering(t *testing.T) {
	m := hook.NewManager()
	var order []string

	m.RegisterPost(hook.NewPostDispatchFunc("high", 100, func(ec *execctx.ExecutionContext, r *handler.Result) {
		order = append(order, "high")
	}))
	m.RegisterPost(hook.NewPostDispatchFunc("low", 10, func(ec *execctx.ExecutionContext, r *handler.Result) {
		order = append(order, "low")
	}))

	result := handler.Success()
	m.RunPostDispatch(execctx.New("Save"), &result)

	if len(order) != 2 || order[0] != "low" || order[1] != "high" {
		t.Errorf("expected [low high], got %v", order)
	}
}

// TestManagerCancel verifies a pre-hook can cancel dispatch.
func TestManagerCancel(t *testing.T) {
	m := hook.NewManager()
	laterCalled := false

	m.RegisterPre(hook.NewPreDispatchFunc("blocker", 100, func(ec *execctx.ExecutionContext) bool {
		return false
	}))
	m.RegisterPre(hook.NewPreDispatchFunc("later", 10, func(ec *execctx.ExecutionContext) bool {
		laterCalled = true
		return true
	}))

	ok, by := m.RunPreDispatch(execctx.New("Close"))
	if ok {
		t.Error("expected dispatch to be cancelled")
	}
	if by != "blocker" {
		t.Errorf("expected blocker to cancel, got %q", by)
	}
	if laterCalled {
		t.Error("expected hooks after the cancelling hook not to run")
	}
}

// TestManagerUnregister verifies hook removal.
func TestManagerUnregister(t *testing.T) {
	m := hook.NewManager()
	m.Register(hook.NewAuditHook(nil))
	m.RegisterPost(hook.NewLastCommandHook())

	if m.PreHookCount() != 1 || m.PostHookCount() != 2 {
		t.Fatalf("expected 1 pre and 2 post hooks, got %d and %d", m.PreHookCount(), m.PostHookCount())
	}

	if !m.Unregister("audit") {
		t.Error("expected audit to be removed")
	}
	if m.PreHookCount() != 0 || m.PostHookCount() != 1 {
		t.Errorf("expected 0 pre and 1 post hooks, got %d and %d", m.PreHookCount(), m.PostHookCount())
	}
	if m.Unregister("missing") {
		t.Error("expected false for unknown hook")
	}
}

// TestManagerReplaceDuplicate verifies registering the same name replaces.
func TestManagerReplaceDuplicate(t *testing.T) {
	m := hook.NewManager()
	var got string

	m.RegisterPost(hook.NewPostDispatchFunc("dup", 1, func(ec *execctx.ExecutionContext, r *handler.Result) {
		got = "first"
	}))
	m.RegisterPost(hook.NewPostDispatchFunc("dup", 1, func(ec *execctx.ExecutionContext, r *handler.Result) {
		got = "second"
	}))

	result := handler.Success()
	m.RunPostDispatch(execctx.New("New"), &result)

	if m.PostHookCount() != 1 {
		t.Errorf("expected 1 hook, got %d", m.PostHookCount())
	}
	if got != "second" {
		t.Errorf("expected replacement hook to run, got %q", got)
	}
}

// TestManagerClear verifies all hooks are removed.
func TestManagerClear(t *testing.T) {
	m := hook.NewManager()
	m.Register(hook.NewAuditHook(nil))
	m.RegisterPost(hook.NewLastCommandHook())
	m.Clear()

	if m.PreHookCount() != 0 || m.PostHookCount() != 0 {
		t.Error("expected no hooks after Clear")
	}
}

func TestAuditHook(t *testing.T) {
	logger := &recordingLogger{}
	h := hook.NewAuditHook(logger)
	ec := execctx.New("Save")

	if !h.PreDispatch(ec) {
		t.Error("audit must never cancel")
	}

	ok := handler.Success()
	h.PostDispatch(ec, &ok)
	failed := handler.Error(errors.New("disk full"))
	h.PostDispatch(ec, &failed)

	if logger.count("debug") != 2 {
		t.Errorf("expected 2 debug entries, got %v", logger.entries)
	}
	if logger.count("error") != 1 {
		t.Errorf("expected 1 error entry, got %v", logger.entries)
	}
}

func TestActionLogHook(t *testing.T) {
	tests := []struct {
		command string
		message string
	}{
		{"Open", "file opened"},
		{"Save", "file saved"},
		{"Save as", ""},
		{"New", ""},
		{"Previous", ""},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			logger := &recordingLogger{}
			h := hook.NewActionLogHook(logger)
			result := handler.Success().WithData("resource", "f.txt")
			h.PostDispatch(execctx.New(tt.command), &result)

			msg, ok := h.Message(tt.command)
			if tt.message == "" {
				if ok || logger.count("info") != 0 {
					t.Errorf("expected no announcement, got %v", logger.entries)
				}
				return
			}
			if msg != tt.message {
				t.Errorf("expected %q, got %q", tt.message, msg)
			}
			if logger.count("info"+tt.message) != 1 {
				t.Errorf("expected one %q entry, got %v", tt.message, logger.entries)
			}
		})
	}
}

func TestLastCommandHook(t *testing.T) {
	h := hook.NewLastCommandHook()
	if _, _, ok := h.Last(); ok {
		t.Error("expected no last command initially")
	}

	ok := handler.Success()
	h.PostDispatch(execctx.New("Save"), &ok)
	failed := handler.Error(errDiskFull)
	h.PostDispatch(execctx.New("Open"), &failed)

	last, at, found := h.Last()
	if !found || last != "Save" {
		t.Errorf("expected Save, got %q", last)
	}
	if at.IsZero() {
		t.Error("expected a completion time")
	}
}

func TestHookPriorityConstants(t *testing.T) {
	if !(hook.PriorityAudit > hook.PriorityActionLog && hook.PriorityActionLog > hook.PriorityLast) {
		t.Error("expected audit > action log > last")
	}
}
