package hook

import (
	"sync"
	"time"

	"github.com/dshills/mirrorpad/internal/dispatcher/execctx"
	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
)

// Priorities of the hooks every dispatcher installs.
const (
	PriorityAudit     = 1000
	PriorityActionLog = 500
	PriorityLast      = 100
)

// Logger is the logging surface the built-in hooks need.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// AuditHook traces every command at debug level and reports failures at
// error level. A nil logger makes it a no-op.
type AuditHook struct {
	logger Logger
}

// NewAuditHook creates an audit hook writing to logger.
func NewAuditHook(logger Logger) *AuditHook {
	return &AuditHook{logger: logger}
}

// Name returns "audit".
func (h *AuditHook) Name() string { return "audit" }

// Priority returns PriorityAudit.
func (h *AuditHook) Priority() int { return PriorityAudit }

// PreDispatch traces the command and never cancels it.
func (h *AuditHook) PreDispatch(ec *execctx.ExecutionContext) bool {
	if h.logger != nil {
		h.logger.Debug("dispatch start", "command", ec.Command, "invocation", ec.InvocationID.String())
	}
	return true
}

// PostDispatch traces the outcome and logs failures.
func (h *AuditHook) PostDispatch(ec *execctx.ExecutionContext, result *handler.Result) {
	if h.logger == nil {
		return
	}
	kv := []any{"command", ec.Command, "invocation", ec.InvocationID.String()}
	if result.IsError() {
		h.logger.Error("dispatch failed", append(kv, "error", result.Error)...)
		return
	}
	h.logger.Debug("dispatch complete", append(kv, "status", result.Status.String(), "mutated", result.Mutated)...)
}

// actionMessages are the file actions announced at info level, whatever
// their outcome.
var actionMessages = map[string]string{
	"Open": "file opened",
	"Save": "file saved",
}

// ActionLogHook announces Open and Save with their status and resource.
type ActionLogHook struct {
	logger Logger
}

// NewActionLogHook creates an action log hook writing to logger.
func NewActionLogHook(logger Logger) *ActionLogHook {
	return &ActionLogHook{logger: logger}
}

// Name returns "action-log".
func (h *ActionLogHook) Name() string { return "action-log" }

// Priority returns PriorityActionLog.
func (h *ActionLogHook) Priority() int { return PriorityActionLog }

// Message returns the announcement for command, if it has one.
func (h *ActionLogHook) Message(command string) (string, bool) {
	msg, ok := actionMessages[command]
	return msg, ok
}

// PostDispatch announces file actions at info level.
func (h *ActionLogHook) PostDispatch(ec *execctx.ExecutionContext, result *handler.Result) {
	msg, ok := h.Message(ec.Command)
	if !ok || h.logger == nil {
		return
	}
	h.logger.Info(msg, "status", result.Status.String(), "resource", result.GetDataString("resource"))
}

// LastCommandHook remembers the most recent command that succeeded.
type LastCommandHook struct {
	mu   sync.RWMutex
	last string
	at   time.Time
}

// NewLastCommandHook creates a hook that has seen no command yet.
func NewLastCommandHook() *LastCommandHook {
	return &LastCommandHook{}
}

// Name returns "last-command".
func (h *LastCommandHook) Name() string { return "last-command" }

// Priority returns PriorityLast.
func (h *LastCommandHook) Priority() int { return PriorityLast }

// PostDispatch records the command if it succeeded.
func (h *LastCommandHook) PostDispatch(ec *execctx.ExecutionContext, result *handler.Result) {
	if !result.IsOK() {
		return
	}
	h.mu.Lock()
	h.last, h.at = ec.Command, time.Now()
	h.mu.Unlock()
}

// Last returns the last successful command and when it finished.
func (h *LastCommandHook) Last() (string, time.Time, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last, h.at, h.last != ""
}
