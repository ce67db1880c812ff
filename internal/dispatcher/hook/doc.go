// Package hook runs code around each dispatched command.
//
// A pre-dispatch hook may veto a command before its handler runs; a
// post-dispatch hook sees the handler's result. Every dispatcher installs
// three hooks: AuditHook traces commands, ActionLogHook announces Open and
// Save, and LastCommandHook remembers the last command that succeeded.
// Further hooks can be added through the Manager or the PreDispatchFunc and
// PostDispatchFunc adapters:
//
//	m := hook.NewManager()
//	m.RegisterPre(hook.NewPreDispatchFunc("read-only", 900, func(ec *execctx.ExecutionContext) bool {
//		return ec.Command != "Save"
//	}))
//
// Hooks run on the worker goroutine that executes the command.
package hook
