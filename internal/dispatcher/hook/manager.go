package hook

import (
	"cmp"
	"slices"
	"sync"

	"github.com/dshills/mirrorpad/internal/dispatcher/execctx"
	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
)

// Manager holds the hooks of one dispatcher.
//
// Pre-dispatch hooks run highest priority first, so the most important
// check may cancel before the others see the command. Post-dispatch hooks
// run lowest priority first, so higher priority hooks observe the result
// as the others left it. Hook names are unique within each list;
// registering a name again replaces the earlier hook.
type Manager struct {
	mu   sync.RWMutex
	pre  []PreDispatchHook
	post []PostDispatchHook
}

// NewManager creates an empty hook manager.
func NewManager() *Manager {
	return &Manager{}
}

type named interface {
	Name() string
	Priority() int
}

// upsert replaces the hook with h's name or appends h, then restores order.
func upsert[H named](hooks []H, h H, desc bool) []H {
	if i := slices.IndexFunc(hooks, func(e H) bool { return e.Name() == h.Name() }); i >= 0 {
		hooks[i] = h
	} else {
		hooks = append(hooks, h)
	}
	slices.SortStableFunc(hooks, func(a, b H) int {
		if desc {
			return cmp.Compare(b.Priority(), a.Priority())
		}
		return cmp.Compare(a.Priority(), b.Priority())
	})
	return hooks
}

func remove[H named](hooks []H, name string) ([]H, bool) {
	i := slices.IndexFunc(hooks, func(e H) bool { return e.Name() == name })
	if i < 0 {
		return hooks, false
	}
	return slices.Delete(hooks, i, i+1), true
}

// RegisterPre adds a pre-dispatch hook.
func (m *Manager) RegisterPre(h PreDispatchHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pre = upsert(m.pre, h, true)
}

// RegisterPost adds a post-dispatch hook.
func (m *Manager) RegisterPost(h PostDispatchHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.post = upsert(m.post, h, false)
}

// Register adds h to every list whose interface it implements.
func (m *Manager) Register(h Hook) {
	if pre, ok := h.(PreDispatchHook); ok {
		m.RegisterPre(pre)
	}
	if post, ok := h.(PostDispatchHook); ok {
		m.RegisterPost(post)
	}
}

// Unregister removes the hooks named name. It reports whether any was found.
func (m *Manager) Unregister(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pre, post bool
	m.pre, pre = remove(m.pre, name)
	m.post, post = remove(m.post, name)
	return pre || post
}

// RunPreDispatch runs the pre-dispatch hooks. If one cancels, it returns
// false and that hook's name; later hooks do not run.
func (m *Manager) RunPreDispatch(ec *execctx.ExecutionContext) (bool, string) {
	m.mu.RLock()
	hooks := slices.Clone(m.pre)
	m.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(ec) {
			return false, h.Name()
		}
	}
	return true, ""
}

// RunPostDispatch runs the post-dispatch hooks on result.
func (m *Manager) RunPostDispatch(ec *execctx.ExecutionContext, result *handler.Result) {
	m.mu.RLock()
	hooks := slices.Clone(m.post)
	m.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(ec, result)
	}
}

// PreHookCount returns the number of pre-dispatch hooks.
func (m *Manager) PreHookCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pre)
}

// PostHookCount returns the number of post-dispatch hooks.
func (m *Manager) PostHookCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.post)
}

// PreHookNames returns the pre-dispatch hook names in run order.
func (m *Manager) PreHookNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.pre))
	for i, h := range m.pre {
		names[i] = h.Name()
	}
	return names
}

// Clear removes all hooks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pre = nil
	m.post = nil
}
