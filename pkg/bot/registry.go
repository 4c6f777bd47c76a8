package bot

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps bot names to their functions. The CLI resolves the bot named
// on the command line through a registry populated at startup; there is no
// string-based reflection or dynamic loading involved.
type Registry struct {
	mu   sync.RWMutex
	bots map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{bots: make(map[string]Func)}
}

// Register adds a bot under the given name. Registering an empty name, a nil
// function, or a duplicate name is an error.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("bot name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("bot %q: function cannot be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bots[name]; exists {
		return fmt.Errorf("bot %q already registered", name)
	}
	r.bots[name] = fn
	return nil
}

// Resolve returns the bot registered under name.
func (r *Registry) Resolve(name string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.bots[name]
	if !ok {
		return nil, fmt.Errorf("unknown bot %q (registered: %v)", name, r.names())
	}
	return fn, nil
}

// Names returns the registered bot names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.bots))
	for name := range r.bots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
