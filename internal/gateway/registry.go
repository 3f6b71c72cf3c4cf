package gateway

import (
	"fmt"
	"sync"

	"github.com/nulzo/metasearch/internal/llm"
)

// registry keeps providers in registration order, which is also the order of
// every aggregate result. It is thread-safe.
type registry struct {
	mu        sync.RWMutex
	providers []llm.Provider
	index     map[string]int
}

func newRegistry() *registry {
	return &registry{
		index: make(map[string]int),
	}
}

func (r *registry) add(p llm.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if name == "" {
		return fmt.Errorf("provider of type %s has no name", p.Type())
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.index[name] = len(r.providers)
	r.providers = append(r.providers, p)
	return nil
}

// snapshot returns a copy so a request is not affected by later registrations.
func (r *registry) snapshot() []llm.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]llm.Provider, len(r.providers))
	copy(out, r.providers)
	return out
}
