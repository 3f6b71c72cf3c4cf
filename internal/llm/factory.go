package llm

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/nulzo/metasearch/internal/config"
	"github.com/nulzo/metasearch/internal/httpclient"
)

// Factory builds a provider. A nil client means the adapter uses its own http.Client.
type Factory func(cfg config.ProviderConfig, client httpclient.HTTPClient) (Provider, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

func Register(providerType string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[providerType]; exists {
		panic(fmt.Sprintf("provider factory %s already registered", providerType))
	}
	factories[providerType] = f
}

func Get(providerType string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[providerType]
	if !ok {
		return nil, fmt.Errorf("provider factory not found for type: %s (registered: %s)", providerType, strings.Join(typesLocked(), ", "))
	}
	return f, nil
}

// Types lists the registered adapter types.
func Types() []string {
	mu.RLock()
	defer mu.RUnlock()
	return typesLocked()
}

func typesLocked() []string {
	out := make([]string, 0, len(factories))
	for t := range factories {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// NewProvider looks up cfg.Type and builds the provider.
func NewProvider(cfg config.ProviderConfig, client httpclient.HTTPClient) (Provider, error) {
	factoryFunc, err := Get(cfg.Type)
	if err != nil {
		return nil, fmt.Errorf("factory lookup failed for type %s: %w", cfg.Type, err)
	}
	return factoryFunc(cfg, client)
}

// DefaultClient is the transport used when a factory receives a nil client.
// Timeouts are enforced per call through the request context.
func DefaultClient() httpclient.HTTPClient {
	return &http.Client{}
}
