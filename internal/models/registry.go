package models

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/clawinfra/parley/internal/config"
	"github.com/clawinfra/parley/internal/interfaces"
)

// Factory builds a provider for one session or one-shot request. Each call
// returns a fresh instance, so state a provider keeps (such as the mock's
// rotation counter) is never shared between sessions.
type Factory func(model string, cfg config.ProviderConfig) (interfaces.Provider, error)

// Registry maps a model id's provider prefix to the factory that builds it
type Registry struct {
	factories map[string]Factory
	fallback  string
	logger    *slog.Logger
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry with no fallback
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		logger:    logger.With("component", "provider-registry"),
	}
}

// DefaultRegistry returns a registry with the built-in mock and echo
// providers. Unknown prefixes resolve to echo.
func DefaultRegistry(logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register("mock", NewMockProvider)
	r.Register("echo", NewEchoProvider)
	if err := r.SetFallback("echo"); err != nil {
		panic(err) // echo was registered on the line above
	}
	return r
}

// Register adds or replaces the factory for a provider prefix
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[name] = f
	r.logger.Debug("provider registered", "name", name)
}

// SetFallback names the provider used for unknown prefixes. The provider
// must already be registered.
func (r *Registry) SetFallback(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; !ok {
		return fmt.Errorf("fallback provider not registered: %s", name)
	}
	r.fallback = name
	return nil
}

// Names returns the registered provider prefixes, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve builds the provider for a model id such as "mock:default".
//
// The prefix before the first ':' picks the factory; an id without a colon
// is its own prefix. Unknown prefixes use the fallback provider. When the
// config declares apiKeyEnv for the requested prefix, that variable must be
// set or resolution fails.
func (r *Registry) Resolve(model string, cfg *config.Config) (interfaces.Provider, error) {
	prefix := ProviderPrefix(model)

	r.mu.RLock()
	name := prefix
	factory, ok := r.factories[prefix]
	if !ok && r.fallback != "" {
		name = r.fallback
		factory = r.factories[r.fallback]
	}
	r.mu.RUnlock()

	if factory == nil {
		return nil, fmt.Errorf("provider not found: %s", prefix)
	}
	if !ok {
		r.logger.Debug("unknown provider prefix, using fallback",
			"prefix", prefix,
			"fallback", name,
		)
	}

	if _, err := cfg.Provider(prefix).APIKey(); err != nil {
		return nil, fmt.Errorf("resolve provider %s: %w", prefix, err)
	}

	p, err := factory(model, cfg.Provider(name))
	if err != nil {
		return nil, fmt.Errorf("create provider %s: %w", name, err)
	}

	r.logger.Debug("provider resolved", "model", model, "provider", p.Name())
	return p, nil
}

// ProviderPrefix returns the discriminator of a model id: the text before
// the first ':' or the whole id when there is none.
func ProviderPrefix(model string) string {
	prefix, _, _ := strings.Cut(model, ":")
	return prefix
}
