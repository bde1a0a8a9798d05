package providers

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrProviderNotFound is returned when a provider is not registered
	ErrProviderNotFound = errors.New("provider not found")

	// ErrModelNotSupported is returned when no registered provider serves a model
	ErrModelNotSupported = errors.New("model not supported")

	// ErrProviderAlreadyRegistered is returned when trying to register a duplicate provider
	ErrProviderAlreadyRegistered = errors.New("provider already registered")
)

// defaultPrefixes maps model-name prefixes to families for models missing from the catalog
var defaultPrefixes = map[string]string{
	"gemini-": FamilyGemini,
	"gpt-":    FamilyOpenAI,
	"o1":      FamilyOpenAI,
	"claude-": FamilyAnthropic,
}

// Registry maps provider families to adapters and models to families
type Registry struct {
	mu            sync.RWMutex
	providers     map[string]Provider
	catalog       Catalog
	modelPrefixes map[string]string // model prefix -> provider name
}

// NewRegistry creates a registry that resolves models through catalog
func NewRegistry(catalog Catalog) *Registry {
	prefixes := make(map[string]string, len(defaultPrefixes))
	for k, v := range defaultPrefixes {
		prefixes[k] = v
	}
	return &Registry{
		providers:     make(map[string]Provider),
		catalog:       catalog,
		modelPrefixes: prefixes,
	}
}

// RegisterProvider registers a provider instance under its family name
func (r *Registry) RegisterProvider(provider Provider) error {
	if provider == nil {
		return errors.New("provider cannot be nil")
	}

	name := provider.Name()
	if name == "" {
		return errors.New("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return ErrProviderAlreadyRegistered
	}
	r.providers[name] = provider
	return nil
}

// RegisterModelPrefix registers a model prefix to provider mapping
func (r *Registry) RegisterModelPrefix(prefix, providerName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[providerName]; !exists {
		return ErrProviderNotFound
	}
	r.modelPrefixes[prefix] = providerName
	return nil
}

// GetProvider retrieves a provider by family name
func (r *Registry) GetProvider(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, ErrProviderNotFound
	}
	return provider, nil
}

// FamilyForModel resolves the provider family of a model, first through the
// catalog and then by the longest matching name prefix.
func (r *Registry) FamilyForModel(model string) (string, bool) {
	if d, ok := r.catalog.Lookup(model); ok {
		return d.Provider, true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	family, longest := "", 0
	for prefix, name := range r.modelPrefixes {
		if strings.HasPrefix(model, prefix) && len(prefix) > longest {
			family, longest = name, len(prefix)
		}
	}
	return family, family != ""
}

// GetProviderForModel finds the provider that serves a given model
func (r *Registry) GetProviderForModel(model string) (Provider, error) {
	family, ok := r.FamilyForModel(model)
	if !ok {
		return nil, ErrModelNotSupported
	}
	provider, err := r.GetProvider(family)
	if err != nil {
		return nil, ErrModelNotSupported
	}
	return provider, nil
}

// IsConfigured reports whether the family is registered and holds a credential
func (r *Registry) IsConfigured(family string) bool {
	p, err := r.GetProvider(family)
	return err == nil && p.Configured()
}

// ListProviders returns all registered provider names in sorted order
func (r *Registry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog returns the catalog the registry resolves models through
func (r *Registry) Catalog() Catalog {
	return r.catalog
}
