package marketplace

import (
	"errors"
	"fmt"
	"sort"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

// ProviderCode identifies a marketplace order-source provider
type ProviderCode string

const (
	// ProviderCodeEbay is the eBay Sell Fulfillment API source
	ProviderCodeEbay ProviderCode = "ebay"
	// ProviderCodeStatic is the file-backed source used for dry runs and
	// local development
	ProviderCodeStatic ProviderCode = "static"
)

// IsValid returns true if the provider code is known
func (c ProviderCode) IsValid() bool {
	switch c {
	case ProviderCodeEbay, ProviderCodeStatic:
		return true
	default:
		return false
	}
}

// ErrProviderNotRegistered indicates no source is registered for a code
var ErrProviderNotRegistered = errors.New("marketplace: provider not registered")

// Provider pairs an order source with its code so the registry can select it
// by configuration.
type Provider interface {
	fulfillment.OrderSource
	ProviderCode() ProviderCode
}

// Registry selects the configured order source by provider code. Adapters
// register at wiring time; selection by configuration replaces the old
// inheritance-based client variants.
type Registry struct {
	providers map[ProviderCode]Provider
}

// NewRegistry creates a registry with the given providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[ProviderCode]Provider)}
	for _, p := range providers {
		r.providers[p.ProviderCode()] = p
	}
	return r
}

// Register adds a provider, replacing any existing one with the same code.
func (r *Registry) Register(p Provider) {
	r.providers[p.ProviderCode()] = p
}

// Get returns the order source for the given provider code.
func (r *Registry) Get(code ProviderCode) (fulfillment.OrderSource, error) {
	p, ok := r.providers[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotRegistered, code)
	}
	return p, nil
}

// Codes returns the registered provider codes, sorted.
func (r *Registry) Codes() []ProviderCode {
	codes := make([]ProviderCode, 0, len(r.providers))
	for code := range r.providers {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
