package model

import "fmt"

// Asset maps a logical display name to the ticker used by the quote source.
type Asset struct {
	Name   string `yaml:"name" json:"name"`
	Ticker string `yaml:"ticker" json:"ticker"`
}

// DefaultAssets is the built-in registry, in display order.
var DefaultAssets = []Asset{
	{Name: "Gold", Ticker: "GC=F"},
	{Name: "Silver", Ticker: "SI=F"},
	{Name: "Platinum", Ticker: "PL=F"},
	{Name: "Palladium", Ticker: "PA=F"},
	{Name: "Bitcoin", Ticker: "BTC-USD"},
	{Name: "Ethereum", Ticker: "ETH-USD"},
}

// Registry is an ordered, read-only set of assets keyed by name.
type Registry struct {
	assets []Asset
	byName map[string]Asset
}

// NewRegistry builds a registry. Names must be unique and non-empty.
func NewRegistry(assets []Asset) (*Registry, error) {
	r := &Registry{
		assets: make([]Asset, 0, len(assets)),
		byName: make(map[string]Asset, len(assets)),
	}
	for _, a := range assets {
		if a.Name == "" || a.Ticker == "" {
			return nil, fmt.Errorf("asset %q: name and ticker are required", a.Name)
		}
		if _, dup := r.byName[a.Name]; dup {
			return nil, fmt.Errorf("duplicate asset %q", a.Name)
		}
		r.assets = append(r.assets, a)
		r.byName[a.Name] = a
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(assets []Asset) *Registry {
	r, err := NewRegistry(assets)
	if err != nil {
		panic(err.Error())
	}
	return r
}

// Lookup returns the asset registered under name.
func (r *Registry) Lookup(name string) (Asset, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// Assets returns a copy of the registry in display order.
func (r *Registry) Assets() []Asset {
	out := make([]Asset, len(r.assets))
	copy(out, r.assets)
	return out
}

// Names returns the asset names in display order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.assets))
	for i, a := range r.assets {
		out[i] = a.Name
	}
	return out
}

// Len returns the number of registered assets.
func (r *Registry) Len() int { return len(r.assets) }
