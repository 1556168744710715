package physics

import (
	"fmt"
	"sort"
)

// Zones is an immutable set of named integrators, e.g. "underwater" or "moon",
// with a default used for unknown names.
type Zones struct {
	fallback *Integrator
	zones    map[string]*Integrator
}

// NewZones validates every config and builds one integrator per zone.
func NewZones(fallback Config, zones map[string]Config) (*Zones, error) {
	def, err := NewIntegrator(fallback)
	if err != nil {
		return nil, fmt.Errorf("default zone: %w", err)
	}
	z := &Zones{fallback: def, zones: make(map[string]*Integrator, len(zones))}
	for name, cfg := range zones {
		in, err := NewIntegrator(cfg)
		if err != nil {
			return nil, fmt.Errorf("zone %q: %w", name, err)
		}
		z.zones[name] = in
	}
	return z, nil
}

func (z *Zones) Default() *Integrator { return z.fallback }

// Get returns the named integrator, or the default one when name is unknown.
func (z *Zones) Get(name string) *Integrator {
	if in, ok := z.zones[name]; ok {
		return in
	}
	return z.fallback
}

// Lookup is Get without the fallback.
func (z *Zones) Lookup(name string) (*Integrator, bool) {
	in, ok := z.zones[name]
	return in, ok
}

// Names returns the configured zone names, sorted.
func (z *Zones) Names() []string {
	names := make([]string, 0, len(z.zones))
	for name := range z.zones {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
