package config

// Registry is the ordered, read-only set of downstream service endpoints.
// It is built once at startup and shared by clients and the health checker;
// it must never be mutated afterwards.
type Registry struct {
	endpoints []Endpoint
	byName    map[string]Endpoint
}

// NewRegistry builds a registry from an ordered endpoint list. Later entries
// with a duplicate name are ignored.
func NewRegistry(endpoints []Endpoint) Registry {
	r := Registry{
		endpoints: make([]Endpoint, 0, len(endpoints)),
		byName:    make(map[string]Endpoint, len(endpoints)),
	}
	for _, ep := range endpoints {
		if _, exists := r.byName[ep.Name]; exists {
			continue
		}
		r.endpoints = append(r.endpoints, ep)
		r.byName[ep.Name] = ep
	}
	return r
}

// Lookup returns the endpoint for a logical service name.
func (r Registry) Lookup(name string) (Endpoint, bool) {
	ep, ok := r.byName[name]
	return ep, ok
}

// All returns the endpoints in registration order. The returned slice is a
// copy; callers may not mutate registry state through it.
func (r Registry) All() []Endpoint {
	out := make([]Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// Names returns the registered service names in registration order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		names = append(names, ep.Name)
	}
	return names
}

// Len returns the number of registered services.
func (r Registry) Len() int {
	return len(r.endpoints)
}
