package mapping

import "github.com/dtoforge/dtoforge/dtogen/ir"

// RegistryConsistencyError reports a mapping requested before its
// dependency was registered. It is unreachable given correct traversal
// ordering and indicates a programming defect, not a recoverable
// condition.
type RegistryConsistencyError struct {
	Info ir.TypeInfo
}

func (e *RegistryConsistencyError) Error() string {
	return "mapping registry: no mapping registered for " + e.Info.Key
}

// Registry is the memoized store of synthesized mappings, keyed by
// descriptor identity. A Registry is scoped to a single generation run
// and must not be shared across concurrent runs.
type Registry struct {
	entries map[string]*TypeMapping
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*TypeMapping)}
}

// Register stores a mapping under its descriptor. Registering an
// already-present descriptor is a no-op returning the existing entry,
// never an overwrite; this is what guarantees one canonical transport
// definition per domain structure across all call sites.
func (r *Registry) Register(m *TypeMapping) *TypeMapping {
	if existing, ok := r.entries[m.Info.Key]; ok {
		return existing
	}
	r.entries[m.Info.Key] = m
	r.order = append(r.order, m.Info.Key)
	return m
}

// Lookup returns the mapping for a descriptor, if registered.
func (r *Registry) Lookup(info ir.TypeInfo) (*TypeMapping, bool) {
	m, ok := r.entries[info.Key]
	return m, ok
}

// Resolve returns the mapping for a descriptor or a
// RegistryConsistencyError if its dependency order was violated.
func (r *Registry) Resolve(info ir.TypeInfo) (*TypeMapping, error) {
	if m, ok := r.entries[info.Key]; ok {
		return m, nil
	}
	return nil, &RegistryConsistencyError{Info: info}
}

// Len returns the number of registered mappings.
func (r *Registry) Len() int { return len(r.entries) }

// Ordered returns all mappings in registration order, which is the
// post-order of the traversal that produced them.
func (r *Registry) Ordered() []*TypeMapping {
	out := make([]*TypeMapping, len(r.order))
	for i, key := range r.order {
		out[i] = r.entries[key]
	}
	return out
}
