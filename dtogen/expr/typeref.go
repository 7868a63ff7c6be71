package expr

import "strings"

// TypeRef is an opaque transport or domain type reference usable by the
// emission collaborator. The set of implementations is closed.
type TypeRef interface {
	typeRef()

	// Key returns a canonical spelling for the reference, used for
	// deterministic lookups and debug output.
	Key() string
}

// NamedRef references a named type, builtin when Package is empty.
type NamedRef struct {
	Name    string
	Package string
}

func (r NamedRef) Key() string {
	if r.Package == "" {
		return r.Name
	}
	return r.Package + "." + r.Name
}

// NullableRef references the nullable form of Elem.
type NullableRef struct {
	Elem TypeRef
}

func (r NullableRef) Key() string { return "*" + r.Elem.Key() }

// SliceRef references an ordered collection of Elem.
type SliceRef struct {
	Elem TypeRef
}

func (r SliceRef) Key() string { return "[]" + r.Elem.Key() }

// SetRef references an unordered unique collection of Elem.
type SetRef struct {
	Elem TypeRef
}

func (r SetRef) Key() string { return "set[" + r.Elem.Key() + "]" }

// MapRef references a key-value mapping.
type MapRef struct {
	Key_  TypeRef
	Value TypeRef
}

func (r MapRef) Key() string { return "map[" + r.Key_.Key() + "]" + r.Value.Key() }

// UnionRef references a tagged alternative set in declaration order.
type UnionRef struct {
	Members []TypeRef
}

func (r UnionRef) Key() string {
	parts := make([]string, len(r.Members))
	for i, m := range r.Members {
		parts[i] = m.Key()
	}
	return "union[" + strings.Join(parts, "|") + "]"
}

func (NamedRef) typeRef()    {}
func (NullableRef) typeRef() {}
func (SliceRef) typeRef()    {}
func (SetRef) typeRef()      {}
func (MapRef) typeRef()      {}
func (UnionRef) typeRef()    {}
