// Package ir defines the intermediate representation for domain type
// descriptors. A descriptor identifies a domain type structurally and
// classifies it into a closed set of kinds that the mapping synthesizer
// consumes. Descriptors are pure data: classification and synthesis live
// in their own packages.
package ir

// TypeInfo is the structural identity of a domain type. It is the
// memoization key for the mapping registry: two infos denote the same
// domain type iff their Keys are equal.
//
// TypeInfo is immutable once created. Handle carries the opaque
// domain-type handle the classifier needs to recurse (a reflect.Type for
// the default classifier); nothing outside the classifier inspects it.
type TypeInfo struct {
	// Name is the unqualified type name. Empty for unnamed types
	// (containers, anonymous unions).
	Name string

	// Package is the import path of the defining package.
	// Empty for builtin and unnamed types.
	Package string

	// Key is the canonical structural spelling of the type, e.g.
	// "pkg.User", "*pkg.User", "[]string", "map[string]int",
	// "union[pkg.A|pkg.B]". Equality of descriptors is equality of Keys.
	Key string

	// Handle is the opaque domain-type handle used by the classifier.
	Handle any
}

// IsZero returns true if the info is empty.
func (i TypeInfo) IsZero() bool {
	return i.Key == "" && i.Name == "" && i.Package == ""
}

// Qualified returns the package-qualified name, or the bare Name for
// builtin types.
func (i TypeInfo) Qualified() string {
	if i.Package == "" {
		return i.Name
	}
	return i.Package + "." + i.Name
}

// String returns the canonical key.
func (i TypeInfo) String() string { return i.Key }
