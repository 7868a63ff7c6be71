package ir

// Kind identifies the category of a classified domain type.
type Kind int

const (
	KindScalar    Kind = iota // Primitive with no further decomposition
	KindEnum                  // Fixed named set of members
	KindContainer             // Parametrized collection (optional, sequence, set, mapping, union)
	KindStructure             // Named aggregate of fields
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindEnum:
		return "Enum"
	case KindContainer:
		return "Container"
	case KindStructure:
		return "Structure"
	default:
		return "Unknown"
	}
}

// TypeKind is the classified shape of a domain type. Exactly one concrete
// kind exists per descriptor. The set is closed: the synthesizer switches
// exhaustively over the four concrete types.
type TypeKind interface {
	// Kind returns the kind tag for type switching.
	Kind() Kind

	// Info returns the descriptor this kind classifies.
	Info() TypeInfo

	// Ensure only types in this package can implement TypeKind.
	sealed()
}
