package ir

// Origin identifies the collection shape of a container kind.
type Origin int

const (
	OriginOptional Origin = iota // Zero-or-one (*T)
	OriginSequence               // Ordered collection ([]T, [N]T)
	OriginSet                    // Unordered unique collection (map[T]struct{})
	OriginMapping                // Key-value mapping (map[K]V)
	OriginUnion                  // Tagged alternative set (constructed descriptors only)
)

// String returns the string representation of the origin.
func (o Origin) String() string {
	switch o {
	case OriginOptional:
		return "Optional"
	case OriginSequence:
		return "Sequence"
	case OriginSet:
		return "Set"
	case OriginMapping:
		return "Mapping"
	case OriginUnion:
		return "Union"
	default:
		return "Unknown"
	}
}

// ContainerKind classifies a parametrized collection. Inners holds the
// ordered inner descriptors: one element for Optional/Sequence/Set, key
// then value for Mapping, and the member list in declaration order for
// Union.
type ContainerKind struct {
	TypeInfo TypeInfo
	Origin   Origin
	Inners   []TypeInfo
}

// Kind returns KindContainer.
func (k *ContainerKind) Kind() Kind { return KindContainer }

// Info returns the classified descriptor.
func (k *ContainerKind) Info() TypeInfo { return k.TypeInfo }

func (*ContainerKind) sealed() {}

// Elem returns the single inner descriptor of an Optional, Sequence or
// Set container.
func (k *ContainerKind) Elem() TypeInfo { return k.Inners[0] }
