package ir

// EnumKind classifies a fixed, named set of members. The transport
// representation of an enum value is its member name; conversion extracts
// and reconstructs by name.
type EnumKind struct {
	TypeInfo TypeInfo

	// Name is the enum's type name.
	Name string

	// Members contains all variants in declaration order.
	Members []EnumMember

	// Doc is the optional documentation text.
	Doc string
}

// Kind returns KindEnum.
func (k *EnumKind) Kind() Kind { return KindEnum }

// Info returns the classified descriptor.
func (k *EnumKind) Info() TypeInfo { return k.TypeInfo }

func (*EnumKind) sealed() {}

// EnumMember is a single enum variant.
type EnumMember struct {
	// Name is the member name, used as the wire representation.
	Name string

	// Value is the member's literal value. Classifiers normalize values
	// to one of exactly three types: string, int64, or float64.
	Value any

	// Doc is the optional documentation text.
	Doc string
}

// Member looks up a member by name. The second return is false if no
// member has that name.
func (k *EnumKind) Member(name string) (EnumMember, bool) {
	for _, m := range k.Members {
		if m.Name == name {
			return m, true
		}
	}
	return EnumMember{}, false
}

// Enumerator is the runtime convention for enum discovery: a named domain
// type whose values implement Enumerator is classified as an enum without
// source analysis.
type Enumerator interface {
	EnumMembers() []EnumMember
}
