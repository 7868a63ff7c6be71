package ir

// StructureKind classifies a named aggregate of fields. Field order is
// declaration order; conversion and encoding iterate fields in that
// order, which is observable on the wire.
type StructureKind struct {
	TypeInfo TypeInfo

	// Name is the structure's type name.
	Name string

	// Fields contains all fields in declaration order.
	Fields []Field

	// Doc is the optional documentation text.
	Doc string
}

// Kind returns KindStructure.
func (k *StructureKind) Kind() Kind { return KindStructure }

// Info returns the classified descriptor.
func (k *StructureKind) Info() TypeInfo { return k.TypeInfo }

func (*StructureKind) sealed() {}

// Field is a single structure field.
type Field struct {
	// Name is the domain field name.
	Name string

	// WireName is the serialized property name (from the json tag).
	// Falls back to Name if no tag is present.
	WireName string

	// Type is the field's type descriptor.
	Type TypeInfo

	// Default is the field's default literal (from the default tag).
	// Empty when HasDefault is false.
	Default string

	// HasDefault reports whether a default was declared.
	HasDefault bool

	// Validate is the raw value of the validate struct tag, carried onto
	// the transport definition verbatim.
	Validate string

	// Doc is the optional documentation text.
	Doc string
}
