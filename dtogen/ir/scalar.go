package ir

// ScalarType identifies the primitive category of a scalar kind.
type ScalarType int

const (
	ScalarBool ScalarType = iota
	ScalarInt             // Signed integer of any width
	ScalarUint            // Unsigned integer of any width
	ScalarFloat
	ScalarString
	ScalarBytes    // Byte sequence ([]byte)
	ScalarTime     // Wall-clock timestamp (time.Time)
	ScalarDuration // Elapsed time (time.Duration)
	ScalarNone     // Unit type (struct{}); maps through a literal constant
	ScalarAny      // Wildcard (interface{})
)

// String returns the string representation of the scalar type.
func (s ScalarType) String() string {
	switch s {
	case ScalarBool:
		return "Bool"
	case ScalarInt:
		return "Int"
	case ScalarUint:
		return "Uint"
	case ScalarFloat:
		return "Float"
	case ScalarString:
		return "String"
	case ScalarBytes:
		return "Bytes"
	case ScalarTime:
		return "Time"
	case ScalarDuration:
		return "Duration"
	case ScalarNone:
		return "None"
	case ScalarAny:
		return "Any"
	default:
		return "Unknown"
	}
}

// ScalarKind classifies a primitive domain type. Scalars reuse their
// domain type on the transport side and convert by identity.
type ScalarKind struct {
	TypeInfo TypeInfo
	Scalar   ScalarType
}

// Kind returns KindScalar.
func (k *ScalarKind) Kind() Kind { return KindScalar }

// Info returns the classified descriptor.
func (k *ScalarKind) Info() TypeInfo { return k.TypeInfo }

func (*ScalarKind) sealed() {}
