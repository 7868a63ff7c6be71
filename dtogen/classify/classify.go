// Package classify implements the kind classifier: the inbound
// collaborator that turns opaque domain-type handles (reflect.Type
// values) into classified ir.TypeKind descriptors. Classification is a
// total function over all handles the reflection layer can produce; any
// handle outside the recognized shapes is a fatal ClassificationError.
//
// The order of checks matters and goes specific-before-generic: the unit
// and wildcard scalars before aggregate handling, byte sequences before
// generic sequences, temporal types before their underlying kinds, enums
// before plain named scalars, optionals before generic containers and
// sets before generic mappings.
package classify

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/dtoforge/dtoforge/dtogen/ir"
)

var (
	timeType       = reflect.TypeOf(time.Time{})
	durationType   = reflect.TypeOf(time.Duration(0))
	enumeratorType = reflect.TypeOf((*ir.Enumerator)(nil)).Elem()
)

// Classifier classifies domain-type handles. A zero Classifier is usable;
// options add enum member knowledge that reflection alone cannot recover.
type Classifier struct {
	enums map[string][]ir.EnumMember
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithEnumMembers registers the member set for the enum type of the given
// example value.
func WithEnumMembers(example any, members ...ir.EnumMember) Option {
	return func(c *Classifier) {
		rt := reflect.TypeOf(example)
		c.enums[qualifiedName(rt)] = members
	}
}

// WithEnumTable merges a table of enum members keyed by qualified type
// name ("pkgpath.Name"), as produced by the source provider.
func WithEnumTable(table map[string][]ir.EnumMember) Option {
	return func(c *Classifier) {
		for name, members := range table {
			c.enums[name] = members
		}
	}
}

// New creates a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{enums: make(map[string][]ir.EnumMember)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InfoOf builds the structural descriptor for a reflect handle.
func (c *Classifier) InfoOf(rt reflect.Type) ir.TypeInfo {
	return ir.TypeInfo{
		Name:    rt.Name(),
		Package: rt.PkgPath(),
		Key:     typeKey(rt),
		Handle:  rt,
	}
}

// ClassifyInfo classifies a descriptor. Constructed descriptors carrying
// a pre-built kind (see Union) pass through unchanged; reflect handles go
// through Classify.
func (c *Classifier) ClassifyInfo(info ir.TypeInfo) (ir.TypeKind, error) {
	switch h := info.Handle.(type) {
	case ir.TypeKind:
		return h, nil
	case reflect.Type:
		return c.Classify(h)
	default:
		return nil, &ir.ClassificationError{Type: info.Key, Reason: fmt.Sprintf("unusable handle %T", info.Handle)}
	}
}

// Classify determines the TypeKind of a reflect handle.
func (c *Classifier) Classify(rt reflect.Type) (ir.TypeKind, error) {
	if rt == nil {
		return nil, &ir.ClassificationError{Type: "<nil>", Reason: "no type information"}
	}

	info := c.InfoOf(rt)

	// Unit and wildcard come first, before any generic handling.
	if rt.Kind() == reflect.Struct && rt.NumField() == 0 && rt.Name() == "" {
		return &ir.ScalarKind{TypeInfo: info, Scalar: ir.ScalarNone}, nil
	}
	if rt.Kind() == reflect.Interface {
		if rt.NumMethod() == 0 {
			return &ir.ScalarKind{TypeInfo: info, Scalar: ir.ScalarAny}, nil
		}
		return nil, &ir.ClassificationError{Type: info.Key, Reason: "non-empty interfaces have no wire shape"}
	}

	// Enums before named scalars: an enum's underlying kind is a scalar.
	if members, ok := c.enumMembers(rt); ok {
		return &ir.EnumKind{TypeInfo: info, Name: rt.Name(), Members: members}, nil
	}

	// Temporal types before their underlying kinds: time.Time is a
	// struct and time.Duration an int64.
	if rt == timeType {
		return &ir.ScalarKind{TypeInfo: info, Scalar: ir.ScalarTime}, nil
	}
	if rt == durationType {
		return &ir.ScalarKind{TypeInfo: info, Scalar: ir.ScalarDuration}, nil
	}

	// Byte sequences before generic sequences.
	if rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.Uint8 && rt.Elem().PkgPath() == "" {
		return &ir.ScalarKind{TypeInfo: info, Scalar: ir.ScalarBytes}, nil
	}

	if s, ok := scalarOf(rt.Kind()); ok {
		return &ir.ScalarKind{TypeInfo: info, Scalar: s}, nil
	}

	switch rt.Kind() {
	case reflect.Pointer:
		// Optional is carved out before generic container handling.
		return &ir.ContainerKind{
			TypeInfo: info,
			Origin:   ir.OriginOptional,
			Inners:   []ir.TypeInfo{c.InfoOf(rt.Elem())},
		}, nil

	case reflect.Map:
		// Sets before generic mappings.
		if isUnit(rt.Elem()) {
			return &ir.ContainerKind{
				TypeInfo: info,
				Origin:   ir.OriginSet,
				Inners:   []ir.TypeInfo{c.InfoOf(rt.Key())},
			}, nil
		}
		return &ir.ContainerKind{
			TypeInfo: info,
			Origin:   ir.OriginMapping,
			Inners:   []ir.TypeInfo{c.InfoOf(rt.Key()), c.InfoOf(rt.Elem())},
		}, nil

	case reflect.Slice, reflect.Array:
		return &ir.ContainerKind{
			TypeInfo: info,
			Origin:   ir.OriginSequence,
			Inners:   []ir.TypeInfo{c.InfoOf(rt.Elem())},
		}, nil

	case reflect.Struct:
		return c.classifyStructure(rt, info)
	}

	return nil, &ir.ClassificationError{Type: info.Key, Reason: fmt.Sprintf("unsupported kind %s", rt.Kind())}
}

func (c *Classifier) classifyStructure(rt reflect.Type, info ir.TypeInfo) (ir.TypeKind, error) {
	if rt.Name() == "" {
		return nil, &ir.ClassificationError{Type: rt.String(), Reason: "anonymous structures cannot be named on the transport side"}
	}

	var fields []ir.Field
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}

		wire, skip := wireName(sf)
		if skip {
			continue
		}

		def, hasDef := sf.Tag.Lookup("default")
		fields = append(fields, ir.Field{
			Name:       sf.Name,
			WireName:   wire,
			Type:       c.InfoOf(sf.Type),
			Default:    def,
			HasDefault: hasDef,
			Validate:   sf.Tag.Get("validate"),
		})
	}

	return &ir.StructureKind{TypeInfo: info, Name: rt.Name(), Fields: fields}, nil
}

// enumMembers resolves the member set for a named type, either from the
// registered tables or from the Enumerator convention.
func (c *Classifier) enumMembers(rt reflect.Type) ([]ir.EnumMember, bool) {
	if rt.Name() == "" {
		return nil, false
	}
	if members, ok := c.enums[qualifiedName(rt)]; ok {
		return members, true
	}
	if rt.Implements(enumeratorType) {
		e := reflect.Zero(rt).Interface().(ir.Enumerator)
		return e.EnumMembers(), true
	}
	return nil, false
}

// Union builds a constructed descriptor for a tagged alternative set.
// Go's type system never yields unions from reflection; hosts with a
// discriminated-alternative convention construct them explicitly.
func Union(members ...ir.TypeInfo) ir.TypeInfo {
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = m.Key
	}
	info := ir.TypeInfo{Key: "union[" + strings.Join(keys, "|") + "]"}
	info.Handle = &ir.ContainerKind{TypeInfo: info, Origin: ir.OriginUnion, Inners: members}
	return info
}

func scalarOf(k reflect.Kind) (ir.ScalarType, bool) {
	switch k {
	case reflect.Bool:
		return ir.ScalarBool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.ScalarInt, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ir.ScalarUint, true
	case reflect.Float32, reflect.Float64:
		return ir.ScalarFloat, true
	case reflect.String:
		return ir.ScalarString, true
	}
	return 0, false
}

func isUnit(rt reflect.Type) bool {
	return rt.Kind() == reflect.Struct && rt.NumField() == 0 && rt.Name() == ""
}

func wireName(sf reflect.StructField) (name string, skip bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return sf.Name, false
	}
	base, _, _ := strings.Cut(tag, ",")
	if base == "-" && tag == "-" {
		return "", true
	}
	if base == "" {
		return sf.Name, false
	}
	return base, false
}

// qualifiedName is the table key for named types.
func qualifiedName(rt reflect.Type) string {
	if rt.PkgPath() == "" {
		return rt.Name()
	}
	return rt.PkgPath() + "." + rt.Name()
}

// typeKey spells a reflect handle canonically. Named types use the full
// import path so same-named types in different packages never collide.
func typeKey(rt reflect.Type) string {
	if rt.Name() != "" {
		return qualifiedName(rt)
	}
	switch rt.Kind() {
	case reflect.Pointer:
		return "*" + typeKey(rt.Elem())
	case reflect.Slice:
		return "[]" + typeKey(rt.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", rt.Len(), typeKey(rt.Elem()))
	case reflect.Map:
		if isUnit(rt.Elem()) {
			return "set[" + typeKey(rt.Key()) + "]"
		}
		return "map[" + typeKey(rt.Key()) + "]" + typeKey(rt.Elem())
	case reflect.Interface:
		return "any"
	case reflect.Struct:
		return rt.String()
	default:
		return rt.String()
	}
}
