// Package expr models conversion expressions as small algebraic values.
// The mapping synthesizer composes these nodes bottom-up; the emission
// collaborator renders them into target source text. The engine itself
// never renders text.
//
// Binder nodes (NullGuard, EachElem, EachEntry, UnionMatch arms) introduce
// one bound value each; bodies refer to it with Bound{Depth: 0}, and to
// outer binders with increasing depth.
package expr

import "github.com/dtoforge/dtoforge/dtogen/ir"

// Expr is a conversion expression handle. The set of implementations is
// closed; renderers switch exhaustively.
type Expr interface {
	expr()
}

// Ident is a free variable reference, e.g. the conversion source value.
type Ident struct {
	Name string
}

// Lit is a literal constant.
type Lit struct {
	Value any
}

// Bound refers to the value introduced by the Depth-th enclosing binder,
// counting outward from the innermost (Depth 0).
type Bound struct {
	Depth int
}

// Select accesses a named field of a structure value.
type Select struct {
	X     Expr
	Field string
}

// Construct builds a structure value field by field, in the declared
// field order. Order is observable in the wire encoding.
type Construct struct {
	Type   TypeRef
	Fields []FieldInit
}

// FieldInit is a single field initializer inside a Construct.
type FieldInit struct {
	Name  string
	Value Expr
}

// NullGuard maps an optional value: absent short-circuits to absent
// without evaluating Then; present binds the unwrapped value and yields
// Then. Src and Elem describe the present value's type on the source and
// target side, for renderers that need spelled-out types.
type NullGuard struct {
	X    Expr
	Then Expr
	Src  TypeRef
	Elem TypeRef
}

// EachElem rewrites every element of a sequence or set through Then,
// binding each element in turn. Ordered distinguishes sequences from
// sets.
type EachElem struct {
	X       Expr
	Then    Expr
	Ordered bool
	Src     TypeRef
	Elem    TypeRef
}

// EachEntry rewrites every entry of a mapping: Key rebinds each key,
// Value each value.
type EachEntry struct {
	X        Expr
	Key      Expr
	Value    Expr
	SrcKey   TypeRef
	SrcVal   TypeRef
	DstKey   TypeRef
	DstVal   TypeRef
}

// EnumName extracts an enum member's name as the wire representation.
type EnumName struct {
	X       Expr
	Enum    TypeRef
	Members []ir.EnumMember
}

// EnumFromName reconstructs an enum member from its name. Unknown names
// yield the zero member; rejecting them is the transport type's own
// runtime validation responsibility.
type EnumFromName struct {
	X       Expr
	Enum    TypeRef
	Members []ir.EnumMember
}

// UnionMatch tries each arm's runtime type test in declaration order and
// applies the first match, binding the matched value in Then.
type UnionMatch struct {
	X    Expr
	Arms []UnionArm
}

// UnionArm is one alternative of a UnionMatch.
type UnionArm struct {
	Case TypeRef
	Then Expr
}

// EncodeWire bridges a transport value to its wire representation
// (JSON text), delegating to the transport type's codec convention.
type EncodeWire struct {
	X    Expr
	Type TypeRef
}

// DecodeWire bridges a wire representation back to a transport value.
type DecodeWire struct {
	X    Expr
	Type TypeRef
}

func (Ident) expr()        {}
func (Lit) expr()          {}
func (Bound) expr()        {}
func (Select) expr()       {}
func (Construct) expr()    {}
func (NullGuard) expr()    {}
func (EachElem) expr()     {}
func (EachEntry) expr()    {}
func (EnumName) expr()     {}
func (EnumFromName) expr() {}
func (UnionMatch) expr()   {}
func (EncodeWire) expr()   {}
func (DecodeWire) expr()   {}
