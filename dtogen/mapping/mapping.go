// Package mapping synthesizes transport mappings for classified domain
// types: for every descriptor it produces the transport type reference,
// the bidirectional conversion expression builders and the wire codec
// builders, composed bottom-up in strict dependency order and memoized
// in a Registry scoped to one generation run.
package mapping

import (
	"github.com/dtoforge/dtoforge/dtogen/expr"
	"github.com/dtoforge/dtoforge/dtogen/ir"
)

// Builder turns an expression of the source representation into an
// expression of the target representation. Builders are pure: they
// compose expression nodes and never render text or execute conversions.
type Builder func(expr.Expr) expr.Expr

// TypeMapping is the synthesized output per descriptor.
type TypeMapping struct {
	// Info is the descriptor this mapping was synthesized for.
	Info ir.TypeInfo

	// Kind is the descriptor's classified shape.
	Kind ir.TypeKind

	// Domain references the domain-side type.
	Domain expr.TypeRef

	// Transport references the transport-side type. For scalars this is
	// the domain type itself; for structures it is the reference handed
	// back by the emission collaborator.
	Transport expr.TypeRef

	// DomainToTransport builds the outbound conversion expression.
	DomainToTransport Builder

	// TransportToDomain builds the inbound conversion expression.
	TransportToDomain Builder

	// Encode builds the transport-to-wire expression.
	Encode Builder

	// Decode builds the wire-to-transport expression.
	Decode Builder
}

// FieldDef describes one transport field requested from the emission
// collaborator.
type FieldDef struct {
	Name       string
	WireName   string
	Type       expr.TypeRef
	Default    string
	HasDefault bool
	Validate   string
	Doc        string
}

// Trait is the outbound collaborator interface: the emission layer
// creates transport type definitions and decides the wire codec
// convention. The synthesizer calls CreateTransportType exactly once per
// distinct structure descriptor.
type Trait interface {
	// CreateTransportType creates a transport type definition and
	// returns a reference to it.
	CreateTransportType(name string, fields []FieldDef, doc string) (expr.TypeRef, error)

	// BuildEncodeExpr builds the expression encoding a transport value
	// to its wire representation.
	BuildEncodeExpr(transport expr.TypeRef, src expr.Expr) expr.Expr

	// BuildDecodeExpr builds the expression decoding a wire
	// representation into a transport value.
	BuildDecodeExpr(transport expr.TypeRef, src expr.Expr) expr.Expr
}

// ClassifyFunc is the inbound collaborator: it classifies a descriptor
// into its TypeKind.
type ClassifyFunc func(ir.TypeInfo) (ir.TypeKind, error)
