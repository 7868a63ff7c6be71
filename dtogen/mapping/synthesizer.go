package mapping

import (
	"fmt"

	"github.com/dtoforge/dtoforge/dtogen/expr"
	"github.com/dtoforge/dtoforge/dtogen/ir"
	"github.com/dtoforge/dtoforge/dtogen/traverse"
)

// Synthesizer walks the type graph reachable from a set of root
// descriptors in dependency order and fills its Registry bottom-up. It
// is single-threaded: one synthesizer and one registry per generation
// run.
type Synthesizer struct {
	registry *Registry
	trait    Trait
	classify ClassifyFunc
}

// NewSynthesizer wires the synthesizer to its registry and its two
// collaborators.
func NewSynthesizer(registry *Registry, trait Trait, classify ClassifyFunc) *Synthesizer {
	return &Synthesizer{registry: registry, trait: trait, classify: classify}
}

// Registry returns the backing registry.
func (s *Synthesizer) Registry() *Registry { return s.registry }

// node is a traversal frame payload: a classified descriptor. A nil kind
// marks a descriptor that is already registered, so the traversal treats
// it as a leaf and the build phase reuses the cached mapping.
type node struct {
	info ir.TypeInfo
	kind ir.TypeKind
}

// Synthesize builds (or reuses) a mapping for every descriptor reachable
// from roots and returns them in strict post-order: every dependency's
// mapping precedes its dependents'. Re-encountering an already-registered
// descriptor is a no-op that yields the cached mapping.
func (s *Synthesizer) Synthesize(roots ...ir.TypeInfo) ([]*TypeMapping, error) {
	nodes, err := traverse.PostOrder(
		roots,
		func(info ir.TypeInfo) string { return info.Key },
		s.transform,
		dependencies,
	)
	if err != nil {
		return nil, err
	}

	out := make([]*TypeMapping, 0, len(nodes))
	for _, n := range nodes {
		if m, ok := s.registry.Lookup(n.info); ok {
			out = append(out, m)
			continue
		}
		m, err := s.build(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s.registry.Register(m))
	}
	return out, nil
}

func (s *Synthesizer) transform(info ir.TypeInfo) (node, error) {
	if _, ok := s.registry.Lookup(info); ok {
		return node{info: info}, nil
	}
	kind, err := s.classify(info)
	if err != nil {
		return node{}, err
	}
	return node{info: info, kind: kind}, nil
}

// dependencies extracts the immediate dependency descriptors of a
// classified node.
func dependencies(n node) []ir.TypeInfo {
	switch k := n.kind.(type) {
	case *ir.ContainerKind:
		return k.Inners
	case *ir.StructureKind:
		deps := make([]ir.TypeInfo, len(k.Fields))
		for i, f := range k.Fields {
			deps[i] = f.Type
		}
		return deps
	default:
		return nil
	}
}

// build synthesizes one mapping from the already-registered mappings of
// its dependencies.
func (s *Synthesizer) build(n node) (*TypeMapping, error) {
	switch k := n.kind.(type) {
	case *ir.ScalarKind:
		return s.buildScalar(k), nil
	case *ir.EnumKind:
		return s.buildEnum(k), nil
	case *ir.ContainerKind:
		return s.buildContainer(k)
	case *ir.StructureKind:
		return s.buildStructure(k)
	default:
		return nil, &ir.UnsupportedShapeError{Type: n.info.Key, Shape: fmt.Sprintf("kind %T has no synthesis case", n.kind)}
	}
}

func (s *Synthesizer) buildScalar(k *ir.ScalarKind) *TypeMapping {
	ref := scalarRef(k)
	conv := identity
	if k.Scalar == ir.ScalarNone {
		// Unit values carry no information; both directions are the
		// literal absent constant.
		conv = func(expr.Expr) expr.Expr { return expr.Lit{Value: nil} }
	}
	return s.finish(&TypeMapping{
		Info:              k.TypeInfo,
		Kind:              k,
		Domain:            ref,
		Transport:         ref, // scalars reuse the domain type
		DomainToTransport: conv,
		TransportToDomain: conv,
	})
}

func (s *Synthesizer) buildEnum(k *ir.EnumKind) *TypeMapping {
	domain := expr.NamedRef{Name: k.Name, Package: k.TypeInfo.Package}
	members := k.Members
	return s.finish(&TypeMapping{
		Info:      k.TypeInfo,
		Kind:      k,
		Domain:    domain,
		Transport: expr.NamedRef{Name: "string"},
		DomainToTransport: func(src expr.Expr) expr.Expr {
			return expr.EnumName{X: src, Enum: domain, Members: members}
		},
		TransportToDomain: func(src expr.Expr) expr.Expr {
			return expr.EnumFromName{X: src, Enum: domain, Members: members}
		},
	})
}

func (s *Synthesizer) buildContainer(k *ir.ContainerKind) (*TypeMapping, error) {
	switch k.Origin {
	case ir.OriginOptional:
		return s.buildOptional(k)
	case ir.OriginSequence, ir.OriginSet:
		return s.buildElems(k)
	case ir.OriginMapping:
		return s.buildMapping(k)
	case ir.OriginUnion:
		return s.buildUnion(k)
	default:
		return nil, &ir.UnsupportedShapeError{Type: k.TypeInfo.Key, Shape: fmt.Sprintf("container origin %s", k.Origin)}
	}
}

func (s *Synthesizer) buildOptional(k *ir.ContainerKind) (*TypeMapping, error) {
	elem, err := s.registry.Resolve(k.Elem())
	if err != nil {
		return nil, err
	}
	guard := func(inner Builder, src, dst expr.TypeRef) Builder {
		return func(x expr.Expr) expr.Expr {
			// Absent short-circuits without invoking the element's
			// conversion.
			return expr.NullGuard{X: x, Then: inner(expr.Bound{Depth: 0}), Src: src, Elem: dst}
		}
	}
	return s.finish(&TypeMapping{
		Info:              k.TypeInfo,
		Kind:              k,
		Domain:            expr.NullableRef{Elem: elem.Domain},
		Transport:         expr.NullableRef{Elem: elem.Transport},
		DomainToTransport: guard(elem.DomainToTransport, elem.Domain, elem.Transport),
		TransportToDomain: guard(elem.TransportToDomain, elem.Transport, elem.Domain),
	}), nil
}

func (s *Synthesizer) buildElems(k *ir.ContainerKind) (*TypeMapping, error) {
	elem, err := s.registry.Resolve(k.Elem())
	if err != nil {
		return nil, err
	}
	ordered := k.Origin == ir.OriginSequence
	each := func(inner Builder, src, dst expr.TypeRef) Builder {
		return func(x expr.Expr) expr.Expr {
			return expr.EachElem{X: x, Then: inner(expr.Bound{Depth: 0}), Ordered: ordered, Src: src, Elem: dst}
		}
	}
	wrap := func(e expr.TypeRef) expr.TypeRef {
		if ordered {
			return expr.SliceRef{Elem: e}
		}
		return expr.SetRef{Elem: e}
	}
	return s.finish(&TypeMapping{
		Info:              k.TypeInfo,
		Kind:              k,
		Domain:            wrap(elem.Domain),
		Transport:         wrap(elem.Transport),
		DomainToTransport: each(elem.DomainToTransport, elem.Domain, elem.Transport),
		TransportToDomain: each(elem.TransportToDomain, elem.Transport, elem.Domain),
	}), nil
}

func (s *Synthesizer) buildMapping(k *ir.ContainerKind) (*TypeMapping, error) {
	key, err := s.registry.Resolve(k.Inners[0])
	if err != nil {
		return nil, err
	}
	val, err := s.registry.Resolve(k.Inners[1])
	if err != nil {
		return nil, err
	}
	each := func(kb, vb Builder, sk, sv, dk, dv expr.TypeRef) Builder {
		return func(x expr.Expr) expr.Expr {
			return expr.EachEntry{
				X:      x,
				Key:    kb(expr.Bound{Depth: 0}),
				Value:  vb(expr.Bound{Depth: 0}),
				SrcKey: sk, SrcVal: sv, DstKey: dk, DstVal: dv,
			}
		}
	}
	return s.finish(&TypeMapping{
		Info:              k.TypeInfo,
		Kind:              k,
		Domain:            expr.MapRef{Key_: key.Domain, Value: val.Domain},
		Transport:         expr.MapRef{Key_: key.Transport, Value: val.Transport},
		DomainToTransport: each(key.DomainToTransport, val.DomainToTransport, key.Domain, val.Domain, key.Transport, val.Transport),
		TransportToDomain: each(key.TransportToDomain, val.TransportToDomain, key.Transport, val.Transport, key.Domain, val.Domain),
	}), nil
}

func (s *Synthesizer) buildUnion(k *ir.ContainerKind) (*TypeMapping, error) {
	members := make([]*TypeMapping, len(k.Inners))
	for i, inner := range k.Inners {
		m, err := s.registry.Resolve(inner)
		if err != nil {
			return nil, err
		}
		members[i] = m
	}
	if err := checkDiscriminable(k, members); err != nil {
		return nil, err
	}

	domains := make([]expr.TypeRef, len(members))
	transports := make([]expr.TypeRef, len(members))
	for i, m := range members {
		domains[i] = m.Domain
		transports[i] = m.Transport
	}

	match := func(pick func(*TypeMapping) (expr.TypeRef, Builder)) Builder {
		return func(x expr.Expr) expr.Expr {
			// Alternatives are tried in declaration order; the first
			// matching runtime shape wins.
			arms := make([]expr.UnionArm, len(members))
			for i, m := range members {
				caseRef, inner := pick(m)
				arms[i] = expr.UnionArm{Case: caseRef, Then: inner(expr.Bound{Depth: 0})}
			}
			return expr.UnionMatch{X: x, Arms: arms}
		}
	}
	return s.finish(&TypeMapping{
		Info:      k.TypeInfo,
		Kind:      k,
		Domain:    expr.UnionRef{Members: domains},
		Transport: expr.UnionRef{Members: transports},
		DomainToTransport: match(func(m *TypeMapping) (expr.TypeRef, Builder) {
			return m.Domain, m.DomainToTransport
		}),
		TransportToDomain: match(func(m *TypeMapping) (expr.TypeRef, Builder) {
			return m.Transport, m.TransportToDomain
		}),
	}), nil
}

// checkDiscriminable rejects union member sets whose runtime shapes
// cannot be told apart by a first-match chain. Overlapping membership is
// a known incompleteness of the design, surfaced rather than guessed at.
func checkDiscriminable(k *ir.ContainerKind, members []*TypeMapping) error {
	seen := make(map[string]bool)
	for _, m := range members {
		var class string
		switch mk := m.Kind.(type) {
		case *ir.StructureKind:
			class = "structure " + m.Info.Key
		case *ir.EnumKind:
			// Enums travel as their member-name string.
			class = ir.ScalarString.String()
		case *ir.ScalarKind:
			class = mk.Scalar.String()
		default:
			return &ir.UnsupportedShapeError{Type: k.TypeInfo.Key, Shape: fmt.Sprintf("union member %s is not a discriminable shape", m.Info.Key)}
		}
		if seen[class] {
			return &ir.UnsupportedShapeError{Type: k.TypeInfo.Key, Shape: fmt.Sprintf("ambiguous union: two alternatives share runtime shape %s", class)}
		}
		seen[class] = true
	}
	return nil
}

func (s *Synthesizer) buildStructure(k *ir.StructureKind) (*TypeMapping, error) {
	fields := make([]*TypeMapping, len(k.Fields))
	defs := make([]FieldDef, len(k.Fields))
	for i, f := range k.Fields {
		m, err := s.registry.Resolve(f.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = m
		defs[i] = FieldDef{
			Name:       f.Name,
			WireName:   f.WireName,
			Type:       m.Transport,
			Default:    f.Default,
			HasDefault: f.HasDefault,
			Validate:   f.Validate,
			Doc:        f.Doc,
		}
	}

	// Exactly once per distinct descriptor: the post-order traversal and
	// the registry's idempotent Register guarantee this method body runs
	// a single time per structure.
	transport, err := s.trait.CreateTransportType(k.Name, defs, k.Doc)
	if err != nil {
		return nil, err
	}
	domain := expr.NamedRef{Name: k.Name, Package: k.TypeInfo.Package}

	construct := func(target expr.TypeRef, pick func(*TypeMapping) Builder) Builder {
		return func(src expr.Expr) expr.Expr {
			inits := make([]expr.FieldInit, len(k.Fields))
			for i, f := range k.Fields {
				inits[i] = expr.FieldInit{
					Name:  f.Name,
					Value: pick(fields[i])(expr.Select{X: src, Field: f.Name}),
				}
			}
			return expr.Construct{Type: target, Fields: inits}
		}
	}
	return s.finish(&TypeMapping{
		Info:      k.TypeInfo,
		Kind:      k,
		Domain:    domain,
		Transport: transport,
		DomainToTransport: construct(transport, func(m *TypeMapping) Builder {
			return m.DomainToTransport
		}),
		TransportToDomain: construct(domain, func(m *TypeMapping) Builder {
			return m.TransportToDomain
		}),
	}), nil
}

// finish attaches the wire codec builders, which delegate to the
// transport type's codec convention via the emission trait.
func (s *Synthesizer) finish(m *TypeMapping) *TypeMapping {
	transport := m.Transport
	m.Encode = func(src expr.Expr) expr.Expr {
		return s.trait.BuildEncodeExpr(transport, src)
	}
	m.Decode = func(src expr.Expr) expr.Expr {
		return s.trait.BuildDecodeExpr(transport, src)
	}
	return m
}

func identity(e expr.Expr) expr.Expr { return e }

// scalarRef spells the shared domain/transport reference of a scalar.
func scalarRef(k *ir.ScalarKind) expr.TypeRef {
	if k.TypeInfo.Name != "" {
		return expr.NamedRef{Name: k.TypeInfo.Name, Package: k.TypeInfo.Package}
	}
	switch k.Scalar {
	case ir.ScalarBytes:
		return expr.SliceRef{Elem: expr.NamedRef{Name: "byte"}}
	case ir.ScalarNone:
		return expr.NamedRef{Name: "struct{}"}
	case ir.ScalarAny:
		return expr.NamedRef{Name: "any"}
	default:
		return expr.NamedRef{Name: k.TypeInfo.Key}
	}
}
