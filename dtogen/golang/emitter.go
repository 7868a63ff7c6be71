// Package golang renders synthesized mappings as Go source: transport
// struct definitions, conversion functions, and HTTP server and client
// bindings. The Emitter is the emission collaborator the mapping
// synthesizer calls back into while it walks the type graph.
package golang

import (
	"fmt"

	"github.com/dtoforge/dtoforge/dtogen/expr"
	"github.com/dtoforge/dtoforge/dtogen/mapping"
)

// typeDef is one transport struct definition collected during synthesis.
type typeDef struct {
	name   string
	doc    string
	origin string
	fields []mapping.FieldDef
}

// Emitter collects transport type definitions during synthesis and then
// renders the output files. One Emitter per generation run.
type Emitter struct {
	pkg  string
	defs []*typeDef
	used map[string]bool
}

// NewEmitter creates an emitter producing files in the named package.
func NewEmitter(pkg string) *Emitter {
	return &Emitter{pkg: pkg, used: make(map[string]bool)}
}

// CreateTransportType records a transport struct definition named after
// the domain structure and returns a reference to it. Name collisions
// between same-named structures from different packages get a numeric
// suffix.
func (e *Emitter) CreateTransportType(name string, fields []mapping.FieldDef, doc string) (expr.TypeRef, error) {
	if name == "" {
		return nil, fmt.Errorf("transport type needs a name")
	}
	base := exportedName(name) + "DTO"
	dtoName := base
	for i := 2; e.used[dtoName]; i++ {
		dtoName = fmt.Sprintf("%s%d", base, i)
	}
	e.used[dtoName] = true
	e.defs = append(e.defs, &typeDef{name: dtoName, doc: doc, origin: name, fields: fields})
	return expr.NamedRef{Name: dtoName}, nil
}

// BuildEncodeExpr bridges a transport value to its JSON wire form.
func (e *Emitter) BuildEncodeExpr(transport expr.TypeRef, src expr.Expr) expr.Expr {
	return expr.EncodeWire{X: src, Type: transport}
}

// BuildDecodeExpr bridges a JSON wire form back to a transport value.
func (e *Emitter) BuildDecodeExpr(transport expr.TypeRef, src expr.Expr) expr.Expr {
	return expr.DecodeWire{X: src, Type: transport}
}

// Types returns the number of transport types created so far.
func (e *Emitter) Types() int { return len(e.defs) }

var _ mapping.Trait = (*Emitter)(nil)
