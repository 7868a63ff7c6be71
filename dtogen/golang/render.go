package golang

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/dtoforge/dtoforge/dtogen/expr"
	"github.com/dtoforge/dtoforge/dtogen/ir"
)

// runtimePath is the import path of the conversion runtime the generated
// code depends on.
const runtimePath = "github.com/dtoforge/dtoforge"

// fileState accumulates the imports and enum helper functions one
// generated file needs. Each output file gets its own state.
type fileState struct {
	imports map[string]string // import path to alias
	aliases map[string]bool
	enums   []*enumHelper
	byEnum  map[string]*enumHelper
}

// enumHelper is a pair of name conversion functions emitted once per
// distinct enum type referenced in a file.
type enumHelper struct {
	base    string
	ref     expr.NamedRef
	members []ir.EnumMember
}

func newFileState() *fileState {
	return &fileState{
		imports: make(map[string]string),
		aliases: make(map[string]bool),
		byEnum:  make(map[string]*enumHelper),
	}
}

// importAlias registers pkgPath as an import and returns the alias to
// qualify its identifiers with.
func (f *fileState) importAlias(pkgPath string) string {
	if alias, ok := f.imports[pkgPath]; ok {
		return alias
	}
	base := unexportedName(path.Base(pkgPath))
	alias := base
	for i := 2; f.aliases[alias]; i++ {
		alias = fmt.Sprintf("%s%d", base, i)
	}
	f.imports[pkgPath] = alias
	f.aliases[alias] = true
	return alias
}

// runtime returns the alias of the conversion runtime package.
func (f *fileState) runtime() string {
	return f.importAlias(runtimePath)
}

// spell renders a type reference as Go source, registering any imports
// it needs.
func (f *fileState) spell(t expr.TypeRef) string {
	switch r := t.(type) {
	case expr.NamedRef:
		if r.Package == "" {
			return r.Name
		}
		return f.importAlias(r.Package) + "." + r.Name
	case expr.NullableRef:
		return "*" + f.spell(r.Elem)
	case expr.SliceRef:
		return "[]" + f.spell(r.Elem)
	case expr.SetRef:
		return "map[" + f.spell(r.Elem) + "]struct{}"
	case expr.MapRef:
		return "map[" + f.spell(r.Key_) + "]" + f.spell(r.Value)
	case expr.UnionRef:
		// Go has no sum types; alternatives travel as any and are
		// discriminated at runtime.
		return "any"
	default:
		return "any"
	}
}

// enumFuncs returns the base name of the helper pair for an enum,
// recording it for emission if not seen before.
func (f *fileState) enumFuncs(ref expr.TypeRef, members []ir.EnumMember) string {
	named, ok := ref.(expr.NamedRef)
	if !ok {
		named = expr.NamedRef{Name: ref.Key()}
	}
	key := named.Key()
	if h, ok := f.byEnum[key]; ok {
		return h.base
	}
	base := unexportedName(named.Name)
	for i := 2; f.baseTaken(base); i++ {
		base = fmt.Sprintf("%s%d", unexportedName(named.Name), i)
	}
	h := &enumHelper{base: base, ref: named, members: members}
	f.enums = append(f.enums, h)
	f.byEnum[key] = h
	return base
}

func (f *fileState) baseTaken(base string) bool {
	for _, h := range f.enums {
		if h.base == base {
			return true
		}
	}
	return false
}

// sortedImports returns the file's import paths in lexical order with
// their aliases.
func (f *fileState) sortedImports() [][2]string {
	paths := make([]string, 0, len(f.imports))
	for p := range f.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([][2]string, len(paths))
	for i, p := range paths {
		out[i] = [2]string{p, f.imports[p]}
	}
	return out
}

// renderer turns expression trees into Go source fragments. Binder
// variables are named v0, v1, ... by nesting depth.
type renderer struct {
	file    *fileState
	binders []string
}

func newRenderer(f *fileState) *renderer {
	return &renderer{file: f}
}

func (r *renderer) render(e expr.Expr) string {
	switch n := e.(type) {
	case expr.Ident:
		return n.Name
	case expr.Lit:
		return literal(n.Value)
	case expr.Bound:
		return r.binders[len(r.binders)-1-n.Depth]
	case expr.Select:
		return r.render(n.X) + "." + n.Field
	case expr.Construct:
		return r.renderConstruct(n)
	case expr.NullGuard:
		if isIdentity(n.Then) && sameRef(n.Src, n.Elem) {
			return r.render(n.X)
		}
		v, body := r.withBinder(n.Then)
		return fmt.Sprintf("%s.MapPtr(%s, func(%s %s) %s { return %s })",
			r.file.runtime(), r.render(n.X), v, r.file.spell(n.Src), r.file.spell(n.Elem), body)
	case expr.EachElem:
		if isIdentity(n.Then) && sameRef(n.Src, n.Elem) {
			return r.render(n.X)
		}
		helper := "MapSlice"
		if !n.Ordered {
			helper = "MapSet"
		}
		v, body := r.withBinder(n.Then)
		return fmt.Sprintf("%s.%s(%s, func(%s %s) %s { return %s })",
			r.file.runtime(), helper, r.render(n.X), v, r.file.spell(n.Src), r.file.spell(n.Elem), body)
	case expr.EachEntry:
		if isIdentity(n.Key) && isIdentity(n.Value) && sameRef(n.SrcKey, n.DstKey) && sameRef(n.SrcVal, n.DstVal) {
			return r.render(n.X)
		}
		kv, kbody := r.withBinder(n.Key)
		vv, vbody := r.withBinder(n.Value)
		return fmt.Sprintf("%s.MapMap(%s, func(%s %s) %s { return %s }, func(%s %s) %s { return %s })",
			r.file.runtime(), r.render(n.X),
			kv, r.file.spell(n.SrcKey), r.file.spell(n.DstKey), kbody,
			vv, r.file.spell(n.SrcVal), r.file.spell(n.DstVal), vbody)
	case expr.EnumName:
		base := r.file.enumFuncs(n.Enum, n.Members)
		return base + "ToName(" + r.render(n.X) + ")"
	case expr.EnumFromName:
		base := r.file.enumFuncs(n.Enum, n.Members)
		return base + "FromName(" + r.render(n.X) + ")"
	case expr.UnionMatch:
		return r.renderUnionMatch(n)
	case expr.EncodeWire:
		return fmt.Sprintf("%s.EncodeJSON(%s)", r.file.runtime(), r.render(n.X))
	case expr.DecodeWire:
		return fmt.Sprintf("%s.DecodeJSON[%s](%s)", r.file.runtime(), r.file.spell(n.Type), r.render(n.X))
	default:
		return fmt.Sprintf("/* unrenderable %T */ nil", e)
	}
}

func (r *renderer) renderConstruct(n expr.Construct) string {
	var b strings.Builder
	b.WriteString(r.file.spell(n.Type))
	b.WriteString("{")
	for i, f := range n.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(r.render(f.Value))
	}
	b.WriteString("}")
	return b.String()
}

func (r *renderer) renderUnionMatch(n expr.UnionMatch) string {
	var b strings.Builder
	v := fmt.Sprintf("v%d", len(r.binders))
	b.WriteString("func(u any) any {\n")
	fmt.Fprintf(&b, "\t\tswitch %s := u.(type) {\n", v)
	r.binders = append(r.binders, v)
	for _, arm := range n.Arms {
		fmt.Fprintf(&b, "\t\tcase %s:\n\t\t\treturn %s\n", r.file.spell(arm.Case), r.render(arm.Then))
	}
	r.binders = r.binders[:len(r.binders)-1]
	b.WriteString("\t\t}\n\t\treturn nil\n\t}(")
	b.WriteString(r.render(n.X))
	b.WriteString(")")
	return b.String()
}

// withBinder renders body with one additional bound variable in scope
// and returns the variable name together with the rendered body.
func (r *renderer) withBinder(body expr.Expr) (string, string) {
	name := fmt.Sprintf("v%d", len(r.binders))
	r.binders = append(r.binders, name)
	rendered := r.render(body)
	r.binders = r.binders[:len(r.binders)-1]
	return name, rendered
}

// isIdentity reports whether body just returns its bound value, so the
// whole rewrite can collapse to a plain reference when the two sides
// spell the same type.
func isIdentity(body expr.Expr) bool {
	b, ok := body.(expr.Bound)
	return ok && b.Depth == 0
}

func sameRef(a, b expr.TypeRef) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Key() == b.Key()
}

func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%#v", v)
	}
}
