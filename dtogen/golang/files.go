package golang

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dtoforge/dtoforge/dtogen/expr"
	"github.com/dtoforge/dtoforge/dtogen/ir"
	"github.com/dtoforge/dtoforge/dtogen/mapping"
)

const generatedHeader = "// Code generated by dtoforge. DO NOT EDIT.\n\n"

// assemble prepends the header, package clause and import block to a
// rendered file body.
func (e *Emitter) assemble(fs *fileState, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	fmt.Fprintf(&buf, "package %s\n\n", e.pkg)

	imports := fs.sortedImports()
	if len(imports) > 0 {
		buf.WriteString("import (\n")
		for _, imp := range imports {
			pkgPath, alias := imp[0], imp[1]
			if strings.HasSuffix(pkgPath, "/"+alias) || pkgPath == alias {
				fmt.Fprintf(&buf, "\t%q\n", pkgPath)
			} else {
				fmt.Fprintf(&buf, "\t%s %q\n", alias, pkgPath)
			}
		}
		buf.WriteString(")\n\n")
	}
	buf.Write(body)
	return buf.Bytes()
}

// TypesFile renders the transport struct definitions collected during
// synthesis.
func (e *Emitter) TypesFile() ([]byte, error) {
	fs := newFileState()
	var body bytes.Buffer

	for i, def := range e.defs {
		if i > 0 {
			body.WriteString("\n")
		}
		if def.doc != "" {
			writeDoc(&body, "", def.doc)
		} else {
			fmt.Fprintf(&body, "// %s is the transport shape of %s.\n", def.name, def.origin)
		}
		fmt.Fprintf(&body, "type %s struct {\n", def.name)
		for _, f := range def.fields {
			if f.Doc != "" {
				writeDoc(&body, "\t", f.Doc)
			}
			fmt.Fprintf(&body, "\t%s %s %s\n", f.Name, fs.spell(f.Type), fieldTag(f))
		}
		body.WriteString("}\n")
	}
	return e.assemble(fs, body.Bytes()), nil
}

func fieldTag(f mapping.FieldDef) string {
	parts := []string{fmt.Sprintf("json:%q", f.WireName)}
	if f.HasDefault {
		parts = append(parts, fmt.Sprintf("default:%q", f.Default))
	}
	if f.Validate != "" {
		parts = append(parts, fmt.Sprintf("validate:%q", f.Validate))
	}
	return "`" + strings.Join(parts, " ") + "`"
}

// ConvertFile renders the bidirectional conversion functions for every
// structure mapping, plus the enum name helpers they reference.
func (e *Emitter) ConvertFile(mappings []*mapping.TypeMapping) ([]byte, error) {
	fs := newFileState()
	r := newRenderer(fs)
	var body bytes.Buffer

	first := true
	for _, m := range mappings {
		if _, ok := m.Kind.(*ir.StructureKind); !ok {
			continue
		}
		base := convBase(m)
		if base == "" {
			return nil, fmt.Errorf("structure %s has no named transport type", m.Info.Key)
		}
		if !first {
			body.WriteString("\n")
		}
		first = false

		domain := fs.spell(m.Domain)
		transport := fs.spell(m.Transport)

		fmt.Fprintf(&body, "// %sToDTO converts %s to its transport shape.\n", base, domain)
		fmt.Fprintf(&body, "func %sToDTO(in %s) %s {\n", base, domain, transport)
		fmt.Fprintf(&body, "\treturn %s\n}\n\n", r.render(m.DomainToTransport(expr.Ident{Name: "in"})))

		fmt.Fprintf(&body, "// %sFromDTO converts the transport shape back to %s.\n", base, domain)
		fmt.Fprintf(&body, "func %sFromDTO(in %s) %s {\n", base, transport, domain)
		fmt.Fprintf(&body, "\treturn %s\n}\n", r.render(m.TransportToDomain(expr.Ident{Name: "in"})))
	}

	for _, h := range fs.enums {
		body.WriteString("\n")
		writeEnumHelpers(&body, fs, h)
	}
	return e.assemble(fs, body.Bytes()), nil
}

func writeEnumHelpers(body *bytes.Buffer, fs *fileState, h *enumHelper) {
	typ := fs.spell(h.ref)
	qualify := func(member string) string {
		if h.ref.Package == "" {
			return member
		}
		return fs.importAlias(h.ref.Package) + "." + member
	}

	fmt.Fprintf(body, "// %sToName returns the wire name of a %s member.\n", h.base, typ)
	fmt.Fprintf(body, "func %sToName(v %s) string {\n\tswitch v {\n", h.base, typ)
	for _, m := range h.members {
		fmt.Fprintf(body, "\tcase %s:\n\t\treturn %q\n", qualify(m.Name), m.Name)
	}
	body.WriteString("\t}\n\treturn \"\"\n}\n\n")

	fmt.Fprintf(body, "// %sFromName returns the %s member for a wire name, or the\n", h.base, typ)
	body.WriteString("// zero member for unknown names.\n")
	fmt.Fprintf(body, "func %sFromName(s string) %s {\n\tswitch s {\n", h.base, typ)
	for _, m := range h.members {
		fmt.Fprintf(body, "\tcase %q:\n\t\treturn %s\n", m.Name, qualify(m.Name))
	}
	fmt.Fprintf(body, "\t}\n\tvar zero %s\n\treturn zero\n}\n", typ)
}

// ServerFile renders one HTTP handler per service: a domain interface,
// a handler type dispatching POST requests with JSON bodies, and a mux
// registration helper. Streaming methods are not rendered.
func (e *Emitter) ServerFile(services []ir.ServiceInfo, reg *mapping.Registry) ([]byte, error) {
	fs := newFileState()
	r := newRenderer(fs)
	var body bytes.Buffer

	ctxPkg := fs.importAlias("context")
	httpPkg := fs.importAlias("net/http")
	rt := fs.runtime()

	for si, svc := range services {
		if si > 0 {
			body.WriteString("\n")
		}
		methods := unaryMethods(svc)
		if len(methods) == 0 {
			continue
		}
		ifaceName := exportedName(svc.Name) + "Service"
		handlerName := exportedName(svc.Name) + "Handler"

		fmt.Fprintf(&body, "// %s is the domain surface %s dispatches to.\n", ifaceName, handlerName)
		fmt.Fprintf(&body, "type %s interface {\n", ifaceName)
		for _, m := range methods {
			sig, err := methodSignature(fs, reg, m, ctxPkg)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&body, "\t%s\n", sig)
		}
		body.WriteString("}\n\n")

		fmt.Fprintf(&body, "// %s serves %s over HTTP POST with JSON bodies.\n", handlerName, ifaceName)
		fmt.Fprintf(&body, "type %s struct {\n\timpl %s\n}\n\n", handlerName, ifaceName)
		fmt.Fprintf(&body, "// New%s wraps an implementation.\n", handlerName)
		fmt.Fprintf(&body, "func New%[1]s(impl %[2]s) *%[1]s {\n\treturn &%[1]s{impl: impl}\n}\n\n", handlerName, ifaceName)

		fmt.Fprintf(&body, "// Register installs the service routes on mux.\n")
		fmt.Fprintf(&body, "func (h *%s) Register(mux *%s.ServeMux) {\n", handlerName, httpPkg)
		for _, m := range methods {
			fmt.Fprintf(&body, "\tmux.HandleFunc(%q, h.handle%s)\n", "POST /"+m.FullName, m.Name)
		}
		body.WriteString("}\n")

		for _, m := range methods {
			body.WriteString("\n")
			if err := e.writeServerMethod(&body, fs, r, reg, handlerName, m, httpPkg, rt); err != nil {
				return nil, err
			}
		}
	}
	return e.assemble(fs, body.Bytes()), nil
}

func (e *Emitter) writeServerMethod(body *bytes.Buffer, fs *fileState, r *renderer, reg *mapping.Registry, handlerName string, m ir.MethodInfo, httpPkg, rt string) error {
	req, err := reg.Resolve(m.Params[0].Type)
	if err != nil {
		return err
	}
	fmt.Fprintf(body, "func (h *%s) handle%s(w %s.ResponseWriter, r *%s.Request) {\n", handlerName, m.Name, httpPkg, httpPkg)
	fmt.Fprintf(body, "\tdto, err := %s.DecodeRequest[%s](r)\n", rt, fs.spell(req.Transport))
	fmt.Fprintf(body, "\tif err != nil {\n\t\t%s.WriteError(w, %s.Invalid(err))\n\t\treturn\n\t}\n", rt, rt)
	fmt.Fprintf(body, "\treq := %s\n", fromDTO(r, req, "dto"))

	if m.Returns.IsZero() {
		fmt.Fprintf(body, "\tif err := h.impl.%s(r.Context(), req); err != nil {\n", m.Name)
		fmt.Fprintf(body, "\t\t%s.WriteError(w, err)\n\t\treturn\n\t}\n", rt)
		fmt.Fprintf(body, "\tw.WriteHeader(%s.StatusNoContent)\n}\n", httpPkg)
		return nil
	}

	res, err := reg.Resolve(m.Returns)
	if err != nil {
		return err
	}
	fmt.Fprintf(body, "\tres, err := h.impl.%s(r.Context(), req)\n", m.Name)
	fmt.Fprintf(body, "\tif err != nil {\n\t\t%s.WriteError(w, err)\n\t\treturn\n\t}\n", rt)
	fmt.Fprintf(body, "\t%s.WriteJSON(w, %s.StatusOK, %s)\n}\n", rt, httpPkg, toDTO(r, res, "res"))
	return nil
}

// ClientFile renders one HTTP client per service, speaking the same
// route and codec conventions as the generated handler.
func (e *Emitter) ClientFile(services []ir.ServiceInfo, reg *mapping.Registry) ([]byte, error) {
	fs := newFileState()
	r := newRenderer(fs)
	var body bytes.Buffer

	ctxPkg := fs.importAlias("context")
	httpPkg := fs.importAlias("net/http")
	rt := fs.runtime()

	for si, svc := range services {
		if si > 0 {
			body.WriteString("\n")
		}
		methods := unaryMethods(svc)
		if len(methods) == 0 {
			continue
		}
		clientName := exportedName(svc.Name) + "Client"

		fmt.Fprintf(&body, "// %s calls a remote %s over HTTP.\n", clientName, exportedName(svc.Name)+"Service")
		fmt.Fprintf(&body, "type %s struct {\n\tbase string\n\thc   *%s.Client\n}\n\n", clientName, httpPkg)
		fmt.Fprintf(&body, "// New%s creates a client for the service at base. A nil client\n// uses http.DefaultClient.\n", clientName)
		fmt.Fprintf(&body, "func New%[1]s(base string, hc *%[2]s.Client) *%[1]s {\n", clientName, httpPkg)
		fmt.Fprintf(&body, "\tif hc == nil {\n\t\thc = %s.DefaultClient\n\t}\n", httpPkg)
		fmt.Fprintf(&body, "\treturn &%s{base: base, hc: hc}\n}\n", clientName)

		for _, m := range methods {
			body.WriteString("\n")
			if err := e.writeClientMethod(&body, fs, r, reg, clientName, m, ctxPkg, rt); err != nil {
				return nil, err
			}
		}
	}
	return e.assemble(fs, body.Bytes()), nil
}

func (e *Emitter) writeClientMethod(body *bytes.Buffer, fs *fileState, r *renderer, reg *mapping.Registry, clientName string, m ir.MethodInfo, ctxPkg, rt string) error {
	req, err := reg.Resolve(m.Params[0].Type)
	if err != nil {
		return err
	}
	sig, err := methodSignature(fs, reg, m, ctxPkg)
	if err != nil {
		return err
	}
	fmt.Fprintf(body, "func (c *%s) %s {\n", clientName, sig)
	fmt.Fprintf(body, "\tdto := %s\n", toDTO(r, req, "req"))
	fmt.Fprintf(body, "\tbody, err := %s\n", r.render(req.Encode(expr.Ident{Name: "dto"})))

	if m.Returns.IsZero() {
		body.WriteString("\tif err != nil {\n\t\treturn err\n\t}\n")
		fmt.Fprintf(body, "\t_, err = %s.Post(ctx, c.hc, c.base, %q, body)\n\treturn err\n}\n", rt, m.FullName)
		return nil
	}

	res, err := reg.Resolve(m.Returns)
	if err != nil {
		return err
	}
	zero := fmt.Sprintf("\t\tvar zero %s\n\t\treturn zero, err\n\t}\n", fs.spell(res.Domain))
	body.WriteString("\tif err != nil {\n" + zero)
	fmt.Fprintf(body, "\tdata, err := %s.Post(ctx, c.hc, c.base, %q, body)\n", rt, m.FullName)
	body.WriteString("\tif err != nil {\n" + zero)
	fmt.Fprintf(body, "\tresDTO, err := %s\n", r.render(res.Decode(expr.Ident{Name: "data"})))
	body.WriteString("\tif err != nil {\n" + zero)
	fmt.Fprintf(body, "\treturn %s, nil\n}\n", fromDTO(r, res, "resDTO"))
	return nil
}

// methodSignature spells the domain-facing signature of a unary method.
func methodSignature(fs *fileState, reg *mapping.Registry, m ir.MethodInfo, ctxPkg string) (string, error) {
	req, err := reg.Resolve(m.Params[0].Type)
	if err != nil {
		return "", err
	}
	if m.Returns.IsZero() {
		return fmt.Sprintf("%s(ctx %s.Context, req %s) error", m.Name, ctxPkg, fs.spell(req.Domain)), nil
	}
	res, err := reg.Resolve(m.Returns)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(ctx %s.Context, req %s) (%s, error)", m.Name, ctxPkg, fs.spell(req.Domain), fs.spell(res.Domain)), nil
}

// unaryMethods filters out streaming methods, which the HTTP bindings
// do not cover.
func unaryMethods(svc ir.ServiceInfo) []ir.MethodInfo {
	out := make([]ir.MethodInfo, 0, len(svc.Methods))
	for _, m := range svc.Methods {
		if m.Streaming {
			continue
		}
		out = append(out, m)
	}
	return out
}

// toDTO spells the domain-to-transport conversion of src. Structures go
// through their named conversion function; everything else is inlined.
func toDTO(r *renderer, m *mapping.TypeMapping, src string) string {
	if base := convBase(m); base != "" {
		return base + "ToDTO(" + src + ")"
	}
	return r.render(m.DomainToTransport(expr.Ident{Name: src}))
}

// fromDTO spells the transport-to-domain conversion of src.
func fromDTO(r *renderer, m *mapping.TypeMapping, src string) string {
	if base := convBase(m); base != "" {
		return base + "FromDTO(" + src + ")"
	}
	return r.render(m.TransportToDomain(expr.Ident{Name: src}))
}

// convBase returns the conversion function stem of a structure mapping,
// or "" when the mapping has no named conversion pair.
func convBase(m *mapping.TypeMapping) string {
	if _, ok := m.Kind.(*ir.StructureKind); !ok {
		return ""
	}
	named, ok := m.Transport.(expr.NamedRef)
	if !ok {
		return ""
	}
	return strings.TrimSuffix(named.Name, "DTO")
}

// writeDoc writes a doc string as comment lines at the given indent.
func writeDoc(body *bytes.Buffer, indent, doc string) {
	for _, line := range strings.Split(strings.TrimRight(doc, "\n"), "\n") {
		if line == "" {
			fmt.Fprintf(body, "%s//\n", indent)
			continue
		}
		fmt.Fprintf(body, "%s// %s\n", indent, line)
	}
}
