// Package provider implements the inbound collaborators that seed the
// mapping engine: reflection-based entrypoint inspection, which turns
// live service values into method and root-type descriptors, and a
// source-based enum member extractor, which recovers what reflection
// cannot (Go constant groups).
package provider

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/dtoforge/dtoforge/dtogen/classify"
	"github.com/dtoforge/dtoforge/dtogen/ir"
)

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Entrypoint is a domain service whose exported methods become
// generation roots.
type Entrypoint struct {
	// Name is the service identifier. Derived from the implementation's
	// type name when empty.
	Name string

	// Impl is the service value. Methods are discovered on its full
	// method set, so pointer receivers count when a pointer is passed.
	Impl any
}

// Inspect discovers the recognized methods of each entrypoint and
// returns their service descriptors. Recognized shapes:
//
//	func (s) Method(ctx context.Context, req Req) (Res, error)
//	func (s) Method(ctx context.Context, req Req) error
//	func (s) Method(ctx context.Context, req Req) (<-chan E, error)
//
// The channel form is a server stream of element type E. Exported
// methods outside these shapes are skipped, not errors: services may
// carry helpers that are not part of the API surface.
func Inspect(c *classify.Classifier, entrypoints ...Entrypoint) ([]ir.ServiceInfo, error) {
	services := make([]ir.ServiceInfo, 0, len(entrypoints))
	for _, ep := range entrypoints {
		svc, err := inspectOne(c, ep)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, nil
}

func inspectOne(c *classify.Classifier, ep Entrypoint) (ir.ServiceInfo, error) {
	if ep.Impl == nil {
		return ir.ServiceInfo{}, fmt.Errorf("entrypoint %q has no implementation", ep.Name)
	}
	rt := reflect.TypeOf(ep.Impl)

	name := ep.Name
	if name == "" {
		name = serviceName(rt)
	}
	if name == "" {
		return ir.ServiceInfo{}, fmt.Errorf("cannot derive a service name from %s; set Entrypoint.Name", rt)
	}

	svc := ir.ServiceInfo{Name: name}
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if m.PkgPath != "" {
			continue // unexported
		}
		method, ok := inspectMethod(c, name, m)
		if !ok {
			continue
		}
		svc.Methods = append(svc.Methods, method)
	}
	if len(svc.Methods) == 0 {
		return ir.ServiceInfo{}, fmt.Errorf("service %s exposes no recognized methods", name)
	}
	return svc, nil
}

func inspectMethod(c *classify.Classifier, service string, m reflect.Method) (ir.MethodInfo, bool) {
	ft := m.Func.Type()

	// Receiver, context, request.
	if ft.NumIn() != 3 || ft.In(1) != ctxType {
		return ir.MethodInfo{}, false
	}
	if ft.NumOut() < 1 || ft.NumOut() > 2 || ft.Out(ft.NumOut()-1) != errType {
		return ir.MethodInfo{}, false
	}

	info := ir.MethodInfo{
		Name:     m.Name,
		FullName: service + "." + m.Name,
		Params:   []ir.ParamInfo{{Name: "req", Type: c.InfoOf(ft.In(2))}},
	}
	if ft.NumOut() == 2 {
		out := ft.Out(0)
		if out.Kind() == reflect.Chan {
			if out.ChanDir() == reflect.BothDir || out.ChanDir() == reflect.SendDir {
				return ir.MethodInfo{}, false
			}
			info.Streaming = true
			out = out.Elem()
		}
		info.Returns = c.InfoOf(out)
	}
	return info, true
}

// serviceName strips pointer markers and generic arguments from the
// implementation's type name.
func serviceName(rt reflect.Type) string {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	name := rt.Name()
	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}
	return name
}
