package provider

import (
	"context"
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/dtoforge/dtoforge/dtogen/ir"
)

// LoadEnums scans the given package patterns for enum declarations: a
// defined type with a basic underlying type plus the package-level
// constants declared with it. Reflection cannot enumerate Go constants,
// so this is how the classifier learns enum member sets.
//
// The result maps qualified type names ("pkgpath.Name") to members in
// declaration order, ready for classify.WithEnumTable.
func LoadEnums(ctx context.Context, patterns ...string) (map[string][]ir.EnumMember, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedTypes |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}

	table := make(map[string][]ir.EnumMember)
	for _, pkg := range pkgs {
		scanPackageEnums(pkg, table)
	}
	return table, nil
}

// member pairs an enum constant with its declaration position so the
// table keeps declaration order, not scope (alphabetical) order.
type member struct {
	pos token.Pos
	m   ir.EnumMember
}

func scanPackageEnums(pkg *packages.Package, table map[string][]ir.EnumMember) {
	scope := pkg.Types.Scope()
	candidates := make(map[*types.Named][]member)

	for _, name := range scope.Names() {
		cnst, ok := scope.Lookup(name).(*types.Const)
		if !ok {
			continue
		}
		named, ok := cnst.Type().(*types.Named)
		if !ok {
			continue
		}
		if _, ok := named.Underlying().(*types.Basic); !ok {
			continue
		}
		if named.Obj().Pkg() != pkg.Types {
			continue // constants of types defined elsewhere
		}
		candidates[named] = append(candidates[named], member{
			pos: cnst.Pos(),
			m:   ir.EnumMember{Name: cnst.Name(), Value: constantValue(cnst.Val())},
		})
	}

	for named, members := range candidates {
		sort.Slice(members, func(i, j int) bool { return members[i].pos < members[j].pos })
		key := named.Obj().Pkg().Path() + "." + named.Obj().Name()
		out := make([]ir.EnumMember, len(members))
		for i, m := range members {
			out[i] = m.m
		}
		table[key] = out
	}
}

// constantValue normalizes a constant to string, int64 or float64.
func constantValue(v constant.Value) any {
	switch v.Kind() {
	case constant.String:
		return constant.StringVal(v)
	case constant.Int:
		i64, _ := constant.Int64Val(v)
		return i64
	case constant.Float:
		f64, _ := constant.Float64Val(v)
		return f64
	default:
		return v.String()
	}
}
