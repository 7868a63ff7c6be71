package expr

import "fmt"

// Eval executes an expression against an abstract value model. It is the
// reference semantics for renderers and is what the engine's conversion
// law tests run against; generated code must behave the same way.
//
// Value model: scalars evaluate to themselves, absent optionals are nil,
// sequences and sets are []any, mappings are map[any]any, structures are
// *Record (ordered, so field order stays observable), enum values are
// their member literals, and wire payloads are *Wire envelopes.
func Eval(e Expr, env *Env) (any, error) {
	if env.Trace != nil {
		env.Trace(e)
	}

	switch n := e.(type) {
	case Ident:
		v, ok := env.Vars[n.Name]
		if !ok {
			return nil, fmt.Errorf("unbound identifier %q", n.Name)
		}
		return v, nil

	case Lit:
		return n.Value, nil

	case Bound:
		return env.bound(n.Depth)

	case Select:
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		rec, ok := x.(*Record)
		if !ok {
			return nil, fmt.Errorf("select %q on non-structure %T", n.Field, x)
		}
		v, ok := rec.Get(n.Field)
		if !ok {
			return nil, fmt.Errorf("structure %s has no field %q", rec.Type, n.Field)
		}
		return v, nil

	case Construct:
		rec := &Record{Type: n.Type.Key()}
		for _, f := range n.Fields {
			v, err := Eval(f.Value, env)
			if err != nil {
				return nil, err
			}
			rec.Fields = append(rec.Fields, RecordField{Name: f.Name, Value: v})
		}
		return rec, nil

	case NullGuard:
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		if x == nil {
			return nil, nil
		}
		return env.withBinding(x, n.Then)

	case EachElem:
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		elems, ok := x.([]any)
		if !ok {
			return nil, fmt.Errorf("each-elem on non-collection %T", x)
		}
		out := make([]any, 0, len(elems))
		for _, el := range elems {
			v, err := env.withBinding(el, n.Then)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case EachEntry:
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		entries, ok := x.(map[any]any)
		if !ok {
			return nil, fmt.Errorf("each-entry on non-mapping %T", x)
		}
		out := make(map[any]any, len(entries))
		for k, v := range entries {
			nk, err := env.withBinding(k, n.Key)
			if err != nil {
				return nil, err
			}
			nv, err := env.withBinding(v, n.Value)
			if err != nil {
				return nil, err
			}
			out[nk] = nv
		}
		return out, nil

	case EnumName:
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		for _, m := range n.Members {
			if m.Value == x {
				return m.Name, nil
			}
		}
		return nil, fmt.Errorf("value %v is not a member of %s", x, n.Enum.Key())

	case EnumFromName:
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		for _, m := range n.Members {
			if m.Name == x {
				return m.Value, nil
			}
		}
		// Unknown names are the transport type's validation concern.
		return nil, nil

	case UnionMatch:
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		for _, arm := range n.Arms {
			if matchesCase(x, arm.Case) {
				return env.withBinding(x, arm.Then)
			}
		}
		return nil, fmt.Errorf("value %v matches no union alternative", x)

	case EncodeWire:
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		return &Wire{Type: n.Type.Key(), Data: x}, nil

	case DecodeWire:
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		w, ok := x.(*Wire)
		if !ok {
			return nil, fmt.Errorf("decode of non-wire value %T", x)
		}
		return w.Data, nil

	default:
		return nil, fmt.Errorf("unknown expression node %T", e)
	}
}

// matchesCase is the abstract runtime type test for union arms.
func matchesCase(v any, c TypeRef) bool {
	if rec, ok := v.(*Record); ok {
		return rec.Type == c.Key()
	}
	named, ok := c.(NamedRef)
	if !ok || named.Package != "" {
		return false
	}
	switch named.Name {
	case "string":
		_, ok := v.(string)
		return ok
	case "bool":
		_, ok := v.(bool)
		return ok
	case "int64", "int":
		_, ok := v.(int64)
		return ok
	case "float64":
		_, ok := v.(float64)
		return ok
	}
	return false
}

// Env holds free variables and the binder stack during evaluation.
type Env struct {
	// Vars binds free identifiers (conversion sources).
	Vars map[string]any

	// Trace, when set, observes every evaluated node. Tests use it to
	// verify short-circuit behavior.
	Trace func(Expr)

	stack []any
}

func (env *Env) bound(depth int) (any, error) {
	if depth < 0 || depth >= len(env.stack) {
		return nil, fmt.Errorf("bound depth %d outside binder stack of %d", depth, len(env.stack))
	}
	return env.stack[len(env.stack)-1-depth], nil
}

func (env *Env) withBinding(v any, body Expr) (any, error) {
	env.stack = append(env.stack, v)
	out, err := Eval(body, env)
	env.stack = env.stack[:len(env.stack)-1]
	return out, err
}

// Record is the evaluator's structure value: an ordered field list, so
// construction order remains observable.
type Record struct {
	Type   string
	Fields []RecordField
}

// RecordField is a single record entry.
type RecordField struct {
	Name  string
	Value any
}

// Get looks up a field by name.
func (r *Record) Get(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Wire is the evaluator's wire-format envelope.
type Wire struct {
	Type string
	Data any
}
