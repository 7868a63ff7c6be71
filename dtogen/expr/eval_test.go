package expr

import (
	"testing"

	"github.com/dtoforge/dtoforge/dtogen/ir"
)

func TestEvalSelectAndConstruct(t *testing.T) {
	in := &Record{Type: "pkg.user", Fields: []RecordField{
		{Name: "Name", Value: "ada"},
		{Name: "Age", Value: int64(36)},
	}}
	e := Construct{
		Type: NamedRef{Name: "userDTO"},
		Fields: []FieldInit{
			{Name: "Name", Value: Select{X: Ident{Name: "in"}, Field: "Name"}},
			{Name: "Age", Value: Select{X: Ident{Name: "in"}, Field: "Age"}},
		},
	}
	out, err := Eval(e, &Env{Vars: map[string]any{"in": in}})
	if err != nil {
		t.Fatal(err)
	}
	rec := out.(*Record)
	if rec.Type != "userDTO" {
		t.Errorf("type = %q", rec.Type)
	}
	if rec.Fields[0].Name != "Name" || rec.Fields[0].Value != "ada" {
		t.Errorf("field 0 = %+v", rec.Fields[0])
	}
	if rec.Fields[1].Name != "Age" || rec.Fields[1].Value != int64(36) {
		t.Errorf("field 1 = %+v", rec.Fields[1])
	}
}

func TestEvalNullGuardShortCircuit(t *testing.T) {
	guarded := NullGuard{
		X:    Ident{Name: "in"},
		Then: EnumName{X: Bound{Depth: 0}, Enum: NamedRef{Name: "color"}, Members: nil},
	}

	var evaluatedEnum bool
	env := &Env{
		Vars: map[string]any{"in": nil},
		Trace: func(e Expr) {
			if _, ok := e.(EnumName); ok {
				evaluatedEnum = true
			}
		},
	}
	out, err := Eval(guarded, env)
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		t.Errorf("absent input gave %v", out)
	}
	if evaluatedEnum {
		t.Error("inner conversion evaluated for absent input")
	}
}

func TestEvalBinderDepth(t *testing.T) {
	// Each element of the outer sequence is an optional; the inner body
	// pairs the unwrapped value (depth 0) with its element (depth 1).
	e := EachElem{
		X: Ident{Name: "in"},
		Then: NullGuard{
			X: Bound{Depth: 0},
			Then: Construct{Type: NamedRef{Name: "pair"}, Fields: []FieldInit{
				{Name: "Inner", Value: Bound{Depth: 0}},
				{Name: "Outer", Value: Bound{Depth: 1}},
			}},
		},
		Ordered: true,
	}
	out, err := Eval(e, &Env{Vars: map[string]any{"in": []any{"x", nil}}})
	if err != nil {
		t.Fatal(err)
	}
	elems := out.([]any)
	rec := elems[0].(*Record)
	if v, _ := rec.Get("Inner"); v != "x" {
		t.Errorf("inner = %v", v)
	}
	if v, _ := rec.Get("Outer"); v != "x" {
		t.Errorf("outer = %v", v)
	}
	if elems[1] != nil {
		t.Errorf("absent element = %v", elems[1])
	}
}

func TestEvalEachEntry(t *testing.T) {
	members := []ir.EnumMember{{Name: "on", Value: int64(1)}}
	e := EachEntry{
		X:     Ident{Name: "in"},
		Key:   Bound{Depth: 0},
		Value: EnumName{X: Bound{Depth: 0}, Enum: NamedRef{Name: "state"}, Members: members},
	}
	out, err := Eval(e, &Env{Vars: map[string]any{"in": map[any]any{"a": int64(1)}}})
	if err != nil {
		t.Fatal(err)
	}
	got := out.(map[any]any)
	if got["a"] != "on" {
		t.Errorf("entry = %v", got)
	}
}

func TestEvalEnumRoundTrip(t *testing.T) {
	members := []ir.EnumMember{
		{Name: "colorRed", Value: int64(0)},
		{Name: "colorGreen", Value: int64(1)},
	}
	enum := NamedRef{Name: "color", Package: "pkg"}

	name, err := Eval(EnumName{X: Ident{Name: "in"}, Enum: enum, Members: members},
		&Env{Vars: map[string]any{"in": int64(1)}})
	if err != nil {
		t.Fatal(err)
	}
	if name != "colorGreen" {
		t.Fatalf("name = %v", name)
	}

	back, err := Eval(EnumFromName{X: Lit{Value: name}, Enum: enum, Members: members}, &Env{})
	if err != nil {
		t.Fatal(err)
	}
	if back != int64(1) {
		t.Errorf("back = %v", back)
	}

	unknown, err := Eval(EnumFromName{X: Lit{Value: "nope"}, Enum: enum, Members: members}, &Env{})
	if err != nil {
		t.Fatal(err)
	}
	if unknown != nil {
		t.Errorf("unknown name gave %v", unknown)
	}
}

func TestEvalEnumNameRejectsNonMember(t *testing.T) {
	_, err := Eval(EnumName{X: Lit{Value: int64(9)}, Enum: NamedRef{Name: "color"}, Members: nil}, &Env{})
	if err == nil {
		t.Fatal("expected error for non-member value")
	}
}

func TestEvalUnionMatchOrder(t *testing.T) {
	e := UnionMatch{
		X: Ident{Name: "in"},
		Arms: []UnionArm{
			{Case: NamedRef{Name: "string"}, Then: Lit{Value: "was-string"}},
			{Case: NamedRef{Name: "int64"}, Then: Lit{Value: "was-int"}},
		},
	}
	out, err := Eval(e, &Env{Vars: map[string]any{"in": int64(7)}})
	if err != nil {
		t.Fatal(err)
	}
	if out != "was-int" {
		t.Errorf("match = %v", out)
	}

	_, err = Eval(e, &Env{Vars: map[string]any{"in": true}})
	if err == nil {
		t.Error("expected error for unmatched value")
	}
}

func TestEvalWireBridge(t *testing.T) {
	ref := NamedRef{Name: "userDTO"}
	enc, err := Eval(EncodeWire{X: Ident{Name: "in"}, Type: ref}, &Env{Vars: map[string]any{"in": "payload"}})
	if err != nil {
		t.Fatal(err)
	}
	w := enc.(*Wire)
	if w.Type != "userDTO" || w.Data != "payload" {
		t.Fatalf("wire = %+v", w)
	}

	dec, err := Eval(DecodeWire{X: Lit{Value: w}, Type: ref}, &Env{})
	if err != nil {
		t.Fatal(err)
	}
	if dec != "payload" {
		t.Errorf("decoded = %v", dec)
	}
}
