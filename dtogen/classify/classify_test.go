package classify

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dtoforge/dtoforge/dtogen/ir"
)

type color int

const (
	colorRed color = iota
	colorGreen
)

var colorMembers = []ir.EnumMember{
	{Name: "colorRed", Value: int64(0)},
	{Name: "colorGreen", Value: int64(1)},
}

// status advertises its members through the Enumerator convention.
type status string

func (status) EnumMembers() []ir.EnumMember {
	return []ir.EnumMember{
		{Name: "statusActive", Value: "active"},
		{Name: "statusClosed", Value: "closed"},
	}
}

type account struct {
	Name     string `json:"name" validate:"required"`
	Age      int    `default:"18"`
	Renamed  string `json:"display_name"`
	Hidden   string `json:"-"`
	internal string
}

func TestClassifyScalars(t *testing.T) {
	c := New()
	cases := []struct {
		rt   reflect.Type
		want ir.ScalarType
	}{
		{reflect.TypeOf(true), ir.ScalarBool},
		{reflect.TypeOf(int32(0)), ir.ScalarInt},
		{reflect.TypeOf(uint16(0)), ir.ScalarUint},
		{reflect.TypeOf(float64(0)), ir.ScalarFloat},
		{reflect.TypeOf(""), ir.ScalarString},
		{reflect.TypeOf([]byte(nil)), ir.ScalarBytes},
		{reflect.TypeOf(time.Time{}), ir.ScalarTime},
		{reflect.TypeOf(time.Duration(0)), ir.ScalarDuration},
		{reflect.TypeOf(struct{}{}), ir.ScalarNone},
		{reflect.TypeOf((*any)(nil)).Elem(), ir.ScalarAny},
	}
	for _, tc := range cases {
		kind, err := c.Classify(tc.rt)
		if err != nil {
			t.Fatalf("Classify(%s): %v", tc.rt, err)
		}
		sk, ok := kind.(*ir.ScalarKind)
		if !ok {
			t.Fatalf("Classify(%s) = %T, want scalar", tc.rt, kind)
		}
		if sk.Scalar != tc.want {
			t.Errorf("Classify(%s) scalar = %s, want %s", tc.rt, sk.Scalar, tc.want)
		}
	}
}

func TestClassifyContainers(t *testing.T) {
	c := New()
	cases := []struct {
		rt      reflect.Type
		origin  ir.Origin
		wantKey string
	}{
		{reflect.TypeOf((*int)(nil)), ir.OriginOptional, "*int"},
		{reflect.TypeOf([]int(nil)), ir.OriginSequence, "[]int"},
		{reflect.TypeOf([3]string{}), ir.OriginSequence, "[3]string"},
		{reflect.TypeOf(map[string]struct{}(nil)), ir.OriginSet, "set[string]"},
		{reflect.TypeOf(map[string]int(nil)), ir.OriginMapping, "map[string]int"},
	}
	for _, tc := range cases {
		kind, err := c.Classify(tc.rt)
		if err != nil {
			t.Fatalf("Classify(%s): %v", tc.rt, err)
		}
		ck, ok := kind.(*ir.ContainerKind)
		if !ok {
			t.Fatalf("Classify(%s) = %T, want container", tc.rt, kind)
		}
		if ck.Origin != tc.origin {
			t.Errorf("Classify(%s) origin = %s, want %s", tc.rt, ck.Origin, tc.origin)
		}
		if ck.TypeInfo.Key != tc.wantKey {
			t.Errorf("Classify(%s) key = %q, want %q", tc.rt, ck.TypeInfo.Key, tc.wantKey)
		}
	}
}

func TestClassifyMappingInnerOrder(t *testing.T) {
	c := New()
	kind, err := c.Classify(reflect.TypeOf(map[string]int(nil)))
	if err != nil {
		t.Fatal(err)
	}
	ck := kind.(*ir.ContainerKind)
	if len(ck.Inners) != 2 || ck.Inners[0].Key != "string" || ck.Inners[1].Key != "int" {
		t.Fatalf("mapping inners = %v, want [string int]", ck.Inners)
	}
}

func TestClassifyEnumFromTable(t *testing.T) {
	c := New(WithEnumMembers(color(0), colorMembers...))
	kind, err := c.Classify(reflect.TypeOf(color(0)))
	if err != nil {
		t.Fatal(err)
	}
	ek, ok := kind.(*ir.EnumKind)
	if !ok {
		t.Fatalf("Classify(color) = %T, want enum", kind)
	}
	if ek.Name != "color" || len(ek.Members) != 2 {
		t.Errorf("enum = %s with %d members, want color with 2", ek.Name, len(ek.Members))
	}
	if m, ok := ek.Member("colorGreen"); !ok || m.Value != int64(1) {
		t.Errorf("Member(colorGreen) = %v, %v", m, ok)
	}
}

func TestClassifyEnumerator(t *testing.T) {
	c := New()
	kind, err := c.Classify(reflect.TypeOf(status("")))
	if err != nil {
		t.Fatal(err)
	}
	ek, ok := kind.(*ir.EnumKind)
	if !ok {
		t.Fatalf("Classify(status) = %T, want enum", kind)
	}
	if len(ek.Members) != 2 || ek.Members[0].Value != "active" {
		t.Errorf("unexpected members %v", ek.Members)
	}
}

func TestClassifyWithoutTableSeesPlainScalar(t *testing.T) {
	c := New()
	kind, err := c.Classify(reflect.TypeOf(color(0)))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := kind.(*ir.ScalarKind); !ok {
		t.Fatalf("Classify(color) without members = %T, want scalar", kind)
	}
}

func TestClassifyStructure(t *testing.T) {
	c := New()
	kind, err := c.Classify(reflect.TypeOf(account{}))
	if err != nil {
		t.Fatal(err)
	}
	sk, ok := kind.(*ir.StructureKind)
	if !ok {
		t.Fatalf("Classify(account) = %T, want structure", kind)
	}
	if len(sk.Fields) != 3 {
		t.Fatalf("got %d fields, want 3: %+v", len(sk.Fields), sk.Fields)
	}
	if sk.Fields[0].WireName != "name" || sk.Fields[0].Validate != "required" {
		t.Errorf("field 0 = %+v", sk.Fields[0])
	}
	if !sk.Fields[1].HasDefault || sk.Fields[1].Default != "18" || sk.Fields[1].WireName != "Age" {
		t.Errorf("field 1 = %+v", sk.Fields[1])
	}
	if sk.Fields[2].WireName != "display_name" {
		t.Errorf("field 2 = %+v", sk.Fields[2])
	}
}

func TestClassifyErrors(t *testing.T) {
	c := New()
	cases := []reflect.Type{
		reflect.TypeOf(make(chan int)),
		reflect.TypeOf(func() {}),
		reflect.TypeOf(complex128(0)),
		reflect.TypeOf((*error)(nil)).Elem(),
		reflect.TypeOf(struct{ X int }{}),
	}
	for _, rt := range cases {
		_, err := c.Classify(rt)
		var cerr *ir.ClassificationError
		if !errors.As(err, &cerr) {
			t.Errorf("Classify(%s) err = %v, want ClassificationError", rt, err)
		}
	}
}

func TestUnionDescriptor(t *testing.T) {
	c := New()
	info := Union(c.InfoOf(reflect.TypeOf("")), c.InfoOf(reflect.TypeOf(0)))
	if info.Key != "union[string|int]" {
		t.Fatalf("union key = %q", info.Key)
	}
	kind, err := c.ClassifyInfo(info)
	if err != nil {
		t.Fatal(err)
	}
	ck, ok := kind.(*ir.ContainerKind)
	if !ok || ck.Origin != ir.OriginUnion {
		t.Fatalf("ClassifyInfo(union) = %T %v", kind, kind)
	}
	if len(ck.Inners) != 2 {
		t.Fatalf("union inners = %v", ck.Inners)
	}
}

func TestTypeKeyQualifiesNamedTypes(t *testing.T) {
	c := New()
	info := c.InfoOf(reflect.TypeOf(account{}))
	want := reflect.TypeOf(account{}).PkgPath() + ".account"
	if info.Key != want {
		t.Errorf("key = %q, want %q", info.Key, want)
	}
}
