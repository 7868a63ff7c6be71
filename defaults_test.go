package dtoforge

import (
	"testing"
	"time"
)

type defaultsInner struct {
	Limit int `default:"25"`
}

type defaultsOuter struct {
	Name     string        `default:"anonymous"`
	Ratio    float64       `default:"0.5"`
	Active   bool          `default:"true"`
	Wait     time.Duration `default:"5s"`
	Retries  *int          `default:"3"`
	Inner    defaultsInner
	Items    []defaultsInner
	ByKey    map[string]defaultsInner
	Explicit string `default:"fallback"`
}

func TestApplyDefaults(t *testing.T) {
	v := defaultsOuter{
		Explicit: "kept",
		Items:    []defaultsInner{{}, {Limit: 7}},
		ByKey:    map[string]defaultsInner{"a": {}},
	}
	if err := ApplyDefaults(&v); err != nil {
		t.Fatal(err)
	}

	if v.Name != "anonymous" {
		t.Errorf("Name = %q", v.Name)
	}
	if v.Ratio != 0.5 {
		t.Errorf("Ratio = %v", v.Ratio)
	}
	if !v.Active {
		t.Error("Active not defaulted")
	}
	if v.Wait != 5*time.Second {
		t.Errorf("Wait = %v", v.Wait)
	}
	if v.Retries == nil || *v.Retries != 3 {
		t.Errorf("Retries = %v", v.Retries)
	}
	if v.Inner.Limit != 25 {
		t.Errorf("Inner.Limit = %d", v.Inner.Limit)
	}
	if v.Items[0].Limit != 25 {
		t.Errorf("Items[0].Limit = %d", v.Items[0].Limit)
	}
	if v.Items[1].Limit != 7 {
		t.Errorf("Items[1].Limit = %d, want the explicit value kept", v.Items[1].Limit)
	}
	if v.ByKey["a"].Limit != 25 {
		t.Errorf("ByKey[a].Limit = %d", v.ByKey["a"].Limit)
	}
	if v.Explicit != "kept" {
		t.Errorf("Explicit = %q, want the explicit value kept", v.Explicit)
	}
}

func TestApplyDefaultsRequiresPointer(t *testing.T) {
	if err := ApplyDefaults(defaultsOuter{}); err == nil {
		t.Fatal("expected error for non-pointer")
	}
	if err := ApplyDefaults(nil); err == nil {
		t.Fatal("expected error for nil")
	}
}

func TestApplyDefaultsBadTag(t *testing.T) {
	type bad struct {
		N int `default:"not-a-number"`
	}
	var v bad
	if err := ApplyDefaults(&v); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyDefaultsNonStructIsNoop(t *testing.T) {
	n := 5
	if err := ApplyDefaults(&n); err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("n = %d", n)
	}
}
