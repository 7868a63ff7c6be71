package golang

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dtoforge/dtoforge/dtogen/classify"
	"github.com/dtoforge/dtoforge/dtogen/ir"
	"github.com/dtoforge/dtoforge/dtogen/mapping"
)

type demoColor int

var demoColorMembers = []ir.EnumMember{
	{Name: "demoColorRed", Value: int64(0)},
	{Name: "demoColorBlue", Value: int64(1)},
}

type demoProfile struct {
	Bio string `json:"bio"`
}

type demoUser struct {
	Name string       `json:"name" validate:"required"`
	Age  int          `json:"age" default:"18"`
	Fav  demoColor    `json:"fav"`
	Prof *demoProfile `json:"profile"`
	Tags []string     `json:"tags"`
}

// demoFixture synthesizes mappings for a small service and returns the
// pieces file generation needs.
func demoFixture(t *testing.T) (*Emitter, []ir.ServiceInfo, *mapping.Registry) {
	t.Helper()
	c := classify.New(classify.WithEnumMembers(demoColor(0), demoColorMembers...))
	infoOf := func(v any) ir.TypeInfo { return c.InfoOf(reflect.TypeOf(v)) }

	services := []ir.ServiceInfo{{
		Name: "Users",
		Methods: []ir.MethodInfo{
			{
				Name: "Get", FullName: "Users.Get",
				Params:  []ir.ParamInfo{{Name: "req", Type: infoOf(demoUser{})}},
				Returns: infoOf(demoProfile{}),
			},
			{
				Name: "Delete", FullName: "Users.Delete",
				Params: []ir.ParamInfo{{Name: "req", Type: infoOf(demoProfile{})}},
			},
			{
				Name: "Watch", FullName: "Users.Watch",
				Params:    []ir.ParamInfo{{Name: "req", Type: infoOf(demoProfile{})}},
				Returns:   infoOf(demoUser{}),
				Streaming: true,
			},
		},
	}}

	emitter := NewEmitter("transport")
	synth := mapping.NewSynthesizer(mapping.NewRegistry(), emitter, c.ClassifyInfo)
	if _, err := synth.Synthesize(ir.RootTypes(services)...); err != nil {
		t.Fatal(err)
	}
	return emitter, services, synth.Registry()
}

func assertContains(t *testing.T, name, content string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(content, want) {
			t.Errorf("%s missing %q in:\n%s", name, want, content)
		}
	}
}

func TestTypesFile(t *testing.T) {
	emitter, _, _ := demoFixture(t)
	out, err := emitter.TypesFile()
	if err != nil {
		t.Fatal(err)
	}
	content := string(out)
	assertContains(t, "types.go", content,
		"// Code generated by dtoforge. DO NOT EDIT.",
		"package transport",
		"type DemoUserDTO struct {",
		"type DemoProfileDTO struct {",
		"Name string `json:\"name\" validate:\"required\"`",
		"Age int `json:\"age\" default:\"18\"`",
		"Fav string `json:\"fav\"`",
		"Prof *DemoProfileDTO `json:\"profile\"`",
		"Tags []string `json:\"tags\"`",
	)
}

func TestConvertFile(t *testing.T) {
	emitter, _, reg := demoFixture(t)
	out, err := emitter.ConvertFile(reg.Ordered())
	if err != nil {
		t.Fatal(err)
	}
	content := string(out)
	assertContains(t, "convert.go", content,
		"func DemoUserToDTO(in ",
		"func DemoUserFromDTO(in DemoUserDTO)",
		"DemoUserDTO{",
		"Name: in.Name",
		"Fav: demoColorToName(in.Fav)",
		"Tags: in.Tags",
		"dtoforge.MapPtr(in.Prof",
		"func demoColorToName(v ",
		"func demoColorFromName(s string)",
		"case \"demoColorBlue\":",
	)
}

func TestServerFile(t *testing.T) {
	emitter, services, reg := demoFixture(t)
	out, err := emitter.ServerFile(services, reg)
	if err != nil {
		t.Fatal(err)
	}
	content := string(out)
	assertContains(t, "server.go", content,
		"type UsersService interface {",
		"type UsersHandler struct {",
		"func NewUsersHandler(impl UsersService) *UsersHandler {",
		"mux.HandleFunc(\"POST /Users.Get\", h.handleGet)",
		"mux.HandleFunc(\"POST /Users.Delete\", h.handleDelete)",
		"dtoforge.DecodeRequest[DemoUserDTO](r)",
		"dtoforge.WriteError(w, dtoforge.Invalid(err))",
		"res, err := h.impl.Get(r.Context(), req)",
		"dtoforge.WriteJSON(w, http.StatusOK, DemoProfileToDTO(res))",
		"w.WriteHeader(http.StatusNoContent)",
	)
	if strings.Contains(content, "Watch") {
		t.Error("streaming method leaked into server bindings")
	}
}

func TestClientFile(t *testing.T) {
	emitter, services, reg := demoFixture(t)
	out, err := emitter.ClientFile(services, reg)
	if err != nil {
		t.Fatal(err)
	}
	content := string(out)
	assertContains(t, "client.go", content,
		"type UsersClient struct {",
		"func NewUsersClient(base string, hc *http.Client) *UsersClient {",
		"dto := DemoUserToDTO(req)",
		"body, err := dtoforge.EncodeJSON(dto)",
		"dtoforge.Post(ctx, c.hc, c.base, \"Users.Get\", body)",
		"resDTO, err := dtoforge.DecodeJSON[DemoProfileDTO](data)",
		"return DemoProfileFromDTO(resDTO), nil",
	)
	if strings.Contains(content, "Watch") {
		t.Error("streaming method leaked into client bindings")
	}
}

func TestCreateTransportTypeCollision(t *testing.T) {
	e := NewEmitter("transport")
	a, err := e.CreateTransportType("User", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.CreateTransportType("User", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if a.Key() != "UserDTO" || b.Key() != "UserDTO2" {
		t.Errorf("names = %q, %q", a.Key(), b.Key())
	}
}

func TestCreateTransportTypeRequiresName(t *testing.T) {
	e := NewEmitter("transport")
	if _, err := e.CreateTransportType("", nil, ""); err == nil {
		t.Fatal("expected error for empty name")
	}
}
