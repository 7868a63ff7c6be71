package dtogen_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dtoforge/dtoforge/dtogen"
	"github.com/dtoforge/dtoforge/dtogen/provider"
	"github.com/dtoforge/dtoforge/dtogen/sink"
)

type note struct {
	Title string   `json:"title" validate:"required"`
	Tags  []string `json:"tags"`
	Stars *int     `json:"stars"`
}

type noteList struct {
	Notes []note `json:"notes"`
}

type notebook struct{}

func (notebook) Add(ctx context.Context, req note) (noteList, error) { return noteList{}, nil }

func (notebook) Clear(ctx context.Context, req note) error { return nil }

func TestGenerateWritesAllFiles(t *testing.T) {
	out := sink.NewMemorySink()
	err := dtogen.Generate(context.Background(), dtogen.Config{
		Package:     "transport",
		Entrypoints: []provider.Entrypoint{{Impl: notebook{}}},
		Sink:        out,
	})
	if err != nil {
		t.Fatal(err)
	}

	files := out.Files()
	for _, name := range []string{"types.go", "convert.go", "server.go", "client.go"} {
		content, ok := files[name]
		if !ok {
			t.Errorf("%s not written", name)
			continue
		}
		if !strings.HasPrefix(string(content), "// Code generated by dtoforge. DO NOT EDIT.") {
			t.Errorf("%s missing generated header", name)
		}
	}

	types := string(files["types.go"])
	for _, want := range []string{"type NoteDTO struct {", "type NoteListDTO struct {"} {
		if !strings.Contains(types, want) {
			t.Errorf("types.go missing %q", want)
		}
	}

	server := string(files["server.go"])
	for _, want := range []string{
		"type NotebookService interface {",
		"mux.HandleFunc(\"POST /notebook.Add\", h.handleAdd)",
		"w.WriteHeader(http.StatusNoContent)",
	} {
		if !strings.Contains(server, want) {
			t.Errorf("server.go missing %q", want)
		}
	}

	client := string(files["client.go"])
	if !strings.Contains(client, "dtoforge.Post(ctx, c.hc, c.base, \"notebook.Add\", body)") {
		t.Errorf("client.go missing the Add call:\n%s", client)
	}
}

func TestGenerateRequiresEntrypoints(t *testing.T) {
	err := dtogen.Generate(context.Background(), dtogen.Config{Sink: sink.NewMemorySink()})
	if err == nil {
		t.Fatal("expected error without entrypoints")
	}
}

func TestGenerateRequiresDestination(t *testing.T) {
	err := dtogen.Generate(context.Background(), dtogen.Config{
		Entrypoints: []provider.Entrypoint{{Impl: notebook{}}},
	})
	if err == nil {
		t.Fatal("expected error without OutDir or Sink")
	}
}
