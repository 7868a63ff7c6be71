// Package dtogen generates transport bindings for domain services: it
// classifies the type graph reachable from service entrypoints,
// synthesizes bidirectional mappings in dependency order, and emits Go
// source for the transport types, conversions and HTTP bindings.
package dtogen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dtoforge/dtoforge/dtogen/classify"
	"github.com/dtoforge/dtoforge/dtogen/golang"
	"github.com/dtoforge/dtoforge/dtogen/ir"
	"github.com/dtoforge/dtoforge/dtogen/mapping"
	"github.com/dtoforge/dtoforge/dtogen/provider"
	"github.com/dtoforge/dtoforge/dtogen/sink"
)

// Config holds the configuration for a generation run.
type Config struct {
	// OutDir is the directory generated files are written to. Ignored
	// when Sink is set.
	OutDir string

	// Package is the package name of the generated files.
	// Default: "transport".
	Package string

	// Entrypoints are the domain services whose methods seed the type
	// graph. At least one is required.
	Entrypoints []provider.Entrypoint

	// EnumPackages are Go package patterns scanned for enum constant
	// groups, e.g. "./internal/model/...". Optional; without it enums
	// are only recognized through the Enumerator convention.
	EnumPackages []string

	// Sink overrides the output destination, e.g. a MemorySink for dry
	// runs.
	Sink sink.Sink

	// Logger receives generation diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// Generate runs one full generation pass: enum extraction,
// entrypoint inspection, mapping synthesis and file emission.
func Generate(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Entrypoints) == 0 {
		return fmt.Errorf("at least one entrypoint is required")
	}
	out := cfg.Sink
	if out == nil {
		if cfg.OutDir == "" {
			return fmt.Errorf("OutDir or Sink is required")
		}
		out = sink.NewFilesystemSink(cfg.OutDir)
	}
	pkg := cfg.Package
	if pkg == "" {
		pkg = "transport"
	}

	classifier := classify.New()
	if len(cfg.EnumPackages) > 0 {
		table, err := provider.LoadEnums(ctx, cfg.EnumPackages...)
		if err != nil {
			return fmt.Errorf("failed to load enums: %w", err)
		}
		logger.Debug("loaded enum table", slog.Int("enums", len(table)))
		classifier = classify.New(classify.WithEnumTable(table))
	}

	services, err := provider.Inspect(classifier, cfg.Entrypoints...)
	if err != nil {
		return fmt.Errorf("failed to inspect entrypoints: %w", err)
	}
	for _, svc := range services {
		for _, m := range svc.Methods {
			if m.Streaming {
				logger.Warn("streaming method has no HTTP binding",
					slog.String("method", m.FullName))
			}
		}
	}

	emitter := golang.NewEmitter(pkg)
	synth := mapping.NewSynthesizer(mapping.NewRegistry(), emitter, classifier.ClassifyInfo)
	mappings, err := synth.Synthesize(ir.RootTypes(services)...)
	if err != nil {
		return fmt.Errorf("failed to synthesize mappings: %w", err)
	}
	logger.Info("synthesized mappings",
		slog.Int("services", len(services)),
		slog.Int("mappings", len(mappings)),
		slog.Int("transport_types", emitter.Types()))

	files := map[string]func() ([]byte, error){
		"types.go":   emitter.TypesFile,
		"convert.go": func() ([]byte, error) { return emitter.ConvertFile(synth.Registry().Ordered()) },
		"server.go":  func() ([]byte, error) { return emitter.ServerFile(services, synth.Registry()) },
		"client.go":  func() ([]byte, error) { return emitter.ClientFile(services, synth.Registry()) },
	}
	for _, name := range []string{"types.go", "convert.go", "server.go", "client.go"} {
		content, err := files[name]()
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", name, err)
		}
		if err := out.WriteFile(ctx, name, content); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		logger.Debug("wrote file", slog.String("path", name), slog.Int("bytes", len(content)))
	}
	return nil
}
