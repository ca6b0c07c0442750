package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/conanfanli/py2ts/internal/codegen"
	"github.com/conanfanli/py2ts/internal/config"
	"github.com/conanfanli/py2ts/internal/schema"
)

// Project is a loaded configuration and the directory its relative paths
// are resolved against
type Project struct {
	Config *config.Config
	Dir    string
}

// ManifestPath returns the absolute or working-directory relative manifest path
func (p *Project) ManifestPath() string {
	return config.ResolvePath(p.Dir, p.Config.Manifest)
}

// Outcome describes one translation run
type Outcome struct {
	Profile string
	// Count is the number of root schemas translated
	Count int
	// Output is the written file, empty when writing to stdout
	Output string
}

// TranslateCommand loads a manifest and generates the configured profile
type TranslateCommand struct {
	flags    *Flags
	registry *codegen.Registry
	loader   ConfigLoader
	out      io.Writer
}

// NewTranslateCommand creates a translate command with the default config loader
func NewTranslateCommand(flags *Flags, registry *codegen.Registry, out io.Writer) *TranslateCommand {
	if flags == nil {
		flags = &Flags{}
	}
	return &TranslateCommand{
		flags:    flags,
		registry: registry,
		loader:   &defaultConfigLoader{},
		out:      out,
	}
}

// WithConfigLoader allows injecting a custom config loader for testing
func (tc *TranslateCommand) WithConfigLoader(loader ConfigLoader) *TranslateCommand {
	tc.loader = loader
	return tc
}

// LoadProject resolves the configuration and applies flag overrides. Without
// a config file, an explicit --manifest runs with defaults.
func (tc *TranslateCommand) LoadProject() (*Project, error) {
	var (
		cfg *config.Config
		dir string
		err error
	)

	if tc.flags.Config != "" {
		cfg, err = tc.loader.LoadConfigFromPath(tc.flags.Config)
		dir = filepath.Dir(tc.flags.Config)
	} else {
		cfg, dir, err = tc.loader.LoadConfig()
		if errors.Is(err, config.ErrNotFound) && tc.flags.Manifest != "" {
			cfg, dir, err = config.Default(), "", nil
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load project config")
	}

	// Flag values are relative to the working directory
	if tc.flags.Manifest != "" {
		cfg.Manifest = tc.absolute(tc.flags.Manifest)
	}
	if tc.flags.Output != "" {
		cfg.Output = tc.absolute(tc.flags.Output)
	}
	if tc.flags.Profile != "" {
		cfg.Profile = tc.flags.Profile
	}
	if len(tc.flags.Roots) > 0 {
		cfg.Roots = tc.flags.Roots
	}

	if err := cfg.Validate(tc.registry.Profiles()); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &Project{Config: cfg, Dir: dir}, nil
}

func (tc *TranslateCommand) absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// Execute loads the project and generates its output
func (tc *TranslateCommand) Execute(ctx context.Context) (*Outcome, error) {
	project, err := tc.LoadProject()
	if err != nil {
		return nil, err
	}
	return tc.Generate(ctx, project)
}

// Generate translates the project's manifest and writes the result
func (tc *TranslateCommand) Generate(ctx context.Context, project *Project) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := project.Config
	manifestPath := project.ManifestPath()

	model, err := schema.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	roots, err := model.Roots(cfg.Roots)
	if err != nil {
		return nil, err
	}

	renderer, err := tc.registry.Get(cfg.Profile, cfg.ProfileOptions(cfg.Profile))
	if err != nil {
		return nil, err
	}

	translator := codegen.NewTranslator()
	translator.Logger = log.Logger
	if cfg.ResolveForwardRefsEnabled() {
		translator.Symbols = model.Symbols
	}

	output, err := translator.Generate(roots, renderer, codegen.Options{IncludeBanner: cfg.BannerEnabled()})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to translate %s", manifestPath)
	}

	outcome := &Outcome{Profile: cfg.Profile, Count: len(roots)}
	if tc.flags.Stdout {
		if _, err := tc.out.Write(output); err != nil {
			return nil, errors.Wrap(err, "failed to write output")
		}
		return outcome, nil
	}

	outputPath := config.ResolvePath(project.Dir, cfg.OutputPath(renderer.FileExtension()))
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}
	if err := os.WriteFile(outputPath, output, 0644); err != nil {
		return nil, errors.Wrap(err, "failed to write output")
	}
	outcome.Output = outputPath

	log.Info().
		Str("profile", cfg.Profile).
		Str("manifest", manifestPath).
		Int("count", len(roots)).
		Str("output", outputPath).
		Msg("generated schemas")
	fmt.Fprintf(tc.out, "✅ Generated %s\n", outputPath)
	return outcome, nil
}
