package commands

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/conanfanli/py2ts/internal/codegen"
	"github.com/conanfanli/py2ts/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

const starterManifest = "templates/schemas.yaml"

type InitOptions struct {
	Manifest string
	Profile  string
	Output   string
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

type InitCommand struct {
	registry    *codegen.Registry
	filesystem  FileSystem
	templatesFS fs.FS
	// dir receives py2ts.yaml; empty means the working directory
	dir   string
	force bool
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand(registry *codegen.Registry) *InitCommand {
	return &InitCommand{
		registry:    registry,
		filesystem:  &osFileSystem{},
		templatesFS: templatesFS,
	}
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	configPath := filepath.Join(ic.dir, config.FileName)
	if _, err := ic.filesystem.Stat(configPath); err == nil && !ic.force {
		return errors.WithHint(
			errors.Newf("%s already exists", configPath),
			"pass --force to overwrite it",
		)
	}

	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return errors.Wrap(err, "failed to get init options")
		}
	}

	cfg := config.Default()
	cfg.Manifest = options.Manifest
	cfg.Profile = options.Profile
	cfg.Output = options.Output
	if err := cfg.Validate(ic.registry.Profiles()); err != nil {
		return err
	}

	if err := ic.filesystem.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := ic.filesystem.WriteFile(configPath, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	log.Info().Str("path", configPath).Str("profile", cfg.Profile).Msg("wrote config")

	created, err := ic.ensureManifest(config.ResolvePath(ic.dir, cfg.Manifest))
	if err != nil {
		return errors.Wrap(err, "failed to write starter manifest")
	}

	fmt.Printf("✅ Created %s\n", configPath)
	if created {
		fmt.Printf("📝 Wrote starter manifest %s\n", cfg.Manifest)
	}
	return nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{
		Manifest: config.DefaultManifest,
		Profile:  config.DefaultProfile,
	}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	profiles := make([]huh.Option[string], 0, len(ic.registry.Profiles()))
	for _, name := range ic.registry.Profiles() {
		profiles = append(profiles, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Manifest").
				Description("YAML or JSON file listing your schemas").
				Value(&options.Manifest).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("manifest path cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Profile").
				Description("Target type system").
				Options(profiles...).
				Value(&options.Profile),

			huh.NewInput().
				Title("Output").
				Description("Generated file; leave empty for generated/schemas plus the profile extension").
				Value(&options.Output),
		),
	)
}

// ensureManifest writes the starter manifest when path does not exist yet
func (ic *InitCommand) ensureManifest(path string) (bool, error) {
	if _, err := ic.filesystem.Stat(path); err == nil {
		return false, nil
	}

	data, err := fs.ReadFile(ic.templatesFS, starterManifest)
	if err != nil {
		return false, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := ic.filesystem.MkdirAll(dir, 0755); err != nil {
			return false, err
		}
	}
	if err := ic.filesystem.WriteFile(path, data, 0644); err != nil {
		return false, err
	}
	return true, nil
}
