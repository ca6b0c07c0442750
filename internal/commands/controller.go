// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/conanfanli/py2ts/internal/codegen"
	"github.com/conanfanli/py2ts/internal/config"
)

// Flags holds the global and per-command flag values
type Flags struct {
	LogLevel string

	// Config is an explicit config file; empty searches upward from the working directory
	Config   string
	Manifest string
	Profile  string
	Output   string
	Roots    []string
	Stdout   bool
	Force    bool
}

// ConfigLoader locates the project configuration
type ConfigLoader interface {
	LoadConfig() (*config.Config, string, error)
	LoadConfigFromPath(path string) (*config.Config, error)
}

type defaultConfigLoader struct{}

func (l *defaultConfigLoader) LoadConfig() (*config.Config, string, error) {
	return config.LoadConfig()
}

func (l *defaultConfigLoader) LoadConfigFromPath(path string) (*config.Config, error) {
	return config.LoadConfigFromPath(path)
}

type Controller struct {
	Flags *Flags

	// Registry defaults to codegen.DefaultRegistry
	Registry *codegen.Registry
	// Out receives command output; defaults to stdout
	Out io.Writer
}

func (c *Controller) registry() *codegen.Registry {
	if c.Registry != nil {
		return c.Registry
	}
	return codegen.DefaultRegistry
}

func (c *Controller) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

// Translate generates the target file for the configured profile
func (c *Controller) Translate(ctx context.Context) error {
	cmd := NewTranslateCommand(c.Flags, c.registry(), c.out())
	_, err := cmd.Execute(ctx)
	return err
}

// Watch regenerates the target file whenever the manifest changes
func (c *Controller) Watch(ctx context.Context) error {
	translate := NewTranslateCommand(c.Flags, c.registry(), c.out())
	return NewWatchCommand(translate).Execute(ctx)
}

// Init writes a new py2ts.yaml and a starter manifest
func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand(c.registry())
	cmd.force = c.Flags.Force
	return cmd.Run(ctx)
}

// Profiles lists the registered renderer profiles
func (c *Controller) Profiles(ctx context.Context) error {
	log.Debug().Int("count", len(c.registry().Profiles())).Msg("listing profiles")
	return writeProfiles(c.out(), c.registry())
}
