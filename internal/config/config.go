package config

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/conanfanli/py2ts/internal/render"
	"github.com/conanfanli/py2ts/internal/shape"
)

const (
	// FileName is the preferred configuration file
	FileName = "py2ts.yaml"
	// JSONFileName is accepted when no FileName exists in a directory
	JSONFileName = "py2ts.json"

	DefaultManifest = "schemas.yaml"
	DefaultProfile  = "typescript"

	defaultOutputBase = "generated/schemas"
)

// ErrNotFound is returned when no configuration file exists up the tree
var ErrNotFound = errors.New("config not found")

// Config represents the py2ts.yaml configuration file
type Config struct {
	Manifest string   `yaml:"manifest"`
	Profile  string   `yaml:"profile"`
	Output   string   `yaml:"output,omitempty"`
	Roots    []string `yaml:"roots,omitempty"`

	ResolveForwardRefs *bool `yaml:"resolve_forward_refs,omitempty"`
	Banner             *bool `yaml:"banner,omitempty"`

	Profiles map[string]ProfileConfig `yaml:"profiles,omitempty"`
	Watch    WatchConfig              `yaml:"watch,omitempty"`
}

// ProfileConfig contains per-profile renderer options
type ProfileConfig struct {
	Qualifier     string            `yaml:"qualifier,omitempty"`
	NullDistinct  []string          `yaml:"null_distinct,omitempty"`
	TypeOverrides map[string]string `yaml:"type_overrides,omitempty"`
	EmitUnions    *bool             `yaml:"emit_unions,omitempty"`
	Package       string            `yaml:"package,omitempty"`
}

// WatchConfig contains watch mode configuration
type WatchConfig struct {
	Patterns []string `yaml:"patterns,omitempty"`
	Exclude  []string `yaml:"exclude,omitempty"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig loads py2ts.yaml from the current directory or a parent directory.
// It returns the config and the directory containing it.
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to get current directory")
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads a YAML or JSON configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
	if c.Profile == "" {
		c.Profile = DefaultProfile
	}
	if len(c.Watch.Patterns) == 0 {
		c.Watch.Patterns = []string{"*.yaml", "*.yml", "*.json", "**/*.yaml", "**/*.yml", "**/*.json"}
	}
	if len(c.Watch.Exclude) == 0 {
		c.Watch.Exclude = []string{"generated/", "node_modules/", ".git/"}
	}
}

// loadConfigFromDir searches for py2ts.yaml or py2ts.json in the given
// directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range []string{FileName, JSONFileName} {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				config, err := LoadConfigFromPath(configPath)
				if err != nil {
					return nil, "", err
				}
				return config, dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", errors.WithHint(
		errors.Wrapf(ErrNotFound, "no %s found in %s or any parent directory", FileName, startDir),
		"run `py2ts init` to create one, or pass --manifest",
	)
}

// OutputPath returns the configured output file, defaulting to
// generated/schemas plus the profile's extension
func (c *Config) OutputPath(extension string) string {
	if c.Output != "" {
		return c.Output
	}
	return defaultOutputBase + extension
}

// ResolveForwardRefsEnabled reports whether forward references are looked
// up in the manifest. Defaults to true.
func (c *Config) ResolveForwardRefsEnabled() bool {
	return c.ResolveForwardRefs == nil || *c.ResolveForwardRefs
}

// BannerEnabled reports whether generated files carry a banner. Defaults to true.
func (c *Config) BannerEnabled() bool {
	return c.Banner == nil || *c.Banner
}

// ProfileOptions returns the renderer options configured for a profile
func (c *Config) ProfileOptions(profile string) render.Options {
	p := c.Profiles[profile]
	return render.Options{
		Qualifier:     p.Qualifier,
		NullDistinct:  p.NullDistinct,
		TypeOverrides: p.TypeOverrides,
		EmitUnions:    p.EmitUnions,
		Package:       p.Package,
	}
}

// Validate checks the configuration against the known renderer profiles
func (c *Config) Validate(profiles []string) error {
	if c.Manifest == "" {
		return errors.New("manifest path is empty")
	}
	if !slices.Contains(profiles, c.Profile) {
		return errors.WithHint(
			errors.Newf("unknown profile %q", c.Profile),
			"run `py2ts profiles` to list the available profiles",
		)
	}

	for name, p := range c.Profiles {
		if !slices.Contains(profiles, name) {
			return errors.Newf("profiles.%s: unknown profile", name)
		}
		for _, kind := range p.NullDistinct {
			if _, err := shape.ParseKind(kind); err != nil {
				return errors.Wrapf(err, "profiles.%s.null_distinct", name)
			}
		}
		for kind := range p.TypeOverrides {
			if _, err := shape.ParseKind(kind); err != nil {
				return errors.Wrapf(err, "profiles.%s.type_overrides", name)
			}
		}
	}
	return nil
}

// Marshal encodes the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, "failed to encode config")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to encode config")
	}
	return buf.Bytes(), nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// ResolvePath resolves p against the directory holding the config
func ResolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}
