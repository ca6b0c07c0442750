package codegen

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/conanfanli/py2ts/internal/render"
)

// Factory builds a renderer configured from profile options
type Factory func(opts render.Options) (render.Renderer, error)

// Registry manages available renderer profiles
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a new renderer registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a renderer factory under a profile name
func (r *Registry) Register(profile string, factory Factory) {
	r.factories[profile] = factory
}

// Has reports whether a profile is registered
func (r *Registry) Has(profile string) bool {
	_, ok := r.factories[profile]
	return ok
}

// Get returns a renderer for the profile configured with opts
func (r *Registry) Get(profile string, opts render.Options) (render.Renderer, error) {
	factory, exists := r.factories[profile]
	if !exists {
		return nil, errors.WithHint(
			errors.Newf("unsupported profile: %s", profile),
			"available profiles: "+strings.Join(r.Profiles(), ", "),
		)
	}

	renderer, err := factory(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to configure %s profile", profile)
	}
	return renderer, nil
}

// Profiles returns the registered profile names in sorted order
func (r *Registry) Profiles() []string {
	profiles := make([]string, 0, len(r.factories))
	for name := range r.factories {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}
