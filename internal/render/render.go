// Package render defines the contract every target renderer implements and
// the helpers they share.
package render

import (
	"github.com/conanfanli/py2ts/internal/graph"
	"github.com/conanfanli/py2ts/internal/shape"
)

// Renderer maps shapes and nodes onto one target type system.
// Implementations hold only immutable configuration.
type Renderer interface {
	// Name returns the profile name, e.g. "typescript"
	Name() string

	// FileExtension returns the extension of generated files, e.g. ".ts"
	FileExtension() string

	// CommentPrefix returns the target's line comment token, e.g. "//"
	CommentPrefix() string

	RenderPrimitive(kind shape.Kind) string
	RenderReference(qualifiedName string) string
	RenderNode(node *graph.Node) (string, error)
}

// Declaration is one rendered block of target source
type Declaration struct {
	Name string
	Text string
	// Synthetic marks declarations the renderer synthesized, such as
	// union backing types, rather than translated from a schema
	Synthetic bool
}

// CompanionRenderer is implemented by renderers that synthesize extra
// declarations a node depends on
type CompanionRenderer interface {
	RenderCompanions(node *graph.Node) ([]Declaration, error)
}

// Preambler is implemented by renderers whose files need a header such as imports
type Preambler interface {
	Preamble(g *graph.Graph) string
}

// Validator is implemented by renderers able to check assembled output
type Validator interface {
	Validate(g *graph.Graph, output []byte) error
}

// Options configures a renderer instance
type Options struct {
	// Qualifier prefixes target library names, e.g. "graphene."
	Qualifier string
	// NullDistinct lists primitive kinds whose optional fields also admit null
	NullDistinct []string
	// TypeOverrides replaces primitive mappings, keyed by kind name
	TypeOverrides map[string]string
	// EmitUnions controls synthesized union declarations; nil means enabled
	EmitUnions *bool
	// Package names the target package or module where the target has one
	Package string
}

// UnionsEnabled reports whether union backing declarations should be emitted
func (o Options) UnionsEnabled() bool {
	return o.EmitUnions == nil || *o.EmitUnions
}

// NullDistinctKinds parses NullDistinct
func (o Options) NullDistinctKinds() (map[shape.Kind]bool, error) {
	kinds := make(map[shape.Kind]bool, len(o.NullDistinct))
	for _, name := range o.NullDistinct {
		k, err := shape.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds[k] = true
	}
	return kinds, nil
}
