package codegen

import (
	"github.com/rs/zerolog"

	"github.com/conanfanli/py2ts/internal/graph"
	"github.com/conanfanli/py2ts/internal/render"
	"github.com/conanfanli/py2ts/internal/schema"
	"github.com/conanfanli/py2ts/internal/shape"
)

// Translator composes schema discovery with a renderer
type Translator struct {
	// Classifier maps declared types to shapes; nil selects the default table
	Classifier *shape.Classifier
	// Symbols resolves forward references; nil leaves them unresolved
	Symbols *schema.SymbolTable
	Logger  zerolog.Logger
}

// Result is the outcome of one translation run
type Result struct {
	Graph        *graph.Graph
	Declarations []render.Declaration
}

// NewTranslator creates a translator with the default classifier, no
// forward-reference resolution and no logging
func NewTranslator() *Translator {
	return &Translator{Logger: zerolog.Nop()}
}

// Translate renders the dependency closure of roots with the default translator
func Translate(roots []schema.Declaration, r render.Renderer) ([]render.Declaration, error) {
	res, err := NewTranslator().Translate(roots, r)
	if err != nil {
		return nil, err
	}
	return res.Declarations, nil
}

// Translate discovers the closure of roots and renders every node in
// discovery order. Companion declarations are emitted once, immediately
// before the first node that needs them. Any error aborts the run.
func (t *Translator) Translate(roots []schema.Declaration, r render.Renderer) (*Result, error) {
	traverser := graph.NewTraverser(t.Classifier)
	traverser.Symbols = t.Symbols
	traverser.Logger = t.Logger

	g, err := traverser.Discover(roots)
	if err != nil {
		return nil, err
	}

	companions, hasCompanions := r.(render.CompanionRenderer)
	emitted := make(map[string]bool)
	decls := make([]render.Declaration, 0, g.Len())

	for _, node := range g.Nodes() {
		if hasCompanions {
			extra, err := companions.RenderCompanions(node)
			if err != nil {
				return nil, err
			}
			for _, d := range extra {
				if emitted[d.Name] {
					continue
				}
				emitted[d.Name] = true
				decls = append(decls, d)
			}
		}

		text, err := r.RenderNode(node)
		if err != nil {
			return nil, err
		}
		decls = append(decls, render.Declaration{Name: node.Name, Text: text})

		t.Logger.Debug().
			Str("profile", r.Name()).
			Str("schema", node.Name).
			Str("kind", node.Kind.String()).
			Msg("rendered declaration")
	}

	return &Result{Graph: g, Declarations: decls}, nil
}
