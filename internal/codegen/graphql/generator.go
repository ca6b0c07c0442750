// Package graphql renders schemas as GraphQL SDL type definitions.
package graphql

import (
	"github.com/cockroachdb/errors"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astparser"

	"github.com/conanfanli/py2ts/internal/codegen/writer"
	"github.com/conanfanli/py2ts/internal/graph"
	"github.com/conanfanli/py2ts/internal/render"
	"github.com/conanfanli/py2ts/internal/shape"
)

// jsonScalar backs the opaque primitive kinds
const jsonScalar = "JSON"

// Generator renders SDL object types, enums and unions
type Generator struct {
	primitives render.PrimitiveTable
	emitUnions bool
}

// DefaultPrimitives is the SDL spelling of every primitive kind
func DefaultPrimitives() render.PrimitiveTable {
	return render.NewPrimitiveTable(
		"String",   // string
		"Boolean",  // boolean
		"Int",      // integer
		"String",   // decimal
		"Float",    // float
		"String",   // date
		"String",   // datetime
		jsonScalar, // dict
		jsonScalar, // any
		"[JSON]",   // untyped-list
	)
}

// NewGenerator creates an SDL generator with the default mapping
func NewGenerator() *Generator {
	return &Generator{primitives: DefaultPrimitives(), emitUnions: true}
}

// New creates an SDL generator configured from opts
func New(opts render.Options) (*Generator, error) {
	primitives, err := DefaultPrimitives().With(opts.TypeOverrides)
	if err != nil {
		return nil, err
	}
	return &Generator{primitives: primitives, emitUnions: opts.UnionsEnabled()}, nil
}

func (g *Generator) Name() string          { return "graphql" }
func (g *Generator) FileExtension() string { return ".graphql" }
func (g *Generator) CommentPrefix() string { return "#" }

func (g *Generator) RenderPrimitive(kind shape.Kind) string {
	return g.primitives.Lookup(kind)
}

func (g *Generator) RenderReference(qualifiedName string) string {
	return render.BareName(qualifiedName)
}

// Preamble declares the JSON scalar when an opaque primitive is used
func (g *Generator) Preamble(gr *graph.Graph) string {
	used := render.UsedKinds(gr)
	for k := range used {
		if g.primitives.Lookup(k) == jsonScalar || g.primitives.Lookup(k) == "["+jsonScalar+"]" {
			return "scalar " + jsonScalar
		}
	}
	return ""
}

// RenderNode renders `type Name { field: T! }` or `enum Name { MEMBER }`
func (g *Generator) RenderNode(node *graph.Node) (string, error) {
	w := writer.NewWriter("  ")

	if node.Kind == graph.EnumNode {
		if len(node.Enum.Members) == 0 {
			w.WriteLinef("enum %s", node.ShortName())
			return w.Text(), nil
		}
		w.WriteBlock("enum "+node.ShortName()+" {", "}", func() {
			for _, m := range node.Enum.Members {
				w.WriteLine(m)
			}
		})
		return w.Text(), nil
	}

	lines := make([]string, 0, len(node.Fields))
	for _, f := range node.Fields {
		s := f.Shape
		required := !f.HasDefault
		if o, ok := s.(shape.Optional); ok {
			s = o.Inner
			required = false
		}
		typ, err := shape.Visit[string](s, typeExpr{g})
		if err != nil {
			return "", shape.WithContext(err, node.Name, f.Name)
		}
		if required {
			typ += "!"
		}
		lines = append(lines, f.Name+": "+typ)
	}

	if len(lines) == 0 {
		w.WriteLinef("type %s", node.ShortName())
		return w.Text(), nil
	}
	w.WriteBlock("type "+node.ShortName()+" {", "}", func() {
		for _, line := range lines {
			w.WriteLine(line)
		}
	})
	return w.Text(), nil
}

// RenderCompanions declares `union UnionX = A | B` for every union in the
// node's fields. SDL unions may only contain object types.
func (g *Generator) RenderCompanions(node *graph.Node) ([]render.Declaration, error) {
	if !g.emitUnions || node.Kind != graph.RecordNode {
		return nil, nil
	}

	var decls []render.Declaration
	seen := make(map[string]bool)
	for _, f := range node.Fields {
		for _, u := range render.Unions(f.Shape) {
			name := render.UnionName(u)
			if seen[name] {
				continue
			}
			seen[name] = true

			members := make([]string, len(u.Members))
			for i, m := range u.Members {
				switch v := m.(type) {
				case shape.RecordRef:
					members[i] = g.RenderReference(v.Name())
				case shape.ForwardRef:
					members[i] = g.RenderReference(v.Name)
				default:
					return nil, &shape.UnsupportedTypeError{
						Record: node.Name,
						Field:  f.Name,
						Type:   shape.Describe(u),
						Reason: "GraphQL unions may only contain object types",
					}
				}
			}

			w := writer.NewWriter("  ")
			w.Writef("union %s = ", name)
			for i, m := range members {
				if i > 0 {
					w.Write(" | ")
				}
				w.Write(m)
			}
			decls = append(decls, render.Declaration{Name: name, Text: w.Text(), Synthetic: true})
		}
	}
	return decls, nil
}

// Validate parses the assembled document and checks that every node was
// declared exactly once
func (g *Generator) Validate(gr *graph.Graph, output []byte) error {
	doc, report := astparser.ParseGraphqlDocumentString(string(output))
	if report.HasErrors() {
		return errors.Wrap(errors.New(report.Error()), "generated GraphQL does not parse")
	}

	declared := make(map[string]int)
	for i := range doc.RootNodes {
		root := doc.RootNodes[i]
		switch root.Kind {
		case ast.NodeKindObjectTypeDefinition:
			declared[doc.Input.ByteSliceString(doc.ObjectTypeDefinitions[root.Ref].Name)]++
		case ast.NodeKindEnumTypeDefinition:
			declared[doc.Input.ByteSliceString(doc.EnumTypeDefinitions[root.Ref].Name)]++
		}
	}

	for _, n := range gr.Nodes() {
		switch declared[n.ShortName()] {
		case 0:
			return errors.Newf("generated GraphQL is missing %s", n.ShortName())
		case 1:
		default:
			return errors.WithHint(
				errors.Newf("generated GraphQL declares %s more than once", n.ShortName()),
				"schemas from different modules share a short name; SDL has a single namespace",
			)
		}
	}
	return nil
}

type typeExpr struct {
	g *Generator
}

func (t typeExpr) VisitPrimitive(p shape.Primitive) (string, error) {
	return t.g.RenderPrimitive(p.Kind), nil
}

func (t typeExpr) VisitOptional(o shape.Optional) (string, error) {
	return shape.Visit[string](o.Inner, t)
}

// VisitList renders `[T!]`, or `[T]` when the element is optional
func (t typeExpr) VisitList(l shape.List) (string, error) {
	if o, ok := l.Elem.(shape.Optional); ok {
		elem, err := shape.Visit[string](o.Inner, t)
		return "[" + elem + "]", err
	}
	elem, err := shape.Visit[string](l.Elem, t)
	return "[" + elem + "!]", err
}

func (t typeExpr) VisitUnion(u shape.Union) (string, error) {
	return render.UnionName(u), nil
}

func (t typeExpr) VisitRecord(r shape.RecordRef) (string, error) {
	return t.g.RenderReference(r.Name()), nil
}

func (t typeExpr) VisitEnum(e shape.EnumRef) (string, error) {
	return t.g.RenderReference(e.Name()), nil
}

func (t typeExpr) VisitForward(f shape.ForwardRef) (string, error) {
	return t.g.RenderReference(f.Name), nil
}
