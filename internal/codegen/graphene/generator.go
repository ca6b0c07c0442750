// Package graphene renders schemas as graphene (Python GraphQL) object types.
package graphene

import (
	"strings"

	"github.com/conanfanli/py2ts/internal/codegen/writer"
	"github.com/conanfanli/py2ts/internal/graph"
	"github.com/conanfanli/py2ts/internal/render"
	"github.com/conanfanli/py2ts/internal/shape"
)

// Generator renders graphene ObjectType and Enum classes. Unions are named
// by render.UnionName and, unless disabled, backed by a synthesized Union class.
type Generator struct {
	qualifier  string
	primitives render.PrimitiveTable
	emitUnions bool
}

// DefaultPrimitives is the unqualified graphene spelling of every primitive kind
func DefaultPrimitives() render.PrimitiveTable {
	return render.NewPrimitiveTable(
		"String",     // string
		"Boolean",    // boolean
		"Int",        // integer
		"String",     // decimal
		"Float",      // float
		"String",     // date
		"String",     // datetime
		"ObjectType", // dict
		"ObjectType", // any
		"List",       // untyped-list
	)
}

// NewGenerator creates a generator with unqualified names and union declarations enabled
func NewGenerator() *Generator {
	return &Generator{primitives: DefaultPrimitives(), emitUnions: true}
}

// New creates a generator configured from opts. Overrides are applied
// before the qualifier.
func New(opts render.Options) (*Generator, error) {
	primitives, err := DefaultPrimitives().With(opts.TypeOverrides)
	if err != nil {
		return nil, err
	}
	return &Generator{
		qualifier:  opts.Qualifier,
		primitives: primitives.Prefixed(opts.Qualifier),
		emitUnions: opts.UnionsEnabled(),
	}, nil
}

// Name returns the profile name
func (g *Generator) Name() string { return "graphene" }

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string { return ".py" }

// CommentPrefix returns the line comment token
func (g *Generator) CommentPrefix() string { return "#" }

// RenderPrimitive returns the graphene type for a primitive kind
func (g *Generator) RenderPrimitive(kind shape.Kind) string {
	return g.primitives.Lookup(kind)
}

// RenderReference returns the bare referenced class name
func (g *Generator) RenderReference(qualifiedName string) string {
	return render.BareName(qualifiedName)
}

// Preamble imports the graphene names the generated classes use
func (g *Generator) Preamble(_ *graph.Graph) string {
	if g.qualifier != "" {
		return "import " + strings.TrimSuffix(g.qualifier, ".")
	}
	return "from graphene import Boolean, Enum, Field, Float, Int, List, ObjectType, String, Union"
}

// RenderNode renders a record as an ObjectType class and an enum as an Enum class
func (g *Generator) RenderNode(node *graph.Node) (string, error) {
	w := writer.NewWriter("    ")

	if node.Kind == graph.EnumNode {
		w.WriteLinef("class %s(%sEnum):", node.ShortName(), g.qualifier)
		w.Indent()
		for _, m := range node.Enum.Members {
			w.WriteLinef("%s = '%s'", m, m)
		}
		if len(node.Enum.Members) == 0 {
			w.WriteLine("pass")
		}
		return w.Text(), nil
	}

	lines := make([]string, 0, len(node.Fields))
	for _, f := range node.Fields {
		line, err := g.fieldLine(f)
		if err != nil {
			return "", shape.WithContext(err, node.Name, f.Name)
		}
		lines = append(lines, line)
	}

	w.WriteLinef("class %s(%sObjectType):", node.ShortName(), g.qualifier)
	w.Indent()
	for _, line := range lines {
		w.WriteLine(line)
	}
	if len(lines) == 0 {
		w.WriteLine("pass")
	}
	return w.Text(), nil
}

// fieldLine renders `name = Field(T, required=<bool>)`. A field is
// required unless its shape is Optional or it declares a default.
func (g *Generator) fieldLine(f graph.FieldShape) (string, error) {
	s := f.Shape
	required := !f.HasDefault
	if o, ok := s.(shape.Optional); ok {
		s = o.Inner
		required = false
	}

	typ, err := shape.Visit[string](s, typeExpr{g})
	if err != nil {
		return "", err
	}

	flag := "False"
	if required {
		flag = "True"
	}
	return f.Name + " = " + g.qualifier + "Field(" + typ + ", required=" + flag + ")", nil
}

// RenderCompanions synthesizes one Union class per distinct union in the
// node's fields, in field order. graphene unions hold object types only, so a
// union with a primitive, enum or list member keeps its name-only reference
// and gets no class.
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

			members, ok := g.objectMembers(u)
			if !ok {
				continue
			}
			decls = append(decls, render.Declaration{Name: name, Text: g.unionClass(name, members), Synthetic: true})
		}
	}
	return decls, nil
}

// objectMembers returns the class names of u's members, or false when any
// member is not a record. Forward members use the bare name; Meta.types is
// read after the module has loaded.
func (g *Generator) objectMembers(u shape.Union) ([]string, bool) {
	members := make([]string, len(u.Members))
	for i, m := range u.Members {
		switch v := m.(type) {
		case shape.RecordRef:
			members[i] = g.RenderReference(v.Name())
		case shape.ForwardRef:
			members[i] = g.RenderReference(v.Name)
		default:
			return nil, false
		}
	}
	return members, true
}

func (g *Generator) unionClass(name string, members []string) string {
	types := strings.Join(members, ", ")
	if len(members) == 1 {
		types += ","
	}

	w := writer.NewWriter("    ")
	w.WriteLinef("class %s(%sUnion):", name, g.qualifier)
	w.Indent()
	w.WriteLine("class Meta:")
	w.Indent()
	w.WriteLinef("types = (%s)", types)
	return w.Text()
}

type typeExpr struct {
	g *Generator
}

func (t typeExpr) VisitPrimitive(p shape.Primitive) (string, error) {
	return t.g.RenderPrimitive(p.Kind), nil
}

// VisitOptional renders the inner type; graphene list items and union
// members are nullable already
func (t typeExpr) VisitOptional(o shape.Optional) (string, error) {
	return shape.Visit[string](o.Inner, t)
}

func (t typeExpr) VisitList(l shape.List) (string, error) {
	elem, err := shape.Visit[string](l.Elem, t)
	if err != nil {
		return "", err
	}
	return t.g.qualifier + "List(" + elem + ")", nil
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

// VisitForward defers name lookup so a class can reference itself or a
// class declared later in the module
func (t typeExpr) VisitForward(f shape.ForwardRef) (string, error) {
	return "lambda: " + t.g.RenderReference(f.Name), nil
}
