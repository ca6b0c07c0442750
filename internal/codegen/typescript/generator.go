package typescript

import (
	"strings"

	"github.com/conanfanli/py2ts/internal/codegen/writer"
	"github.com/conanfanli/py2ts/internal/graph"
	"github.com/conanfanli/py2ts/internal/render"
	"github.com/conanfanli/py2ts/internal/shape"
)

// Generator renders schemas as TypeScript interfaces and enums
type Generator struct {
	primitives   render.PrimitiveTable
	nullDistinct map[shape.Kind]bool
}

// DefaultPrimitives is the TypeScript spelling of every primitive kind
func DefaultPrimitives() render.PrimitiveTable {
	return render.NewPrimitiveTable(
		"string",              // string
		"boolean",             // boolean
		"number",              // integer
		"string",              // decimal
		"number",              // float
		"string",              // date
		"string",              // datetime
		"Record<string, any>", // dict
		"any",                 // any
		"Array<any>",          // untyped-list
	)
}

// NewGenerator creates a TypeScript generator with the default mapping
func NewGenerator() *Generator {
	return &Generator{
		primitives:   DefaultPrimitives(),
		nullDistinct: map[shape.Kind]bool{},
	}
}

// New creates a TypeScript generator configured from opts
func New(opts render.Options) (*Generator, error) {
	primitives, err := DefaultPrimitives().With(opts.TypeOverrides)
	if err != nil {
		return nil, err
	}
	nullDistinct, err := opts.NullDistinctKinds()
	if err != nil {
		return nil, err
	}
	return &Generator{primitives: primitives, nullDistinct: nullDistinct}, nil
}

// Name returns the profile name
func (g *Generator) Name() string {
	return "typescript"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".ts"
}

// CommentPrefix returns the line comment token
func (g *Generator) CommentPrefix() string {
	return "//"
}

// RenderPrimitive returns the TypeScript type for a primitive kind
func (g *Generator) RenderPrimitive(kind shape.Kind) string {
	return g.primitives.Lookup(kind)
}

// RenderReference returns the bare referenced name
func (g *Generator) RenderReference(qualifiedName string) string {
	return render.BareName(qualifiedName)
}

// RenderNode renders an exported interface or enum
func (g *Generator) RenderNode(node *graph.Node) (string, error) {
	w := writer.NewWriter("  ")

	if node.Kind == graph.EnumNode {
		g.generateEnum(w, node)
		return w.Text(), nil
	}

	if err := g.generateInterface(w, node); err != nil {
		return "", err
	}
	return w.Text(), nil
}

// generateEnum writes `NAME = 'NAME'` members in declared order
func (g *Generator) generateEnum(w *writer.Writer, node *graph.Node) {
	members := make([]string, len(node.Enum.Members))
	for i, m := range node.Enum.Members {
		members[i] = m + " = '" + m + "'"
	}

	w.WriteBlock("export enum "+node.ShortName()+" {", "}", func() {
		w.WriteSeparated(members, ",")
	})
}

func (g *Generator) generateInterface(w *writer.Writer, node *graph.Node) error {
	lines := make([]string, 0, len(node.Fields))
	for _, f := range node.Fields {
		line, err := g.fieldLine(f)
		if err != nil {
			return shape.WithContext(err, node.Name, f.Name)
		}
		lines = append(lines, line)
	}

	w.WriteBlock("export interface "+node.ShortName()+" {", "}", func() {
		for _, line := range lines {
			w.WriteLine(line)
		}
	})
	return nil
}

// fieldLine renders `name: T;`. Optional fields and fields with a default
// take the `?` marker; optional primitives in the null-distinct set also
// admit null.
func (g *Generator) fieldLine(f graph.FieldShape) (string, error) {
	s := f.Shape
	optional := f.HasDefault
	nullable := false

	if o, ok := s.(shape.Optional); ok {
		s = o.Inner
		optional = true
		if p, ok := s.(shape.Primitive); ok && g.nullDistinct[p.Kind] {
			nullable = true
		}
	}

	tsType, err := g.mapToTSType(s)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(f.Name)
	if optional {
		b.WriteString("?")
	}
	b.WriteString(": ")
	b.WriteString(tsType)
	if nullable {
		b.WriteString(" | null")
	}
	b.WriteString(";")
	return b.String(), nil
}

// mapToTSType maps a shape to a TypeScript type expression
func (g *Generator) mapToTSType(s shape.Shape) (string, error) {
	return shape.Visit[string](s, typeExpr{g})
}

type typeExpr struct {
	g *Generator
}

func (t typeExpr) VisitPrimitive(p shape.Primitive) (string, error) {
	return t.g.RenderPrimitive(p.Kind), nil
}

// VisitOptional handles optionality below field level, e.g. inside a list
func (t typeExpr) VisitOptional(o shape.Optional) (string, error) {
	inner, err := shape.Visit[string](o.Inner, t)
	if err != nil {
		return "", err
	}
	return inner + " | null", nil
}

func (t typeExpr) VisitList(l shape.List) (string, error) {
	elem, err := shape.Visit[string](l.Elem, t)
	if err != nil {
		return "", err
	}
	return "Array<" + elem + ">", nil
}

func (t typeExpr) VisitUnion(u shape.Union) (string, error) {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		part, err := shape.Visit[string](m, t)
		if err != nil {
			return "", err
		}
		parts[i] = part
	}
	return strings.Join(parts, " | "), nil
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
