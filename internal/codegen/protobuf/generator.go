package protobuf

import (
	"strings"
	"unicode"

	"github.com/conanfanli/py2ts/internal/codegen/writer"
	"github.com/conanfanli/py2ts/internal/graph"
	"github.com/conanfanli/py2ts/internal/render"
	"github.com/conanfanli/py2ts/internal/shape"
)

// Generator generates proto3 definitions from schemas
type Generator struct {
	packageName string
	primitives  render.PrimitiveTable
}

// DefaultPrimitives is the proto3 spelling of every primitive kind
func DefaultPrimitives() render.PrimitiveTable {
	return render.NewPrimitiveTable(
		"string",                    // string
		"bool",                      // boolean
		"int64",                     // integer
		"string",                    // decimal
		"double",                    // float
		"string",                    // date
		"google.protobuf.Timestamp", // datetime
		"google.protobuf.Struct",    // dict
		"google.protobuf.Value",     // any
		"google.protobuf.ListValue", // untyped-list
	)
}

// NewGenerator creates a new protobuf generator
func NewGenerator(packageName string) *Generator {
	return &Generator{
		packageName: packageName,
		primitives:  DefaultPrimitives(),
	}
}

// New creates a protobuf generator configured from opts
func New(opts render.Options) (*Generator, error) {
	primitives, err := DefaultPrimitives().With(opts.TypeOverrides)
	if err != nil {
		return nil, err
	}
	return &Generator{packageName: opts.Package, primitives: primitives}, nil
}

func (g *Generator) Name() string          { return "protobuf" }
func (g *Generator) FileExtension() string { return ".proto" }
func (g *Generator) CommentPrefix() string { return "//" }

func (g *Generator) RenderPrimitive(kind shape.Kind) string {
	return g.primitives.Lookup(kind)
}

func (g *Generator) RenderReference(qualifiedName string) string {
	return render.BareName(qualifiedName)
}

// Preamble writes the syntax, package and well-known type imports
func (g *Generator) Preamble(gr *graph.Graph) string {
	w := writer.NewWriter("  ")
	w.WriteLine(`syntax = "proto3";`)
	if g.packageName != "" {
		w.BlankLine()
		w.WriteLinef("package %s;", g.packageName)
	}

	imports := g.imports(gr)
	if len(imports) > 0 {
		w.BlankLine()
		for _, imp := range imports {
			w.WriteLinef("import %q;", imp)
		}
	}
	return w.Text()
}

// imports lists the well-known type files the graph's primitives need
func (g *Generator) imports(gr *graph.Graph) []string {
	used := render.UsedKinds(gr)
	needed := make(map[string]bool)
	for _, k := range shape.Kinds() {
		if !used[k] {
			continue
		}
		if file, ok := wellKnownFiles[g.primitives.Lookup(k)]; ok {
			needed[file] = true
		}
	}

	var files []string
	for _, file := range []string{structFile, timestampFile} {
		if needed[file] {
			files = append(files, file)
		}
	}
	return files
}

// RenderNode renders a message or enum definition
func (g *Generator) RenderNode(node *graph.Node) (string, error) {
	w := writer.NewWriter("  ")

	if node.Kind == graph.EnumNode {
		g.generateEnum(w, node)
		return w.Text(), nil
	}

	msg, err := g.planMessage(node)
	if err != nil {
		return "", err
	}
	g.generateMessage(w, msg)
	return w.Text(), nil
}

// generateEnum generates a protobuf enum definition
func (g *Generator) generateEnum(w *writer.Writer, node *graph.Node) {
	w.WriteLinef("enum %s {", node.ShortName())
	w.Indent()

	// Protobuf requires first enum value to be 0
	w.WriteLinef("%s = 0;", unspecifiedValue(node.ShortName()))
	for i, m := range node.Enum.Members {
		w.WriteLinef("%s = %d;", m, i+1)
	}

	w.Dedent()
	w.WriteLine("}")
}

// generateMessage generates a protobuf message definition
func (g *Generator) generateMessage(w *writer.Writer, msg *message) {
	w.WriteLinef("message %s {", msg.name)
	w.Indent()

	for i := 0; i < len(msg.fields); i++ {
		f := msg.fields[i]
		if f.oneof == "" {
			w.WriteLine(f.declaration())
			continue
		}

		w.WriteLinef("oneof %s {", f.oneof)
		w.Indent()
		for ; i < len(msg.fields) && msg.fields[i].oneof == f.oneof; i++ {
			w.WriteLine(msg.fields[i].declaration())
		}
		i--
		w.Dedent()
		w.WriteLine("}")
	}

	w.Dedent()
	w.WriteLine("}")
}

// unspecifiedValue names the zero value of an enum, e.g. ENUM_FRUIT_UNSPECIFIED
func unspecifiedValue(enumName string) string {
	return strings.ToUpper(toSnakeCase(enumName)) + "_UNSPECIFIED"
}

func toSnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) && runes[i-1] != '_' {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
