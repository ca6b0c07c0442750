// Package golang renders schemas as Go structs and string enums.
package golang

import (
	"go/format"
	"go/parser"
	"go/token"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/conanfanli/py2ts/internal/codegen/writer"
	"github.com/conanfanli/py2ts/internal/graph"
	"github.com/conanfanli/py2ts/internal/render"
	"github.com/conanfanli/py2ts/internal/shape"
)

const defaultPackage = "schemas"

// knownImports maps a qualifier used in a primitive spelling to its import path
var knownImports = map[string]string{
	"time": "time",
	"json": "encoding/json",
	"big":  "math/big",
}

// initialisms are field name parts spelled fully upper-case
var initialisms = map[string]bool{
	"id":   true,
	"url":  true,
	"uri":  true,
	"api":  true,
	"http": true,
	"json": true,
	"uuid": true,
	"ip":   true,
}

// Generator generates Go code from a schema graph
type Generator struct {
	packageName string
	primitives  render.PrimitiveTable
}

// DefaultPrimitives is the Go spelling of every primitive kind
func DefaultPrimitives() render.PrimitiveTable {
	return render.NewPrimitiveTable(
		"string",         // string
		"bool",           // boolean
		"int64",          // integer
		"string",         // decimal
		"float64",        // float
		"string",         // date
		"time.Time",      // datetime
		"map[string]any", // dict
		"any",            // any
		"[]any",          // untyped-list
	)
}

// NewGenerator creates a new Go code generator
func NewGenerator(packageName string) *Generator {
	if packageName == "" {
		packageName = defaultPackage
	}
	return &Generator{packageName: packageName, primitives: DefaultPrimitives()}
}

// New creates a Go generator configured from opts
func New(opts render.Options) (*Generator, error) {
	primitives, err := DefaultPrimitives().With(opts.TypeOverrides)
	if err != nil {
		return nil, err
	}
	g := NewGenerator(opts.Package)
	g.primitives = primitives
	return g, nil
}

// Name returns the profile name
func (g *Generator) Name() string {
	return "go"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".go"
}

// CommentPrefix returns the line comment token
func (g *Generator) CommentPrefix() string {
	return "//"
}

// RenderPrimitive returns the Go type for a primitive kind
func (g *Generator) RenderPrimitive(kind shape.Kind) string {
	return g.primitives.Lookup(kind)
}

// RenderReference returns the bare referenced type name
func (g *Generator) RenderReference(qualifiedName string) string {
	return render.BareName(qualifiedName)
}

// Preamble writes the package clause and the imports the used primitives need
func (g *Generator) Preamble(gr *graph.Graph) string {
	w := writer.NewWriter("\t")
	w.WriteLinef("package %s", g.packageName)

	imports := g.imports(gr)
	switch len(imports) {
	case 0:
	case 1:
		w.BlankLine()
		w.WriteLinef("import %q", imports[0])
	default:
		w.BlankLine()
		w.WriteBlock("import (", ")", func() {
			for _, imp := range imports {
				w.WriteLinef("%q", imp)
			}
		})
	}
	return w.Text()
}

// imports collects the import paths of qualified primitive spellings, sorted
func (g *Generator) imports(gr *graph.Graph) []string {
	seen := make(map[string]bool)
	for kind := range render.UsedKinds(gr) {
		spelled := strings.TrimLeft(g.RenderPrimitive(kind), "*[]")
		if i := strings.LastIndex(spelled, "]"); i >= 0 {
			spelled = spelled[i+1:]
		}
		qualifier, _, ok := strings.Cut(spelled, ".")
		if !ok {
			continue
		}
		if path, ok := knownImports[qualifier]; ok {
			seen[path] = true
		}
	}

	imports := make([]string, 0, len(seen))
	for path := range seen {
		imports = append(imports, path)
	}
	sort.Strings(imports)
	return imports
}

// RenderNode renders a struct, or a string type with constants for an enum.
// Output is gofmt formatted.
func (g *Generator) RenderNode(node *graph.Node) (string, error) {
	w := writer.NewWriter("\t")

	if node.Kind == graph.EnumNode {
		g.generateEnum(w, node)
	} else if err := g.generateStruct(w, node); err != nil {
		return "", err
	}

	formatted, err := format.Source(w.Bytes())
	if err != nil {
		return "", errors.Wrapf(err, "failed to format %s", node.Name)
	}
	return strings.TrimSpace(string(formatted)), nil
}

// generateEnum generates Go code for an enum type
func (g *Generator) generateEnum(w *writer.Writer, node *graph.Node) {
	name := node.ShortName()
	members := node.Enum.Members

	w.WriteLinef("type %s string", name)

	constants := make([]string, len(members))
	for i, m := range members {
		constants[i] = name + m
	}

	if len(members) > 0 {
		w.BlankLine()
		w.WriteBlock("const (", ")", func() {
			for i, m := range members {
				w.WriteLinef("%s %s = %q", constants[i], name, m)
			}
		})
	}

	w.BlankLine()
	w.WriteLinef("// Valid reports whether e is a declared %s", name)
	w.WriteBlock("func (e "+name+") Valid() bool {", "}", func() {
		if len(members) == 0 {
			w.WriteLine("return false")
			return
		}
		w.WriteLine("switch e {")
		w.WriteLinef("case %s:", strings.Join(constants, ", "))
		w.Indent()
		w.WriteLine("return true")
		w.Dedent()
		w.WriteLine("default:")
		w.Indent()
		w.WriteLine("return false")
		w.Dedent()
		w.WriteLine("}")
	})
}

// generateStruct generates a Go struct for a record
func (g *Generator) generateStruct(w *writer.Writer, node *graph.Node) error {
	if len(node.Fields) == 0 {
		w.WriteLinef("type %s struct{}", node.ShortName())
		return nil
	}

	lines := make([]string, 0, len(node.Fields))
	owners := make(map[string]string, len(node.Fields))
	for _, f := range node.Fields {
		name := exportedName(f.Name)
		if prev, ok := owners[name]; ok {
			return errors.Newf("fields %s and %s of %s both map to Go field %s", prev, f.Name, node.Name, name)
		}
		owners[name] = f.Name

		goType, optional, err := g.fieldType(f.Shape)
		if err != nil {
			return shape.WithContext(err, node.Name, f.Name)
		}

		tag := f.Name
		if optional || f.HasDefault {
			tag += ",omitempty"
		}
		lines = append(lines, name+" "+goType+" `json:\""+tag+"\"`")
	}

	w.WriteBlock("type "+node.ShortName()+" struct {", "}", func() {
		for _, line := range lines {
			w.WriteLine(line)
		}
	})
	return nil
}

// fieldType maps a field's shape. Optional values and forward references
// are pointers unless the Go type is already nilable.
func (g *Generator) fieldType(s shape.Shape) (string, bool, error) {
	optional := false
	if o, ok := s.(shape.Optional); ok {
		s = o.Inner
		optional = true
	}

	goType, err := g.mapToGoType(s)
	if err != nil {
		return "", false, err
	}

	_, forward := s.(shape.ForwardRef)
	if (optional || forward) && !nilable(goType) {
		goType = "*" + goType
	}
	return goType, optional, nil
}

// mapToGoType maps a shape to a Go type expression
func (g *Generator) mapToGoType(s shape.Shape) (string, error) {
	return shape.Visit[string](s, typeExpr{g})
}

func nilable(goType string) bool {
	for _, prefix := range []string{"*", "[]", "map[", "chan ", "func("} {
		if strings.HasPrefix(goType, prefix) {
			return true
		}
	}
	return goType == "any" || goType == "interface{}" || goType == "json.RawMessage"
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
	if nilable(inner) {
		return inner, nil
	}
	return "*" + inner, nil
}

func (t typeExpr) VisitList(l shape.List) (string, error) {
	elem, err := shape.Visit[string](l.Elem, t)
	if err != nil {
		return "", err
	}
	return "[]" + elem, nil
}

// VisitUnion falls back to any; Go has no sum types
func (t typeExpr) VisitUnion(u shape.Union) (string, error) {
	for _, m := range u.Members {
		if _, err := shape.Visit[string](m, t); err != nil {
			return "", err
		}
	}
	return "any", nil
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

// Validate parses the assembled file
func (g *Generator) Validate(_ *graph.Graph, output []byte) error {
	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, "schemas.go", output, parser.AllErrors); err != nil {
		return errors.Wrap(err, "generated Go is invalid")
	}
	return nil
}

// exportedName converts a snake_case field name to an exported Go name
func exportedName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		if initialisms[strings.ToLower(part)] {
			b.WriteString(strings.ToUpper(part))
			continue
		}
		b.WriteString(render.Capitalize(part))
	}
	if b.Len() == 0 {
		return "X" + name
	}
	return b.String()
}
