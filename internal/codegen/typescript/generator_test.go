package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conanfanli/py2ts/internal/graph"
	"github.com/conanfanli/py2ts/internal/render"
	"github.com/conanfanli/py2ts/internal/schema"
	"github.com/conanfanli/py2ts/internal/shape"
)

func discover(t *testing.T, roots ...schema.Declaration) *graph.Graph {
	t.Helper()
	g, err := graph.NewTraverser(nil).Discover(roots)
	require.NoError(t, err)
	return g
}

func renderNode(t *testing.T, gen *Generator, g *graph.Graph, name string) string {
	t.Helper()
	node, ok := g.Get(name)
	require.True(t, ok, name)
	text, err := gen.RenderNode(node)
	require.NoError(t, err)
	return text
}

func TestGenerator_Primitives(t *testing.T) {
	// Test: Every primitive kind maps to its TypeScript spelling
	expected := map[shape.Kind]string{
		shape.String:      "string",
		shape.Boolean:     "boolean",
		shape.Integer:     "number",
		shape.Decimal:     "string",
		shape.Float:       "number",
		shape.Date:        "string",
		shape.DateTime:    "string",
		shape.Dict:        "Record<string, any>",
		shape.Any:         "any",
		shape.UntypedList: "Array<any>",
	}

	g := NewGenerator()
	c := shape.NewClassifier(nil)
	for _, k := range shape.Kinds() {
		s, err := c.Classify(schema.Builtin(k.SourceName()))
		require.NoError(t, err)
		p := s.(shape.Primitive)
		assert.Equal(t, expected[k], g.RenderPrimitive(p.Kind), k.String())
	}
}

func TestGenerator_NestedSchema(t *testing.T) {
	// Test: Forward self reference renders as a bare name without a traversal edge
	nested := schema.NewRecord("app.NestedSchema",
		schema.Field{Name: "string_field", Type: schema.Builtin("str")},
		schema.Field{Name: "nullable_datetime_field", Type: schema.Optional(schema.Builtin("datetime"))},
		schema.Field{Name: "recursively_nested_field", Type: schema.Optional(schema.Forward("NestedSchema"))},
	)
	g := discover(t, nested)
	assert.Equal(t, []string{"app.NestedSchema"}, g.Names())

	expected := `export interface NestedSchema {
  string_field: string;
  nullable_datetime_field?: string;
  recursively_nested_field?: NestedSchema;
}`
	assert.Equal(t, expected, renderNode(t, NewGenerator(), g, "app.NestedSchema"))
}

func TestGenerator_ComplexSchema(t *testing.T) {
	fruit := schema.NewEnum("app.EnumFruit", "APPLE", "ORANGE")
	nested := schema.NewRecord("app.NestedSchema", schema.Field{Name: "string_field", Type: schema.Builtin("str")})
	complexSchema := schema.NewRecord("app.ComplexSchema",
		schema.Field{Name: "nullable_int_field", Type: schema.Optional(schema.Builtin("int"))},
		schema.Field{Name: "nullable_enum_field", Type: schema.Optional(fruit)},
		schema.Field{Name: "nullable_nested_field", Type: schema.Optional(nested)},
		schema.Field{Name: "union_field", Type: schema.Union(nested, schema.Builtin("int"), schema.Builtin("str"))},
		schema.Field{Name: "nested_list_field", Type: schema.List(nested)},
		schema.Field{Name: "matrix", Type: schema.List(schema.List(schema.Builtin("float")))},
		schema.Field{Name: "sparse", Type: schema.List(schema.Optional(schema.Builtin("int")))},
		schema.Field{Name: "counter", Type: schema.Builtin("int"), HasDefault: true},
	)
	g := discover(t, complexSchema)
	assert.Equal(t, []string{"app.EnumFruit", "app.NestedSchema", "app.ComplexSchema"}, g.Names())

	expected := `export interface ComplexSchema {
  nullable_int_field?: number;
  nullable_enum_field?: EnumFruit;
  nullable_nested_field?: NestedSchema;
  union_field: NestedSchema | number | string;
  nested_list_field: Array<NestedSchema>;
  matrix: Array<Array<number>>;
  sparse: Array<number | null>;
  counter?: number;
}`
	assert.Equal(t, expected, renderNode(t, NewGenerator(), g, "app.ComplexSchema"))

	// Test: Enum members keep declared order
	assert.Equal(t, "export enum EnumFruit {\n  APPLE = 'APPLE',\n  ORANGE = 'ORANGE'\n}", renderNode(t, NewGenerator(), g, "app.EnumFruit"))
}

func TestGenerator_NullDistinct(t *testing.T) {
	// Test: Optional primitives in the null-distinct set also admit null
	rec := schema.NewRecord("m.R",
		schema.Field{Name: "count", Type: schema.Optional(schema.Builtin("int"))},
		schema.Field{Name: "name", Type: schema.Optional(schema.Builtin("str"))},
		schema.Field{Name: "items", Type: schema.Optional(schema.List(schema.Builtin("int")))},
	)
	gen, err := New(render.Options{NullDistinct: []string{"integer"}})
	require.NoError(t, err)

	expected := `export interface R {
  count?: number | null;
  name?: string;
  items?: Array<number>;
}`
	assert.Equal(t, expected, renderNode(t, gen, discover(t, rec), "m.R"))
}

func TestGenerator_TypeOverrides(t *testing.T) {
	// Test: Config overrides replace individual primitive spellings
	gen, err := New(render.Options{TypeOverrides: map[string]string{"datetime": "Date", "any": "unknown"}})
	require.NoError(t, err)
	assert.Equal(t, "Date", gen.RenderPrimitive(shape.DateTime))
	assert.Equal(t, "unknown", gen.RenderPrimitive(shape.Any))
	assert.Equal(t, "string", gen.RenderPrimitive(shape.Date))

	// Test: Unknown kind names are rejected
	_, err = New(render.Options{TypeOverrides: map[string]string{"bytes": "Uint8Array"}})
	assert.Error(t, err)
	_, err = New(render.Options{NullDistinct: []string{"bytes"}})
	assert.Error(t, err)
}

func TestGenerator_EmptyDeclarations(t *testing.T) {
	// Test: Records without fields and enums without members stay well formed
	g := discover(t, schema.NewRecord("m.Empty"), schema.NewEnum("m.None"))
	gen := NewGenerator()
	assert.Equal(t, "export interface Empty {\n}", renderNode(t, gen, g, "m.Empty"))
	assert.Equal(t, "export enum None {\n}", renderNode(t, gen, g, "m.None"))
}

func TestGenerator_Metadata(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, "typescript", g.Name())
	assert.Equal(t, ".ts", g.FileExtension())
	assert.Equal(t, "//", g.CommentPrefix())
	assert.Equal(t, "Foo", g.RenderReference("a.b.Foo"))

	var _ render.Renderer = g
}
