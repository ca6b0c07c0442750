package codegen

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conanfanli/py2ts/internal/codegen/graphene"
	"github.com/conanfanli/py2ts/internal/codegen/graphql"
	"github.com/conanfanli/py2ts/internal/codegen/typescript"
	"github.com/conanfanli/py2ts/internal/graph"
	"github.com/conanfanli/py2ts/internal/render"
	"github.com/conanfanli/py2ts/internal/schema"
	"github.com/conanfanli/py2ts/internal/shape"
)

// Test plan for the translator:
// 1. Declarations follow dependency order and carry qualified names
// 2. Companion declarations appear once, before their first user
// 3. Traversal and rendering errors abort the whole run
// 4. Generate assembles banner, preamble and declarations and validates

func names(decls []render.Declaration) []string {
	out := make([]string, len(decls))
	for i, d := range decls {
		out[i] = d.Name
	}
	return out
}

func TestTranslate_DependencyOrder(t *testing.T) {
	// Test: A -> B -> C renders C, B, A
	c := schema.NewRecord("m.C", schema.Field{Name: "x", Type: schema.Builtin("int")})
	b := schema.NewRecord("m.B", schema.Field{Name: "c", Type: c})
	a := schema.NewRecord("m.A", schema.Field{Name: "b", Type: schema.Optional(b)})

	decls, err := Translate([]schema.Declaration{a}, typescript.NewGenerator())
	require.NoError(t, err)
	assert.Equal(t, []string{"m.C", "m.B", "m.A"}, names(decls))
	assert.Equal(t, "export interface A {\n  b?: B;\n}", decls[2].Text)

	// Test: Output is deterministic
	again, err := Translate([]schema.Declaration{a}, typescript.NewGenerator())
	require.NoError(t, err)
	assert.Equal(t, decls, again)
}

func TestTranslate_CompanionsEmittedOnce(t *testing.T) {
	foo := schema.NewRecord("m.Foo")
	bar := schema.NewRecord("m.Bar")
	first := schema.NewRecord("m.First", schema.Field{Name: "u", Type: schema.Union(foo, bar)})
	second := schema.NewRecord("m.Second", schema.Field{Name: "u", Type: schema.Union(foo, bar)})

	decls, err := Translate([]schema.Declaration{first, second}, graphene.NewGenerator())
	require.NoError(t, err)
	assert.Equal(t, []string{"m.Foo", "m.Bar", "UnionFooBar", "m.First", "m.Second"}, names(decls))
	assert.True(t, decls[2].Synthetic)
	assert.False(t, decls[3].Synthetic)
	assert.Equal(t, "class UnionFooBar(Union):\n    class Meta:\n        types = (Foo, Bar)", decls[2].Text)
}

func TestTranslate_Errors(t *testing.T) {
	// Test: Unsupported field types abort with record and field context
	bad := schema.NewRecord("m.Bad", schema.Field{Name: "blob", Type: schema.Builtin("bytes")})
	decls, err := Translate([]schema.Declaration{bad}, typescript.NewGenerator())
	require.Error(t, err)
	assert.Nil(t, decls)
	assert.True(t, errors.Is(err, shape.ErrUnsupportedType))
	var ute *shape.UnsupportedTypeError
	require.True(t, errors.As(err, &ute))
	assert.Equal(t, "m.Bad", ute.Record)
	assert.Equal(t, "blob", ute.Field)

	// Test: Resolved cycles are reported instead of recursing forever
	a := schema.NewRecord("m.A")
	b := schema.NewRecord("m.B", schema.Field{Name: "a", Type: a})
	a.Fields = append(a.Fields, schema.Field{Name: "b", Type: b})
	_, err = Translate([]schema.Declaration{a}, typescript.NewGenerator())
	assert.True(t, errors.Is(err, graph.ErrCyclicDependency))

	// Test: Renderer failures abort the run
	rec := schema.NewRecord("m.R", schema.Field{Name: "u", Type: schema.Union(schema.Builtin("int"), schema.Builtin("str"))})
	_, err = Translate([]schema.Declaration{rec}, graphql.NewGenerator())
	assert.True(t, errors.Is(err, shape.ErrUnsupportedType))
}

func TestTranslator_ForwardReferences(t *testing.T) {
	// Test: With a symbol table forward targets are discovered too
	later := schema.NewRecord("m.Later", schema.Field{Name: "x", Type: schema.Builtin("int")})
	owner := schema.NewRecord("m.Owner", schema.Field{Name: "later", Type: schema.Forward("Later")})
	symbols, err := schema.NewSymbolTable(later, owner)
	require.NoError(t, err)

	tr := NewTranslator()
	res, err := tr.Translate([]schema.Declaration{owner}, typescript.NewGenerator())
	require.NoError(t, err)
	assert.Equal(t, []string{"m.Owner"}, names(res.Declarations))

	tr.Symbols = symbols
	res, err = tr.Translate([]schema.Declaration{owner}, typescript.NewGenerator())
	require.NoError(t, err)
	assert.Equal(t, []string{"m.Owner", "m.Later"}, names(res.Declarations))
	assert.Equal(t, 2, res.Graph.Len())
}

func TestTranslator_Logging(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTranslator()
	tr.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	rec := schema.NewRecord("m.R", schema.Field{Name: "x", Type: schema.Builtin("int")})
	_, err := tr.Translate([]schema.Declaration{rec}, typescript.NewGenerator())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"rendered declaration"`)
	assert.Contains(t, buf.String(), `"schema":"m.R"`)
}

func TestGenerate(t *testing.T) {
	rec := schema.NewRecord("m.R", schema.Field{Name: "x", Type: schema.Builtin("int")})
	roots := []schema.Declaration{rec}

	tests := []struct {
		name     string
		renderer render.Renderer
		opts     Options
		expected string
	}{
		{
			name:     "typescript with banner",
			renderer: typescript.NewGenerator(),
			opts:     Options{IncludeBanner: true},
			expected: "// Code generated by py2ts. DO NOT EDIT.\n\nexport interface R {\n  x: number;\n}\n",
		},
		{
			name:     "typescript without banner",
			renderer: typescript.NewGenerator(),
			expected: "export interface R {\n  x: number;\n}\n",
		},
		{
			name:     "graphene preamble",
			renderer: graphene.NewGenerator(),
			opts:     Options{IncludeBanner: true},
			expected: "# Code generated by py2ts. DO NOT EDIT.\n\n" +
				"from graphene import Boolean, Enum, Field, Float, Int, List, ObjectType, String, Union\n\n" +
				"class R(ObjectType):\n    x = Field(Int, required=True)\n",
		},
		{
			name:     "graphql validated",
			renderer: graphql.NewGenerator(),
			opts:     Options{IncludeBanner: true},
			expected: "# Code generated by py2ts. DO NOT EDIT.\n\ntype R {\n  x: Int!\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewTranslator().Generate(roots, tt.renderer, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestGenerate_EmptyRoots(t *testing.T) {
	// Test: No roots means no declarations and no output
	out, err := NewTranslator().Generate(nil, typescript.NewGenerator(), Options{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

// failingValidator rejects every output
type failingValidator struct {
	*typescript.Generator
}

func (failingValidator) Validate(*graph.Graph, []byte) error {
	return errors.New("rejected")
}

func TestGenerate_Validation(t *testing.T) {
	// Test: Validator failures are reported with the profile name
	rec := schema.NewRecord("m.R")
	_, err := NewTranslator().Generate([]schema.Declaration{rec}, failingValidator{typescript.NewGenerator()}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typescript output failed validation")
	assert.Contains(t, err.Error(), "rejected")
}
