package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conanfanli/py2ts/internal/graph"
	"github.com/conanfanli/py2ts/internal/schema"
	"github.com/conanfanli/py2ts/internal/shape"
)

func TestPrimitiveTable(t *testing.T) {
	table := NewPrimitiveTable("s", "b", "i", "dec", "f", "d", "dt", "map", "any", "arr")

	// Test: Positional spellings line up with the kinds
	want := []string{"s", "b", "i", "dec", "f", "d", "dt", "map", "any", "arr"}
	for i, k := range shape.Kinds() {
		assert.Equal(t, want[i], table.Lookup(k), k.String())
	}

	// Test: Overrides return a copy and leave the original alone
	overridden, err := table.With(map[string]string{"decimal": "Big", "untyped-list": "unknown[]"})
	require.NoError(t, err)
	assert.Equal(t, "Big", overridden.Lookup(shape.Decimal))
	assert.Equal(t, "unknown[]", overridden.Lookup(shape.UntypedList))
	assert.Equal(t, "dec", table.Lookup(shape.Decimal))

	// Test: Unknown kinds and empty values are rejected
	_, err = table.With(map[string]string{"bytes": "x"})
	assert.ErrorContains(t, err, "invalid type override")
	_, err = table.With(map[string]string{"string": ""})
	assert.ErrorContains(t, err, "empty")

	// Test: Prefixed qualifies every spelling
	assert.Equal(t, "g.i", table.Prefixed("g.").Lookup(shape.Integer))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Foo", BareName("a.b.Foo"))
	assert.Equal(t, "Foo", BareName("Foo"))

	// Test: Only the first letter changes
	assert.Equal(t, "NestedSchema", Capitalize("nestedSchema"))
	assert.Equal(t, "Str", Capitalize("str"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Éclair", Capitalize("éclair"))
}

func TestUnionName(t *testing.T) {
	foo := shape.RecordRef{Record: schema.NewRecord("m.Foo")}
	integer := shape.Primitive{Kind: shape.Integer}
	str := shape.Primitive{Kind: shape.String}

	// Test: Names are order-sensitive
	assert.Equal(t, "UnionFooIntStr", UnionName(shape.Union{Members: []shape.Shape{foo, integer, str}}))
	assert.Equal(t, "UnionIntFooStr", UnionName(shape.Union{Members: []shape.Shape{integer, foo, str}}))

	// Test: Nested members get composite names
	u := shape.Union{Members: []shape.Shape{
		shape.List{Elem: integer},
		shape.EnumRef{Enum: schema.NewEnum("m.Color")},
		shape.ForwardRef{Name: "later"},
		shape.Primitive{Kind: shape.Decimal},
	}}
	assert.Equal(t, "UnionListIntColorLaterDecimal", UnionName(u))
}

func TestUsedKinds(t *testing.T) {
	rec := schema.NewRecord("m.R",
		schema.Field{Name: "a", Type: schema.Optional(schema.List(schema.Builtin("dict")))},
		schema.Field{Name: "b", Type: schema.Union(schema.Builtin("int"), schema.Builtin("str"))},
	)
	g, err := graph.NewTraverser(nil).Discover([]schema.Declaration{rec})
	require.NoError(t, err)

	used := UsedKinds(g)
	assert.Equal(t, map[shape.Kind]bool{shape.Dict: true, shape.Integer: true, shape.String: true}, used)

	// Test: HasShape finds shapes at any depth
	assert.True(t, HasShape(g, func(s shape.Shape) bool { _, ok := s.(shape.List); return ok }))
	assert.False(t, HasShape(g, func(s shape.Shape) bool { _, ok := s.(shape.RecordRef); return ok }))
}

func TestOptions(t *testing.T) {
	// Test: Unions are enabled unless explicitly disabled
	assert.True(t, Options{}.UnionsEnabled())
	off := false
	assert.False(t, Options{EmitUnions: &off}.UnionsEnabled())

	kinds, err := Options{NullDistinct: []string{"integer", "datetime"}}.NullDistinctKinds()
	require.NoError(t, err)
	assert.Equal(t, map[shape.Kind]bool{shape.Integer: true, shape.DateTime: true}, kinds)

	_, err = Options{NullDistinct: []string{"nope"}}.NullDistinctKinds()
	assert.Error(t, err)
}
