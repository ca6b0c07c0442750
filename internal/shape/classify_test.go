package shape

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conanfanli/py2ts/internal/schema"
)

func TestClassify_Primitives(t *testing.T) {
	// Test: Every source builtin and every neutral kind name classifies as its primitive
	c := NewClassifier(nil)
	tests := []struct {
		builtin string
		want    Kind
	}{
		{"str", String},
		{"bool", Boolean},
		{"int", Integer},
		{"Decimal", Decimal},
		{"float", Float},
		{"date", Date},
		{"datetime", DateTime},
		{"dict", Dict},
		{"Any", Any},
		{"list", UntypedList},
		{"List", UntypedList},
		{"untyped-list", UntypedList},
		{"boolean", Boolean},
	}

	for _, tt := range tests {
		t.Run(tt.builtin, func(t *testing.T) {
			got, err := c.Classify(schema.Builtin(tt.builtin))
			require.NoError(t, err)
			assert.Equal(t, Primitive{Kind: tt.want}, got)
		})
	}

	for _, k := range Kinds() {
		got, err := c.Classify(schema.Builtin(k.String()))
		require.NoError(t, err, k.String())
		assert.Equal(t, Primitive{Kind: k}, got)
	}
}

func TestClassify_References(t *testing.T) {
	c := NewClassifier(nil)
	rec := schema.NewRecord("m.Foo")
	enum := schema.NewEnum("m.Color", "RED")

	// Test: Records and enums become references carrying their descriptor
	got, err := c.Classify(rec)
	require.NoError(t, err)
	assert.Equal(t, RecordRef{Record: rec}, got)

	got, err = c.Classify(enum)
	require.NoError(t, err)
	assert.Equal(t, EnumRef{Enum: enum}, got)

	// Test: Quoted references stay forward references
	got, err = c.Classify(schema.Forward("Later"))
	require.NoError(t, err)
	assert.Equal(t, ForwardRef{Name: "Later"}, got)
}

func TestClassify_Lists(t *testing.T) {
	c := NewClassifier(nil)

	// Test: Nesting depth is preserved
	got, err := c.Classify(schema.List(schema.List(schema.Builtin("int"))))
	require.NoError(t, err)
	assert.Equal(t, List{Elem: List{Elem: Primitive{Kind: Integer}}}, got)

	// Test: Optional elements stay inside the list
	got, err = c.Classify(schema.List(schema.Optional(schema.Builtin("str"))))
	require.NoError(t, err)
	assert.Equal(t, List{Elem: Optional{Inner: Primitive{Kind: String}}}, got)
}

func TestClassify_Unions(t *testing.T) {
	c := NewClassifier(nil)
	foo := schema.NewRecord("m.Foo")
	str := schema.Builtin("str")
	integer := schema.Builtin("int")

	tests := []struct {
		name string
		in   schema.Type
		want Shape
	}{
		{
			name: "optional primitive",
			in:   schema.Optional(integer),
			want: Optional{Inner: Primitive{Kind: Integer}},
		},
		{
			name: "union with none is optional",
			in:   schema.Union(str, schema.None),
			want: Optional{Inner: Primitive{Kind: String}},
		},
		{
			name: "single member unwraps",
			in:   schema.Union(foo),
			want: RecordRef{Record: foo},
		},
		{
			name: "declared order kept",
			in:   schema.Union(foo, integer, str),
			want: Union{Members: []Shape{RecordRef{Record: foo}, Primitive{Kind: Integer}, Primitive{Kind: String}}},
		},
		{
			name: "optional union",
			in:   schema.Union(integer, schema.None, str),
			want: Optional{Inner: Union{Members: []Shape{Primitive{Kind: Integer}, Primitive{Kind: String}}}},
		},
		{
			name: "nested unions flatten",
			in:   schema.Union(integer, schema.Union(str, schema.Optional(foo))),
			want: Optional{Inner: Union{Members: []Shape{Primitive{Kind: Integer}, Primitive{Kind: String}, RecordRef{Record: foo}}}},
		},
		{
			name: "optional of optional collapses",
			in:   schema.Optional(schema.Optional(integer)),
			want: Optional{Inner: Primitive{Kind: Integer}},
		},
		{
			name: "duplicate members collapse",
			in:   schema.Union(integer, integer, str),
			want: Union{Members: []Shape{Primitive{Kind: Integer}, Primitive{Kind: String}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.in)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "want %s, got %s", Describe(tt.want), Describe(got))
		})
	}
}

func TestClassify_Unsupported(t *testing.T) {
	c := NewClassifier(nil)
	tests := []struct {
		name string
		in   schema.Type
	}{
		{"unknown builtin", schema.Builtin("bytes")},
		{"bare none", schema.None},
		{"only none", schema.Union(schema.None)},
		{"unknown generic", schema.Generic{Origin: "Tuple", Args: []schema.Type{schema.Builtin("int")}}},
		{"list arity", schema.Generic{Origin: schema.OriginList}},
		{"optional arity", schema.Generic{Origin: schema.OriginOptional, Args: []schema.Type{schema.Builtin("int"), schema.Builtin("str")}}},
		{"bad list element", schema.List(schema.Builtin("bytes"))},
		{"nil handle", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Test: Unclassifiable types yield UnsupportedTypeError
			_, err := c.Classify(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedType))

			var ute *UnsupportedTypeError
			require.True(t, errors.As(err, &ute))
			assert.NotEmpty(t, ute.Type)
		})
	}
}

func TestClassifier_CustomTable(t *testing.T) {
	// Test: The primitive table is per instance
	c := NewClassifier(map[string]Kind{"bytes": String})

	got, err := c.Classify(schema.Builtin("bytes"))
	require.NoError(t, err)
	assert.Equal(t, Primitive{Kind: String}, got)

	_, err = c.Classify(schema.Builtin("int"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	// Test: Mutating the caller's map later has no effect
	table := DefaultPrimitives()
	c = NewClassifier(table)
	delete(table, "int")
	_, err = c.Classify(schema.Builtin("int"))
	assert.NoError(t, err)
}

func TestWithContext(t *testing.T) {
	c := NewClassifier(nil)
	_, err := c.Classify(schema.Builtin("bytes"))
	require.Error(t, err)

	// Test: Record and field names are attached once
	err = WithContext(err, "m.Foo", "payload")
	err = WithContext(err, "m.Other", "other")
	assert.Equal(t, "unsupported type bytes in m.Foo.payload: not a registered primitive", err.Error())

	// Test: Other errors pass through untouched
	plain := errors.New("boom")
	assert.Equal(t, plain, WithContext(plain, "a", "b"))
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("bytes")
	assert.ErrorContains(t, err, `unknown primitive kind "bytes"`)
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestKind_SourceName(t *testing.T) {
	// Test: Source spellings classify back to the same kind
	c := NewClassifier(nil)
	for _, k := range Kinds() {
		got, err := c.Classify(schema.Builtin(k.SourceName()))
		require.NoError(t, err, k.SourceName())
		assert.Equal(t, Primitive{Kind: k}, got)
	}
	assert.Equal(t, "int", Integer.SourceName())
	assert.Equal(t, "unknown", Kind(-1).SourceName())
}
