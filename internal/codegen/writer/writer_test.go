package writer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_BasicWriting(t *testing.T) {
	// Test: Basic write operations
	w := NewWriter("  ")

	w.Write("export")
	w.Write(" enum")

	assert.Equal(t, "export enum", w.String())
}

func TestWriter_NestedIndentation(t *testing.T) {
	// Test: Multiple levels of indentation
	w := NewWriter("    ")

	w.WriteLine("class UnionFooInt(Union):")
	w.Indent()
	w.WriteLine("class Meta:")
	w.Indent()
	w.WriteLine("types = (Foo, Int)")
	w.Dedent()
	w.Dedent()

	expected := "class UnionFooInt(Union):\n    class Meta:\n        types = (Foo, Int)\n"
	assert.Equal(t, expected, w.String())
}

func TestWriter_BlankLine(t *testing.T) {
	// Test: BlankLine prevents multiple blank lines
	w := NewWriter("\t")

	w.WriteLine("line1")
	w.BlankLine()
	w.WriteLine("line2")
	w.BlankLine()
	w.BlankLine()
	w.WriteLine("line3")

	lines := strings.Split(w.String(), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "line1", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "line2", lines[2])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "line3", lines[4])
}

func TestWriter_WriteBlock(t *testing.T) {
	// Test: WriteBlock indents its content
	w := NewWriter("  ")

	w.WriteBlock("export interface Foo {", "}", func() {
		w.WriteLine("bar: string;")
	})

	assert.Equal(t, "export interface Foo {\n  bar: string;\n}\n", w.String())
}

func TestWriter_WriteSeparated(t *testing.T) {
	// Test: The separator goes after every item but the last
	w := NewWriter("  ")
	w.WriteBlock("export enum Fruit {", "}", func() {
		w.WriteSeparated([]string{"APPLE = 'APPLE'", "ORANGE = 'ORANGE'"}, ",")
	})

	assert.Equal(t, "export enum Fruit {\n  APPLE = 'APPLE',\n  ORANGE = 'ORANGE'\n}\n", w.String())

	// Test: No items writes nothing
	empty := NewWriter("  ")
	empty.WriteSeparated(nil, ",")
	assert.Equal(t, "", empty.String())
}

func TestWriter_Comments(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		expected string
	}{
		{"default slashes", "", "// Code generated. DO NOT EDIT.\n//\n"},
		{"python hash", "#", "# Code generated. DO NOT EDIT.\n#\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Test: Comments use the configured token, and empty comments have no trailing space
			w := NewWriter("  ")
			if tt.prefix != "" {
				w.WithCommentPrefix(tt.prefix)
			}
			w.WriteComment("Code generated. DO NOT EDIT.")
			w.WriteComment("")
			assert.Equal(t, tt.expected, w.String())
		})
	}
}

func TestWriter_Banner(t *testing.T) {
	// Test: A banner line keeps no trailing newline in Text
	w := NewWriter("").WithCommentPrefix("#")
	w.WriteComment("Code generated by py2ts. DO NOT EDIT.")
	assert.Equal(t, "# Code generated by py2ts. DO NOT EDIT.", w.Text())
}

func TestWriter_Text(t *testing.T) {
	// Test: Text drops trailing newlines only
	w := NewWriter("  ")
	w.WriteLine("export interface Foo {")
	w.WriteLine("}")
	w.BlankLine()

	assert.Equal(t, "export interface Foo {\n}", w.Text())
	assert.Equal(t, "export interface Foo {\n}\n\n", w.String())
}

func TestWriter_WriteFormatted(t *testing.T) {
	// Test: Formatted write operations
	w := NewWriter("    ")

	w.WriteLinef("class %s(ObjectType):", "Foo")
	w.Indent()
	w.Writef("%s = Field(%s, required=%s)", "bar", "String", "True")
	w.WriteLine("")

	assert.Equal(t, "class Foo(ObjectType):\n    bar = Field(String, required=True)\n", w.String())
}

func TestWriter_IndentDedentBounds(t *testing.T) {
	// Test: Dedent doesn't go below zero
	w := NewWriter("\t")

	w.Dedent()
	w.WriteLine("a")
	w.Indent()
	w.WriteLine("b")
	w.Dedent()
	w.WriteLine("c")

	assert.Equal(t, "a\n\tb\nc\n", w.String())
	assert.Equal(t, []byte("a\n\tb\nc\n"), w.Bytes())
}
