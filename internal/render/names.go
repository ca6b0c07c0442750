package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/conanfanli/py2ts/internal/graph"
	"github.com/conanfanli/py2ts/internal/shape"
)

// BareName strips the module prefix from a qualified name
func BareName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// Capitalize upper-cases the first letter and keeps the rest unchanged
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// UsedKinds reports which primitive kinds appear anywhere in the graph's field shapes
func UsedKinds(g *graph.Graph) map[shape.Kind]bool {
	used := make(map[shape.Kind]bool)
	var walk func(s shape.Shape)
	walk = func(s shape.Shape) {
		switch v := s.(type) {
		case shape.Primitive:
			used[v.Kind] = true
		case shape.Optional:
			walk(v.Inner)
		case shape.List:
			walk(v.Elem)
		case shape.Union:
			for _, m := range v.Members {
				walk(m)
			}
		}
	}
	for _, n := range g.Nodes() {
		for _, f := range n.Fields {
			walk(f.Shape)
		}
	}
	return used
}

// HasShape reports whether any field in the graph contains a shape matching pred
func HasShape(g *graph.Graph, pred func(shape.Shape) bool) bool {
	var walk func(s shape.Shape) bool
	walk = func(s shape.Shape) bool {
		if pred(s) {
			return true
		}
		switch v := s.(type) {
		case shape.Optional:
			return walk(v.Inner)
		case shape.List:
			return walk(v.Elem)
		case shape.Union:
			for _, m := range v.Members {
				if walk(m) {
					return true
				}
			}
		}
		return false
	}
	for _, n := range g.Nodes() {
		for _, f := range n.Fields {
			if walk(f.Shape) {
				return true
			}
		}
	}
	return false
}
