// Package graph discovers the dependency closure of a set of root schemas and
// orders it so every schema follows the schemas it references.
package graph

import (
	"github.com/conanfanli/py2ts/internal/schema"
	"github.com/conanfanli/py2ts/internal/shape"
)

// NodeKind distinguishes record nodes from enum nodes
type NodeKind int

const (
	RecordNode NodeKind = iota
	EnumNode
)

func (k NodeKind) String() string {
	if k == EnumNode {
		return "enum"
	}
	return "record"
}

// FieldShape pairs a record field with its classified shape
type FieldShape struct {
	schema.Field
	Shape shape.Shape
}

// Node is one discovered schema. Record nodes carry their classified fields.
type Node struct {
	Name   string
	Kind   NodeKind
	Record *schema.Record
	Enum   *schema.Enum
	Fields []FieldShape
}

// ShortName returns the node name without its module prefix
func (n *Node) ShortName() string {
	if n.Kind == EnumNode {
		return n.Enum.ShortName()
	}
	return n.Record.ShortName()
}

// Declaration returns the descriptor the node was built from
func (n *Node) Declaration() schema.Declaration {
	if n.Kind == EnumNode {
		return n.Enum
	}
	return n.Record
}

// Graph is an insertion-ordered set of nodes keyed by qualified name.
// Insertion order is a valid emission order: dependencies come first.
type Graph struct {
	nodes []*Node
	index map[string]*Node
}

// New creates an empty graph
func New() *Graph {
	return &Graph{index: make(map[string]*Node)}
}

func (g *Graph) add(n *Node) {
	g.index[n.Name] = n
	g.nodes = append(g.nodes, n)
}

// Nodes returns the nodes in emission order
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Get looks up a node by qualified name
func (g *Graph) Get(name string) (*Node, bool) {
	n, ok := g.index[name]
	return n, ok
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Names returns qualified node names in emission order
func (g *Graph) Names() []string {
	names := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		names[i] = n.Name
	}
	return names
}
