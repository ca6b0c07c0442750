package graph

import (
	"github.com/rs/zerolog"

	"github.com/conanfanli/py2ts/internal/schema"
	"github.com/conanfanli/py2ts/internal/shape"
)

type visitState int

const (
	unvisited visitState = iota
	inProgress
	done
)

// Traverser discovers the dependency closure of root schemas.
//
// When Symbols is set, forward references are looked up there and their
// targets discovered once the current root's hard closure is complete, when
// nothing is in progress; forward references never take part in cycle
// detection. When Symbols is nil, forward references contribute no edges.
type Traverser struct {
	Classifier *shape.Classifier
	Symbols    *schema.SymbolTable
	Logger     zerolog.Logger
}

// NewTraverser creates a traverser using classifier c (nil selects the
// default primitive table) without forward-reference resolution
func NewTraverser(c *shape.Classifier) *Traverser {
	if c == nil {
		c = shape.NewClassifier(nil)
	}
	return &Traverser{Classifier: c, Logger: zerolog.Nop()}
}

// Discover walks roots depth first and returns the closure in post-order:
// every schema appears after the schemas its fields reference, each schema
// appears once, and independent roots keep their input order.
func (t *Traverser) Discover(roots []schema.Declaration) (*Graph, error) {
	classifier := t.Classifier
	if classifier == nil {
		classifier = shape.NewClassifier(nil)
	}

	d := &discovery{
		traverser:  t,
		classifier: classifier,
		graph:      New(),
		state:      make(map[string]visitState),
		seen:       make(map[string]schema.Declaration),
	}
	for _, root := range roots {
		if err := d.visit(root); err != nil {
			return nil, err
		}
		if err := d.drainForwards(); err != nil {
			return nil, err
		}
	}

	t.Logger.Debug().Int("roots", len(roots)).Int("nodes", d.graph.Len()).Msg("discovery complete")
	return d.graph, nil
}

type discovery struct {
	traverser  *Traverser
	classifier *shape.Classifier
	graph      *Graph
	state      map[string]visitState
	seen       map[string]schema.Declaration
	path       []string
	forwards   []forwardEdge
}

type forwardEdge struct {
	record string
	field  string
	target string
}

func (d *discovery) visit(decl schema.Declaration) error {
	name := decl.QualifiedName()

	if prev, ok := d.seen[name]; ok {
		if prev != decl && !schema.SameDeclaration(prev, decl) {
			return &DuplicateSchemaError{Name: name}
		}
		if d.state[name] == inProgress {
			return &CyclicDependencyError{Path: d.cyclePath(name)}
		}
		return nil
	}

	d.seen[name] = decl
	d.state[name] = inProgress
	d.path = append(d.path, name)

	node, forwards, err := d.build(decl)
	if err != nil {
		return err
	}

	d.path = d.path[:len(d.path)-1]
	d.state[name] = done
	d.graph.add(node)
	d.traverser.Logger.Debug().
		Str("schema", name).
		Str("kind", node.Kind.String()).
		Int("fields", len(node.Fields)).
		Msg("discovered schema")

	d.forwards = append(d.forwards, forwards...)
	return nil
}

// drainForwards follows queued forward edges in discovery order. Targets
// visited here may queue further edges.
func (d *discovery) drainForwards() error {
	for len(d.forwards) > 0 {
		fwd := d.forwards[0]
		d.forwards = d.forwards[1:]
		if err := d.visitForward(fwd); err != nil {
			return err
		}
	}
	return nil
}

// build classifies a schema's fields and discovers its hard dependencies
func (d *discovery) build(decl schema.Declaration) (*Node, []forwardEdge, error) {
	switch v := decl.(type) {
	case *schema.Enum:
		return &Node{Name: v.Name, Kind: EnumNode, Enum: v}, nil, nil

	case *schema.Record:
		node := &Node{Name: v.Name, Kind: RecordNode, Record: v, Fields: make([]FieldShape, 0, len(v.Fields))}
		var forwards []forwardEdge

		for _, f := range v.Fields {
			s, err := d.classifier.Classify(f.Type)
			if err != nil {
				return nil, nil, shape.WithContext(err, v.Name, f.Name)
			}
			node.Fields = append(node.Fields, FieldShape{Field: f, Shape: s})

			for _, dep := range shape.Dependencies(s) {
				if err := d.visit(dep); err != nil {
					return nil, nil, err
				}
			}
			for _, target := range shape.ForwardRefs(s) {
				forwards = append(forwards, forwardEdge{record: v.Name, field: f.Name, target: target})
			}
		}
		return node, forwards, nil
	}

	return nil, nil, &shape.UnsupportedTypeError{
		Record: decl.QualifiedName(),
		Type:   schema.TypeString(decl),
		Reason: "not a record or enum declaration",
	}
}

func (d *discovery) visitForward(fwd forwardEdge) error {
	symbols := d.traverser.Symbols
	if symbols == nil {
		return nil
	}

	target, ok := symbols.Lookup(fwd.target)
	if !ok {
		return &UnresolvedReferenceError{Record: fwd.record, Field: fwd.field, Name: fwd.target}
	}
	if d.state[target.QualifiedName()] != unvisited {
		if prev := d.seen[target.QualifiedName()]; prev != target && !schema.SameDeclaration(prev, target) {
			return &DuplicateSchemaError{Name: target.QualifiedName()}
		}
		return nil
	}

	d.traverser.Logger.Debug().
		Str("schema", fwd.record).
		Str("field", fwd.field).
		Str("target", target.QualifiedName()).
		Msg("following forward reference")
	return d.visit(target)
}

func (d *discovery) cyclePath(name string) []string {
	start := 0
	for i, n := range d.path {
		if n == name {
			start = i
			break
		}
	}
	path := make([]string, 0, len(d.path)-start+1)
	path = append(path, d.path[start:]...)
	return append(path, name)
}
