package shape

import (
	"github.com/conanfanli/py2ts/internal/schema"
)

// Classifier maps declared type handles onto shapes. Its primitive table is
// owned by the instance; a Classifier is safe for concurrent use.
type Classifier struct {
	primitives map[string]Kind
}

// NewClassifier creates a classifier recognising the given builtin names as
// primitives. A nil table selects DefaultPrimitives.
func NewClassifier(primitives map[string]Kind) *Classifier {
	if primitives == nil {
		primitives = DefaultPrimitives()
	}
	table := make(map[string]Kind, len(primitives))
	for name, k := range primitives {
		table[name] = k
	}
	return &Classifier{primitives: table}
}

// Classify determines the shape of t. Precedence:
//  1. registered primitive builtins
//  2. record references
//  3. enum references
//  4. List[E]
//  5. Union / Optional, flattened with absence members folded into Optional
//  6. forward references
//
// Anything else yields an *UnsupportedTypeError.
func (c *Classifier) Classify(t schema.Type) (Shape, error) {
	switch v := t.(type) {
	case schema.Builtin:
		if k, ok := c.primitives[string(v)]; ok {
			return Primitive{Kind: k}, nil
		}
		if v == schema.None {
			return nil, unsupported(string(v), "absence is only valid inside Optional or Union")
		}
		return nil, unsupported(string(v), "not a registered primitive")

	case *schema.Record:
		if v == nil {
			return nil, unsupported("<nil>", "nil record reference")
		}
		return RecordRef{Record: v}, nil

	case *schema.Enum:
		if v == nil {
			return nil, unsupported("<nil>", "nil enum reference")
		}
		return EnumRef{Enum: v}, nil

	case schema.Generic:
		switch v.Origin {
		case schema.OriginList:
			if len(v.Args) != 1 {
				return nil, unsupported(schema.TypeString(v), "List takes exactly one argument")
			}
			elem, err := c.Classify(v.Args[0])
			if err != nil {
				return nil, err
			}
			return List{Elem: elem}, nil
		case schema.OriginUnion, schema.OriginOptional:
			return c.classifyUnion(v)
		}
		if k, ok := c.primitives[v.Origin]; ok && k == Dict {
			// Dict[K, V] classifies as the dict primitive
			return Primitive{Kind: Dict}, nil
		}
		return nil, unsupported(schema.TypeString(v), "unknown generic origin %s", v.Origin)

	case schema.Forward:
		return ForwardRef{Name: string(v)}, nil
	}

	return nil, unsupported(schema.TypeString(t), "unrecognised type handle")
}

func (c *Classifier) classifyUnion(g schema.Generic) (Shape, error) {
	if g.Origin == schema.OriginOptional && len(g.Args) != 1 {
		return nil, unsupported(schema.TypeString(g), "Optional takes exactly one argument")
	}
	if len(g.Args) == 0 {
		return nil, unsupported(schema.TypeString(g), "Union needs at least one member")
	}

	var members []schema.Type
	absent := g.Origin == schema.OriginOptional
	flattenUnion(g, &members, &absent)

	var shapes []Shape
	for _, m := range members {
		s, err := c.Classify(m)
		if err != nil {
			return nil, err
		}
		if !containsShape(shapes, s) {
			shapes = append(shapes, s)
		}
	}

	var out Shape
	switch len(shapes) {
	case 0:
		return nil, unsupported(schema.TypeString(g), "no member other than None")
	case 1:
		out = shapes[0]
	default:
		out = Union{Members: shapes}
	}
	if absent {
		return Optional{Inner: out}, nil
	}
	return out, nil
}

// flattenUnion collects the non-absence members of nested Union/Optional
// handles in declared order
func flattenUnion(g schema.Generic, members *[]schema.Type, absent *bool) {
	for _, arg := range g.Args {
		if b, ok := arg.(schema.Builtin); ok && b == schema.None {
			*absent = true
			continue
		}
		if inner, ok := arg.(schema.Generic); ok {
			switch inner.Origin {
			case schema.OriginUnion:
				flattenUnion(inner, members, absent)
				continue
			case schema.OriginOptional:
				*absent = true
				flattenUnion(inner, members, absent)
				continue
			}
		}
		*members = append(*members, arg)
	}
}

func containsShape(shapes []Shape, s Shape) bool {
	for _, existing := range shapes {
		if Equal(existing, s) {
			return true
		}
	}
	return false
}
