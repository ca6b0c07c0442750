package schema

import (
	"strconv"
	"strings"
)

// Type is an opaque handle to a field's declared type. The set of
// implementations is closed: Builtin, Generic, Forward, *Record and *Enum.
type Type interface {
	declaredType()
}

// Builtin names a builtin type of the source type system, e.g. "str" or "None"
type Builtin string

// None is the absence type; it is only meaningful as a union member
const None Builtin = "None"

// Generic origins understood by the classifier
const (
	OriginList     = "List"
	OriginUnion    = "Union"
	OriginOptional = "Optional"
)

// Generic is a parameterized type such as List[int] or Union[Foo, None]
type Generic struct {
	Origin string
	Args   []Type
}

// Forward is a textual reference to a schema that was not resolved when the
// field was declared (a later declaration, or the enclosing record itself)
type Forward string

func (Builtin) declaredType() {}
func (Generic) declaredType() {}
func (Forward) declaredType() {}

// List returns the handle for List[elem]
func List(elem Type) Generic {
	return Generic{Origin: OriginList, Args: []Type{elem}}
}

// Optional returns the handle for Optional[t]
func Optional(t Type) Generic {
	return Generic{Origin: OriginOptional, Args: []Type{t}}
}

// Union returns the handle for Union[members...]
func Union(members ...Type) Generic {
	return Generic{Origin: OriginUnion, Args: members}
}

// TypeString renders a type handle back into its type-expression form
func TypeString(t Type) string {
	switch v := t.(type) {
	case nil:
		return "<nil>"
	case Builtin:
		return string(v)
	case Forward:
		return strconv.Quote(string(v))
	case *Record:
		return v.ShortName()
	case *Enum:
		return v.ShortName()
	case Generic:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = TypeString(a)
		}
		if len(args) == 0 {
			return v.Origin
		}
		return v.Origin + "[" + strings.Join(args, ", ") + "]"
	}
	return "<unknown>"
}

// SameType reports whether two handles are structurally identical.
// Records and enums are compared by qualified name so recursive models terminate.
func SameType(a, b Type) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Builtin:
		y, ok := b.(Builtin)
		return ok && x == y
	case Forward:
		y, ok := b.(Forward)
		return ok && x == y
	case *Record:
		y, ok := b.(*Record)
		return ok && y != nil && x.Name == y.Name
	case *Enum:
		y, ok := b.(*Enum)
		return ok && y != nil && x.Name == y.Name
	case Generic:
		y, ok := b.(Generic)
		if !ok || x.Origin != y.Origin || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !SameType(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}
