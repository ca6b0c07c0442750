// Package shape classifies declared field types into a closed set of
// structural shapes and extracts the schema dependencies a shape carries.
package shape

import (
	"strings"

	"github.com/conanfanli/py2ts/internal/schema"
)

// Shape is the structural classification of a field type. The set of
// variants is closed; consumers dispatch through Visit.
type Shape interface {
	isShape()
}

// Primitive is a scalar or opaque builtin value
type Primitive struct {
	Kind Kind
}

// Optional is a value that may be absent
type Optional struct {
	Inner Shape
}

// List is a homogeneous sequence
type List struct {
	Elem Shape
}

// Union is one of several member shapes, in declared order
type Union struct {
	Members []Shape
}

// RecordRef references a nested record schema
type RecordRef struct {
	Record *schema.Record
}

// EnumRef references an enumeration schema
type EnumRef struct {
	Enum *schema.Enum
}

// ForwardRef is a reference by name whose target was not resolved when the
// field was declared
type ForwardRef struct {
	Name string
}

func (Primitive) isShape()  {}
func (Optional) isShape()   {}
func (List) isShape()       {}
func (Union) isShape()      {}
func (RecordRef) isShape()  {}
func (EnumRef) isShape()    {}
func (ForwardRef) isShape() {}

// Name returns the referenced record's qualified name
func (r RecordRef) Name() string { return r.Record.QualifiedName() }

// Name returns the referenced enum's qualified name
func (e EnumRef) Name() string { return e.Enum.QualifiedName() }

// Equal reports whether two shapes are structurally identical. References
// compare by qualified name.
func Equal(a, b Shape) bool {
	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x.Kind == y.Kind
	case Optional:
		y, ok := b.(Optional)
		return ok && Equal(x.Inner, y.Inner)
	case List:
		y, ok := b.(List)
		return ok && Equal(x.Elem, y.Elem)
	case Union:
		y, ok := b.(Union)
		if !ok || len(x.Members) != len(y.Members) {
			return false
		}
		for i := range x.Members {
			if !Equal(x.Members[i], y.Members[i]) {
				return false
			}
		}
		return true
	case RecordRef:
		y, ok := b.(RecordRef)
		return ok && x.Name() == y.Name()
	case EnumRef:
		y, ok := b.(EnumRef)
		return ok && x.Name() == y.Name()
	case ForwardRef:
		y, ok := b.(ForwardRef)
		return ok && x.Name == y.Name
	}
	return false
}

// Describe renders a shape for diagnostics, e.g. Optional[List[string]]
func Describe(s Shape) string {
	switch v := s.(type) {
	case Primitive:
		return v.Kind.String()
	case Optional:
		return "Optional[" + Describe(v.Inner) + "]"
	case List:
		return "List[" + Describe(v.Elem) + "]"
	case Union:
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			parts[i] = Describe(m)
		}
		return "Union[" + strings.Join(parts, ", ") + "]"
	case RecordRef:
		return v.Name()
	case EnumRef:
		return v.Name()
	case ForwardRef:
		return `"` + v.Name + `"`
	}
	return "<nil>"
}
