package render

import (
	"strings"

	"github.com/conanfanli/py2ts/internal/shape"
)

// UnionName synthesizes the nominal name of a union for targets without
// anonymous unions: "Union" followed by each member's capitalized type name
// in declared order, e.g. UnionFooIntStr. The name is order-sensitive.
func UnionName(u shape.Union) string {
	var b strings.Builder
	b.WriteString("Union")
	for _, m := range u.Members {
		b.WriteString(Capitalize(MemberName(m)))
	}
	return b.String()
}

// MemberName is the source-level name of a union member: the primitive's
// source spelling, "List" plus the element name, or the bare schema name
func MemberName(s shape.Shape) string {
	name, _ := shape.Visit[string](s, memberName{})
	return name
}

// memberName names a union member after its source type
type memberName struct{}

func (memberName) VisitPrimitive(p shape.Primitive) (string, error) {
	return p.Kind.SourceName(), nil
}

func (n memberName) VisitOptional(o shape.Optional) (string, error) {
	return shape.Visit[string](o.Inner, n)
}

func (n memberName) VisitList(l shape.List) (string, error) {
	elem, err := shape.Visit[string](l.Elem, n)
	return "List" + Capitalize(elem), err
}

func (memberName) VisitUnion(u shape.Union) (string, error) {
	return UnionName(u), nil
}

func (memberName) VisitRecord(r shape.RecordRef) (string, error) {
	return BareName(r.Name()), nil
}

func (memberName) VisitEnum(e shape.EnumRef) (string, error) {
	return BareName(e.Name()), nil
}

func (memberName) VisitForward(f shape.ForwardRef) (string, error) {
	return BareName(f.Name), nil
}

// Unions returns the union shapes inside s, nested unions before the unions
// containing them
func Unions(s shape.Shape) []shape.Union {
	switch v := s.(type) {
	case shape.Optional:
		return Unions(v.Inner)
	case shape.List:
		return Unions(v.Elem)
	case shape.Union:
		var out []shape.Union
		for _, m := range v.Members {
			out = append(out, Unions(m)...)
		}
		return append(out, v)
	}
	return nil
}
