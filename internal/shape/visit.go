package shape

import (
	"github.com/cockroachdb/errors"
)

// Visitor handles every shape variant. Adding a variant adds a method here,
// so every implementation stops compiling until it handles the new case.
type Visitor[T any] interface {
	VisitPrimitive(Primitive) (T, error)
	VisitOptional(Optional) (T, error)
	VisitList(List) (T, error)
	VisitUnion(Union) (T, error)
	VisitRecord(RecordRef) (T, error)
	VisitEnum(EnumRef) (T, error)
	VisitForward(ForwardRef) (T, error)
}

// Visit dispatches s to the matching Visitor method
func Visit[T any](s Shape, v Visitor[T]) (T, error) {
	switch x := s.(type) {
	case Primitive:
		return v.VisitPrimitive(x)
	case Optional:
		return v.VisitOptional(x)
	case List:
		return v.VisitList(x)
	case Union:
		return v.VisitUnion(x)
	case RecordRef:
		return v.VisitRecord(x)
	case EnumRef:
		return v.VisitEnum(x)
	case ForwardRef:
		return v.VisitForward(x)
	}
	var zero T
	return zero, errors.AssertionFailedf("unknown shape %T", s)
}
