package protobuf

import (
	"fmt"

	"github.com/conanfanli/py2ts/internal/graph"
	"github.com/conanfanli/py2ts/internal/render"
	"github.com/conanfanli/py2ts/internal/shape"
)

const (
	structFile    = "google/protobuf/struct.proto"
	timestampFile = "google/protobuf/timestamp.proto"
)

var wellKnownFiles = map[string]string{
	"google.protobuf.Struct":    structFile,
	"google.protobuf.Value":     structFile,
	"google.protobuf.ListValue": structFile,
	"google.protobuf.Timestamp": timestampFile,
}

type label int

const (
	labelNone label = iota
	labelOptional
	labelRepeated
)

// elementType is the type of a single protobuf field value
type elementType struct {
	spelled string
	// ref is the qualified schema name for record, enum and forward references
	ref  string
	enum bool
}

type field struct {
	name   string
	number int32
	label  label
	typ    elementType
	// oneof is the enclosing oneof group, empty for plain fields
	oneof string
}

func (f field) declaration() string {
	var prefix string
	switch f.label {
	case labelOptional:
		prefix = "optional "
	case labelRepeated:
		prefix = "repeated "
	}
	return fmt.Sprintf("%s%s %s = %d;", prefix, f.typ.spelled, f.name, f.number)
}

type message struct {
	name   string
	fields []field
}

// planMessage lays out a record's fields with sequential numbers. Unions
// become oneof groups whose members consume numbers in declared order.
func (g *Generator) planMessage(node *graph.Node) (*message, error) {
	msg := &message{name: node.ShortName()}
	next := int32(1)

	for _, f := range node.Fields {
		planned, err := g.planField(f.Name, f.Shape, &next)
		if err != nil {
			return nil, shape.WithContext(err, node.Name, f.Name)
		}
		msg.fields = append(msg.fields, planned...)
	}
	return msg, nil
}

func (g *Generator) planField(name string, s shape.Shape, next *int32) ([]field, error) {
	lbl := labelNone
	if o, ok := s.(shape.Optional); ok {
		s = o.Inner
		lbl = labelOptional
	}

	switch v := s.(type) {
	case shape.List:
		elem := v.Elem
		if o, ok := elem.(shape.Optional); ok {
			elem = o.Inner
		}
		typ, err := shape.Visit[elementType](elem, elementVisitor{g: g, context: "repeated field"})
		if err != nil {
			return nil, err
		}
		f := field{name: name, number: *next, label: labelRepeated, typ: typ}
		*next++
		return []field{f}, nil

	case shape.Union:
		fields := make([]field, 0, len(v.Members))
		for _, m := range v.Members {
			typ, err := shape.Visit[elementType](m, elementVisitor{g: g, context: "oneof member"})
			if err != nil {
				return nil, err
			}
			fields = append(fields, field{
				name:   name + "_" + toSnakeCase(render.MemberName(m)),
				number: *next,
				typ:    typ,
				oneof:  name,
			})
			*next++
		}
		return fields, nil
	}

	typ, err := shape.Visit[elementType](s, elementVisitor{g: g, context: "field"})
	if err != nil {
		return nil, err
	}
	f := field{name: name, number: *next, label: lbl, typ: typ}
	*next++
	return []field{f}, nil
}

// elementVisitor resolves the type of a single field value. Containers
// cannot nest inside repeated fields or oneofs.
type elementVisitor struct {
	g       *Generator
	context string
}

func (e elementVisitor) VisitPrimitive(p shape.Primitive) (elementType, error) {
	return elementType{spelled: e.g.RenderPrimitive(p.Kind)}, nil
}

func (e elementVisitor) VisitOptional(o shape.Optional) (elementType, error) {
	return elementType{}, e.nested(o)
}

func (e elementVisitor) VisitList(l shape.List) (elementType, error) {
	return elementType{}, e.nested(l)
}

func (e elementVisitor) VisitUnion(u shape.Union) (elementType, error) {
	return elementType{}, e.nested(u)
}

func (e elementVisitor) VisitRecord(r shape.RecordRef) (elementType, error) {
	return elementType{spelled: e.g.RenderReference(r.Name()), ref: r.Name()}, nil
}

func (e elementVisitor) VisitEnum(en shape.EnumRef) (elementType, error) {
	return elementType{spelled: e.g.RenderReference(en.Name()), ref: en.Name(), enum: true}, nil
}

func (e elementVisitor) VisitForward(f shape.ForwardRef) (elementType, error) {
	return elementType{spelled: e.g.RenderReference(f.Name), ref: f.Name}, nil
}

func (e elementVisitor) nested(s shape.Shape) error {
	return &shape.UnsupportedTypeError{
		Type:   shape.Describe(s),
		Reason: fmt.Sprintf("protobuf cannot express it as a %s", e.context),
	}
}
