// Package schema holds the reflective source model the translator consumes:
// record and enum descriptors plus the declared-type handles of their fields.
package schema

import (
	"strings"
)

// Declaration is a schema supplied as translation input: a *Record or an *Enum
type Declaration interface {
	Type
	QualifiedName() string
	// ShortName is the identifier without its module prefix
	ShortName() string
}

// Record describes a record type with ordered, named, typed fields
type Record struct {
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field is a single field of a record
type Field struct {
	Name       string `json:"name" yaml:"name"`
	Type       Type   `json:"-" yaml:"-"`
	HasDefault bool   `json:"default" yaml:"default"`
}

// Enum describes a closed enumeration. Member names double as their values.
type Enum struct {
	Name    string   `json:"name" yaml:"name"`
	Members []string `json:"members" yaml:"members"`
}

// NewRecord creates a record descriptor
func NewRecord(name string, fields ...Field) *Record {
	return &Record{Name: name, Fields: fields}
}

// NewEnum creates an enum descriptor
func NewEnum(name string, members ...string) *Enum {
	return &Enum{Name: name, Members: members}
}

// QualifiedName returns the module-qualified name used as the uniqueness key
func (r *Record) QualifiedName() string { return r.Name }

// ShortName returns the last segment of the qualified name
func (r *Record) ShortName() string { return shortName(r.Name) }

// QualifiedName returns the module-qualified name used as the uniqueness key
func (e *Enum) QualifiedName() string { return e.Name }

// ShortName returns the last segment of the qualified name
func (e *Enum) ShortName() string { return shortName(e.Name) }

func (*Record) declaredType() {}
func (*Enum) declaredType()   {}

// Equal reports whether two records declare the same fields in the same order.
// Nested record and enum references are compared by qualified name only.
func (r *Record) Equal(other *Record) bool {
	if r == other {
		return true
	}
	if other == nil || r.Name != other.Name || len(r.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range r.Fields {
		o := other.Fields[i]
		if f.Name != o.Name || f.HasDefault != o.HasDefault || !SameType(f.Type, o.Type) {
			return false
		}
	}
	return true
}

// Equal reports whether two enums declare the same members in the same order
func (e *Enum) Equal(other *Enum) bool {
	if e == other {
		return true
	}
	if other == nil || e.Name != other.Name || len(e.Members) != len(other.Members) {
		return false
	}
	for i, m := range e.Members {
		if other.Members[i] != m {
			return false
		}
	}
	return true
}

// SameDeclaration reports whether a and b describe the same schema
func SameDeclaration(a, b Declaration) bool {
	switch x := a.(type) {
	case *Record:
		y, ok := b.(*Record)
		return ok && x.Equal(y)
	case *Enum:
		y, ok := b.(*Enum)
		return ok && x.Equal(y)
	}
	return false
}

func shortName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
