package graph

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrDuplicateSchema is returned when two different schemas share a qualified name
	ErrDuplicateSchema = errors.New("duplicate schema")
	// ErrCyclicDependency is returned when schemas reference each other through resolved references
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrUnresolvedReference is returned when a forward reference names no known schema
	ErrUnresolvedReference = errors.New("unresolved reference")
)

// DuplicateSchemaError reports two distinct schemas with the same qualified name
type DuplicateSchemaError struct {
	Name string
}

func (e *DuplicateSchemaError) Error() string {
	return fmt.Sprintf("duplicate schema %s: two different declarations share this name", e.Name)
}

func (e *DuplicateSchemaError) Unwrap() error { return ErrDuplicateSchema }

// CyclicDependencyError reports a dependency cycle. Path starts and ends with
// the same schema, e.g. [A B A].
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return "cyclic dependency: " + strings.Join(e.Path, " -> ")
}

func (e *CyclicDependencyError) Unwrap() error { return ErrCyclicDependency }

// UnresolvedReferenceError reports a forward reference with no matching schema
type UnresolvedReferenceError struct {
	Record string
	Field  string
	Name   string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %q in %s.%s", e.Name, e.Record, e.Field)
}

func (e *UnresolvedReferenceError) Unwrap() error { return ErrUnresolvedReference }
