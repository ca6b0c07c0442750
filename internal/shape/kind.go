package shape

import (
	"github.com/cockroachdb/errors"
)

// Kind identifies a primitive value category
type Kind int

const (
	String Kind = iota
	Boolean
	Integer
	Decimal
	Float
	Date
	DateTime
	Dict
	Any
	UntypedList
)

var kindNames = [...]string{
	String:      "string",
	Boolean:     "boolean",
	Integer:     "integer",
	Decimal:     "decimal",
	Float:       "float",
	Date:        "date",
	DateTime:    "datetime",
	Dict:        "dict",
	Any:         "any",
	UntypedList: "untyped-list",
}

// Kinds returns every primitive kind in declaration order
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

// String returns the neutral name used in configuration, e.g. "untyped-list"
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind parses a neutral kind name
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, errors.WithHint(
		errors.Newf("unknown primitive kind %q", name),
		"valid kinds: string, boolean, integer, decimal, float, date, datetime, dict, any, untyped-list",
	)
}

// DefaultPrimitives returns a fresh copy of the builtin name table: source
// type-system spellings plus the neutral kind names.
func DefaultPrimitives() map[string]Kind {
	m := map[string]Kind{
		"str":               String,
		"bool":              Boolean,
		"int":               Integer,
		"Decimal":           Decimal,
		"decimal.Decimal":   Decimal,
		"float":             Float,
		"date":              Date,
		"datetime.date":     Date,
		"datetime":          DateTime,
		"datetime.datetime": DateTime,
		"dict":              Dict,
		"Dict":              Dict,
		"typing.Dict":       Dict,
		"Any":               Any,
		"typing.Any":        Any,
		"object":            Any,
		"list":              UntypedList,
		"List":              UntypedList,
		"typing.List":       UntypedList,
	}
	for _, k := range Kinds() {
		if _, exists := m[k.String()]; !exists {
			m[k.String()] = k
		}
	}
	return m
}

var sourceNames = [...]string{
	String:      "str",
	Boolean:     "bool",
	Integer:     "int",
	Decimal:     "Decimal",
	Float:       "float",
	Date:        "date",
	DateTime:    "datetime",
	Dict:        "dict",
	Any:         "Any",
	UntypedList: "list",
}

// SourceName returns the canonical source type-system spelling, e.g. "int".
// Synthesized names are built from it.
func (k Kind) SourceName() string {
	if k < 0 || int(k) >= len(sourceNames) {
		return "unknown"
	}
	return sourceNames[k]
}
