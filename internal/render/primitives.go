package render

import (
	"github.com/cockroachdb/errors"

	"github.com/conanfanli/py2ts/internal/shape"
)

// PrimitiveTable maps every primitive kind to its target spelling
type PrimitiveTable struct {
	names map[shape.Kind]string
}

// NewPrimitiveTable builds a table from one spelling per kind. The parameter
// list mirrors shape.Kinds, so a new kind breaks every caller.
func NewPrimitiveTable(str, boolean, integer, decimal, float, date, datetime, dict, anyValue, untypedList string) PrimitiveTable {
	return PrimitiveTable{names: map[shape.Kind]string{
		shape.String:      str,
		shape.Boolean:     boolean,
		shape.Integer:     integer,
		shape.Decimal:     decimal,
		shape.Float:       float,
		shape.Date:        date,
		shape.DateTime:    datetime,
		shape.Dict:        dict,
		shape.Any:         anyValue,
		shape.UntypedList: untypedList,
	}}
}

// Lookup returns the spelling for k
func (t PrimitiveTable) Lookup(k shape.Kind) string {
	return t.names[k]
}

// With returns a copy of the table with overrides applied. Keys are kind
// names as accepted by shape.ParseKind.
func (t PrimitiveTable) With(overrides map[string]string) (PrimitiveTable, error) {
	names := make(map[shape.Kind]string, len(t.names))
	for k, v := range t.names {
		names[k] = v
	}
	for key, value := range overrides {
		k, err := shape.ParseKind(key)
		if err != nil {
			return PrimitiveTable{}, errors.Wrap(err, "invalid type override")
		}
		if value == "" {
			return PrimitiveTable{}, errors.Newf("type override for %s is empty", key)
		}
		names[k] = value
	}
	return PrimitiveTable{names: names}, nil
}

// Prefixed returns a copy with prefix prepended to every spelling
func (t PrimitiveTable) Prefixed(prefix string) PrimitiveTable {
	names := make(map[shape.Kind]string, len(t.names))
	for k, v := range t.names {
		names[k] = prefix + v
	}
	return PrimitiveTable{names: names}
}
