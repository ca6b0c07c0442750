package shape

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrUnsupportedType is the sentinel every UnsupportedTypeError unwraps to
var ErrUnsupportedType = errors.New("unsupported type")

// UnsupportedTypeError reports a declared type that cannot be classified or
// rendered. Record and Field are filled in once the field context is known.
type UnsupportedTypeError struct {
	Record string
	Field  string
	Type   string
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	msg := fmt.Sprintf("unsupported type %s", e.Type)
	if e.Record != "" {
		if e.Field != "" {
			msg += fmt.Sprintf(" in %s.%s", e.Record, e.Field)
		} else {
			msg += " in " + e.Record
		}
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedType
}

// WithContext attaches record and field names to err if it is an
// UnsupportedTypeError that does not carry them yet.
func WithContext(err error, record, field string) error {
	var ute *UnsupportedTypeError
	if !errors.As(err, &ute) {
		return err
	}
	if ute.Record == "" {
		ute.Record = record
	}
	if ute.Field == "" {
		ute.Field = field
	}
	return err
}

func unsupported(t string, format string, args ...interface{}) *UnsupportedTypeError {
	return &UnsupportedTypeError{Type: t, Reason: fmt.Sprintf(format, args...)}
}
