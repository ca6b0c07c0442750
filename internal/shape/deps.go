package shape

import (
	"github.com/conanfanli/py2ts/internal/schema"
)

// Dependencies returns the records and enums a shape references directly,
// deduplicated by qualified name in first-seen order. It unwraps Optional,
// List and Union but never descends into the referenced schemas; forward
// references contribute nothing.
func Dependencies(s Shape) []schema.Declaration {
	var deps []schema.Declaration
	seen := make(map[string]bool)
	collect(s, func(d schema.Declaration) {
		if !seen[d.QualifiedName()] {
			seen[d.QualifiedName()] = true
			deps = append(deps, d)
		}
	}, nil)
	return deps
}

// ForwardRefs returns the names of forward references inside a shape,
// deduplicated in first-seen order
func ForwardRefs(s Shape) []string {
	var names []string
	seen := make(map[string]bool)
	collect(s, nil, func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	})
	return names
}

func collect(s Shape, onDecl func(schema.Declaration), onForward func(string)) {
	switch v := s.(type) {
	case Optional:
		collect(v.Inner, onDecl, onForward)
	case List:
		collect(v.Elem, onDecl, onForward)
	case Union:
		for _, m := range v.Members {
			collect(m, onDecl, onForward)
		}
	case RecordRef:
		if onDecl != nil {
			onDecl(v.Record)
		}
	case EnumRef:
		if onDecl != nil {
			onDecl(v.Enum)
		}
	case ForwardRef:
		if onForward != nil {
			onForward(v.Name)
		}
	}
}
