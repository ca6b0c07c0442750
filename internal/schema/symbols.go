package schema

import (
	"github.com/cockroachdb/errors"
)

// SymbolTable indexes declarations by qualified and short name so that
// forward references can be resolved after every schema has been declared.
type SymbolTable struct {
	byQualified map[string]Declaration
	byShort     map[string][]Declaration
	order       []Declaration
}

// NewSymbolTable creates a symbol table holding decls in declaration order
func NewSymbolTable(decls ...Declaration) (*SymbolTable, error) {
	st := &SymbolTable{
		byQualified: make(map[string]Declaration),
		byShort:     make(map[string][]Declaration),
	}
	for _, d := range decls {
		if err := st.Add(d); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// Add registers a declaration. Registering the same qualified name twice is an error.
func (st *SymbolTable) Add(d Declaration) error {
	name := d.QualifiedName()
	if name == "" {
		return errors.New("declaration has no name")
	}
	if _, exists := st.byQualified[name]; exists {
		return errors.Newf("duplicate declaration %s", name)
	}
	st.byQualified[name] = d
	short := d.ShortName()
	st.byShort[short] = append(st.byShort[short], d)
	st.order = append(st.order, d)
	return nil
}

// Lookup resolves a name, trying the qualified name first and then an
// unambiguous short name. It returns false if nothing (or more than one
// declaration) matches.
func (st *SymbolTable) Lookup(name string) (Declaration, bool) {
	if st == nil {
		return nil, false
	}
	if d, ok := st.byQualified[name]; ok {
		return d, true
	}
	if candidates := st.byShort[name]; len(candidates) == 1 {
		return candidates[0], true
	}
	return nil, false
}

// Ambiguous reports whether a short name matches several declarations
func (st *SymbolTable) Ambiguous(name string) bool {
	if st == nil {
		return false
	}
	_, qualified := st.byQualified[name]
	return !qualified && len(st.byShort[name]) > 1
}

// Declarations returns every declaration in registration order
func (st *SymbolTable) Declarations() []Declaration {
	out := make([]Declaration, len(st.order))
	copy(out, st.order)
	return out
}

// Len returns the number of declarations
func (st *SymbolTable) Len() int {
	return len(st.order)
}
