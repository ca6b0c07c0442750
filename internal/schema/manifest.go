package schema

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Manifest is the serialized reflective model: an ordered list of record and
// enum declarations. It is read from YAML or JSON.
//
//	module: app.models
//	schemas:
//	  - enum: EnumFruit
//	    members: [APPLE, ORANGE]
//	  - record: NestedSchema
//	    fields:
//	      - {name: string_field, type: str}
//	      - {name: recursively_nested_field, type: 'Optional["NestedSchema"]'}
type Manifest struct {
	Module  string         `yaml:"module" json:"module"`
	Schemas []ManifestItem `yaml:"schemas" json:"schemas"`
}

// ManifestItem declares one record (Record set) or enum (Enum set)
type ManifestItem struct {
	Record  string          `yaml:"record,omitempty" json:"record,omitempty"`
	Enum    string          `yaml:"enum,omitempty" json:"enum,omitempty"`
	Fields  []ManifestField `yaml:"fields,omitempty" json:"fields,omitempty"`
	Members []string        `yaml:"members,omitempty" json:"members,omitempty"`
}

// ManifestField declares one record field
type ManifestField struct {
	Name    string `yaml:"name" json:"name"`
	Type    string `yaml:"type" json:"type"`
	Default bool   `yaml:"default,omitempty" json:"default,omitempty"`
}

// Model is a loaded manifest: declarations in manifest order, with field
// types resolved against the manifest's own symbol table
type Model struct {
	Declarations []Declaration
	Symbols      *SymbolTable
}

// LoadManifest reads and resolves a manifest file
func LoadManifest(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}

	model, err := ParseManifest(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load manifest %s", path)
	}
	return model, nil
}

// ParseManifest decodes manifest bytes (YAML or JSON) and resolves field types
func ParseManifest(data []byte) (*Model, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to parse manifest")
	}
	return m.Resolve()
}

// Resolve builds descriptors from the manifest. Declarations are registered
// first so field types may reference schemas declared later in the file.
func (m *Manifest) Resolve() (*Model, error) {
	symbols, err := NewSymbolTable()
	if err != nil {
		return nil, err
	}

	records := make(map[*Record]ManifestItem)
	for i, item := range m.Schemas {
		var decl Declaration
		switch {
		case item.Record != "" && item.Enum != "":
			return nil, errors.Newf("schema #%d declares both record %q and enum %q", i+1, item.Record, item.Enum)
		case item.Record != "":
			rec := &Record{Name: m.qualify(item.Record)}
			records[rec] = item
			decl = rec
		case item.Enum != "":
			if len(item.Fields) > 0 {
				return nil, errors.Newf("enum %s cannot declare fields", item.Enum)
			}
			decl = NewEnum(m.qualify(item.Enum), item.Members...)
		default:
			return nil, errors.Newf("schema #%d must set either record or enum", i+1)
		}

		if err := symbols.Add(decl); err != nil {
			return nil, errors.WithHint(err, "qualified schema names must be unique within a manifest")
		}
	}

	for _, decl := range symbols.Declarations() {
		rec, ok := decl.(*Record)
		if !ok {
			continue
		}
		fields, err := resolveFields(rec.Name, records[rec].Fields, symbols)
		if err != nil {
			return nil, err
		}
		rec.Fields = fields
	}

	return &Model{Declarations: symbols.Declarations(), Symbols: symbols}, nil
}

func resolveFields(record string, specs []ManifestField, symbols *SymbolTable) ([]Field, error) {
	fields := make([]Field, 0, len(specs))
	seen := make(map[string]bool, len(specs))

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, errors.Newf("record %s has a field without a name", record)
		}
		if seen[spec.Name] {
			return nil, errors.Newf("record %s declares field %s twice", record, spec.Name)
		}
		seen[spec.Name] = true

		var ambiguous []string
		t, err := ParseType(spec.Type, func(name string) (Declaration, bool) {
			if symbols.Ambiguous(name) {
				ambiguous = append(ambiguous, name)
				return nil, false
			}
			return symbols.Lookup(name)
		})
		if err != nil {
			return nil, errors.Wrapf(err, "record %s field %s", record, spec.Name)
		}
		if len(ambiguous) > 0 {
			return nil, errors.WithHint(
				errors.Newf("record %s field %s: ambiguous reference %s", record, spec.Name, strings.Join(ambiguous, ", ")),
				"use the qualified schema name",
			)
		}

		fields = append(fields, Field{Name: spec.Name, Type: t, HasDefault: spec.Default})
	}
	return fields, nil
}

func (m *Manifest) qualify(name string) string {
	if m.Module == "" || strings.Contains(name, ".") {
		return name
	}
	return m.Module + "." + name
}

// Roots selects declarations by name, in the order given. An empty list
// selects every declaration in manifest order.
func (m *Model) Roots(names []string) ([]Declaration, error) {
	if len(names) == 0 {
		return m.Declarations, nil
	}

	roots := make([]Declaration, 0, len(names))
	for _, name := range names {
		d, ok := m.Symbols.Lookup(name)
		if !ok {
			err := errors.Newf("unknown root schema %q", name)
			if m.Symbols.Ambiguous(name) {
				return nil, errors.WithHint(err, "the short name matches several schemas; use the qualified name")
			}
			return nil, err
		}
		roots = append(roots, d)
	}
	return roots, nil
}
