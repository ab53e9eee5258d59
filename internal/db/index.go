package db

import "fmt"

// FieldType enumerates FT index field types.
type FieldType string

const (
	// FieldTag is an exact-match TAG field.
	FieldTag FieldType = "TAG"
	// FieldText is a full-text TEXT field.
	FieldText FieldType = "TEXT"
	// FieldNumeric is a NUMERIC field.
	FieldNumeric FieldType = "NUMERIC"
	// FieldVector is a VECTOR field (HNSW, cosine distance).
	FieldVector FieldType = "VECTOR"
)

// IndexField describes one field of an FT index.
type IndexField struct {
	Name           string
	Type           FieldType
	Sortable       bool // NUMERIC/TAG only
	WithSuffixTrie bool // TEXT only; required for efficient infix wildcards

	// VECTOR parameters
	VectorDim         int
	VectorM           int
	VectorEFConstruct int
}

// IndexDefinition describes one FT index over HASH keys with a prefix.
type IndexDefinition struct {
	Name   string
	Prefix string
	Fields []IndexField
}

// Validate checks the definition for obvious construction mistakes.
func (d *IndexDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("index name is required")
	}
	if d.Prefix == "" {
		return fmt.Errorf("index prefix is required")
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("index needs at least one field")
	}
	for _, f := range d.Fields {
		if f.Name == "" {
			return fmt.Errorf("field name is required")
		}
		switch f.Type {
		case FieldTag, FieldText, FieldNumeric:
		case FieldVector:
			if f.VectorDim <= 0 {
				return fmt.Errorf("vector field %q needs a positive dimension", f.Name)
			}
		default:
			return fmt.Errorf("unknown field type %q", f.Type)
		}
	}
	return nil
}
