package grid

import "fmt"

// Kind enumerates the closed set of declared column value kinds.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDateTime

	// KindOther covers any declared type outside the closed set. The type
	// name is carried opaquely; values decode to absent rather than being
	// guessed at.
	KindOther
)

// TypeTag identifies the declared type of a column. For KindOther the Name
// field holds the opaque type identifier; for all other kinds Name is empty.
type TypeTag struct {
	Kind Kind
	Name string
}

// Well-known type tags.
var (
	TagString   = TypeTag{Kind: KindString}
	TagBool     = TypeTag{Kind: KindBool}
	TagInt      = TypeTag{Kind: KindInt}
	TagFloat    = TypeTag{Kind: KindFloat}
	TagDateTime = TypeTag{Kind: KindDateTime}
)

// OtherTag builds a TypeTag for a type outside the closed set.
func OtherTag(name string) TypeTag {
	return TypeTag{Kind: KindOther, Name: name}
}

// String returns the wire identifier written to propertyType metadata.
func (t TypeTag) String() string {
	switch t.Kind {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDateTime:
		return "datetime"
	default:
		return t.Name
	}
}

// ParseTypeTag inverts TypeTag.String. Unknown identifiers parse as
// KindOther so a grid written by a newer schema still decodes; the
// unresolvable columns simply yield absent values.
func ParseTypeTag(s string) TypeTag {
	switch s {
	case "string":
		return TagString
	case "bool":
		return TagBool
	case "int":
		return TagInt
	case "float":
		return TagFloat
	case "datetime":
		return TagDateTime
	default:
		return OtherTag(s)
	}
}

// Column describes one exported column: the header text shown to the
// spreadsheet user, the record property it reads from and writes back to,
// and the declared value type. Choices optionally enumerates the legal
// values; the encoder turns it into a dropdown validation instruction.
type Column struct {
	DisplayName string
	Property    string
	Type        TypeTag
	Choices     []string
}

// Schema is the ordered description of one record type's exported columns.
// Order is significant: column index is the join key between grid position
// and column metadata.
type Schema struct {
	RecordType string
	Columns    []Column
}

// Validate checks structural invariants: at least one column, non-empty
// property keys, and property keys unique within the schema.
func (s Schema) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("schema %q has no columns", s.RecordType)
	}
	seen := make(map[string]bool, len(s.Columns))
	for i, col := range s.Columns {
		if col.Property == "" {
			return fmt.Errorf("schema %q: column %d has an empty property key", s.RecordType, i)
		}
		if seen[col.Property] {
			return fmt.Errorf("schema %q: duplicate property key %q", s.RecordType, col.Property)
		}
		seen[col.Property] = true
	}
	return nil
}
