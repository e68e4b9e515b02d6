// Package record defines the capability the codec needs from a record:
// read and write a named property without knowing the concrete type. The
// encoder and decoder only consume Accessors; they never reflect on their
// own.
package record

import (
	"fmt"
	"reflect"
)

// Accessor exposes one record instance by property name.
type Accessor interface {
	// TypeName identifies the record's logical type. It is carried in
	// sheet-level metadata so a later import can report what kind of data
	// the grid holds.
	TypeName() string

	// Get returns the raw value of the named property. A missing property
	// is an error: it signals schema/record drift, not absent data.
	Get(property string) (any, error)

	// Set applies a decoded value to the named property.
	Set(property string, value any) error
}

// Map is a map-backed Accessor with an explicit type name. Used by callers
// that assemble records dynamically, and throughout tests.
type Map struct {
	Type   string
	Values map[string]any
}

// NewMap builds a Map accessor over the given values.
func NewMap(typeName string, values map[string]any) *Map {
	if values == nil {
		values = make(map[string]any)
	}
	return &Map{Type: typeName, Values: values}
}

func (m *Map) TypeName() string { return m.Type }

func (m *Map) Get(property string) (any, error) {
	v, ok := m.Values[property]
	if !ok {
		return nil, fmt.Errorf("record %q has no property %q", m.Type, property)
	}
	return v, nil
}

func (m *Map) Set(property string, value any) error {
	m.Values[property] = value
	return nil
}

// Struct is a reflection-backed Accessor over a struct pointer, looking up
// exported fields by name.
type Struct struct {
	v reflect.Value // the struct value, addressable
	t reflect.Type
}

// OfStruct wraps a pointer to a struct. Get reads exported fields by name;
// Set assigns them when the decoded value is assignable or convertible.
func OfStruct(ptr any) (*Struct, error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("record: OfStruct needs a non-nil struct pointer, got %T", ptr)
	}
	elem := rv.Elem()
	return &Struct{v: elem, t: elem.Type()}, nil
}

func (s *Struct) TypeName() string {
	if s.t.PkgPath() == "" {
		return s.t.Name()
	}
	return s.t.PkgPath() + "." + s.t.Name()
}

func (s *Struct) Get(property string) (any, error) {
	f := s.v.FieldByName(property)
	if !f.IsValid() {
		return nil, fmt.Errorf("record %q has no property %q", s.TypeName(), property)
	}
	if !f.CanInterface() {
		return nil, fmt.Errorf("record %q: property %q is unexported", s.TypeName(), property)
	}
	return f.Interface(), nil
}

func (s *Struct) Set(property string, value any) error {
	f := s.v.FieldByName(property)
	if !f.IsValid() {
		return fmt.Errorf("record %q has no property %q", s.TypeName(), property)
	}
	if !f.CanSet() {
		return fmt.Errorf("record %q: property %q is not settable", s.TypeName(), property)
	}
	if value == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(f.Type()):
		f.Set(rv)
	case rv.Type().ConvertibleTo(f.Type()):
		f.Set(rv.Convert(f.Type()))
	default:
		return fmt.Errorf("record %q: cannot assign %T to property %q", s.TypeName(), value, property)
	}
	return nil
}
