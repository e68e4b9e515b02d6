// Package compiler turns CUE schema definitions into grid schemas.
//
// A schema file declares, under the top-level "schema" field, one or more
// named definitions:
//
//	schema: products: {
//		recordType: "catalog.Product"
//		columns: [
//			{name: "Name", property: "Name", type: "string"},
//			{name: "Active", property: "Active", type: "bool"},
//			{name: "Size", property: "Size", type: "string", choices: ["S", "M", "L"]},
//		]
//	}
//
// The type field takes the wire identifiers of grid.TypeTag: string, bool,
// int, float, datetime, or any other identifier for an opaque type.
package compiler

import (
	"cuelang.org/go/cue"

	"github.com/supershift/gridsync/internal/grid"
)

// CompileSchema parses a CUE value into a grid schema and validates its
// structural invariants. The value should be one named definition under
// the schema field, e.g. the result of looking up "schema.products".
func CompileSchema(v cue.Value) (*grid.Schema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := &grid.Schema{}

	recordTypeVal := v.LookupPath(cue.ParsePath("recordType"))
	if !recordTypeVal.Exists() {
		return nil, &CompileError{Field: "recordType", Message: "recordType is required", Pos: v.Pos()}
	}
	recordType, err := recordTypeVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	schema.RecordType = recordType

	columnsVal := v.LookupPath(cue.ParsePath("columns"))
	if !columnsVal.Exists() {
		return nil, &CompileError{Field: "columns", Message: "columns is required", Pos: v.Pos()}
	}
	iter, err := columnsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		col, err := parseColumn(iter.Value())
		if err != nil {
			return nil, err
		}
		schema.Columns = append(schema.Columns, col)
	}

	if err := schema.Validate(); err != nil {
		return nil, &CompileError{Field: "columns", Message: err.Error(), Pos: v.Pos()}
	}
	return schema, nil
}

func parseColumn(v cue.Value) (grid.Column, error) {
	var col grid.Column

	property, err := requiredString(v, "property")
	if err != nil {
		return col, err
	}
	col.Property = property

	name, err := requiredString(v, "name")
	if err != nil {
		return col, err
	}
	col.DisplayName = name

	typeName, err := requiredString(v, "type")
	if err != nil {
		return col, err
	}
	col.Type = grid.ParseTypeTag(typeName)

	choicesVal := v.LookupPath(cue.ParsePath("choices"))
	if choicesVal.Exists() {
		iter, err := choicesVal.List()
		if err != nil {
			return col, formatCUEError(err)
		}
		for iter.Next() {
			choice, err := iter.Value().String()
			if err != nil {
				return col, formatCUEError(err)
			}
			col.Choices = append(col.Choices, choice)
		}
	}

	return col, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	if s == "" {
		return "", &CompileError{Field: field, Message: field + " must not be empty", Pos: fieldVal.Pos()}
	}
	return s, nil
}
