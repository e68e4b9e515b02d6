package engine

import (
	"fmt"
	"strconv"

	"github.com/supershift/gridsync/internal/codec"
	"github.com/supershift/gridsync/internal/grid"
	"github.com/supershift/gridsync/internal/record"
)

// LookupPolicy decides what a failed property lookup during export does to
// the batch.
type LookupPolicy int

const (
	// LookupFailFast aborts the whole encode on the first lookup failure.
	// The default: a missing property means the schema and the record type
	// have drifted, and exporting a partial grid would hide the bug.
	LookupFailFast LookupPolicy = iota

	// LookupSkipRow drops the offending record and keeps encoding.
	LookupSkipRow
)

// Options configures one encode call. The zero value uses the default
// metadata limit and fail-fast lookups.
type Options struct {
	MetadataLimit int
	OnLookupError LookupPolicy
}

// EncodeResult is everything one encode produces: the grid, the
// presentation instructions for the store, and a non-empty Warning when the
// metadata budget forced row tracking to be dropped.
type EncodeResult struct {
	Grid         *grid.Grid
	Instructions []Instruction
	Warning      string
}

// Encode serializes a record collection into a grid described by schema.
//
// Column metadata is emitted for every schema column. The sheet-level
// record type is taken from the first record and omitted for an empty
// collection, which produces a header-only grid with no row or sheet
// metadata at all. Each data row's fingerprint is computed over exactly the
// schema's columns and staged as row metadata, unless the total metadata
// payload would exceed the budget, in which case all fingerprints are
// dropped and the grid is exported untracked with a warning.
func Encode(records []record.Accessor, schema grid.Schema, opts Options) (*EncodeResult, error) {
	if err := schema.Validate(); err != nil {
		return nil, &SchemaError{Code: ErrCodeInvalidSchema, RecordType: schema.RecordType, Message: err.Error(), Err: err}
	}

	g := &grid.Grid{
		Columns:   make(map[int]grid.ColumnMeta, len(schema.Columns)),
		RowHashes: make(map[int]string),
	}

	g.Header = make([]grid.Cell, len(schema.Columns))
	for i, col := range schema.Columns {
		g.Header[i] = grid.TextCell(col.DisplayName)
		g.Columns[i] = grid.ColumnMeta{Property: col.Property, Type: col.Type}
	}

	for _, rec := range records {
		row := make([]grid.Cell, len(schema.Columns))
		skip := false
		for i, col := range schema.Columns {
			raw, err := rec.Get(col.Property)
			if err != nil {
				if opts.OnLookupError == LookupSkipRow {
					skip = true
					break
				}
				return nil, newLookupError(rec.TypeName(), col.Property, err)
			}
			row[i] = codec.Encode(raw, col.Type)
		}
		if skip {
			continue
		}
		g.Rows = append(g.Rows, row)
		g.RowHashes[len(g.Rows)] = codec.Fingerprint(row)
	}

	if len(records) > 0 {
		g.RecordType = records[0].TypeName()
	}

	result := &EncodeResult{Grid: g, Instructions: buildInstructions(schema)}

	budget := MetadataBudget{Limit: opts.MetadataLimit}
	staged := stageMetadata(g)
	if !budget.Fits(staged) {
		size := budget.Size(staged)
		g.RowHashes = make(map[int]string)
		result.Warning = fmt.Sprintf(
			"metadata size %d exceeds limit %d: row fingerprints dropped, import will not track changes",
			size, budget.limit())
	}

	return result, nil
}

// stageMetadata flattens everything the grid would write as metadata, for
// sizing against the budget. Row indexes are included as key material the
// same way a store addresses them.
func stageMetadata(g *grid.Grid) []MetadataEntry {
	var entries []MetadataEntry
	if g.RecordType != "" {
		entries = append(entries, MetadataEntry{Key: grid.MetaValueType, Value: g.RecordType})
	}
	for idx, meta := range g.Columns {
		col := strconv.Itoa(idx)
		entries = append(entries,
			MetadataEntry{Key: grid.MetaPropertyName + col, Value: meta.Property},
			MetadataEntry{Key: grid.MetaPropertyType + col, Value: meta.Type.String()},
		)
	}
	for idx, hash := range g.RowHashes {
		entries = append(entries, MetadataEntry{Key: grid.MetaRowHash + strconv.Itoa(idx), Value: hash})
	}
	return entries
}

// buildInstructions derives the presentation side list: protect and bold
// the header, add per-column validations, autosize last.
func buildInstructions(schema grid.Schema) []Instruction {
	instrs := []Instruction{ProtectHeader{Columns: len(schema.Columns)}}
	for i, col := range schema.Columns {
		if len(col.Choices) > 0 {
			instrs = append(instrs, DropdownValidation{Column: i, Choices: col.Choices})
			continue
		}
		switch col.Type.Kind {
		case grid.KindBool:
			instrs = append(instrs, BoolValidation{Column: i})
		case grid.KindDateTime:
			instrs = append(instrs, DateValidation{Column: i})
		}
	}
	instrs = append(instrs, AutoResizeColumns{Columns: len(schema.Columns)})
	return instrs
}
