package engine

import (
	"github.com/supershift/gridsync/internal/codec"
	"github.com/supershift/gridsync/internal/grid"
)

// Classification labels a decoded row against the last export.
type Classification int

const (
	// Untracked means the grid carries no fingerprint metadata at all, so
	// no change judgment is possible for any row.
	Untracked Classification = iota

	// New means the row has no recorded fingerprint: it was added after
	// the export.
	New

	// Changed means the recomputed fingerprint differs from the recorded
	// one.
	Changed

	// Unchanged means the fingerprints match.
	Unchanged
)

func (c Classification) String() string {
	switch c {
	case New:
		return "new"
	case Changed:
		return "changed"
	case Unchanged:
		return "unchanged"
	default:
		return "untracked"
	}
}

// ClassifiedRow is one decoded data row: property values keyed by the
// column metadata's property names, plus the change classification.
type ClassifiedRow struct {
	Values map[string]any
	Class  Classification
}

// DecodeResult carries the reconstructed record type identifier and the
// ordered classified rows.
type DecodeResult struct {
	RecordType string
	Rows       []ClassifiedRow
}

// Decode reconstructs typed rows from a previously exported grid.
//
// Column property names and types come strictly from column metadata;
// columns without metadata are never guessed from header text and do not
// appear in the output. Only the leading metadata-described cells of each
// row participate, so columns a spreadsheet user appended out-of-band
// change neither the values nor the fingerprint. Rows whose every value
// decodes to absent are dropped. Returns ErrNoData when the grid has no
// data rows or no column metadata.
func Decode(g *grid.Grid) (*DecodeResult, error) {
	if g == nil || len(g.Rows) == 0 || len(g.Columns) == 0 {
		return nil, ErrNoData
	}

	colCount := g.ColumnCount()
	hasTracking := g.HasTracking()
	result := &DecodeResult{RecordType: g.RecordType}

	for i, row := range g.Rows {
		rowIdx := i + 1 // row metadata is addressed relative to the header

		// Restrict to the exported column range; missing trailing cells
		// read as absent so a truncated row still decodes and fingerprints
		// over the full column set.
		cells := make([]grid.Cell, colCount)
		copy(cells, row)

		values := make(map[string]any, colCount)
		empty := true
		for idx := 0; idx < colCount; idx++ {
			meta, ok := g.Columns[idx]
			if !ok {
				continue
			}
			v := codec.Decode(cells[idx], meta.Type)
			if v != nil {
				empty = false
			}
			values[meta.Property] = v
		}
		if empty {
			continue
		}

		class := Untracked
		if hasTracking {
			recorded, ok := g.RowHashes[rowIdx]
			switch {
			case !ok:
				class = New
			case codec.Fingerprint(cells) == recorded:
				class = Unchanged
			default:
				class = Changed
			}
		}

		result.Rows = append(result.Rows, ClassifiedRow{Values: values, Class: class})
	}

	return result, nil
}
