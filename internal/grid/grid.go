package grid

// Metadata key vocabulary. These identifiers appear in every written grid
// and must be preserved bit-for-bit so previously exported grids keep
// decoding.
const (
	MetaValueType    = "valueType"    // sheet-level: record type name
	MetaPropertyName = "propertyName" // column-level: property key
	MetaPropertyType = "propertyType" // column-level: declared type identifier
	MetaRowHash      = "rowHash"      // row-level: fingerprint digest
)

// ColumnMeta is the per-column metadata carried alongside the grid: which
// record property the column holds and what type it was declared as.
type ColumnMeta struct {
	Property string
	Type     TypeTag
}

// Grid is the unit of exchange between the codec and an external store.
// Header is row 0; Rows holds the data rows. Columns is keyed by 0-based
// column index. RowHashes is keyed by 1-based data row index, mirroring the
// header offset used when addressing rows in a stored sheet.
type Grid struct {
	RecordType string
	Header     []Cell
	Rows       [][]Cell
	Columns    map[int]ColumnMeta
	RowHashes  map[int]string
}

// ColumnCount returns the number of columns described by metadata. Decode
// trusts this over the header width: spreadsheet users may append stray
// columns outside the exported range.
func (g *Grid) ColumnCount() int {
	return len(g.Columns)
}

// HasTracking reports whether any row carries a fingerprint. A grid without
// tracking classifies every row as Untracked.
func (g *Grid) HasTracking() bool {
	return len(g.RowHashes) > 0
}
