package grid

// Value is a sealed interface representing the closed set of cell
// primitives. Only Text, Number, and Boolean implement it. A nil Value
// means the cell is absent: nothing was written, which is distinct from an
// empty string or a zero number.
type Value interface {
	cellValue() // Sealed - only these types implement it
}

// Text represents a string cell value.
type Text string

func (Text) cellValue() {}

// Number represents a numeric cell value. Always float64 - spreadsheet
// backends store every number, including serial dates, as a double.
type Number float64

func (Number) cellValue() {}

// Boolean represents a boolean cell value.
type Boolean bool

func (Boolean) cellValue() {}

// Format is a display hint attached to a cell. It tells the decoder how to
// invert the encoding; it carries no data of its own.
type Format int

const (
	// FormatNone means the cell renders as its raw primitive.
	FormatNone Format = iota

	// FormatDateTime marks a numeric cell as a serial day-number so the
	// decoder converts it back to a point in time.
	FormatDateTime
)

// Cell is one grid cell: a primitive value plus an optional display hint.
type Cell struct {
	Value  Value
	Format Format
}

// IsAbsent reports whether no value was written to the cell.
func (c Cell) IsAbsent() bool {
	return c.Value == nil
}

// TextCell builds a cell holding a string.
func TextCell(s string) Cell {
	return Cell{Value: Text(s)}
}

// NumberCell builds a cell holding a plain number.
func NumberCell(f float64) Cell {
	return Cell{Value: Number(f)}
}

// BoolCell builds a cell holding a boolean.
func BoolCell(b bool) Cell {
	return Cell{Value: Boolean(b)}
}

// DateTimeCell builds a numeric cell tagged with the DateTime hint.
// The value is a serial day-number, see codec.ToSerial.
func DateTimeCell(serial float64) Cell {
	return Cell{Value: Number(serial), Format: FormatDateTime}
}

// AbsentCell builds a cell with no value.
func AbsentCell() Cell {
	return Cell{}
}
