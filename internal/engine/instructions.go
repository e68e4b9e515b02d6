package engine

// Instruction is a sealed interface over the presentation instructions the
// encoder hands to a grid store alongside the grid. Instructions are opaque
// to decode; a store that cannot honor one may ignore it.
type Instruction interface {
	instruction() // Sealed - only the types below implement it
}

// ProtectHeader asks the store to protect the header row from edits; the
// exported columns are the contract of a later import.
type ProtectHeader struct {
	Columns int
}

func (ProtectHeader) instruction() {}

// AutoResizeColumns asks the store to size the first Columns columns to
// their content.
type AutoResizeColumns struct {
	Columns int
}

func (AutoResizeColumns) instruction() {}

// DropdownValidation restricts a column's data cells to an enumerated list
// of choices, derived from the column's declared Choices.
type DropdownValidation struct {
	Column  int
	Choices []string
}

func (DropdownValidation) instruction() {}

// BoolValidation restricts a column's data cells to boolean input.
type BoolValidation struct {
	Column int
}

func (BoolValidation) instruction() {}

// DateValidation restricts a column's data cells to valid dates.
type DateValidation struct {
	Column int
}

func (DateValidation) instruction() {}
