package gridstore

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/supershift/gridsync/internal/engine"
	"github.com/supershift/gridsync/internal/grid"
)

const (
	xlsxDataSheet = "Data"

	// xlsxMetaSheet is a hidden sheet carrying the grid metadata as
	// scope/index/key/value rows, since xlsx has no developer-metadata
	// concept of its own.
	xlsxMetaSheet = "_gridsync"

	// xlsxValidationRows bounds how far down column validations apply.
	xlsxValidationRows = 10000
)

// XLSXStore is a Store backed by .xlsx workbooks on disk. The id passed to
// Write and Read is the file path. Data lands on a visible sheet with a
// styled header; metadata lands on a hidden sheet so a user editing the
// workbook round-trips through the decoder without seeing it.
type XLSXStore struct{}

// NewXLSXStore returns a workbook-file store.
func NewXLSXStore() *XLSXStore {
	return &XLSXStore{}
}

// Write renders the grid into a workbook at path, replacing any existing
// file. Dropdown and boolean validations are honored; instructions the
// format cannot express are ignored.
func (x *XLSXStore) Write(ctx context.Context, path string, g *grid.Grid, instrs []engine.Instruction) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", xlsxDataSheet)

	if err := writeXLSXCells(f, g); err != nil {
		return fmt.Errorf("write workbook %s: %w", path, err)
	}
	if err := writeXLSXMetadata(f, g); err != nil {
		return fmt.Errorf("write workbook %s: %w", path, err)
	}
	if err := applyXLSXInstructions(f, instrs); err != nil {
		return fmt.Errorf("write workbook %s: %w", path, err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook %s: %w", path, err)
	}
	return nil
}

func writeXLSXCells(f *excelize.File, g *grid.Grid) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"CCCCCC"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22}) // m/d/yy h:mm
	if err != nil {
		return err
	}

	for col, cell := range g.Header {
		name, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if text, ok := cell.Value.(grid.Text); ok {
			if err := f.SetCellValue(xlsxDataSheet, name, string(text)); err != nil {
				return err
			}
		}
	}
	if len(g.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(g.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(xlsxDataSheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range g.Rows {
		for c, cell := range row {
			if cell.IsAbsent() {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			switch v := cell.Value.(type) {
			case grid.Text:
				err = f.SetCellValue(xlsxDataSheet, name, string(v))
			case grid.Boolean:
				err = f.SetCellBool(xlsxDataSheet, name, bool(v))
			case grid.Number:
				if err = f.SetCellValue(xlsxDataSheet, name, float64(v)); err == nil && cell.Format == grid.FormatDateTime {
					err = f.SetCellStyle(xlsxDataSheet, name, name, dateStyle)
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeXLSXMetadata(f *excelize.File, g *grid.Grid) error {
	if _, err := f.NewSheet(xlsxMetaSheet); err != nil {
		return err
	}

	type metaRow struct {
		scope string
		index int
		key   string
		value string
	}
	var rows []metaRow
	if g.RecordType != "" {
		rows = append(rows, metaRow{"sheet", 0, grid.MetaValueType, g.RecordType})
	}
	for idx := 0; idx < len(g.Columns); idx++ {
		meta, ok := g.Columns[idx]
		if !ok {
			continue
		}
		rows = append(rows,
			metaRow{"column", idx, grid.MetaPropertyName, meta.Property},
			metaRow{"column", idx, grid.MetaPropertyType, meta.Type.String()},
		)
	}
	for idx := 1; idx <= len(g.Rows); idx++ {
		hash, ok := g.RowHashes[idx]
		if !ok {
			continue
		}
		rows = append(rows, metaRow{"row", idx, grid.MetaRowHash, hash})
	}

	for i, row := range rows {
		base := i + 1
		cells := []any{row.scope, strconv.Itoa(row.index), row.key, row.value}
		for c, v := range cells {
			name, err := excelize.CoordinatesToCellName(c+1, base)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(xlsxMetaSheet, name, v); err != nil {
				return err
			}
		}
	}

	return f.SetSheetVisible(xlsxMetaSheet, false)
}

func applyXLSXInstructions(f *excelize.File, instrs []engine.Instruction) error {
	for _, instr := range instrs {
		switch in := instr.(type) {
		case engine.DropdownValidation:
			if err := addDropdown(f, in.Column, in.Choices); err != nil {
				return err
			}
		case engine.BoolValidation:
			if err := addDropdown(f, in.Column, []string{"TRUE", "FALSE"}); err != nil {
				return err
			}
		case engine.AutoResizeColumns:
			for col := 0; col < in.Columns; col++ {
				name, err := excelize.ColumnNumberToName(col + 1)
				if err != nil {
					return err
				}
				if err := f.SetColWidth(xlsxDataSheet, name, name, 18); err != nil {
					return err
				}
			}
			// ProtectHeader and DateValidation have no xlsx equivalent worth
			// the format gymnastics; stores may ignore instructions.
		}
	}
	return nil
}

func addDropdown(f *excelize.File, column int, choices []string) error {
	colName, err := excelize.ColumnNumberToName(column + 1)
	if err != nil {
		return err
	}
	dv := excelize.NewDataValidation(true)
	dv.Sqref = fmt.Sprintf("%s2:%s%d", colName, colName, xlsxValidationRows)
	if err := dv.SetDropList(choices); err != nil {
		return err
	}
	return f.AddDataValidation(xlsxDataSheet, dv)
}

// Read loads the workbook at path and reconstructs the grid from the data
// sheet plus the hidden metadata sheet. A missing file maps to ErrNotFound.
func (x *XLSXStore) Read(ctx context.Context, path string) (*grid.Grid, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("read workbook %s: %w", path, ErrNotFound)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", path, err)
	}
	defer f.Close()

	g := &grid.Grid{
		Columns:   make(map[int]grid.ColumnMeta),
		RowHashes: make(map[int]string),
	}

	if err := readXLSXMetadata(f, g); err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", path, err)
	}
	if err := readXLSXCells(f, g); err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", path, err)
	}
	return g, nil
}

func readXLSXMetadata(f *excelize.File, g *grid.Grid) error {
	rows, err := f.GetRows(xlsxMetaSheet)
	if err != nil {
		// No metadata sheet: decode proceeds schema-less per the decoder's
		// degradation rules.
		return nil
	}
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		scope, key, value := row[0], row[2], row[3]
		idx, err := strconv.Atoi(row[1])
		if err != nil {
			continue
		}
		switch {
		case scope == "sheet" && key == grid.MetaValueType:
			g.RecordType = value
		case scope == "column" && key == grid.MetaPropertyName:
			meta := g.Columns[idx]
			meta.Property = value
			g.Columns[idx] = meta
		case scope == "column" && key == grid.MetaPropertyType:
			meta := g.Columns[idx]
			meta.Type = grid.ParseTypeTag(value)
			g.Columns[idx] = meta
		case scope == "row" && key == grid.MetaRowHash:
			g.RowHashes[idx] = value
		}
	}
	return nil
}

func readXLSXCells(f *excelize.File, g *grid.Grid) error {
	rows, err := f.GetRows(xlsxDataSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	g.Header = make([]grid.Cell, len(rows[0]))
	for c, raw := range rows[0] {
		if strings.TrimSpace(raw) != "" {
			g.Header[c] = grid.TextCell(raw)
		}
	}

	for r := 1; r < len(rows); r++ {
		row := make([]grid.Cell, len(rows[r]))
		for c, raw := range rows[r] {
			cell, err := readXLSXCell(f, r, c, raw, g.Columns)
			if err != nil {
				return err
			}
			row[c] = cell
		}
		g.Rows = append(g.Rows, row)
	}
	return nil
}

// readXLSXCell rebuilds one cell from its raw stored value. The DateTime
// hint cannot be recovered from the workbook's number format without
// style plumbing, so it is reattached from the column's declared type,
// which is exactly what the fingerprint needs to stay stable.
func readXLSXCell(f *excelize.File, row, col int, raw string, cols map[int]grid.ColumnMeta) (grid.Cell, error) {
	if strings.TrimSpace(raw) == "" {
		return grid.AbsentCell(), nil
	}

	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return grid.Cell{}, err
	}
	cellType, err := f.GetCellType(xlsxDataSheet, name)
	if err != nil {
		return grid.Cell{}, err
	}

	switch cellType {
	case excelize.CellTypeBool:
		return grid.BoolCell(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return grid.TextCell(raw), nil
		}
		if meta, ok := cols[col]; ok && meta.Type.Kind == grid.KindDateTime {
			return grid.DateTimeCell(n), nil
		}
		return grid.NumberCell(n), nil
	default:
		// Unstyled numeric input typed by a user can surface as an
		// unknown cell type; prefer the numeric reading when it parses.
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			if meta, ok := cols[col]; ok && meta.Type.Kind == grid.KindDateTime {
				return grid.DateTimeCell(n), nil
			}
			return grid.NumberCell(n), nil
		}
		return grid.TextCell(raw), nil
	}
}
