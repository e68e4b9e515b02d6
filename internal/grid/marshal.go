package grid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Marshal serializes a grid to deterministic JSON: fields in a fixed order,
// metadata keys sorted numerically, no HTML escaping. The same grid always
// marshals to the same bytes, which makes the output safe for durable
// storage and golden comparison.
func Marshal(g *Grid) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString(`"` + MetaValueType + `":`)
	if err := writeJSONString(&buf, g.RecordType); err != nil {
		return nil, err
	}

	buf.WriteString(`,"header":`)
	if err := writeCells(&buf, g.Header); err != nil {
		return nil, err
	}

	buf.WriteString(`,"rows":[`)
	for i, row := range g.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCells(&buf, row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	buf.WriteByte(']')

	buf.WriteString(`,"columnMetadata":{`)
	colIdx := make([]int, 0, len(g.Columns))
	for k := range g.Columns {
		colIdx = append(colIdx, k)
	}
	sort.Ints(colIdx)
	for i, idx := range colIdx {
		if i > 0 {
			buf.WriteByte(',')
		}
		meta := g.Columns[idx]
		buf.WriteString(`"` + strconv.Itoa(idx) + `":{"` + MetaPropertyName + `":`)
		if err := writeJSONString(&buf, meta.Property); err != nil {
			return nil, err
		}
		buf.WriteString(`,"` + MetaPropertyType + `":`)
		if err := writeJSONString(&buf, meta.Type.String()); err != nil {
			return nil, err
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	buf.WriteString(`,"rowMetadata":{`)
	hashIdx := make([]int, 0, len(g.RowHashes))
	for k := range g.RowHashes {
		hashIdx = append(hashIdx, k)
	}
	sort.Ints(hashIdx)
	for i, idx := range hashIdx {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"` + strconv.Itoa(idx) + `":{"` + MetaRowHash + `":`)
		if err := writeJSONString(&buf, g.RowHashes[idx]); err != nil {
			return nil, err
		}
		buf.WriteByte('}')
	}
	buf.WriteString(`}}`)

	return buf.Bytes(), nil
}

func writeCells(buf *bytes.Buffer, cells []Cell) error {
	buf.WriteByte('[')
	for i, c := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCell(buf, c); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeCell(buf *bytes.Buffer, c Cell) error {
	buf.WriteByte('{')
	switch v := c.Value.(type) {
	case nil:
		// absent cell marshals as an empty object
	case Text:
		buf.WriteString(`"text":`)
		if err := writeJSONString(buf, string(v)); err != nil {
			return err
		}
	case Number:
		num, err := json.Marshal(float64(v))
		if err != nil {
			return err
		}
		buf.WriteString(`"number":`)
		buf.Write(num)
	case Boolean:
		buf.WriteString(`"bool":`)
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	default:
		return fmt.Errorf("unknown cell value type: %T", c.Value)
	}
	if c.Format == FormatDateTime {
		if !c.IsAbsent() {
			buf.WriteByte(',')
		}
		buf.WriteString(`"format":"datetime"`)
	}
	buf.WriteByte('}')
	return nil
}

// writeJSONString writes a JSON string without HTML escaping.
func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// json.Encoder appends a trailing newline, drop it
	b := buf.Bytes()
	if len(b) > 0 && b[len(b)-1] == '\n' {
		buf.Truncate(len(b) - 1)
	}
	return nil
}

type cellJSON struct {
	Text   *string  `json:"text,omitempty"`
	Number *float64 `json:"number,omitempty"`
	Bool   *bool    `json:"bool,omitempty"`
	Format string   `json:"format,omitempty"`
}

type columnMetaJSON struct {
	PropertyName string `json:"propertyName"`
	PropertyType string `json:"propertyType"`
}

type rowMetaJSON struct {
	RowHash string `json:"rowHash"`
}

type gridJSON struct {
	ValueType      string                    `json:"valueType"`
	Header         []cellJSON                `json:"header"`
	Rows           [][]cellJSON              `json:"rows"`
	ColumnMetadata map[string]columnMetaJSON `json:"columnMetadata"`
	RowMetadata    map[string]rowMetaJSON    `json:"rowMetadata"`
}

// Unmarshal inverts Marshal.
func Unmarshal(data []byte) (*Grid, error) {
	var raw gridJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal grid: %w", err)
	}

	g := &Grid{
		RecordType: raw.ValueType,
		Columns:    make(map[int]ColumnMeta, len(raw.ColumnMetadata)),
		RowHashes:  make(map[int]string, len(raw.RowMetadata)),
	}

	var err error
	g.Header, err = readCells(raw.Header)
	if err != nil {
		return nil, fmt.Errorf("unmarshal grid header: %w", err)
	}
	g.Rows = make([][]Cell, len(raw.Rows))
	for i, row := range raw.Rows {
		g.Rows[i], err = readCells(row)
		if err != nil {
			return nil, fmt.Errorf("unmarshal grid row %d: %w", i, err)
		}
	}

	for key, meta := range raw.ColumnMetadata {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("unmarshal grid: bad column index %q", key)
		}
		g.Columns[idx] = ColumnMeta{
			Property: meta.PropertyName,
			Type:     ParseTypeTag(meta.PropertyType),
		}
	}
	for key, meta := range raw.RowMetadata {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("unmarshal grid: bad row index %q", key)
		}
		g.RowHashes[idx] = meta.RowHash
	}

	return g, nil
}

func readCells(raw []cellJSON) ([]Cell, error) {
	cells := make([]Cell, len(raw))
	for i, rc := range raw {
		var c Cell
		switch {
		case rc.Text != nil:
			c.Value = Text(*rc.Text)
		case rc.Number != nil:
			c.Value = Number(*rc.Number)
		case rc.Bool != nil:
			c.Value = Boolean(*rc.Bool)
		}
		switch rc.Format {
		case "":
		case "datetime":
			c.Format = FormatDateTime
		default:
			return nil, fmt.Errorf("cell %d: unknown format %q", i, rc.Format)
		}
		cells[i] = c
	}
	return cells, nil
}
