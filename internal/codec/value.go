package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/supershift/gridsync/internal/grid"
)

// Encode converts a typed scalar to a grid cell. Dispatch is over the
// runtime value: strings become text cells (blank strings become absent),
// booleans become boolean cells, all numeric kinds narrow to float64
// number cells, and times become serial-date cells with the DateTime hint.
// The declared tag resolves one ambiguity: a float destined for a DateTime
// column is taken to be an already-converted serial and gets the hint. Any
// other non-nil value falls back to its string rendering.
func Encode(value any, declared grid.TypeTag) grid.Cell {
	switch v := value.(type) {
	case nil:
		return grid.AbsentCell()
	case string:
		if strings.TrimSpace(v) == "" {
			return grid.AbsentCell()
		}
		return grid.TextCell(v)
	case bool:
		return grid.BoolCell(v)
	case int:
		return grid.NumberCell(float64(v))
	case int8:
		return grid.NumberCell(float64(v))
	case int16:
		return grid.NumberCell(float64(v))
	case int32:
		return grid.NumberCell(float64(v))
	case int64:
		return grid.NumberCell(float64(v))
	case uint:
		return grid.NumberCell(float64(v))
	case uint8:
		return grid.NumberCell(float64(v))
	case uint16:
		return grid.NumberCell(float64(v))
	case uint32:
		return grid.NumberCell(float64(v))
	case uint64:
		return grid.NumberCell(float64(v))
	case float32:
		return grid.NumberCell(float64(v))
	case float64:
		if declared.Kind == grid.KindDateTime {
			return grid.DateTimeCell(v)
		}
		return grid.NumberCell(v)
	case time.Time:
		if v.IsZero() {
			return grid.AbsentCell()
		}
		return grid.DateTimeCell(ToSerial(v))
	default:
		s := fmt.Sprint(v)
		if strings.TrimSpace(s) == "" {
			return grid.AbsentCell()
		}
		return grid.TextCell(s)
	}
}

// Decode converts a grid cell back to a value of the declared type. The
// cell's primitive is read first (a DateTime-hinted number becomes a time,
// a zero serial becomes absent), then coerced to the target type. A failed
// coercion yields nil, never an error: conversion failures are recovered
// locally so the surrounding row still decodes.
func Decode(c grid.Cell, target grid.TypeTag) any {
	prim := primitive(c)
	if prim == nil {
		return nil
	}
	return coerce(prim, target)
}

// primitive reads the raw cell value: time.Time for DateTime-hinted
// numbers, float64 for plain numbers, bool, or string. Blank text and
// zero-date serials read as nil.
func primitive(c grid.Cell) any {
	switch v := c.Value.(type) {
	case grid.Number:
		if c.Format == grid.FormatDateTime {
			t := FromSerial(float64(v))
			if t.IsZero() {
				return nil
			}
			return t
		}
		return float64(v)
	case grid.Boolean:
		return bool(v)
	case grid.Text:
		if strings.TrimSpace(string(v)) == "" {
			return nil
		}
		return string(v)
	default:
		return nil
	}
}

// coerce converts a decoded primitive to the declared column type.
// Unsupported conversions, including anything targeting a type outside the
// closed set, return nil.
func coerce(prim any, target grid.TypeTag) any {
	switch target.Kind {
	case grid.KindString:
		switch v := prim.(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		case time.Time:
			return v.UTC().Format(time.RFC3339)
		}
	case grid.KindBool:
		switch v := prim.(type) {
		case bool:
			return v
		case float64:
			return v != 0
		case string:
			b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v)))
			if err != nil {
				return nil
			}
			return b
		}
	case grid.KindInt:
		switch v := prim.(type) {
		case float64:
			return int64(math.Round(v))
		case string:
			i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil
			}
			return i
		}
	case grid.KindFloat:
		switch v := prim.(type) {
		case float64:
			return v
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil
			}
			return f
		}
	case grid.KindDateTime:
		if t, ok := prim.(time.Time); ok {
			return t
		}
	}
	return nil
}
