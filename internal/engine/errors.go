package engine

import (
	"errors"
	"fmt"
)

// ErrNoData reports that a grid holds nothing to decode: no data rows, or
// no column metadata to decode them with. It is distinct from a successful
// decode with zero changed rows, so callers can tell "nothing to import"
// apart from "everything unchanged".
var ErrNoData = errors.New("grid contains no data to decode")

// SchemaErrorCode categorizes schema-level failures.
type SchemaErrorCode string

const (
	// ErrCodeInvalidSchema indicates the schema itself is malformed
	// (no columns, duplicate or empty property keys).
	ErrCodeInvalidSchema SchemaErrorCode = "INVALID_SCHEMA"

	// ErrCodePropertyLookup indicates a record lacks a property the schema
	// references. This is code/schema drift, not bad data, so it surfaces
	// as a failure instead of being silently skipped.
	ErrCodePropertyLookup SchemaErrorCode = "PROPERTY_LOOKUP"
)

// SchemaError is a structured failure raised when records and schema have
// drifted apart. Conversion-level problems never raise it; those decode to
// absent values per the lossy-decode policy.
type SchemaError struct {
	Code       SchemaErrorCode
	RecordType string
	Property   string
	Message    string
	Err        error
}

func (e *SchemaError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("%s: %s (record=%s, property=%s)", e.Code, e.Message, e.RecordType, e.Property)
	}
	if e.RecordType != "" {
		return fmt.Sprintf("%s: %s (record=%s)", e.Code, e.Message, e.RecordType)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IsSchemaError reports whether err is (or wraps) a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

func newLookupError(recordType, property string, err error) *SchemaError {
	return &SchemaError{
		Code:       ErrCodePropertyLookup,
		RecordType: recordType,
		Property:   property,
		Message:    "record property lookup failed",
		Err:        err,
	}
}
