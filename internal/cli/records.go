package cli

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/supershift/gridsync/internal/grid"
	"github.com/supershift/gridsync/internal/record"
)

// recordFile is the YAML shape the export command reads records from:
//
//	type: catalog.Product   # optional, defaults to the schema's recordType
//	records:
//	  - Name: "Widget"
//	    Active: true
type recordFile struct {
	Type    string           `yaml:"type,omitempty"`
	Records []map[string]any `yaml:"records"`
}

// dateLayouts are accepted for datetime column values authored as strings.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadRecords reads a YAML record file and adapts its rows to accessors
// for the given schema. Properties a row omits are filled with nil so the
// encoder sees an absent value instead of a lookup failure; string values
// in datetime columns are parsed into times.
func LoadRecords(path string, schema *grid.Schema) ([]record.Accessor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	// Strict decoding catches typos like "record:" vs "records:".
	var file recordFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	typeName := file.Type
	if typeName == "" {
		typeName = schema.RecordType
	}

	records := make([]record.Accessor, 0, len(file.Records))
	for i, raw := range file.Records {
		values := make(map[string]any, len(schema.Columns))
		for _, col := range schema.Columns {
			v, ok := raw[col.Property]
			if !ok {
				values[col.Property] = nil
				continue
			}
			coerced, err := coerceRecordValue(v, col.Type)
			if err != nil {
				return nil, fmt.Errorf("record %d, property %q: %w", i, col.Property, err)
			}
			values[col.Property] = coerced
		}
		records = append(records, record.NewMap(typeName, values))
	}

	return records, nil
}

// coerceRecordValue bridges YAML scalars to the types the codec expects.
// Only datetime columns need help: YAML hands timestamps over as strings.
func coerceRecordValue(v any, tag grid.TypeTag) (any, error) {
	if tag.Kind != grid.KindDateTime {
		return v, nil
	}
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return t.UTC(), nil
			}
		}
		return nil, fmt.Errorf("cannot parse %q as a datetime", val)
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("cannot use %T as a datetime", v)
	}
}
