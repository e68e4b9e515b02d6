// Package testutil provides shared fixtures for gridsync tests.
package testutil

import (
	"time"

	"github.com/supershift/gridsync/internal/grid"
	"github.com/supershift/gridsync/internal/record"
)

// FixedTime is a deterministic timestamp for datetime round-trip tests.
// Whole seconds keep it exactly representable through serial day-numbers.
func FixedTime() time.Time {
	return time.Date(2024, time.March, 15, 13, 30, 0, 0, time.UTC)
}

// ProductSchema is the canonical two-column test schema.
func ProductSchema() grid.Schema {
	return grid.Schema{
		RecordType: "catalog.Product",
		Columns: []grid.Column{
			{DisplayName: "Name", Property: "Name", Type: grid.TagString},
			{DisplayName: "Active", Property: "Active", Type: grid.TagBool},
		},
	}
}

// ProductRecords returns the two records matching ProductSchema used by
// the classification tests.
func ProductRecords() []record.Accessor {
	return []record.Accessor{
		record.NewMap("catalog.Product", map[string]any{"Name": "A", "Active": true}),
		record.NewMap("catalog.Product", map[string]any{"Name": "B", "Active": false}),
	}
}

// WideSchema builds a schema exercising every kind in the closed set plus
// an opaque one.
func WideSchema() grid.Schema {
	return grid.Schema{
		RecordType: "catalog.Item",
		Columns: []grid.Column{
			{DisplayName: "Title", Property: "Title", Type: grid.TagString},
			{DisplayName: "In Stock", Property: "InStock", Type: grid.TagBool},
			{DisplayName: "Count", Property: "Count", Type: grid.TagInt},
			{DisplayName: "Price", Property: "Price", Type: grid.TagFloat},
			{DisplayName: "Updated", Property: "Updated", Type: grid.TagDateTime},
			{DisplayName: "Status", Property: "Status", Type: grid.OtherTag("catalog.Status")},
		},
	}
}
