// Package grid provides the data model for spreadsheet round-tripping.
//
// This package holds the data types and their wire form only. All other
// internal packages import grid; grid imports nothing internal. This keeps
// the grid model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Cell values are a sealed union of text, number, and boolean; absent is
//     represented by a nil Value, never by an empty string or zero
//   - Numbers are always float64, matching the storage primitive of
//     spreadsheet backends
//   - Column metadata is addressed by 0-based column index; row metadata by
//     1-based data row index (row 0 is the header)
//   - The metadata key vocabulary (valueType, propertyName, propertyType,
//     rowHash) is fixed for interoperability with previously written grids
package grid
