// Package engine implements the export encoder and import decoder.
//
// Encode walks a record collection against a schema and produces a grid:
// header row, data rows, column and sheet metadata, per-row fingerprints,
// and a side list of presentation instructions for the store. Decode
// inverts a previously produced grid back into property maps and classifies
// every row as New, Changed, Unchanged, or Untracked by comparing
// recomputed fingerprints against the ones embedded at export time.
//
// Both operations are synchronous and hold no package-level state; callers
// may run encodes and decodes concurrently as long as each call owns its
// Grid and Schema instances.
package engine
