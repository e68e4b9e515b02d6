// Package gridstore defines the store contract a grid is handed to after
// encoding and read back from before decoding, plus two local backends:
// SQLite for durable storage and XLSX for workbooks a person can edit.
//
// Every backend preserves the metadata key vocabulary (valueType,
// propertyName, propertyType, rowHash) bit-for-bit, so a grid written by
// one backend decodes identically when read from another.
package gridstore

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/supershift/gridsync/internal/engine"
	"github.com/supershift/gridsync/internal/grid"
)

// ErrNotFound reports that the store holds no grid for the given id, for
// example because it was deleted externally. Import paths treat it as "no
// data to decode", not as a crash.
var ErrNotFound = errors.New("grid not found")

// Store reads and writes grids by identifier.
type Store interface {
	// Write stores the grid under id, replacing any previous contents.
	// Presentation instructions may be honored or ignored per backend.
	Write(ctx context.Context, id string, g *grid.Grid, instrs []engine.Instruction) error

	// Read returns the grid stored under id, or ErrNotFound.
	Read(ctx context.Context, id string) (*grid.Grid, error)
}

// NewSheetID returns a fresh identifier for a grid. UUIDv7 keeps ids
// time-ordered, which makes store listings follow creation order.
func NewSheetID() string {
	return uuid.Must(uuid.NewV7()).String()
}
