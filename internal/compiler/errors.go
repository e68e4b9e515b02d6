package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError describes a schema definition that failed to compile, with
// the offending field and source position when CUE can provide one.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// formatCUEError converts a raw CUE error into a CompileError, keeping the
// first position CUE reports.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	var pos token.Pos
	if cueErr, ok := err.(errors.Error); ok {
		pos = cueErr.Position()
	}
	return &CompileError{Message: errors.Details(err, nil), Pos: pos}
}
