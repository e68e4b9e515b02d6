package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/supershift/gridsync/internal/grid"
)

// NamedSchema pairs a compiled schema with the label it was defined under.
type NamedSchema struct {
	Name   string
	Schema *grid.Schema
}

// LoadFile compiles every schema definition in one CUE file, ordered by
// definition label for deterministic output.
func LoadFile(path string) ([]NamedSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	return extractSchemas(value)
}

// LoadDir compiles every .cue file in a directory and merges their schema
// definitions. Definition labels must be unique across the directory.
func LoadDir(dir string) ([]NamedSchema, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}

	var out []NamedSchema
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		schemas, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		for _, s := range schemas {
			if prev, ok := seen[s.Name]; ok {
				return nil, fmt.Errorf("schema %q defined in both %s and %s", s.Name, prev, path)
			}
			seen[s.Name] = path
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no schema definitions found in %s", dir)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func extractSchemas(value cue.Value) ([]NamedSchema, error) {
	schemasVal := value.LookupPath(cue.ParsePath("schema"))
	if !schemasVal.Exists() {
		return nil, &CompileError{Field: "schema", Message: "no top-level schema field found"}
	}

	iter, err := schemasVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []NamedSchema
	for iter.Next() {
		schema, err := CompileSchema(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("schema.%s: %w", iter.Label(), err)
		}
		out = append(out, NamedSchema{Name: iter.Label(), Schema: schema})
	}
	if len(out) == 0 {
		return nil, &CompileError{Field: "schema", Message: "schema field contains no definitions"}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
