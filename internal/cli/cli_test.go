package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productSchemaCUE = `
schema: products: {
	recordType: "catalog.Product"
	columns: [
		{name: "Name", property: "Name", type: "string"},
		{name: "Active", property: "Active", type: "bool"},
	]
}
`

const productRecordsYAML = `
records:
  - Name: "A"
    Active: true
  - Name: "B"
    Active: false
`

// runCommand executes the CLI with args and captures stdout/stderr.
func runCommand(args ...string) (string, string, error) {
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTempFile(t, "schema.cue", productSchemaCUE)
	recordsPath := writeTempFile(t, "records.yaml", productRecordsYAML)
	dbPath := filepath.Join(dir, "grids.db")

	out, _, err := runCommand("export", schemaPath, recordsPath,
		"--db", dbPath, "--id", "sheet-1", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   ExportSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "sheet-1", resp.Data.SheetID)
	assert.Equal(t, "catalog.Product", resp.Data.RecordType)
	assert.Equal(t, 2, resp.Data.Rows)
	assert.Equal(t, 2, resp.Data.Columns)
	assert.Empty(t, resp.Data.Warning)

	out, _, err = runCommand("import", "--db", dbPath, "--id", "sheet-1", "--format", "json")
	require.NoError(t, err)

	var imp struct {
		Status string        `json:"status"`
		Data   ImportSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &imp))
	assert.Equal(t, "ok", imp.Status)
	assert.Equal(t, "catalog.Product", imp.Data.RecordType)
	require.Len(t, imp.Data.Rows, 2)
	for _, row := range imp.Data.Rows {
		assert.Equal(t, "unchanged", row.Classification)
	}
	assert.Equal(t, "A", imp.Data.Rows[0].Values["Name"])
}

func TestExportImportWorkbook(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTempFile(t, "schema.cue", productSchemaCUE)
	recordsPath := writeTempFile(t, "records.yaml", productRecordsYAML)
	xlsxPath := filepath.Join(dir, "products.xlsx")

	_, _, err := runCommand("export", schemaPath, recordsPath, "--out", xlsxPath)
	require.NoError(t, err)
	assert.FileExists(t, xlsxPath)

	out, _, err := runCommand("import", "--in", xlsxPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Record type: catalog.Product")
	assert.Contains(t, out, "2 row(s)")
	assert.Contains(t, out, "row 1 [unchanged] Active=true Name=A")
	assert.Contains(t, out, "row 2 [unchanged] Active=false Name=B")
}

func TestExportRequiresDestination(t *testing.T) {
	schemaPath := writeTempFile(t, "schema.cue", productSchemaCUE)
	recordsPath := writeTempFile(t, "records.yaml", productRecordsYAML)

	_, _, err := runCommand("export", schemaPath, recordsPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExportBadSchemaFile(t *testing.T) {
	recordsPath := writeTempFile(t, "records.yaml", productRecordsYAML)
	schemaPath := writeTempFile(t, "schema.cue", `other: 1`)
	dbPath := filepath.Join(t.TempDir(), "grids.db")

	_, _, err := runCommand("export", schemaPath, recordsPath, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestImportMissingGrid(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "grids.db")
	schemaPath := writeTempFile(t, "schema.cue", productSchemaCUE)
	recordsPath := writeTempFile(t, "records.yaml", productRecordsYAML)

	// Seed the store so the database itself exists.
	_, _, err := runCommand("export", schemaPath, recordsPath, "--db", dbPath, "--id", "sheet-1")
	require.NoError(t, err)

	_, _, err = runCommand("import", "--db", dbPath, "--id", "no-such-sheet")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no data to import")
}

func TestImportEmptyGrid(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "grids.db")
	schemaPath := writeTempFile(t, "schema.cue", productSchemaCUE)
	emptyRecords := writeTempFile(t, "empty.yaml", "records: []\n")

	_, _, err := runCommand("export", schemaPath, emptyRecords, "--db", dbPath, "--id", "sheet-1")
	require.NoError(t, err)

	// A header-only grid decodes to nothing; that is a command error, not
	// a silent empty success.
	_, _, err = runCommand("import", "--db", dbPath, "--id", "sheet-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no data to import")
}

func TestImportFlagValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no source", []string{"import"}},
		{"db without id", []string{"import", "--db", "x.db"}},
		{"db and in together", []string{"import", "--db", "x.db", "--id", "a", "--in", "y.xlsx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCommand(tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestInvalidFormatFlag(t *testing.T) {
	_, _, err := runCommand("inspect", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestInspect(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "grids.db")
	schemaPath := writeTempFile(t, "schema.cue", productSchemaCUE)
	recordsPath := writeTempFile(t, "records.yaml", productRecordsYAML)

	_, _, err := runCommand("export", schemaPath, recordsPath, "--db", dbPath, "--id", "sheet-1")
	require.NoError(t, err)

	out, _, err := runCommand("inspect", "--db", dbPath, "--id", "sheet-1", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   InspectSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "catalog.Product", resp.Data.RecordType)
	assert.Equal(t, 2, resp.Data.Rows)
	assert.True(t, resp.Data.Tracked)
	assert.Equal(t, 2, resp.Data.RowHashes)
	require.Len(t, resp.Data.Columns, 2)
	assert.Equal(t, InspectedColumn{Index: 0, Property: "Name", Type: "string"}, resp.Data.Columns[0])
	assert.Equal(t, InspectedColumn{Index: 1, Property: "Active", Type: "bool"}, resp.Data.Columns[1])
}

func TestExportSkipBadRowsFlag(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "grids.db")
	schemaPath := writeTempFile(t, "schema.cue", productSchemaCUE)

	// The schema omission below never triggers a lookup failure: the
	// loader fills missing properties with nil. Unknown extra properties
	// are simply ignored, so this export succeeds either way and the flag
	// only matters for programmatic accessors. Exercise the flag parsing
	// path regardless.
	recordsPath := writeTempFile(t, "records.yaml", productRecordsYAML)
	_, _, err := runCommand("export", schemaPath, recordsPath, "--db", dbPath, "--skip-bad-rows")
	require.NoError(t, err)
}

func TestExportMetadataLimitWarning(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "grids.db")
	schemaPath := writeTempFile(t, "schema.cue", productSchemaCUE)
	recordsPath := writeTempFile(t, "records.yaml", productRecordsYAML)

	out, _, err := runCommand("export", schemaPath, recordsPath,
		"--db", dbPath, "--id", "sheet-1", "--metadata-limit", "50", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data ExportSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.NotEmpty(t, resp.Data.Warning)

	// The grid still imports, just untracked.
	importOut, _, err := runCommand("import", "--db", dbPath, "--id", "sheet-1")
	require.NoError(t, err)
	assert.Contains(t, importOut, "[untracked]")
}
