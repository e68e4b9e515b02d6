package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/supershift/gridsync/internal/engine"
	"github.com/supershift/gridsync/internal/grid"
	"github.com/supershift/gridsync/internal/gridstore"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	DBPath  string
	SheetID string
	InPath  string
}

// ImportedRow is one classified row in the JSON payload.
type ImportedRow struct {
	Classification string         `json:"classification"`
	Values         map[string]any `json:"values"`
}

// ImportSummary is the payload reported after a successful import.
type ImportSummary struct {
	RecordType string        `json:"record_type,omitempty"`
	Rows       []ImportedRow `json:"rows"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Decode a stored grid and classify its rows",
		Long: `Read a grid back from a SQLite store (--db with --id) or an XLSX workbook
(--in), decode it into typed rows, and label every row new, changed,
unchanged, or untracked relative to the export it came from.

Exits with code 2 when the grid holds nothing to import, which is distinct
from a successful import where no row changed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite grid store path")
	cmd.Flags().StringVar(&opts.SheetID, "id", "", "grid id in the SQLite store")
	cmd.Flags().StringVar(&opts.InPath, "in", "", "XLSX workbook path")

	return cmd
}

func runImport(opts *ImportOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	g, err := readGrid(cmd.Context(), opts)
	if err != nil {
		if errors.Is(err, gridstore.ErrNotFound) {
			return WrapExitError(ExitCommandError, "no data to import", err)
		}
		return WrapExitError(ExitCommandError, "reading grid", err)
	}
	formatter.VerboseLog("Read grid with %d data row(s), %d column(s)", len(g.Rows), g.ColumnCount())

	result, err := engine.Decode(g)
	if err != nil {
		if errors.Is(err, engine.ErrNoData) {
			return WrapExitError(ExitCommandError, "no data to import", err)
		}
		return WrapExitError(ExitFailure, "decoding grid", err)
	}

	return outputImportResult(formatter, result)
}

// readGrid resolves the flag combinations to one grid source.
func readGrid(ctx context.Context, opts *ImportOptions) (*grid.Grid, error) {
	switch {
	case opts.InPath != "" && opts.DBPath != "":
		return nil, fmt.Errorf("--in and --db are mutually exclusive")
	case opts.InPath != "":
		return gridstore.NewXLSXStore().Read(ctx, opts.InPath)
	case opts.DBPath != "":
		if opts.SheetID == "" {
			return nil, fmt.Errorf("--db requires --id")
		}
		store, err := gridstore.OpenSQLite(opts.DBPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Read(ctx, opts.SheetID)
	default:
		return nil, fmt.Errorf("pass --db with --id, or --in")
	}
}

func outputImportResult(f *OutputFormatter, result *engine.DecodeResult) error {
	rows := make([]ImportedRow, len(result.Rows))
	for i, row := range result.Rows {
		rows[i] = ImportedRow{
			Classification: row.Class.String(),
			Values:         row.Values,
		}
	}

	if f.Format == "json" {
		return f.JSON(ImportSummary{RecordType: result.RecordType, Rows: rows})
	}

	if result.RecordType != "" {
		f.Printf("Record type: %s\n", result.RecordType)
	}
	f.Printf("%d row(s)\n", len(rows))
	for i, row := range rows {
		f.Printf("row %d [%s] %s\n", i+1, row.Classification, formatValues(row.Values))
	}
	return nil
}

// formatValues renders a property map as stable "key=value" pairs.
func formatValues(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := values[k]
		switch val := v.(type) {
		case nil:
			parts = append(parts, k+"=")
		case time.Time:
			parts = append(parts, fmt.Sprintf("%s=%s", k, val.UTC().Format(time.RFC3339)))
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", k, val))
		}
	}
	return strings.Join(parts, " ")
}
