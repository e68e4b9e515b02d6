package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supershift/gridsync/internal/compiler"
	"github.com/supershift/gridsync/internal/engine"
	"github.com/supershift/gridsync/internal/grid"
	"github.com/supershift/gridsync/internal/gridstore"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Schema        string // named schema to use when the file defines several
	DBPath        string // SQLite store path
	OutPath       string // XLSX workbook path
	SheetID       string // grid id in the SQLite store
	SkipBadRows   bool   // skip records with failing property lookups
	MetadataLimit int    // metadata budget override
}

// ExportSummary is the payload reported after a successful export.
type ExportSummary struct {
	SheetID    string `json:"sheet_id,omitempty"`
	OutPath    string `json:"out_path,omitempty"`
	RecordType string `json:"record_type,omitempty"`
	Columns    int    `json:"columns"`
	Rows       int    `json:"rows"`
	Warning    string `json:"warning,omitempty"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <schema.cue> <records.yaml>",
		Short: "Encode records into a grid and write it to a store",
		Long: `Encode a YAML record collection against a CUE schema definition and write
the resulting grid to a SQLite store (--db), an XLSX workbook (--out), or
both. Row fingerprints are embedded so a later import can classify edits.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "schema name when the file defines several")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite grid store path")
	cmd.Flags().StringVar(&opts.OutPath, "out", "", "XLSX workbook path")
	cmd.Flags().StringVar(&opts.SheetID, "id", "", "grid id in the SQLite store (default: new id)")
	cmd.Flags().BoolVar(&opts.SkipBadRows, "skip-bad-rows", false, "skip records with failing property lookups instead of aborting")
	cmd.Flags().IntVar(&opts.MetadataLimit, "metadata-limit", 0, "metadata size ceiling (default 30000)")

	return cmd
}

func runExport(opts *ExportOptions, schemaPath, recordsPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.DBPath == "" && opts.OutPath == "" {
		return NewExitError(ExitCommandError, "nothing to write: pass --db, --out, or both")
	}

	schema, err := selectSchema(schemaPath, opts.Schema)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading schema", err)
	}
	formatter.VerboseLog("Loaded schema %q with %d column(s)", schema.RecordType, len(schema.Columns))

	records, err := LoadRecords(recordsPath, schema)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading records", err)
	}
	formatter.VerboseLog("Loaded %d record(s) from %s", len(records), recordsPath)

	encOpts := engine.Options{MetadataLimit: opts.MetadataLimit}
	if opts.SkipBadRows {
		encOpts.OnLookupError = engine.LookupSkipRow
	}
	result, err := engine.Encode(records, *schema, encOpts)
	if err != nil {
		return WrapExitError(ExitFailure, "encoding records", err)
	}
	if result.Warning != "" {
		formatter.VerboseLog("Warning: %s", result.Warning)
	}

	summary := ExportSummary{
		RecordType: result.Grid.RecordType,
		Columns:    result.Grid.ColumnCount(),
		Rows:       len(result.Grid.Rows),
		Warning:    result.Warning,
	}

	if opts.DBPath != "" {
		store, err := gridstore.OpenSQLite(opts.DBPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening grid store", err)
		}
		defer store.Close()

		id := opts.SheetID
		if id == "" {
			id = gridstore.NewSheetID()
		}
		if err := store.Write(cmd.Context(), id, result.Grid, result.Instructions); err != nil {
			return WrapExitError(ExitFailure, "writing grid store", err)
		}
		summary.SheetID = id
		formatter.VerboseLog("Wrote grid %s to %s", id, opts.DBPath)
	}

	if opts.OutPath != "" {
		store := gridstore.NewXLSXStore()
		if err := store.Write(cmd.Context(), opts.OutPath, result.Grid, result.Instructions); err != nil {
			return WrapExitError(ExitFailure, "writing workbook", err)
		}
		summary.OutPath = opts.OutPath
		formatter.VerboseLog("Wrote workbook %s", opts.OutPath)
	}

	return outputExportSummary(formatter, summary)
}

// selectSchema loads the schema file and picks one definition: the named
// one when --schema is given, otherwise the file's single definition.
func selectSchema(path, name string) (*grid.Schema, error) {
	schemas, err := compiler.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		if len(schemas) > 1 {
			return nil, fmt.Errorf("%s defines %d schemas, pick one with --schema", path, len(schemas))
		}
		return schemas[0].Schema, nil
	}
	for _, s := range schemas {
		if s.Name == name {
			return s.Schema, nil
		}
	}
	return nil, fmt.Errorf("no schema named %q in %s", name, path)
}

func outputExportSummary(f *OutputFormatter, summary ExportSummary) error {
	if f.Format == "json" {
		return f.JSON(summary)
	}

	f.Printf("Exported %d row(s), %d column(s)", summary.Rows, summary.Columns)
	if summary.RecordType != "" {
		f.Printf(" of %s", summary.RecordType)
	}
	f.Printf("\n")
	if summary.SheetID != "" {
		f.Printf("Grid id: %s\n", summary.SheetID)
	}
	if summary.OutPath != "" {
		f.Printf("Workbook: %s\n", summary.OutPath)
	}
	if summary.Warning != "" {
		f.Printf("Warning: %s\n", summary.Warning)
	}
	return nil
}
