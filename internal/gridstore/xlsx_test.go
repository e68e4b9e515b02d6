package gridstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/supershift/gridsync/internal/engine"
	"github.com/supershift/gridsync/internal/grid"
	"github.com/supershift/gridsync/internal/record"
	"github.com/supershift/gridsync/internal/testutil"
)

func TestXLSXWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewXLSXStore()
	path := filepath.Join(t.TempDir(), "products.xlsx")

	res := encodeProducts(t)
	require.NoError(t, store.Write(ctx, path, res.Grid, res.Instructions))

	got, err := store.Read(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, res.Grid.RecordType, got.RecordType)
	assert.Equal(t, res.Grid.Columns, got.Columns)
	assert.Equal(t, res.Grid.RowHashes, got.RowHashes)

	// The workbook round-trip must classify every row unchanged: cell
	// values and fingerprints both survive.
	decoded, err := engine.Decode(got)
	require.NoError(t, err)
	require.Len(t, decoded.Rows, 2)
	for _, row := range decoded.Rows {
		assert.Equal(t, engine.Unchanged, row.Class)
	}
	assert.Equal(t, map[string]any{"Name": "A", "Active": true}, decoded.Rows[0].Values)
}

func TestXLSXDateTimeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewXLSXStore()
	path := filepath.Join(t.TempDir(), "events.xlsx")

	schema := grid.Schema{
		RecordType: "audit.Event",
		Columns: []grid.Column{
			{DisplayName: "Title", Property: "Title", Type: grid.TagString},
			{DisplayName: "When", Property: "When", Type: grid.TagDateTime},
		},
	}
	when := testutil.FixedTime()
	records := []record.Accessor{
		record.NewMap("audit.Event", map[string]any{"Title": "launch", "When": when}),
	}
	res, err := engine.Encode(records, schema, engine.Options{})
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, path, res.Grid, res.Instructions))

	got, err := store.Read(ctx, path)
	require.NoError(t, err)
	decoded, err := engine.Decode(got)
	require.NoError(t, err)
	require.Len(t, decoded.Rows, 1)

	assert.Equal(t, engine.Unchanged, decoded.Rows[0].Class)
	tm, ok := decoded.Rows[0].Values["When"].(time.Time)
	require.True(t, ok)
	assert.True(t, when.Equal(tm), "want %v, got %v", when, tm)
}

func TestXLSXReadMissingFile(t *testing.T) {
	store := NewXLSXStore()
	_, err := store.Read(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestXLSXMetadataSheetHidden(t *testing.T) {
	ctx := context.Background()
	store := NewXLSXStore()
	path := filepath.Join(t.TempDir(), "products.xlsx")
	res := encodeProducts(t)
	require.NoError(t, store.Write(ctx, path, res.Grid, res.Instructions))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	visible, err := f.GetSheetVisible("_gridsync")
	require.NoError(t, err)
	assert.False(t, visible)

	// The data sheet carries the header text a user sees.
	name, err := f.GetCellValue("Data", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Name", name)
}

func TestXLSXWriteReplacesFile(t *testing.T) {
	ctx := context.Background()
	store := NewXLSXStore()
	path := filepath.Join(t.TempDir(), "products.xlsx")

	res := encodeProducts(t)
	require.NoError(t, store.Write(ctx, path, res.Grid, nil))

	smaller, err := engine.Encode(testutil.ProductRecords()[:1], testutil.ProductSchema(), engine.Options{})
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, path, smaller.Grid, nil))

	got, err := store.Read(ctx, path)
	require.NoError(t, err)
	assert.Len(t, got.Rows, 1)
	assert.Len(t, got.RowHashes, 1)
}
