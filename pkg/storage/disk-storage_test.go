package storage

import (
	"bytes"
	"io"
	"os"
	"path"
	"testing"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	d := NewDiskStorage("se", t.TempDir())
	field := types.NewLightweightField("category", "Category", "text", "C").WithChoices(&types.DisplayChoices{
		SortOrder: "ascending",
		Entries:   []types.DisplayEntry{{Value: "news", Label: "News", Default: true}},
	})
	field.ContentTypeIds = []types.ContentTypeId{311}
	snapshot := catalog.Snapshot{
		System: []types.LightweightField{types.NewLightweightField("sys_title", "Title", "text", "T")},
		Local:  []types.LightweightField{field},
		Tracker: catalog.TrackerState{
			AllWithChoices: true,
		},
	}
	require.NoError(t, d.SaveSnapshot(snapshot))

	loaded := catalog.Snapshot{}
	require.NoError(t, d.LoadSnapshot(&loaded))
	assert.Equal(t, snapshot.System, loaded.System)
	assert.Equal(t, snapshot.Local, loaded.Local)
	assert.True(t, loaded.Tracker.AllWithChoices)

	entries, err := os.ReadDir(path.Join(d.RootFolder, "se"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are renamed away")
}

func TestLoadSnapshot_Missing(t *testing.T) {
	d := NewDiskStorage("se", t.TempDir())
	err := d.LoadSnapshot(&catalog.Snapshot{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenDocument(t *testing.T) {
	d := NewDiskStorage("se", t.TempDir())
	require.NoError(t, d.ensureFolder())
	fileName, _ := d.GetFileName("catalog.xml")
	require.NoError(t, os.WriteFile(fileName, []byte("<FieldCatalog/>"), 0o644))

	r, err := d.OpenDocument("catalog.xml")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	r.Close()
	require.NoError(t, err)
	assert.Equal(t, "<FieldCatalog/>", string(data))

	var buf bytes.Buffer
	n, err := d.StreamContent(&buf, "catalog.xml")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
}

func TestJsonRoundTrip(t *testing.T) {
	d := NewDiskStorage("", t.TempDir())
	in := map[string]int{"a": 1}
	require.NoError(t, d.SaveJson(in, "counts.json"))
	out := map[string]int{}
	require.NoError(t, d.LoadJson(&out, "counts.json"))
	assert.Equal(t, in, out)
}
