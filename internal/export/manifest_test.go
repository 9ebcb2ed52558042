package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/imgslice/internal/model"
)

func scenarioLabels() []TileLabel {
	cfg := model.PartitionConfig{SliceWidth: 400, SliceHeight: 400, Orientation: model.OrientationHorizontal}
	return CollectTileLabels(mustPlan(1000, 1000, cfg), 1000, cfg, "")
}

func TestEncodeManifestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeManifestCSV(&buf, scenarioLabels()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 10)
	assert.Equal(t, manifestHeader, records[0])
	assert.Equal(t, []string{"3", "1", "3", "800", "0", "200", "400"}, records[3])
	assert.Equal(t, []string{"9", "3", "3", "800", "800", "200", "200"}, records[9])
}

func TestWriteManifestXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.xlsx")
	require.NoError(t, WriteManifest(path, scenarioLabels()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{manifestSheet}, f.GetSheetList())
	rows, err := f.GetRows(manifestSheet)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	assert.Equal(t, manifestHeader, rows[0])
	assert.Equal(t, []string{"5", "2", "2", "400", "400", "400", "400"}, rows[5])
}

func TestWriteManifestCSVByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.csv")
	require.NoError(t, WriteManifest(path, scenarioLabels()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("page,row,column,x,y,width,height\n")))
}

func TestWriteManifestEmpty(t *testing.T) {
	assert.Error(t, WriteManifest(filepath.Join(t.TempDir(), "m.csv"), nil))
}
