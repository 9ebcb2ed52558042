package session

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/imgslice/internal/export"
	"github.com/piwi3910/imgslice/internal/model"
)

func newTestSession() *Session {
	return New(model.DefaultAppConfig(), log.New(os.Stderr))
}

func testBitmap(w, h int) *model.Bitmap {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return model.NewBitmap("test.png", "png", img)
}

func TestLoadProposesDefaults(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Load(testBitmap(500, 3000), 800, 600))

	assert.Equal(t, model.PartitionConfig{SliceWidth: 500, SliceHeight: 1000, Orientation: model.OrientationHorizontal}, s.Proposed())
	assert.True(t, s.Config().IsZero(), "proposal must not be applied")
	assert.Empty(t, s.Regions())
	assert.Equal(t, 1.0, s.Viewport().Scale)
	assert.NotEmpty(t, s.ID())
}

func TestLoadReplacesSession(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Load(testBitmap(100, 100), 800, 600))
	_, err := s.Apply(model.PartitionConfig{SliceWidth: 50, SliceHeight: 50, Orientation: model.OrientationVertical})
	require.NoError(t, err)
	s.Zoom(-1, 0, 0)
	firstID := s.ID()

	require.NoError(t, s.Load(testBitmap(40, 30), 800, 600))

	assert.NotEqual(t, firstID, s.ID())
	assert.True(t, s.Config().IsZero())
	assert.Empty(t, s.Regions())
	assert.Equal(t, 1.0, s.Viewport().Scale)
	assert.Equal(t, model.OrientationVertical, s.Proposed().Orientation, "orientation carries over")
	assert.Equal(t, 40, s.Proposed().SliceWidth)
	assert.Equal(t, 30, s.Proposed().SliceHeight)
}

func TestLoadRejectsEmptyBitmap(t *testing.T) {
	s := newTestSession()
	assert.ErrorIs(t, s.Load(nil, 800, 600), model.ErrMissingInput)
	assert.ErrorIs(t, s.Load(&model.Bitmap{}, 800, 600), model.ErrMissingInput)
}

func TestApplyWithoutImage(t *testing.T) {
	s := newTestSession()
	_, err := s.Apply(model.PartitionConfig{SliceWidth: 10, SliceHeight: 10, Orientation: model.OrientationHorizontal})
	assert.ErrorIs(t, err, model.ErrMissingInput)
}

func TestApplyPlansRegions(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Load(testBitmap(1000, 1000), 800, 800))

	n, err := s.Apply(model.PartitionConfig{SliceWidth: 400, SliceHeight: 400, Orientation: model.OrientationHorizontal})
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Len(t, s.Regions(), 9)

	overlay := s.Overlay()
	require.Len(t, overlay, 9)
	v := s.Viewport()
	scale := float32(v.BaseWidth) / 1000
	assert.InDelta(t, 400*scale, overlay[1].X, 1e-3)
	assert.InDelta(t, 200*scale, overlay[2].Width, 1e-3)
}

func TestApplyIsAtomic(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Load(testBitmap(5000, 5000), 800, 600))
	good := model.PartitionConfig{SliceWidth: 1000, SliceHeight: 1000, Orientation: model.OrientationHorizontal}
	_, err := s.Apply(good)
	require.NoError(t, err)

	_, err = s.Apply(model.PartitionConfig{SliceWidth: 100, SliceHeight: 100, Orientation: model.OrientationHorizontal})
	var pce *model.PageCountError
	require.ErrorAs(t, err, &pce)
	assert.Equal(t, 2500, pce.Count)

	_, err = s.Apply(model.PartitionConfig{SliceWidth: 0, SliceHeight: 100, Orientation: model.OrientationHorizontal})
	assert.ErrorIs(t, err, model.ErrInvalidConfig)

	assert.Equal(t, good, s.Config())
	assert.Len(t, s.Regions(), 25)
}

func TestRegionsReturnsCopy(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Load(testBitmap(20, 20), 800, 600))
	_, err := s.Apply(model.PartitionConfig{SliceWidth: 10, SliceHeight: 10, Orientation: model.OrientationHorizontal})
	require.NoError(t, err)

	regions := s.Regions()
	regions[0].X = 99
	assert.Equal(t, 0, s.Regions()[0].X)
}

func TestExportRequiresAppliedConfig(t *testing.T) {
	s := newTestSession()
	path := filepath.Join(t.TempDir(), "out.pdf")

	_, err := s.Export(context.Background(), path, nil)
	assert.ErrorIs(t, err, model.ErrMissingInput)

	require.NoError(t, s.Load(testBitmap(20, 20), 800, 600))
	_, err = s.Export(context.Background(), path, nil)
	assert.ErrorIs(t, err, model.ErrMissingInput)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportWritesPDF(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Load(testBitmap(20, 20), 800, 600))
	_, err := s.Apply(model.PartitionConfig{SliceWidth: 10, SliceHeight: 10, Orientation: model.OrientationHorizontal})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.pdf")
	report, err := s.Export(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Pages)
	assert.False(t, s.Exporting())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportIsExclusive(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Load(testBitmap(20, 20), 800, 600))
	cfg := model.PartitionConfig{SliceWidth: 10, SliceHeight: 10, Orientation: model.OrientationHorizontal}
	_, err := s.Apply(cfg)
	require.NoError(t, err)

	var applyErr, loadErr, exportErr error
	var exporting bool
	r := export.NewRenderer(90)
	r.Progress = func(done, total int) {
		if done != 1 {
			return
		}
		exporting = s.Exporting()
		_, applyErr = s.Apply(cfg)
		loadErr = s.Load(testBitmap(5, 5), 800, 600)
		_, exportErr = s.Export(context.Background(), filepath.Join(t.TempDir(), "second.pdf"), nil)
	}

	_, err = s.Export(context.Background(), filepath.Join(t.TempDir(), "first.pdf"), r)
	require.NoError(t, err)

	assert.True(t, exporting)
	assert.ErrorIs(t, applyErr, model.ErrExportInProgress)
	assert.ErrorIs(t, loadErr, model.ErrExportInProgress)
	assert.ErrorIs(t, exportErr, model.ErrExportInProgress)
	assert.False(t, s.Exporting())

	_, err = s.Apply(cfg)
	assert.NoError(t, err, "lock released after export")
}

func TestExportCancelled(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Load(testBitmap(20, 20), 800, 600))
	_, err := s.Apply(model.PartitionConfig{SliceWidth: 10, SliceHeight: 10, Orientation: model.OrientationHorizontal})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	r := export.NewRenderer(100)
	r.Progress = func(done, total int) {
		if done == 2 {
			cancel()
		}
	}
	path := filepath.Join(t.TempDir(), "out.pdf")
	_, err = s.Export(ctx, path, r)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, s.Exporting())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "cancelled export must not deliver a file")
}

func TestExportCancelledKeepsExistingFile(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Load(testBitmap(20, 20), 800, 600))
	_, err := s.Apply(model.PartitionConfig{SliceWidth: 10, SliceHeight: 10, Orientation: model.OrientationHorizontal})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, os.WriteFile(path, []byte("previous export"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	r := export.NewRenderer(100)
	r.Progress = func(done, total int) {
		if done == 1 {
			cancel()
		}
	}
	_, err = s.Export(ctx, path, r)
	require.ErrorIs(t, err, context.Canceled)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous export", string(data))
}

func TestFitResetsZoom(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Load(testBitmap(200, 100), 400, 400))
	s.Zoom(-1, 10, 10)
	s.Pan(5, 5)

	v := s.Fit(400, 400)
	assert.Equal(t, 1.0, v.Scale)
	assert.InDelta(t, 360, v.BaseWidth, 1e-9)
	assert.Equal(t, v, s.Viewport())
}
