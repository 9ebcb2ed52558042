package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/imgslice/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlay_ScalesEachAxis(t *testing.T) {
	regions, err := Plan(1000, 500, horizontal(400, 250))
	require.NoError(t, err)

	rects := Overlay(regions, 1000, 500, 500, 100)
	require.Len(t, rects, len(regions))

	assert.Equal(t, OverlayRect{Page: 1, X: 0, Y: 0, Width: 200, Height: 50}, rects[0])
	assert.Equal(t, OverlayRect{Page: 3, X: 400, Y: 0, Width: 100, Height: 50}, rects[2])
	assert.Equal(t, OverlayRect{Page: 6, X: 400, Y: 50, Width: 100, Height: 50}, rects[5])
}

func TestOverlay_MatchesPlanOrder(t *testing.T) {
	regions, err := Plan(300, 900, vertical(300, 400))
	require.NoError(t, err)
	rects := Overlay(regions, 300, 900, 300, 900)
	for i, r := range rects {
		assert.Equal(t, i+1, r.Page)
		assert.Equal(t, float32(regions[i].Y), r.Y)
		assert.Equal(t, float32(regions[i].Height), r.Height)
	}
}

func TestOverlay_Empty(t *testing.T) {
	assert.Nil(t, Overlay(nil, 100, 100, 50, 50))
	assert.Nil(t, Overlay([]model.Region{{Width: 1, Height: 1}}, 0, 100, 50, 50))
}

func TestGridPosition(t *testing.T) {
	cfg := horizontal(400, 400)
	row, col := GridPosition(0, 1000, cfg)
	assert.Equal(t, [2]int{0, 0}, [2]int{row, col})
	row, col = GridPosition(5, 1000, cfg)
	assert.Equal(t, [2]int{1, 2}, [2]int{row, col})

	row, col = GridPosition(3, 1000, vertical(400, 400))
	assert.Equal(t, [2]int{3, 0}, [2]int{row, col})

	row, col = GridPosition(2, 1000, horizontal(math.MaxInt, 10))
	assert.Equal(t, [2]int{2, 0}, [2]int{row, col}, "one column when the slice is wider than any image")
}
