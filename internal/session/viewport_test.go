package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitViewportWideImage(t *testing.T) {
	v := FitViewport(2000, 1000, 800, 600)

	assert.Equal(t, 1.0, v.Scale)
	assert.InDelta(t, 720, v.BaseWidth, 1e-9)
	assert.InDelta(t, 360, v.BaseHeight, 1e-9)
	assert.InDelta(t, 0, v.ScrollX, 1e-9)
	assert.InDelta(t, 0, v.ScrollY, 1e-9)
}

func TestFitViewportTallImage(t *testing.T) {
	v := FitViewport(500, 1000, 800, 600)

	assert.InDelta(t, 480, v.BaseHeight, 1e-9)
	assert.InDelta(t, 240, v.BaseWidth, 1e-9)
}

func TestFitViewportEmptyContainer(t *testing.T) {
	v := FitViewport(300, 200, 0, 0)

	assert.Equal(t, 1.0, v.Scale)
	assert.Equal(t, 300.0, v.BaseWidth)
	assert.Equal(t, 200.0, v.BaseHeight)
}

func TestZoomSteps(t *testing.T) {
	v := Viewport{Scale: 1}
	v.Zoom(-1, 0, 0)
	assert.InDelta(t, 1.1, v.Scale, 1e-9)

	v = Viewport{Scale: 1}
	v.Zoom(1, 0, 0)
	assert.InDelta(t, 0.9, v.Scale, 1e-9)

	v.Zoom(0, 0, 0)
	assert.InDelta(t, 0.99, v.Scale, 1e-9, "zero delta zooms in")
}

func TestZoomClamps(t *testing.T) {
	v := Viewport{Scale: 1}
	for i := 0; i < 100; i++ {
		v.Zoom(-1, 0, 0)
	}
	assert.Equal(t, MaxScale, v.Scale)

	for i := 0; i < 100; i++ {
		v.Zoom(1, 0, 0)
	}
	assert.Equal(t, MinScale, v.Scale)
}

func TestZoomKeepsPointUnderCursor(t *testing.T) {
	v := Viewport{Scale: 1.5, ScrollX: 120, ScrollY: 40}
	mouseX, mouseY := 300.0, 200.0

	beforeX := (v.ScrollX + mouseX) / v.Scale
	beforeY := (v.ScrollY + mouseY) / v.Scale
	v.Zoom(-1, mouseX, mouseY)
	afterX := (v.ScrollX + mouseX) / v.Scale
	afterY := (v.ScrollY + mouseY) / v.Scale

	assert.InDelta(t, beforeX, afterX, 1e-9)
	assert.InDelta(t, beforeY, afterY, 1e-9)
}

func TestPanAndDisplaySize(t *testing.T) {
	v := Viewport{Scale: 2, BaseWidth: 100, BaseHeight: 50}
	v.Pan(10, -5)

	assert.Equal(t, -10.0, v.ScrollX)
	assert.Equal(t, 5.0, v.ScrollY)

	w, h := v.DisplaySize()
	assert.Equal(t, 200.0, w)
	assert.Equal(t, 100.0, h)
}
