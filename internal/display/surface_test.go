package display

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	cases := []struct {
		percent float64
		want    Tier
	}{
		{0, TierNormal},
		{40, TierNormal},
		{59.9, TierNormal},
		{60, TierMedium}, // boundary is inclusive
		{65, TierMedium},
		{79.9, TierMedium},
		{80, TierHigh}, // boundary is inclusive
		{85, TierHigh},
		{100, TierHigh},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, TierFor(tc.percent), "percent %.1f", tc.percent)
	}
}

func TestTierColors(t *testing.T) {
	assert.Equal(t, color.RGBA{0xFF, 0x52, 0x52, 0xFF}, TierHigh.Color())
	assert.Equal(t, color.RGBA{0xFF, 0xA7, 0x26, 0xFF}, TierMedium.Color())
	assert.Equal(t, color.RGBA{0x21, 0x96, 0xF3, 0xFF}, TierNormal.Color())
}

func TestRenderPieTwoSlices(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}

	img := RenderPie([]ChartSlice{
		{Label: "used", Value: 1, Color: red},
		{Label: "free", Value: 1, Color: blue},
	}, 100, nil)
	require.NotNil(t, img)

	// Slices run clockwise from 12 o'clock: with a 50/50 split the right
	// half is the first slice, the left half the second.
	assert.Equal(t, red, img.RGBAAt(75, 50))
	assert.Equal(t, blue, img.RGBAAt(25, 50))

	// Corners are outside the disc and keep the background.
	assert.Equal(t, chartBackground, img.RGBAAt(0, 0))
}

func TestRenderPieZeroTotalIsBlank(t *testing.T) {
	img := RenderPie([]ChartSlice{
		{Label: "a", Value: 0, Color: color.RGBA{255, 0, 0, 255}},
	}, 64, nil)
	require.NotNil(t, img)

	assert.Equal(t, chartBackground, img.RGBAAt(32, 32))
}

func TestRenderPieReusesBuffer(t *testing.T) {
	slices := []ChartSlice{{Label: "a", Value: 1, Color: color.RGBA{9, 9, 9, 255}}}

	first := RenderPie(slices, 64, nil)
	second := RenderPie(slices, 64, first)
	assert.Same(t, first, second)

	// Size change forces a fresh allocation.
	third := RenderPie(slices, 128, second)
	assert.NotSame(t, second, third)
	assert.Equal(t, 128, third.Rect.Dx())
}

func TestRenderPieSingleSliceFillsDisc(t *testing.T) {
	green := color.RGBA{0, 200, 0, 255}
	img := RenderPie([]ChartSlice{{Label: "all", Value: 3, Color: green}}, 80, nil)

	for _, p := range []image.Point{{40, 10}, {70, 40}, {40, 70}, {10, 40}, {40, 40}} {
		assert.Equal(t, green, img.RGBAAt(p.X, p.Y), "point %v", p)
	}
}
