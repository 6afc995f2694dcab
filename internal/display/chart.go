package display

import (
	"image"
	"image/color"
	"math"
)

// =============================================================================
// Pie chart renderer
// =============================================================================
// Draws the proportional chart into a plain RGBA image shown through a
// canvas.Image. Slices start at 12 o'clock and proceed clockwise.
// =============================================================================

var chartBackground = color.RGBA{25, 25, 25, 255}

// RenderPie renders the slices into dst, reusing it when it is the right
// size. Returns the image that was drawn (dst or a fresh allocation).
// Zero-total or empty input yields a blank chart rather than failing.
func RenderPie(slices []ChartSlice, size int, dst *image.RGBA) *image.RGBA {
	if size < 16 {
		size = 16
	}
	if dst == nil || dst.Rect.Dx() != size || dst.Rect.Dy() != size {
		dst = image.NewRGBA(image.Rect(0, 0, size, size))
	}

	fillRGBA(dst, chartBackground)

	var total float64
	for _, s := range slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	if total <= 0 {
		return dst
	}

	center := float64(size) / 2
	radius := center - 2

	// Cumulative fraction boundaries, one per slice.
	bounds := make([]float64, len(slices))
	var acc float64
	for i, s := range slices {
		if s.Value > 0 {
			acc += s.Value / total
		}
		bounds[i] = acc
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			if dx*dx+dy*dy > radius*radius {
				continue
			}

			// Angle fraction clockwise from 12 o'clock, in [0, 1).
			frac := math.Atan2(dx, -dy) / (2 * math.Pi)
			if frac < 0 {
				frac += 1
			}

			c := slices[len(slices)-1].Color
			for i, b := range bounds {
				if frac < b {
					c = slices[i].Color
					break
				}
			}

			off := y*dst.Stride + x*4
			dst.Pix[off+0] = c.R
			dst.Pix[off+1] = c.G
			dst.Pix[off+2] = c.B
			dst.Pix[off+3] = c.A
		}
	}

	return dst
}

// fillRGBA fills an image with one color, row-copy style.
func fillRGBA(img *image.RGBA, c color.RGBA) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}

	for x := 0; x < w; x++ {
		off := x * 4
		img.Pix[off+0] = c.R
		img.Pix[off+1] = c.G
		img.Pix[off+2] = c.B
		img.Pix[off+3] = c.A
	}
	firstRow := img.Pix[:w*4]
	for y := 1; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+w*4], firstRow)
	}
}
