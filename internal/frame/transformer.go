// Package frame turns raw camera samples into display-ready bitmaps:
// color-order fix, horizontal mirror, aspect-correct fit, resample.
package frame

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"resource-dashboard-go/internal/source"
)

// Minimum sane display size used when the target region is degenerate.
const (
	MinWidth  = 320
	MinHeight = 240
)

// 4:3 presentation aspect ratio.
const (
	aspectW = 4
	aspectH = 3
)

// Transformer converts raw BGR frames into display bitmaps. Mirror is a
// fixed presentation choice set at construction, not a user setting.
type Transformer struct {
	Mirror bool

	rgba *image.RGBA // reused conversion buffer
}

// New returns a transformer. The dashboard mirrors horizontally so the
// feed behaves like a mirror for a user facing the camera.
func New(mirror bool) *Transformer {
	return &Transformer{Mirror: mirror}
}

// FitDimensions returns the largest 4:3 box that fits the available
// region, shrinking whichever dimension overflows. A zero or negative
// region clamps to the 320x240 minimum rather than failing.
func FitDimensions(availW, availH int) (int, int) {
	if availW <= 0 || availH <= 0 {
		return MinWidth, MinHeight
	}

	w := availW
	h := w * aspectH / aspectW
	if h > availH {
		h = availH
		w = h * aspectW / aspectH
	}

	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Render produces a display-ready bitmap from a raw frame sample, fitted
// to the given region. Steps: BGR to RGBA, optional mirror, Catmull-Rom
// resample to the fitted 4:3 dimensions.
func (t *Transformer) Render(s source.FrameSample, availW, availH int) (*image.RGBA, error) {
	if len(s.Pixels) < s.Width*s.Height*3 {
		return nil, fmt.Errorf("frame: short pixel buffer: have %d, need %d",
			len(s.Pixels), s.Width*s.Height*3)
	}

	src := t.toRGBA(s)
	if t.Mirror {
		mirrorHorizontal(src)
	}

	// The result is always a fresh allocation: the conversion buffer is
	// overwritten by the next frame, and the caller keeps the returned
	// bitmap on screen until then.
	targetW, targetH := FitDimensions(availW, availH)
	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	if targetW == s.Width && targetH == s.Height {
		copy(dst.Pix, src.Pix)
		return dst, nil
	}

	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// toRGBA converts the device's BGR byte order into RGBA, reusing the
// conversion buffer across frames.
func (t *Transformer) toRGBA(s source.FrameSample) *image.RGBA {
	neededLen := s.Width * s.Height * 4
	if t.rgba != nil && cap(t.rgba.Pix) >= neededLen {
		t.rgba.Pix = t.rgba.Pix[:neededLen]
		t.rgba.Stride = s.Width * 4
		t.rgba.Rect = image.Rect(0, 0, s.Width, s.Height)
	} else {
		t.rgba = image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	}

	src := s.Pixels
	dst := t.rgba.Pix
	for i, j := 0, 0; j+3 < len(dst) && i+2 < len(src); i, j = i+3, j+4 {
		dst[j+0] = src[i+2] // R
		dst[j+1] = src[i+1] // G
		dst[j+2] = src[i+0] // B
		dst[j+3] = 0xFF
	}
	return t.rgba
}

// mirrorHorizontal flips the image left-right in place.
func mirrorHorizontal(img *image.RGBA) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w/2; x++ {
			l := x * 4
			r := (w - 1 - x) * 4
			row[l+0], row[r+0] = row[r+0], row[l+0]
			row[l+1], row[r+1] = row[r+1], row[l+1]
			row[l+2], row[r+2] = row[r+2], row[l+2]
			row[l+3], row[r+3] = row[r+3], row[l+3]
		}
	}
}
