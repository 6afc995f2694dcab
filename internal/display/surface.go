// Package display is the shared surface the update tasks write to. The
// core only ever writes: set a bitmap, redraw the chart, set a gauge or
// label. State behind the surface is owned by the implementation.
package display

import (
	"errors"
	"image"
	"image/color"
)

// ErrWindowFailed means the host window could not be created. Fatal:
// startup aborts before any task is registered.
var ErrWindowFailed = errors.New("display: window initialization failed")

// Tier classifies a gauge reading for coloring.
type Tier int

const (
	TierNormal Tier = iota // < 60%
	TierMedium             // 60-80%
	TierHigh               // >= 80%
)

// TierFor maps a load percentage to its color tier.
func TierFor(percent float64) Tier {
	switch {
	case percent >= 80:
		return TierHigh
	case percent >= 60:
		return TierMedium
	default:
		return TierNormal
	}
}

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	default:
		return "normal"
	}
}

// Color returns the gauge color for this tier.
func (t Tier) Color() color.RGBA {
	switch t {
	case TierHigh:
		return color.RGBA{0xFF, 0x52, 0x52, 0xFF} // red
	case TierMedium:
		return color.RGBA{0xFF, 0xA7, 0x26, 0xFF} // orange
	default:
		return color.RGBA{0x21, 0x96, 0xF3, 0xFF} // blue
	}
}

// ChartSlice is one labeled slice of the proportional chart.
type ChartSlice struct {
	Label string
	Value float64
	Color color.RGBA
}

// Surface is everything the update core needs from the UI. All writes
// happen from the scheduler's loop goroutine.
type Surface interface {
	// SetImage replaces the camera bitmap.
	SetImage(img image.Image)
	// SetChartData redraws the proportional chart.
	SetChartData(slices []ChartSlice)
	// SetGaugeValue updates a named gauge's fill and color tier.
	SetGaugeValue(name string, percent float64, tier Tier)
	// SetLabelText updates a named text label.
	SetLabelText(name, text string)
}

// Well-known gauge and label names.
const (
	NameCamera = "camera"
	NameMemory = "memory"
	NameCPU    = "cpu"
	NameGPU    = "gpu"
)
