package display

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"resource-dashboard-go/internal/logger"
)

// FyneSurface is the production Surface: a single window with the camera
// image on top, the memory pie chart below it, and CPU/GPU gauge rows at
// the bottom.
type FyneSurface struct {
	fyneApp fyne.App
	window  fyne.Window

	video       *canvas.Image
	chart       *canvas.Image
	chartLegend *widget.Label
	pieBuf      *image.RGBA

	gauges map[string]*widget.ProgressBar
	labels map[string]*canvas.Text
}

const chartSize = 240

// NewFyneSurface creates the host window and widget tree. A toolkit that
// cannot initialize (headless session, missing display driver) surfaces
// as ErrWindowFailed.
func NewFyneSurface(width, height int) (s *FyneSurface, err error) {
	// Fyne panics rather than erroring when no driver is available.
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = fmt.Errorf("%w: %v", ErrWindowFailed, r)
		}
	}()

	fyneApp := app.New()
	window := fyneApp.NewWindow("Resource Dashboard")

	s = &FyneSurface{
		fyneApp: fyneApp,
		window:  window,
		gauges:  make(map[string]*widget.ProgressBar),
		labels:  make(map[string]*canvas.Text),
	}

	if width < 1 {
		width = 640
	}
	if height < 1 {
		height = 480
	}

	// Camera feed, blank until the first frame arrives.
	placeholder := image.NewRGBA(image.Rect(0, 0, width, height))
	fillRGBA(placeholder, chartBackground)
	s.video = canvas.NewImageFromImage(placeholder)
	s.video.FillMode = canvas.ImageFillContain
	s.video.SetMinSize(fyne.NewSize(float32(width), float32(height)))

	// Memory pie chart with legend underneath.
	s.pieBuf = image.NewRGBA(image.Rect(0, 0, chartSize, chartSize))
	fillRGBA(s.pieBuf, chartBackground)
	s.chart = canvas.NewImageFromImage(s.pieBuf)
	s.chart.FillMode = canvas.ImageFillContain
	s.chart.SetMinSize(fyne.NewSize(chartSize, chartSize))
	s.chartLegend = widget.NewLabel("Memory Usage")
	s.chartLegend.Alignment = fyne.TextAlignCenter

	cameraRow := s.newLabel(NameCamera, "Connecting...")
	cpuRow := s.newGaugeRow(NameCPU, "CPU Load: 0%")
	gpuRow := s.newGaugeRow(NameGPU, "GPU Load: 0%")

	content := container.NewVBox(
		s.video,
		container.NewCenter(cameraRow),
		s.chart,
		s.chartLegend,
		cpuRow,
		gpuRow,
	)
	window.SetContent(content)
	window.Resize(fyne.NewSize(float32(width), float32(height)+chartSize+120))

	return s, nil
}

// newLabel registers a named text label.
func (s *FyneSurface) newLabel(name, initial string) *canvas.Text {
	t := canvas.NewText(initial, color.RGBA{220, 220, 220, 255})
	t.TextSize = 14
	s.labels[name] = t
	return t
}

// newGaugeRow builds a label + progress bar row for one gauge.
func (s *FyneSurface) newGaugeRow(name, initial string) *fyne.Container {
	label := s.newLabel(name, initial)
	label.Color = TierNormal.Color()

	bar := widget.NewProgressBar()
	bar.Min = 0
	bar.Max = 100
	s.gauges[name] = bar

	return container.NewVBox(label, bar)
}

// SetImage replaces the camera bitmap.
func (s *FyneSurface) SetImage(img image.Image) {
	s.video.Image = img
	s.video.Refresh()
}

// SetChartData redraws the memory pie chart and its legend.
func (s *FyneSurface) SetChartData(slices []ChartSlice) {
	s.pieBuf = RenderPie(slices, chartSize, s.pieBuf)
	s.chart.Image = s.pieBuf
	s.chart.Refresh()

	parts := make([]string, 0, len(slices))
	for _, sl := range slices {
		parts = append(parts, sl.Label)
	}
	s.chartLegend.SetText("Memory Usage: " + strings.Join(parts, "  "))
}

// SetGaugeValue updates a gauge's fill and tier color.
func (s *FyneSurface) SetGaugeValue(name string, percent float64, tier Tier) {
	if bar, ok := s.gauges[name]; ok {
		bar.SetValue(percent)
	}
	if label, ok := s.labels[name]; ok {
		label.Color = tier.Color()
		label.Refresh()
	}
}

// SetLabelText updates a named label. The memory name maps onto the
// chart legend, which is where memory text lives in this layout.
func (s *FyneSurface) SetLabelText(name, text string) {
	if name == NameMemory {
		s.chartLegend.SetText(text)
		return
	}
	label, ok := s.labels[name]
	if !ok {
		return
	}
	label.Text = text
	label.Refresh()
}

// SetOnClosed installs the window-close handler (shutdown entry point).
func (s *FyneSurface) SetOnClosed(fn func()) {
	s.window.SetOnClosed(fn)
}

// ShowAndRun shows the window and blocks in the toolkit main loop.
func (s *FyneSurface) ShowAndRun() {
	s.window.ShowAndRun()
}

// ReleaseChart drops the chart backend's pixel buffers. Called during
// the ordered shutdown sequence.
func (s *FyneSurface) ReleaseChart() {
	s.pieBuf = nil
	s.chart.Image = nil
	dlog := logger.With("display")
	dlog.Debug().Msg("chart resources released")
}

// CloseWindow quits the toolkit main loop. Last step of shutdown.
func (s *FyneSurface) CloseWindow() {
	s.fyneApp.Quit()
}
