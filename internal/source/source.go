// Package source wraps the live data feeds the dashboard samples:
// the camera and the memory/CPU/GPU sensors.
//
// Each source exposes one synchronous Sample call. A Sample is consumed
// by exactly one task firing and never cached across firings.
package source

import "errors"

// Sentinel errors. Wrap with fmt.Errorf("...: %w", ...) and match with
// errors.Is.
var (
	// ErrDeviceUnavailable means the camera produced no frame or
	// reports closed.
	ErrDeviceUnavailable = errors.New("source: device unavailable")

	// ErrReadFailure means a platform sensor could not be read.
	ErrReadFailure = errors.New("source: sensor read failure")
)

// Kind identifies a source variant.
type Kind int

const (
	KindCamera Kind = iota
	KindMemory
	KindCPU
	KindGPU
)

func (k Kind) String() string {
	switch k {
	case KindCamera:
		return "camera"
	case KindMemory:
		return "memory"
	case KindCPU:
		return "cpu"
	case KindGPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// Sample is one reading from a source at one point in time. The concrete
// type is one of FrameSample, MemorySample, CPUSample, or GPUSample.
type Sample interface {
	sample()
}

// FrameSample is one raw camera frame in the device's native BGR byte
// order, 3 bytes per pixel.
type FrameSample struct {
	Pixels []byte
	Width  int
	Height int
}

// MemorySample is a physical memory snapshot.
type MemorySample struct {
	UsedBytes      uint64
	AvailableBytes uint64
}

// UsedGB returns used memory in gigabytes.
func (s MemorySample) UsedGB() float64 { return float64(s.UsedBytes) / (1 << 30) }

// AvailableGB returns available memory in gigabytes.
func (s MemorySample) AvailableGB() float64 { return float64(s.AvailableBytes) / (1 << 30) }

// CPUSample is an instantaneous load reading. Percent is measured over
// the interval since the previous sample.
type CPUSample struct {
	Percent      float64
	FrequencyMHz float64
}

// GPUSample reports the first GPU's load, or Absent when no GPU is
// detected. Absence is a normal state, not an error.
type GPUSample struct {
	Absent       bool
	Percent      float64
	UsedMemoryMB float64
	TemperatureC float64
}

func (FrameSample) sample()  {}
func (MemorySample) sample() {}
func (CPUSample) sample()    {}
func (GPUSample) sample()    {}

// Source is one live data feed. Sample never blocks for long relative to
// the polling interval; retry policy belongs to the owning task.
type Source interface {
	Kind() Kind
	Sample() (Sample, error)
}
