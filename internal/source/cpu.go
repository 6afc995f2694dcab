package source

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
)

// CPUSource reads overall CPU load and clock frequency. The load value is
// a non-blocking sample relative to the previous call: two consecutive
// reads define the interval over which load is measured.
type CPUSource struct {
	percent func() ([]float64, error)
	info    func() ([]cpu.InfoStat, error)
}

// NewCPUSource returns a CPU source backed by the host sensor.
func NewCPUSource() *CPUSource {
	return &CPUSource{
		// interval 0 = delta since previous call, no blocking
		percent: func() ([]float64, error) { return cpu.Percent(0, false) },
		info:    cpu.Info,
	}
}

func (s *CPUSource) Kind() Kind { return KindCPU }

// Sample reads the load percentage averaged across all cores plus the
// current clock frequency. Frequency is best-effort: an unreadable
// frequency yields 0, not an error.
func (s *CPUSource) Sample() (Sample, error) {
	percents, err := s.percent()
	if err != nil {
		return nil, fmt.Errorf("%w: cpu percent: %v", ErrReadFailure, err)
	}
	if len(percents) == 0 {
		return nil, fmt.Errorf("%w: cpu percent: empty reading", ErrReadFailure)
	}

	var mhz float64
	if infos, err := s.info(); err == nil && len(infos) > 0 {
		mhz = infos[0].Mhz
	}

	return CPUSample{
		Percent:      percents[0],
		FrequencyMHz: mhz,
	}, nil
}
