package source

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// GPUInfo describes one GPU as reported by the lister.
type GPUInfo struct {
	LoadPercent  float64
	UsedMemoryMB float64
	TemperatureC float64
}

// gpuLister abstracts the GPU enumeration so tests can fake it.
// An empty list means no GPU is present.
type gpuLister interface {
	List() ([]GPUInfo, error)
}

// GPUSource queries the first available GPU via NVML. A host without a
// GPU (or without the NVML library) yields an Absent sample, which is a
// normal state distinct from a read failure.
type GPUSource struct {
	lister gpuLister
}

// NewGPUSource returns a GPU source backed by NVML.
func NewGPUSource() *GPUSource {
	return &GPUSource{lister: &nvmlLister{}}
}

func (s *GPUSource) Kind() Kind { return KindGPU }

// Sample queries the first GPU. No GPU detected is success with
// Absent=true; a failing query on a present GPU is ErrReadFailure.
func (s *GPUSource) Sample() (Sample, error) {
	gpus, err := s.lister.List()
	if err != nil {
		return nil, fmt.Errorf("%w: gpu list: %v", ErrReadFailure, err)
	}
	if len(gpus) == 0 {
		return GPUSample{Absent: true}, nil
	}
	g := gpus[0]
	return GPUSample{
		Percent:      g.LoadPercent,
		UsedMemoryMB: g.UsedMemoryMB,
		TemperatureC: g.TemperatureC,
	}, nil
}

// Close releases the NVML handle if one was opened.
func (s *GPUSource) Close() error {
	if l, ok := s.lister.(*nvmlLister); ok {
		return l.close()
	}
	return nil
}

// =============================================================================
// NVML-backed lister
// =============================================================================

type nvmlLister struct {
	initialized bool
	unavailable bool
}

// ensureInit initializes NVML once. Init failure marks the host as having
// no usable GPU rather than erroring: machines without an NVIDIA driver
// are a normal, expected deployment target.
func (l *nvmlLister) ensureInit() bool {
	if l.initialized {
		return true
	}
	if l.unavailable {
		return false
	}
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		l.unavailable = true
		return false
	}
	l.initialized = true
	return true
}

func (l *nvmlLister) List() ([]GPUInfo, error) {
	if !l.ensureInit() {
		return nil, nil
	}

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("nvml device count: %s", nvml.ErrorString(ret))
	}
	if count == 0 {
		return nil, nil
	}

	gpus := make([]GPUInfo, 0, count)
	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("nvml device %d: %s", i, nvml.ErrorString(ret))
		}

		util, ret := device.GetUtilizationRates()
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("nvml utilization %d: %s", i, nvml.ErrorString(ret))
		}

		memory, ret := device.GetMemoryInfo()
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("nvml memory %d: %s", i, nvml.ErrorString(ret))
		}

		temp, ret := device.GetTemperature(nvml.TEMPERATURE_GPU)
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("nvml temperature %d: %s", i, nvml.ErrorString(ret))
		}

		gpus = append(gpus, GPUInfo{
			LoadPercent:  float64(util.Gpu),
			UsedMemoryMB: float64(memory.Used) / (1 << 20),
			TemperatureC: float64(temp),
		})
	}
	return gpus, nil
}

func (l *nvmlLister) close() error {
	if !l.initialized {
		return nil
	}
	l.initialized = false
	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		return fmt.Errorf("nvml shutdown: %s", nvml.ErrorString(ret))
	}
	return nil
}
