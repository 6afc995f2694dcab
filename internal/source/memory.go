package source

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

// MemorySource reads physical memory usage. Stateless; queried on demand
// and needs no teardown.
type MemorySource struct {
	read func() (*mem.VirtualMemoryStat, error)
}

// NewMemorySource returns a memory source backed by the host sensor.
func NewMemorySource() *MemorySource {
	return &MemorySource{read: mem.VirtualMemory}
}

func (s *MemorySource) Kind() Kind { return KindMemory }

// Sample reads total-used and total-available physical memory.
func (s *MemorySource) Sample() (Sample, error) {
	vm, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("%w: virtual memory: %v", ErrReadFailure, err)
	}
	return MemorySample{
		UsedBytes:      vm.Used,
		AvailableBytes: vm.Available,
	}, nil
}
