package source

import "fmt"

// FrameReader is the camera device contract this package needs.
// Implemented by camera.Device.
type FrameReader interface {
	// ReadFrame returns one frame in native BGR order.
	ReadFrame() (pixels []byte, width, height int, err error)
	// Closed reports whether the device has permanently shut down.
	Closed() bool
}

// CameraSource wraps an exclusive camera device handle. The device must
// have been opened successfully before construction; retry policy belongs
// to the owning task, not here.
type CameraSource struct {
	dev FrameReader
}

// NewCameraSource wraps an open camera device.
func NewCameraSource(dev FrameReader) *CameraSource {
	return &CameraSource{dev: dev}
}

func (s *CameraSource) Kind() Kind { return KindCamera }

// Sample requests one frame from the device. No frame available or a
// closed device is ErrDeviceUnavailable; the caller distinguishes the
// permanent case via the device's Closed flag.
func (s *CameraSource) Sample() (Sample, error) {
	pixels, w, h, err := s.dev.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	return FrameSample{Pixels: pixels, Width: w, Height: h}, nil
}

// Device exposes the wrapped reader so the owning task can check for
// permanent closure.
func (s *CameraSource) Device() FrameReader { return s.dev }
