package camera

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"resource-dashboard-go/internal/logger"
)

// bytesPerPixel for bgr24 rawvideo output.
const bytesPerPixel = 3

// Device is an exclusive handle on one camera. Frames are pulled
// synchronously from an FFmpeg subprocess emitting rawvideo bgr24 on
// stdout, so one ReadFrame consumes exactly one frame.
//
// The returned pixel buffer is reused across reads: a frame is valid
// only until the next ReadFrame call, matching the consume-once sample
// contract.
type Device struct {
	path   string
	width  int
	height int

	cmd    *exec.Cmd
	stdout io.ReadCloser
	frame  []byte

	closed   atomic.Bool   // capture process has exited
	waitDone chan struct{} // closed after cmd.Wait returns

	releaseMu sync.Mutex
	released  bool
}

// Open starts capture on the given device path at the given geometry.
// The device handle is exclusive until Release.
func Open(path string, width, height, fps int) (*Device, error) {
	log := logger.With("camera")

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "v4l2",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", path,
		"-f", "rawvideo", "-pix_fmt", "bgr24", "-",
	}

	cmd := exec.Command("ffmpeg", args...)
	cmd.Stderr = nil // quiet; read errors surface as short reads

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("camera: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("camera: start capture on %s: %w", path, err)
	}

	d := &Device{
		path:     path,
		width:    width,
		height:   height,
		cmd:      cmd,
		stdout:   stdout,
		frame:    make([]byte, width*height*bytesPerPixel),
		waitDone: make(chan struct{}),
	}

	// Single reaper: marks the handle closed the moment FFmpeg exits,
	// whether killed by Release or dead on its own (device unplugged).
	go func() {
		cmd.Wait()
		d.closed.Store(true)
		close(d.waitDone)
	}()

	log.Info().Str("device", path).Int("width", width).Int("height", height).
		Int("fps", fps).Int("pid", cmd.Process.Pid).Msg("capture started")
	return d, nil
}

// Path returns the underlying device path.
func (d *Device) Path() string { return d.path }

// ReadFrame reads the next frame. The pixel slice is in BGR order and
// owned by the device; it is overwritten by the next call.
func (d *Device) ReadFrame() ([]byte, int, int, error) {
	if d.closed.Load() {
		return nil, 0, 0, fmt.Errorf("camera: device %s closed", d.path)
	}
	if _, err := io.ReadFull(d.stdout, d.frame); err != nil {
		return nil, 0, 0, fmt.Errorf("camera: read frame from %s: %w", d.path, err)
	}
	return d.frame, d.width, d.height, nil
}

// Closed reports whether the capture process has exited. Once true the
// device never produces another frame; the owning task should stop.
func (d *Device) Closed() bool {
	return d.closed.Load()
}

// Release kills and reaps the capture process. Idempotent: only the
// first call has side effects.
func (d *Device) Release() {
	d.releaseMu.Lock()
	defer d.releaseMu.Unlock()
	if d.released {
		return
	}
	d.released = true

	log := logger.With("camera")

	if d.cmd.Process != nil {
		d.cmd.Process.Kill()
	}

	// Wait for the reaper so no zombie is left behind. Bounded in case
	// the process ignores the kill.
	select {
	case <-d.waitDone:
	case <-time.After(2 * time.Second):
		log.Warn().Str("device", d.path).Msg("capture process did not exit after kill")
	}

	d.stdout.Close()
	log.Info().Str("device", d.path).Msg("capture released")
}
