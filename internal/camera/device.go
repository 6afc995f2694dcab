// Package camera owns the capture device: discovery of a usable V4L2
// node and a synchronous frame reader on top of an FFmpeg subprocess.
package camera

import (
	"fmt"
	"os"
	"strings"

	"resource-dashboard-go/internal/logger"
)

// Discover returns the device path of the first usable capture node.
//
// USB cameras register even-numbered /dev/videoN nodes; odd numbers are
// usually metadata devices. A node is accepted when its sysfs modalias
// identifies a USB device. Falls back to /dev/video0 when the sysfs
// check is inconclusive (e.g. non-USB or virtual cameras).
func Discover() (string, error) {
	log := logger.With("camera")

	var fallback string
	for n := 0; n <= 10; n += 2 {
		devPath := fmt.Sprintf("/dev/video%d", n)

		info, err := os.Stat(devPath)
		if err != nil || info.Mode()&os.ModeDevice == 0 {
			continue
		}
		if fallback == "" {
			fallback = devPath
		}

		if isUSBCaptureDevice(n) {
			log.Info().Str("device", devPath).Msg("discovered USB camera")
			return devPath, nil
		}
	}

	if fallback != "" {
		log.Info().Str("device", fallback).Msg("using first video node (no USB camera identified)")
		return fallback, nil
	}
	return "", fmt.Errorf("camera: no video capture device found")
}

// isUSBCaptureDevice checks sysfs for a USB modalias. Reading sysfs
// avoids touching the device node itself while capture may be active.
func isUSBCaptureDevice(videoNum int) bool {
	sysfsPath := fmt.Sprintf("/sys/class/video4linux/video%d/device/modalias", videoNum)
	data, err := os.ReadFile(sysfsPath)
	if err != nil {
		return false
	}
	return strings.HasPrefix(string(data), "usb:")
}
