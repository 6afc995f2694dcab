// Package app wires the pieces together: it owns the camera handle and
// chart backend, registers one periodic task per source, and implements
// the ordered two-phase shutdown (stop scheduling, then release
// resources).
package app

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"resource-dashboard-go/internal/config"
	"resource-dashboard-go/internal/display"
	"resource-dashboard-go/internal/frame"
	"resource-dashboard-go/internal/logger"
	"resource-dashboard-go/internal/sched"
	"resource-dashboard-go/internal/source"
)

// Fixed update intervals. Deliberately not configurable.
const (
	videoInterval     = 10 * time.Millisecond
	telemetryInterval = 1000 * time.Millisecond
	healthInterval    = 30 * time.Second
)

// Task names.
const (
	taskVideo  = "video"
	taskMemory = "memory"
	taskCPU    = "cpu"
	taskGPU    = "gpu"
	taskHealth = "health"
)

// CameraDevice is the camera handle contract the controller owns:
// sampling via the FrameReader side, teardown via Release.
type CameraDevice interface {
	source.FrameReader
	Release()
}

// Deps are the collaborators handed to the controller. Camera may be nil
// (open failed at startup): telemetry tasks still run and the video area
// stays blank. GPU may be nil on builds without NVML support.
type Deps struct {
	Surface display.Surface
	Camera  CameraDevice
	Memory  source.Source
	CPU     source.Source
	GPU     source.Source

	Host     sched.TimerHost
	StopHost func() // halts the timer loop; may be nil

	ReleaseChart func()
	CloseWindow  func()
}

// taskStats counts firings per task. Touched only from the scheduler's
// loop goroutine, so plain fields suffice.
type taskStats struct {
	fired  uint64
	failed uint64
}

// Controller is the lifecycle root. Constructed once per process; all
// state lives here, nothing ambient.
type Controller struct {
	cfg       *config.Config
	deps      Deps
	scheduler *sched.Scheduler
	cameraSrc *source.CameraSource
	transform *frame.Transformer

	terminated atomic.Bool
	stats      map[string]*taskStats
	log        zerolog.Logger
}

// New builds a controller over the given collaborators.
func New(cfg *config.Config, deps Deps) *Controller {
	c := &Controller{
		cfg:       cfg,
		deps:      deps,
		scheduler: sched.New(deps.Host),
		transform: frame.New(true), // mirrored, fixed presentation choice
		stats: map[string]*taskStats{
			taskVideo:  {},
			taskMemory: {},
			taskCPU:    {},
			taskGPU:    {},
		},
		log: logger.With("app"),
	}
	if deps.Camera != nil {
		c.cameraSrc = source.NewCameraSource(deps.Camera)
	}
	return c
}

// Scheduler exposes the task scheduler (health inspection, tests).
func (c *Controller) Scheduler() *sched.Scheduler { return c.scheduler }

// Start registers every periodic task and performs the first schedules.
func (c *Controller) Start() error {
	if c.cameraSrc != nil {
		if err := c.scheduler.Register(sched.NewTask(taskVideo, videoInterval, c.updateVideo)); err != nil {
			return err
		}
	} else {
		// Camera never opened: video area stays blank, telemetry runs.
		c.deps.Surface.SetLabelText(display.NameCamera, "No camera")
	}

	if err := c.scheduler.Register(sched.NewTask(taskMemory, telemetryInterval, c.updateMemory)); err != nil {
		return err
	}
	if err := c.scheduler.Register(sched.NewTask(taskCPU, telemetryInterval, c.updateCPU)); err != nil {
		return err
	}
	if c.deps.GPU != nil {
		if err := c.scheduler.Register(sched.NewTask(taskGPU, telemetryInterval, c.updateGPU)); err != nil {
			return err
		}
	}
	if err := c.scheduler.Register(sched.NewTask(taskHealth, healthInterval, c.logHealthSummary)); err != nil {
		return err
	}

	c.log.Info().Bool("camera", c.cameraSrc != nil).Bool("gpu", c.deps.GPU != nil).
		Msg("update tasks registered")
	return nil
}

// Shutdown runs the ordered release sequence exactly once:
//
//  1. cancel all tasks
//  2. release the camera device handle
//  3. halt the timer loop
//  4. release chart backend resources
//  5. close the host window
//
// The camera is released before waiting on the loop: killing the
// capture process unblocks a video firing stuck in a frame read, so the
// loop wait cannot hang on a stalled device.
//
// Each step is fault-isolated: a panic in one is logged and the next
// still runs. Safe to invoke any number of times from any thread.
func (c *Controller) Shutdown() {
	if !c.terminated.CompareAndSwap(false, true) {
		return
	}
	c.log.Info().Msg("shutdown started")

	c.step("cancel tasks", c.scheduler.CancelAll)
	c.step("release camera", func() {
		if c.deps.Camera != nil {
			c.deps.Camera.Release()
		}
	})
	c.step("stop timer loop", func() {
		if c.deps.StopHost != nil {
			c.deps.StopHost()
		}
	})
	c.step("release chart", c.deps.ReleaseChart)
	c.step("close window", c.deps.CloseWindow)

	c.log.Info().Msg("shutdown complete")
}

// step runs one shutdown action, swallowing (but logging) any panic so
// later release steps always execute.
func (c *Controller) step(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Str("step", name).Interface("panic", r).
				Msg("shutdown step failed")
		}
	}()
	if fn != nil {
		fn()
	}
}
