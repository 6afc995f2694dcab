// Resource dashboard: live camera feed plus memory, CPU and GPU
// telemetry in one window. A cooperative timer loop drives the periodic
// update tasks; closing the window (or SIGINT/SIGTERM) runs the ordered
// shutdown sequence.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resource-dashboard-go/internal/app"
	"resource-dashboard-go/internal/camera"
	"resource-dashboard-go/internal/config"
	"resource-dashboard-go/internal/display"
	"resource-dashboard-go/internal/logger"
	"resource-dashboard-go/internal/sched"
	"resource-dashboard-go/internal/source"
)

const version = "1.0.0"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (default: ./dashboard.toml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("resource-dashboard %s\n", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	cleanup, err := logger.Init(logger.Settings{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		MaxBytes:    cfg.LogMaxBytes,
		BackupCount: cfg.LogBackupCount,
		ToStdout:    cfg.LogToStdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable, console only: %v\n", err)
	}
	defer cleanup()

	log := logger.With("main")
	log.Info().Str("version", version).Msg("resource dashboard starting")

	if ok, warnings := cfg.Validate(); !ok {
		for _, w := range warnings {
			log.Error().Msg(w)
		}
		os.Exit(1)
	} else {
		for _, w := range warnings {
			log.Warn().Msg(w)
		}
	}

	// Window first: without a display surface there is nothing to run.
	surface, err := display.NewFyneSurface(cfg.DisplayWidth, cfg.DisplayHeight)
	if err != nil {
		log.Error().Err(err).Msg("window initialization failed")
		os.Exit(1)
	}

	// Camera is optional: open failure degrades to telemetry-only.
	var cam app.CameraDevice
	devicePath := cfg.CameraDevice
	if devicePath == "" {
		devicePath, err = camera.Discover()
		if err != nil {
			log.Warn().Err(err).Msg("no camera device found")
		}
	}
	if devicePath != "" {
		dev, err := camera.Open(devicePath, cfg.CaptureWidth, cfg.CaptureHeight, cfg.CaptureFPS)
		if err != nil {
			log.Warn().Err(err).Str("device", devicePath).Msg("camera open failed")
		} else {
			log.Info().Str("device", devicePath).Msg("camera opened")
			cam = dev
		}
	}

	gpuSrc := source.NewGPUSource()
	defer gpuSrc.Close()

	loop := sched.NewLoop()
	loop.Start()

	ctrl := app.New(cfg, app.Deps{
		Surface:      surface,
		Camera:       cam,
		Memory:       source.NewMemorySource(),
		CPU:          source.NewCPUSource(),
		GPU:          gpuSrc,
		Host:         loop,
		StopHost:     loop.Stop,
		ReleaseChart: surface.ReleaseChart,
		CloseWindow:  surface.CloseWindow,
	})

	if err := ctrl.Start(); err != nil {
		log.Error().Err(err).Msg("task registration failed")
		ctrl.Shutdown()
		os.Exit(1)
	}

	// SIGINT/SIGTERM triggers the same ordered shutdown as window close.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("signal received")
		ctrl.Shutdown()
	}()

	surface.SetOnClosed(ctrl.Shutdown)
	surface.ShowAndRun()

	// ShowAndRun returned: window is gone. Idempotent if already shut down.
	ctrl.Shutdown()
	log.Info().Msg("resource dashboard exited")
}
