package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/handheldctl/internal/config"
	"codeberg.org/mutker/handheldctl/internal/device"
	"codeberg.org/mutker/handheldctl/internal/fanctrl"
	"codeberg.org/mutker/handheldctl/internal/hwinfo"
	"codeberg.org/mutker/handheldctl/internal/logger"
	"codeberg.org/mutker/handheldctl/internal/pid"
	"codeberg.org/mutker/handheldctl/internal/sensor"
	"codeberg.org/mutker/handheldctl/internal/telemetry"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitWithLevel(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := run(); err != nil {
		logger.Error().Err(err).Msg("Exiting on error")
		os.Exit(1)
	}
}

func run() error {
	if err := pid.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	fanCurve, err := cfg.FanCurve()
	if err != nil {
		return err
	}

	collector := telemetry.NewNoop()
	if cfg.Telemetry {
		collector, err = telemetry.NewService(telemetry.Config{DBPath: cfg.TelemetryDB})
		if err != nil {
			return err
		}
	}
	defer collector.Close()

	ctrl := fanctrl.New(fanctrl.Options{
		Curve:     fanCurve,
		Monitor:   cfg.Monitor,
		Collector: collector,
	})
	defer ctrl.Close()

	fp, err := hwinfo.Collect()
	if err != nil {
		logger.Warn().Err(err).Msg("Could not read hardware fingerprint, relying on device probes")
	}

	if err := ctrl.Detect(fp, device.DefaultRegistry()); err != nil {
		logger.Warn().Err(err).Msg("No supported device detected, running without fan control")
	}

	if cfg.FullSpeed && ctrl.DevicePresent() {
		if err := ctrl.SetFullSpeed(true); err != nil {
			logger.Warn().Err(err).Msg("Full speed override not available")
		}
	}

	if cfg.Monitor {
		logger.Info().Msg("Monitor mode activated. Logging fan status...")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	tiers := []sensor.Reader{
		sensor.NewACPIReader(),
		sensor.NewPerfCounterReader(),
	}
	if devSensor, ok := ctrl.DeviceSensor(); ok {
		tiers = append(tiers, sensor.NewDeviceReader(devSensor))
	}

	poller := sensor.NewPoller(
		sensor.NewChain(tiers...),
		time.Duration(cfg.Interval)*time.Second,
		cfg.Threshold,
	)
	go poller.Run(ctx)

	ctrl.Run(ctx, poller)

	logger.Info().Msg("Exiting...")

	return nil
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
