package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"math/rand/v2"

	"github.com/smazurov/inkbadge/internal/action"
	"github.com/smazurov/inkbadge/internal/buttons"
	"github.com/smazurov/inkbadge/internal/config"
	"github.com/smazurov/inkbadge/internal/cycle"
	"github.com/smazurov/inkbadge/internal/display"
	"github.com/smazurov/inkbadge/internal/events"
	"github.com/smazurov/inkbadge/internal/fault"
	"github.com/smazurov/inkbadge/internal/led"
	"github.com/smazurov/inkbadge/internal/logging"
	"github.com/smazurov/inkbadge/internal/metrics/exporters"
	"github.com/smazurov/inkbadge/internal/power"
	"github.com/smazurov/inkbadge/internal/rtc"
	"github.com/smazurov/inkbadge/internal/storage"
	"github.com/smazurov/inkbadge/internal/systemd"
)

// run brings the board up and runs the power cycle until ctx is done or a
// fault halts it.
func run(ctx context.Context, opts *Options, logger logging.Logger) error {
	rotation, err := display.ParseRotation(opts.DisplayRotation)
	if err != nil {
		return err
	}
	ledCfg, err := ledConfig(opts)
	if err != nil {
		return err
	}
	keys := buttons.DefaultKeyMap()
	if opts.ButtonsKeys != "" {
		codes, parseErr := config.ParseInts(opts.ButtonsKeys)
		if parseErr != nil {
			return fmt.Errorf("buttons.keys: %w", parseErr)
		}
		if keys, err = buttons.KeyMapFromCodes(codes); err != nil {
			return err
		}
	}

	ledLogger := logging.GetLogger("led")
	ctrl, err := led.New(ledCfg, ledLogger)
	if err != nil {
		logger.Warn("LED backend unavailable, running without LEDs", "backend", ledCfg.Backend, "error", err)
		ctrl, _ = led.New(led.Config{Backend: led.BackendNone}, ledLogger)
	}
	defer ctrl.Close()
	ledLogger.Info("LED controller ready", "leds", ctrl.Available())
	leds := led.NewIndicators(ctrl, ledLogger)

	bus := events.New()
	if opts.MetricsDir != "" {
		exporter := exporters.NewTextfileExporter(opts.MetricsDir, logging.GetLogger("metrics"))
		exporter.Start(bus)
		defer exporter.Stop()
	}

	watcher := config.NewConfigWatcher(opts.Config, config.LoadLogging, logging.GetLogger("config"))
	watcher.OnReload(func(cfg logging.Config) {
		logging.SetLevels(cfg)
		logger.Info("Logging levels reloaded", "level", cfg.Level)
	})
	if err := watcher.Start(); err != nil {
		logger.Debug("Config watcher not started", "path", opts.Config, "error", err)
	} else {
		defer watcher.Stop()
	}

	halt := func(code fault.Code, msg string, cause error) error {
		err := fault.New(code, msg, cause)
		cycle.Halt(ctx, leds, bus, logging.GetLogger("cycle"), 0, cycle.DefaultTiming().ErrorBlink, err)
		return err
	}

	volume, err := storage.Open(opts.StorageRoot, logging.GetLogger("storage"))
	if err != nil {
		return halt(fault.CodeInvalidRoot, "open storage root", err)
	}

	// Left lit if bring-up dies from here on.
	leds.On(led.A)
	leds.On(led.E)

	clock, err := rtc.Open(opts.RTCBus, logging.GetLogger("rtc"))
	if err != nil {
		return halt(fault.CodeInvalidPins, "open rtc", err)
	}
	defer clock.Close()

	panel, err := openPanel(opts)
	if err != nil {
		return halt(fault.CodeInvalidPins, "open panel", err)
	}
	defer panel.Close()

	latch := &buttons.Latch{}
	buttonLogger := logging.GetLogger("buttons")
	reader, err := buttons.Open(opts.ButtonsDevice, keys, latch, buttonLogger)
	if err != nil {
		return halt(fault.CodeInvalidPins, "open buttons", err)
	}
	defer reader.Close()

	if err := reader.LatchHeld(); err != nil {
		buttonLogger.Warn("Failed to read held keys", "error", err)
	}
	if fired, err := clock.TimerFired(); err != nil {
		logger.Warn("Failed to read wake flag", "error", err)
	} else if fired {
		latch.Set(action.ButtonRTC)
	}

	go func() {
		if err := reader.Run(ctx); err != nil {
			buttonLogger.Error("Input device failed", "error", err)
		}
	}()

	shutdown, closePower := openPower(ctx, opts, logging.GetLogger("power"))
	defer closePower()

	if ok, err := systemd.NotifyReady(); err != nil {
		logger.Warn("sd_notify failed", "error", err)
	} else if ok {
		logger.Debug("Notified systemd")
	}

	loop := cycle.New(cycle.Options{
		Volume:   volume,
		Register: clock,
		Alarm:    clock,
		Power:    shutdown,
		Buttons:  latch,
		Display:  display.New(panel, rotation, logging.GetLogger("display")),
		LEDs:     leds,
		Rand:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		Bus:      bus,
		Logger:   logging.GetLogger("cycle"),

		SelectorLogger: logging.GetLogger("selector"),
	})
	err = loop.Run(ctx)
	_, _ = systemd.NotifyStopping()
	return err
}

func ledConfig(opts *Options) (led.Config, error) {
	cfg := led.Config{Backend: opts.LEDBackend, Chip: opts.LEDChip}
	if opts.LEDMap == "" {
		return cfg, nil
	}
	m, err := led.ParseMap(config.SplitList(opts.LEDMap))
	if err != nil {
		return cfg, err
	}
	cfg.Map = m
	return cfg, nil
}

type panel interface {
	display.Panel
	io.Closer
}

func openPanel(opts *Options) (panel, error) {
	switch opts.DisplayPanel {
	case "waveshare":
		return display.OpenWaveshare(opts.DisplaySPI)
	case "png":
		return display.NewPNGPanel(opts.DisplayPNG, image.Rect(0, 0, display.PanelWidth, display.PanelHeight)), nil
	default:
		return nil, fmt.Errorf("unknown panel %q", opts.DisplayPanel)
	}
}

func openPower(ctx context.Context, opts *Options, logger logging.Logger) (cycle.Power, func()) {
	if opts.PowerMode != "systemd" {
		return power.NewNoop(logger), func() {}
	}
	mgr, err := systemd.NewManager(ctx)
	if err != nil {
		logger.Warn("systemd unavailable, power-off disabled", "error", err)
		return power.NewNoop(logger), func() {}
	}
	return power.New(mgr, logger), mgr.Close
}
