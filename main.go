package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/smazurov/inkbadge/cmd"
	"github.com/smazurov/inkbadge/internal/config"
	"github.com/smazurov/inkbadge/internal/logging"
	"github.com/smazurov/inkbadge/internal/version"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"/etc/inkbadge/inkbadge.toml"`

	// Storage settings
	StorageRoot string `help:"Mount point of the image card" short:"r" default:"/media/badge" toml:"storage.root" env:"STORAGE_ROOT"`

	// Display settings
	DisplayPanel    string `help:"Panel driver (waveshare, png)" default:"waveshare" toml:"display.panel" env:"DISPLAY_PANEL"`
	DisplayRotation int    `help:"Panel orientation 0-3 (0, 90, 180, 270 degrees)" default:"2" toml:"display.rotation" env:"DISPLAY_ROTATION"`
	DisplaySPI      string `help:"SPI port for the panel (empty for the first)" default:"" toml:"display.spi" env:"DISPLAY_SPI"`
	DisplayPNG      string `help:"Output file for the png panel" default:"/run/inkbadge/panel.png" toml:"display.png" env:"DISPLAY_PNG"`

	// RTC settings
	RTCBus string `help:"I2C bus of the PCF85063A (empty for the first)" default:"" toml:"rtc.bus" env:"RTC_BUS"`

	// Button settings
	ButtonsDevice string `help:"Input device path or name" default:"gpio-keys" toml:"buttons.device" env:"BUTTONS_DEVICE"`
	ButtonsKeys   string `help:"Key codes for buttons A-E, comma separated (empty for KEY_A-KEY_E)" default:"" toml:"buttons.keys" env:"BUTTONS_KEYS"`

	// LED settings
	LEDBackend string `help:"LED backend (auto, sysfs, gpio, none)" default:"auto" toml:"led.backend" env:"LED_BACKEND"`
	LEDChip    string `help:"GPIO chip for the gpio backend" default:"gpiochip0" toml:"led.chip" env:"LED_CHIP"`
	LEDMap     string `help:"LED mapping name=target, comma separated (empty for inkbadge:<name>)" default:"" toml:"led.map" env:"LED_MAP"`

	// Power settings
	PowerMode string `help:"Power-off method (systemd, none)" default:"systemd" toml:"power.mode" env:"POWER_MODE"`

	// Metrics settings
	MetricsDir string `help:"node_exporter textfile directory (empty to disable)" default:"" toml:"metrics.textfile_dir" env:"METRICS_TEXTFILE_DIR"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingCycle    string `help:"Power cycle logging level" default:"info" toml:"logging.cycle" env:"LOGGING_CYCLE"`
	LoggingSelector string `help:"Image selection logging level" default:"info" toml:"logging.selector" env:"LOGGING_SELECTOR"`
	LoggingDisplay  string `help:"Display logging level" default:"info" toml:"logging.display" env:"LOGGING_DISPLAY"`
	LoggingRTC      string `help:"RTC logging level" default:"info" toml:"logging.rtc" env:"LOGGING_RTC"`
	LoggingButtons  string `help:"Buttons logging level" default:"info" toml:"logging.buttons" env:"LOGGING_BUTTONS"`
	LoggingLED      string `help:"LED logging level" default:"info" toml:"logging.led" env:"LOGGING_LED"`
	LoggingPower    string `help:"Power logging level" default:"info" toml:"logging.power" env:"LOGGING_POWER"`
}

// loggingConfig builds the logging setup from the options. Modules without an
// option of their own may be set in the file's [logging.modules] table.
func (o *Options) loggingConfig() logging.Config {
	cfg := logging.Config{
		Level:  o.LoggingLevel,
		Format: o.LoggingFormat,
		Modules: map[string]string{
			"cycle":    o.LoggingCycle,
			"selector": o.LoggingSelector,
			"display":  o.LoggingDisplay,
			"rtc":      o.LoggingRTC,
			"buttons":  o.LoggingButtons,
			"led":      o.LoggingLED,
			"power":    o.LoggingPower,
		},
	}
	if fileCfg, err := config.LoadLogging(o.Config); err == nil {
		for module, level := range fileCfg.Modules {
			if _, ok := cfg.Modules[module]; !ok {
				cfg.Modules[module] = level
			}
		}
	}
	return cfg
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(opts.loggingConfig())
		logger := logging.GetLogger("main")

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		hooks.OnStart(func() {
			defer close(done)
			logger.Info("Starting inkbadge", version.Get().Fields()...)
			if err := run(ctx, opts, logger); err != nil && ctx.Err() == nil {
				logger.Error("inkbadge stopped", "error", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			cancel()
			<-done
		})
	})

	cli.Root().Use = "inkbadge"
	cli.Root().Short = "E-paper badge control daemon"
	cli.Root().AddCommand(cmd.CreateStateCmd())
	cli.Root().AddCommand(cmd.CreateFaultsCmd())
	cli.Root().AddCommand(cmd.CreateVersionCmd())

	// Run the CLI
	cli.Run()
}
