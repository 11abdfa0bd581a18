package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kurokesu/ar0822-v4l2-driver/cmd"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/api"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/config"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/events"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/led"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/logging"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/metrics"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/power"
	"github.com/Kurokesu/ar0822-v4l2-driver/pkg/ar0822"
	"github.com/Kurokesu/ar0822-v4l2-driver/pkg/cci"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Address to listen on" short:"p" default:":8822" toml:"server.port" env:"SERVER_PORT"`

	// Sensor settings
	HardwareProfile string `help:"Hardware profile TOML describing the sensor wiring" default:"" toml:"sensor.hardware_profile" env:"HARDWARE_PROFILE"`
	ControlPreset   string `help:"Control preset TOML applied at startup and on file change" default:"" toml:"sensor.control_preset" env:"CONTROL_PRESET"`

	// Auth settings
	AuthUsername string `help:"Basic auth username, empty disables auth" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Features settings
	FeaturesLEDControl bool `help:"Enable record indicator LED control" default:"false" toml:"features.led_control_enabled" env:"FEATURES_LED_CONTROL"`

	// Logging settings
	LoggingLevel  string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingSensor string `help:"Sensor logging level" default:"info" toml:"logging.sensor" env:"LOGGING_SENSOR"`
	LoggingPower  string `help:"Power sequencing logging level" default:"info" toml:"logging.power" env:"LOGGING_POWER"`
	LoggingConfig string `help:"Configuration logging level" default:"info" toml:"logging.config" env:"LOGGING_CONFIG"`
	LoggingAPI    string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP   string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			logging.GetLogger("main").Warn("failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"sensor": opts.LoggingSensor,
				"power":  opts.LoggingPower,
				"config": opts.LoggingConfig,
				"api":    opts.LoggingAPI,
				"http":   opts.LoggingHTTP,
			},
		})

		logger := logging.GetLogger("main")

		profile, err := config.LoadHardwareProfile(opts.HardwareProfile)
		if err != nil {
			logger.Warn("failed to load hardware profile, using defaults", "error", err)
		}

		bus, err := cci.NewI2C(profile.I2CAddress, profile.I2CDevice)
		if err != nil {
			logger.Error("failed to open I2C bus", "device", profile.I2CDevice, "error", err)
			os.Exit(1)
		}
		instrumented := metrics.InstrumentBus(bus)

		sequencer, err := power.New(
			profile.GPIOChip,
			profile.ResetGPIOLine,
			time.Duration(profile.AutosuspendDelayMS)*time.Millisecond,
			logging.GetLogger("power"),
		)
		if err != nil {
			logger.Error("failed to set up power sequencing", "error", err)
			os.Exit(1)
		}

		sensor, err := ar0822.New(instrumented, sequencer, ar0822.Config{
			ExtClkHz:        profile.ExtClkHz,
			NumDataLanes:    profile.NumDataLanes,
			LinkFrequencies: profile.LinkFrequencies,
		}, logging.GetLogger("sensor"))
		if err != nil {
			logger.Error("sensor configuration rejected", "error", err)
			os.Exit(1)
		}

		if err := sensor.Probe(); err != nil {
			logger.Error("sensor probe failed", "error", err)
			os.Exit(1)
		}

		// Startup preset; nil fields keep their defaults.
		if preset, presetErr := config.LoadControlPreset(opts.ControlPreset); presetErr != nil {
			logger.Warn("failed to load control preset", "error", presetErr)
		} else if applyErr := preset.Apply(sensor); applyErr != nil {
			logger.Warn("control preset partially applied", "error", applyErr)
		}

		eventBus := events.New()

		// Preset hot-reload
		var presetWatcher *config.Watcher[config.ControlPreset]
		if opts.ControlPreset != "" {
			presetWatcher = config.NewConfigWatcher(
				opts.ControlPreset,
				config.LoadControlPreset,
				logging.GetLogger("config"),
				config.WithDebounce[config.ControlPreset](1500*time.Millisecond),
			)
			presetWatcher.OnReload(func(preset config.ControlPreset) {
				if applyErr := preset.Apply(sensor); applyErr != nil {
					logger.Warn("reloaded preset partially applied", "error", applyErr)
				} else {
					logger.Info("control preset reloaded", "path", opts.ControlPreset)
				}
			})
		}

		var ledManager *led.Manager
		var ledController led.Controller
		if opts.FeaturesLEDControl {
			logger.Info("LED control enabled, initializing")
			ledController = led.New(logger)
			ledManager = led.NewManager(ledController, eventBus, logging.GetLogger("led"))
		}

		server := api.NewServer(&api.Options{
			Sensor:            sensor,
			EventBus:          eventBus,
			LEDController:     ledController,
			PrometheusHandler: promhttp.Handler(),
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
		})

		hooks.OnStart(func() {
			if presetWatcher != nil {
				if watchErr := presetWatcher.Start(); watchErr != nil {
					logger.Warn("failed to watch control preset", "error", watchErr)
				}
			}

			if ledManager != nil {
				ledManager.Start()
			}

			logger.Info("starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("error stopping HTTP server", "error", stopErr)
			}

			if presetWatcher != nil {
				if stopErr := presetWatcher.Stop(); stopErr != nil {
					logger.Warn("error stopping preset watcher", "error", stopErr)
				}
			}
			if ledManager != nil {
				ledManager.Stop()
			}

			if closeErr := sensor.Close(); closeErr != nil {
				logger.Warn("error stopping sensor", "error", closeErr)
			}
			if closeErr := sequencer.Close(); closeErr != nil {
				logger.Warn("error releasing reset line", "error", closeErr)
			}
			if closeErr := bus.Close(); closeErr != nil {
				logger.Warn("error closing I2C bus", "error", closeErr)
			}
		})
	})

	// Add detect command
	cli.Root().AddCommand(cmd.CreateDetectCmd())

	// Add headless stream command
	cli.Root().AddCommand(cmd.CreateStreamCmd())

	cli.Run()
}
