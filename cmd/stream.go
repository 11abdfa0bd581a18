package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kurokesu/ar0822-v4l2-driver/internal/config"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/logging"
)

// CreateStreamCmd creates the stream command.
func CreateStreamCmd() *cobra.Command {
	var profilePath string
	var presetPath string
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Run the sensor headless",
		Long: `Attaches to the sensor, applies the control preset and starts streaming without ` +
			`the HTTP API. The preset file is watched and re-applied on change. ` +
			`Streaming stops on SIGINT or SIGTERM.`,
		Run: func(_ *cobra.Command, _ []string) {
			loggingConfig := logging.Config{
				Level:  "info",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("stream")

			sensor, cleanup, err := attachSensor(profilePath, logger)
			if err != nil {
				logger.Error("failed to attach sensor", "error", err)
				os.Exit(1)
			}
			defer cleanup()

			if preset, presetErr := config.LoadControlPreset(presetPath); presetErr != nil {
				logger.Warn("failed to load control preset", "error", presetErr)
			} else if applyErr := preset.Apply(sensor); applyErr != nil {
				logger.Warn("control preset partially applied", "error", applyErr)
			}

			if err := sensor.SetStreaming(true); err != nil {
				logger.Error("failed to start streaming", "error", err)
				cleanup()
				os.Exit(1)
			}
			logger.Info("streaming started")

			// Re-apply the preset on file change so exposure and gain can be
			// tuned without restarting the stream.
			if presetPath != "" {
				watcher := config.NewConfigWatcher(
					presetPath,
					config.LoadControlPreset,
					logger,
					config.WithDebounce[config.ControlPreset](1500*time.Millisecond),
				)
				watcher.OnReload(func(preset config.ControlPreset) {
					if applyErr := preset.Apply(sensor); applyErr != nil {
						logger.Warn("reloaded preset partially applied", "error", applyErr)
					} else {
						logger.Info("control preset reloaded")
					}
				})
				if watchErr := watcher.Start(); watchErr != nil {
					logger.Warn("failed to watch control preset", "error", watchErr)
				} else {
					defer func() {
						if stopErr := watcher.Stop(); stopErr != nil {
							logger.Warn("error stopping preset watcher", "error", stopErr)
						}
					}()
				}
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			logger.Info("shutting down", "signal", sig.String())

			if err := sensor.SetStreaming(false); err != nil {
				logger.Warn("error stopping stream", "error", err)
			}
		},
	}

	cmd.Flags().StringVar(&profilePath, "hardware-profile", "", "Hardware profile TOML describing the sensor wiring")
	cmd.Flags().StringVar(&presetPath, "preset", "", "Control preset TOML applied at startup and on change")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Log in JSON format")

	return cmd
}
