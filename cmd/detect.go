package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Kurokesu/ar0822-v4l2-driver/internal/logging"
)

// CreateDetectCmd creates the detect command.
func CreateDetectCmd() *cobra.Command {
	var profilePath string
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Probe for the sensor",
		Long: `Powers the sensor up, reads the chip version register and reports whether ` +
			`an AR0822 is present on the configured I2C bus. Exits non-zero when the probe fails.`,
		Run: func(_ *cobra.Command, _ []string) {
			loggingConfig := logging.Config{
				Level:  "info",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("detect")

			sensor, cleanup, err := attachSensor(profilePath, logger)
			if err != nil {
				logger.Error("probe failed", "error", err)
				os.Exit(1)
			}
			defer cleanup()
			defer sensor.Close()

			clockCfg := sensor.ClockConfig()
			logger.Info("sensor detected",
				"extclk_hz", clockCfg.ExtClkHz,
				"link_freq_hz", clockCfg.LinkFreqHz,
				"lanes", sensor.LaneMode().Lanes(),
				"pixel_rate", clockCfg.PixelRate)
		},
	}

	cmd.Flags().StringVar(&profilePath, "hardware-profile", "", "Hardware profile TOML describing the sensor wiring")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Log in JSON format")

	return cmd
}
