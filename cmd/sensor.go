// Package cmd holds the auxiliary CLI subcommands.
package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Kurokesu/ar0822-v4l2-driver/internal/config"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/metrics"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/power"
	"github.com/Kurokesu/ar0822-v4l2-driver/pkg/ar0822"
	"github.com/Kurokesu/ar0822-v4l2-driver/pkg/cci"
)

// attachSensor opens the transport and power sequencing described by the
// hardware profile and probes the sensor. The returned cleanup releases
// everything in reverse order.
func attachSensor(profilePath string, logger *slog.Logger) (*ar0822.Sensor, func(), error) {
	profile, err := config.LoadHardwareProfile(profilePath)
	if err != nil {
		logger.Warn("failed to load hardware profile, using defaults", "error", err)
	}

	bus, err := cci.NewI2C(profile.I2CAddress, profile.I2CDevice)
	if err != nil {
		return nil, nil, fmt.Errorf("open I2C bus %s: %w", profile.I2CDevice, err)
	}

	sequencer, err := power.New(
		profile.GPIOChip,
		profile.ResetGPIOLine,
		time.Duration(profile.AutosuspendDelayMS)*time.Millisecond,
		logger,
	)
	if err != nil {
		bus.Close()
		return nil, nil, fmt.Errorf("set up power sequencing: %w", err)
	}

	cleanup := func() {
		if closeErr := sequencer.Close(); closeErr != nil {
			logger.Warn("error releasing reset line", "error", closeErr)
		}
		if closeErr := bus.Close(); closeErr != nil {
			logger.Warn("error closing I2C bus", "error", closeErr)
		}
	}

	sensor, err := ar0822.New(metrics.InstrumentBus(bus), sequencer, ar0822.Config{
		ExtClkHz:        profile.ExtClkHz,
		NumDataLanes:    profile.NumDataLanes,
		LinkFrequencies: profile.LinkFrequencies,
	}, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	if err := sensor.Probe(); err != nil {
		cleanup()
		return nil, nil, err
	}

	return sensor, cleanup, nil
}
