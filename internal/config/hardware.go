package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// HardwareProfile describes the attached sensor wiring: the I2C endpoint,
// clocking, CSI-2 lane routing and the reset line. It is the file-based
// stand-in for a devicetree endpoint description.
type HardwareProfile struct {
	I2CDevice       string  `toml:"i2c_device"`
	I2CAddress      uint8   `toml:"i2c_address"`
	ExtClkHz        uint64  `toml:"extclk_hz"`
	NumDataLanes    int     `toml:"num_data_lanes"`
	LinkFrequencies []int64 `toml:"link_frequencies"`

	// GPIOChip empty means no reset line is wired; power sequencing then
	// degrades to timing-only.
	GPIOChip      string `toml:"gpio_chip"`
	ResetGPIOLine int    `toml:"reset_gpio_line"`

	AutosuspendDelayMS int `toml:"autosuspend_delay_ms"`
}

// DefaultHardwareProfile matches the Kurokesu carrier board wiring.
func DefaultHardwareProfile() HardwareProfile {
	return HardwareProfile{
		I2CDevice:          "/dev/i2c-1",
		I2CAddress:         0x10,
		ExtClkHz:           24000000,
		NumDataLanes:       4,
		LinkFrequencies:    []int64{480000000},
		GPIOChip:           "",
		ResetGPIOLine:      0,
		AutosuspendDelayMS: 1000,
	}
}

// LoadHardwareProfile reads a TOML hardware profile, filling unset fields
// from the defaults. An empty path returns the defaults unchanged.
func LoadHardwareProfile(path string) (HardwareProfile, error) {
	profile := DefaultHardwareProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read hardware profile: %w", err)
	}
	if err := toml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("parse hardware profile: %w", err)
	}
	return profile, nil
}
