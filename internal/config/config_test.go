package config

import (
	"os"
	"reflect"
	"testing"
)

// testOptions mirrors the daemon's flat options struct.
type testOptions struct {
	Config string `help:"Config file path"`

	Port            int      `toml:"server.port" env:"PORT"`
	HardwareProfile string   `toml:"hardware.profile" env:"HARDWARE_PROFILE"`
	LoggingLevel    string   `toml:"logging.level" env:"LOGGING_LEVEL"`
	Tags            []string `toml:"server.tags" env:"TAGS"`
	LEDEnabled      bool     `toml:"led.enabled" env:"LED_ENABLED"`
}

func writeTempTOML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config_*.toml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeTempTOML(t, `
[server]
port = 9000
tags = ["a", "b"]

[hardware]
profile = "/etc/ar0822/hardware.toml"

[logging]
level = "debug"

[led]
enabled = true
`)

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Port != 9000 {
		t.Errorf("Port = %d, want 9000", opts.Port)
	}
	if opts.HardwareProfile != "/etc/ar0822/hardware.toml" {
		t.Errorf("HardwareProfile = %q", opts.HardwareProfile)
	}
	if opts.LoggingLevel != "debug" {
		t.Errorf("LoggingLevel = %q, want debug", opts.LoggingLevel)
	}
	if !reflect.DeepEqual(opts.Tags, []string{"a", "b"}) {
		t.Errorf("Tags = %v", opts.Tags)
	}
	if !opts.LEDEnabled {
		t.Error("LEDEnabled = false, want true")
	}
}

func TestLoadConfigFromEnvVars(t *testing.T) {
	t.Setenv("AR0822_PORT", "8081")
	t.Setenv("AR0822_LOGGING_LEVEL", "warn")
	t.Setenv("AR0822_TAGS", "x, y ,z")
	t.Setenv("AR0822_LED_ENABLED", "true")

	opts := &testOptions{}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Port != 8081 {
		t.Errorf("Port = %d, want 8081", opts.Port)
	}
	if opts.LoggingLevel != "warn" {
		t.Errorf("LoggingLevel = %q, want warn", opts.LoggingLevel)
	}
	if !reflect.DeepEqual(opts.Tags, []string{"x", "y", "z"}) {
		t.Errorf("Tags = %v", opts.Tags)
	}
	if !opts.LEDEnabled {
		t.Error("LEDEnabled = false, want true")
	}
}

func TestEnvOverridesTOML(t *testing.T) {
	path := writeTempTOML(t, `
[server]
port = 9000
`)
	t.Setenv("AR0822_PORT", "8082")

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if opts.Port != 8082 {
		t.Errorf("Port = %d, want env override 8082", opts.Port)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeTempTOML(t, "invalid toml [[[")

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err == nil {
		t.Error("LoadConfig accepted invalid TOML")
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Port", "port"},
		{"LoggingLevel", "logging-level"},
		{"HardwareProfile", "hardware-profile"},
	}
	for _, tt := range tests {
		if got := fieldNameToFlag(tt.in); got != tt.want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeTempTOML(t, `
[logging]
level = "debug"
format = "json"
sensor = "warn"
api = "error"
`)

	cfg := LoadLoggingConfig(path)
	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Modules["sensor"] != "warn" || cfg.Modules["api"] != "error" {
		t.Errorf("modules = %v", cfg.Modules)
	}

	defaults := LoadLoggingConfig("")
	if defaults.Level != "info" || defaults.Format != "text" {
		t.Errorf("defaults = %+v", defaults)
	}
}

func TestLoadHardwareProfile(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		profile, err := LoadHardwareProfile("")
		if err != nil {
			t.Fatalf("LoadHardwareProfile: %v", err)
		}
		want := DefaultHardwareProfile()
		if !reflect.DeepEqual(profile, want) {
			t.Errorf("profile = %+v, want defaults %+v", profile, want)
		}
	})

	t.Run("file overrides", func(t *testing.T) {
		path := writeTempTOML(t, `
i2c_device = "/dev/i2c-4"
num_data_lanes = 2
link_frequencies = [960000000]
gpio_chip = "/dev/gpiochip0"
reset_gpio_line = 17
`)
		profile, err := LoadHardwareProfile(path)
		if err != nil {
			t.Fatalf("LoadHardwareProfile: %v", err)
		}
		if profile.I2CDevice != "/dev/i2c-4" {
			t.Errorf("I2CDevice = %q", profile.I2CDevice)
		}
		if profile.NumDataLanes != 2 {
			t.Errorf("NumDataLanes = %d", profile.NumDataLanes)
		}
		if !reflect.DeepEqual(profile.LinkFrequencies, []int64{960000000}) {
			t.Errorf("LinkFrequencies = %v", profile.LinkFrequencies)
		}
		if profile.GPIOChip != "/dev/gpiochip0" || profile.ResetGPIOLine != 17 {
			t.Errorf("gpio = %q line %d", profile.GPIOChip, profile.ResetGPIOLine)
		}
		// Unset fields keep their defaults.
		if profile.I2CAddress != 0x10 {
			t.Errorf("I2CAddress = %#x, want default 0x10", profile.I2CAddress)
		}
		if profile.ExtClkHz != 24000000 {
			t.Errorf("ExtClkHz = %d, want default", profile.ExtClkHz)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadHardwareProfile("/nonexistent/hardware.toml"); err == nil {
			t.Error("missing file accepted")
		}
	})
}

func TestControlPresetEntries(t *testing.T) {
	vblank := int64(1000)
	exposure := int64(2000)
	hflip := true

	preset := ControlPreset{
		VBlank:   &vblank,
		Exposure: &exposure,
		HFlip:    &hflip,
	}

	entries := preset.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// Vblank must come before exposure so the exposure range is widened
	// before the value lands.
	if entries[0].Value != vblank {
		t.Errorf("first entry = %+v, want vblank", entries[0])
	}
	if entries[1].Value != exposure {
		t.Errorf("second entry = %+v, want exposure", entries[1])
	}
	if entries[2].Value != 1 {
		t.Errorf("third entry = %+v, want hflip=1", entries[2])
	}
}

func TestLoadControlPreset(t *testing.T) {
	path := writeTempTOML(t, `
exposure = 500
analogue_gain = 32
test_pattern = 2
`)

	preset, err := LoadControlPreset(path)
	if err != nil {
		t.Fatalf("LoadControlPreset: %v", err)
	}
	if preset.Exposure == nil || *preset.Exposure != 500 {
		t.Errorf("Exposure = %v", preset.Exposure)
	}
	if preset.AnalogGain == nil || *preset.AnalogGain != 32 {
		t.Errorf("AnalogGain = %v", preset.AnalogGain)
	}
	if preset.TestPattern == nil || *preset.TestPattern != 2 {
		t.Errorf("TestPattern = %v", preset.TestPattern)
	}
	if preset.VBlank != nil {
		t.Errorf("VBlank = %v, want nil for unset", preset.VBlank)
	}
}
