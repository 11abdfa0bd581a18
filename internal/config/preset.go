package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/Kurokesu/ar0822-v4l2-driver/pkg/ar0822"
)

// ControlPreset is a named set of control values applied at startup and on
// preset hot-reload. Nil fields are left at their current value.
type ControlPreset struct {
	VBlank         *int64 `toml:"vblank"`
	Exposure       *int64 `toml:"exposure"`
	AnalogGain     *int64 `toml:"analogue_gain"`
	HFlip          *bool  `toml:"hflip"`
	VFlip          *bool  `toml:"vflip"`
	TestPattern    *int64 `toml:"test_pattern"`
	TestDataRed    *int64 `toml:"test_pattern_red"`
	TestDataGreenR *int64 `toml:"test_pattern_greenr"`
	TestDataBlue   *int64 `toml:"test_pattern_blue"`
	TestDataGreenB *int64 `toml:"test_pattern_greenb"`
}

// LoadControlPreset reads a TOML control preset. An empty path yields an
// empty preset.
func LoadControlPreset(path string) (ControlPreset, error) {
	var preset ControlPreset
	if path == "" {
		return preset, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return preset, fmt.Errorf("read control preset: %w", err)
	}
	if err := toml.Unmarshal(data, &preset); err != nil {
		return preset, fmt.Errorf("parse control preset: %w", err)
	}
	return preset, nil
}

// PresetEntry is one control assignment from a preset.
type PresetEntry struct {
	ID    ar0822.ControlID
	Value int64
}

// Entries returns the set values in apply order. Vblank comes first so an
// exposure in the same preset lands within the widened bounds.
func (p ControlPreset) Entries() []PresetEntry {
	var out []PresetEntry
	add := func(id ar0822.ControlID, v *int64) {
		if v != nil {
			out = append(out, PresetEntry{ID: id, Value: *v})
		}
	}
	addBool := func(id ar0822.ControlID, v *bool) {
		if v == nil {
			return
		}
		var val int64
		if *v {
			val = 1
		}
		out = append(out, PresetEntry{ID: id, Value: val})
	}

	add(ar0822.ControlVBlank, p.VBlank)
	add(ar0822.ControlExposure, p.Exposure)
	add(ar0822.ControlAnalogGain, p.AnalogGain)
	addBool(ar0822.ControlHFlip, p.HFlip)
	addBool(ar0822.ControlVFlip, p.VFlip)
	add(ar0822.ControlTestPattern, p.TestPattern)
	add(ar0822.ControlTestDataRed, p.TestDataRed)
	add(ar0822.ControlTestDataGreenR, p.TestDataGreenR)
	add(ar0822.ControlTestDataBlue, p.TestDataBlue)
	add(ar0822.ControlTestDataGreenB, p.TestDataGreenB)
	return out
}

// Apply writes the preset to the sensor. All entries are attempted; errors
// are collected so one rejected control does not block the rest.
func (p ControlPreset) Apply(s *ar0822.Sensor) error {
	var errs []error
	for _, e := range p.Entries() {
		if err := s.SetControl(e.ID, e.Value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.ID, err))
		}
	}
	return errors.Join(errs...)
}
