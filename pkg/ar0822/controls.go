package ar0822

import "fmt"

// ControlID identifies one exposed sensor control.
type ControlID int

const (
	ControlLinkFrequency ControlID = iota
	ControlPixelRate
	ControlHBlank
	ControlVBlank
	ControlExposure
	ControlAnalogGain
	ControlHFlip
	ControlVFlip
	ControlTestPattern
	ControlTestDataRed
	ControlTestDataGreenR
	ControlTestDataBlue
	ControlTestDataGreenB
)

// controlIDs is the enumeration order for Controls.
var controlIDs = []ControlID{
	ControlLinkFrequency,
	ControlPixelRate,
	ControlHBlank,
	ControlVBlank,
	ControlExposure,
	ControlAnalogGain,
	ControlHFlip,
	ControlVFlip,
	ControlTestPattern,
	ControlTestDataRed,
	ControlTestDataGreenR,
	ControlTestDataBlue,
	ControlTestDataGreenB,
}

var controlNames = map[ControlID]string{
	ControlLinkFrequency:  "link_frequency",
	ControlPixelRate:      "pixel_rate",
	ControlHBlank:         "hblank",
	ControlVBlank:         "vblank",
	ControlExposure:       "exposure",
	ControlAnalogGain:     "analogue_gain",
	ControlHFlip:          "hflip",
	ControlVFlip:          "vflip",
	ControlTestPattern:    "test_pattern",
	ControlTestDataRed:    "test_pattern_red",
	ControlTestDataGreenR: "test_pattern_greenr",
	ControlTestDataBlue:   "test_pattern_blue",
	ControlTestDataGreenB: "test_pattern_greenb",
}

func (id ControlID) String() string {
	if name, ok := controlNames[id]; ok {
		return name
	}
	return fmt.Sprintf("control(%d)", int(id))
}

// ControlIDByName resolves the wire name of a control, as used by the HTTP
// API and control presets.
func ControlIDByName(name string) (ControlID, bool) {
	for id, n := range controlNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// Control limits. Exposure and blanking are in lines and pixels of the
// current mode; the exposure floor is an empirical minimum below which the
// readout produces garbage.
const (
	exposureMin     = 4
	exposureDefault = 0x017C

	// Frame length must stay a multiple of 8 lines for the HDR readout
	// engine, so vblank moves in steps of 8.
	vblankStep = 8
	vtsMax     = 0xFFFF

	analogGainMax = 232

	testDataMax = 0x0FFF
)

// Control is one control's range and current value. Read-only controls
// report device constants and reject writes.
type Control struct {
	ID       ControlID
	Name     string
	Min      int64
	Max      int64
	Step     int64
	Default  int64
	Value    int64
	ReadOnly bool

	grabbed bool
}

// Grabbed reports whether the control is currently locked by streaming.
func (c Control) Grabbed() bool {
	return c.grabbed
}

// initControls builds the control set for the default mode. Called once from
// New, before the sensor is shared.
func (s *Sensor) initControls() {
	t := s.timingLocked()
	m := s.mode.mode
	vblankMin := t.FrameLengthLinesMin - int64(m.Height)
	hblank := t.LineLengthPCKMin - int64(m.Width)

	s.ctrls = map[ControlID]*Control{
		ControlLinkFrequency: {
			Min: s.clockCfg.LinkFreqHz, Max: s.clockCfg.LinkFreqHz, Step: 1,
			Default: s.clockCfg.LinkFreqHz, Value: s.clockCfg.LinkFreqHz,
			ReadOnly: true,
		},
		ControlPixelRate: {
			Min: int64(s.clockCfg.PixelRate), Max: int64(s.clockCfg.PixelRate), Step: 1,
			Default: int64(s.clockCfg.PixelRate), Value: int64(s.clockCfg.PixelRate),
			ReadOnly: true,
		},
		ControlHBlank: {
			Min: hblank, Max: hblank, Step: 1,
			Default: hblank, Value: hblank,
			ReadOnly: true,
		},
		ControlVBlank: {
			Min: vblankMin, Max: vtsMax - int64(m.Height), Step: vblankStep,
			Default: vblankMin, Value: vblankMin,
		},
		ControlExposure: {
			Min: exposureMin, Max: t.FrameLengthLinesMin - exposureMin, Step: 1,
			Default: exposureDefault, Value: exposureDefault,
		},
		ControlAnalogGain: {
			Min: 0, Max: analogGainMax, Step: 1,
			Default: 0, Value: 0,
		},
		ControlHFlip: {
			Min: 0, Max: 1, Step: 1,
			Default: 0, Value: 0,
		},
		ControlVFlip: {
			Min: 0, Max: 1, Step: 1,
			Default: 0, Value: 0,
		},
		ControlTestPattern: {
			Min: TestPatternDisabled, Max: TestPatternWalking1s, Step: 1,
			Default: TestPatternDisabled, Value: TestPatternDisabled,
		},
		ControlTestDataRed: {
			Min: 0, Max: testDataMax, Step: 1,
			Default: testDataMax, Value: testDataMax,
		},
		ControlTestDataGreenR: {
			Min: 0, Max: testDataMax, Step: 1,
			Default: testDataMax, Value: testDataMax,
		},
		ControlTestDataBlue: {
			Min: 0, Max: testDataMax, Step: 1,
			Default: testDataMax, Value: testDataMax,
		},
		ControlTestDataGreenB: {
			Min: 0, Max: testDataMax, Step: 1,
			Default: testDataMax, Value: testDataMax,
		},
	}

	for id, c := range s.ctrls {
		c.ID = id
		c.Name = controlNames[id]
	}
}

// setFramingLimitsLocked recomputes the blanking and exposure ranges after an
// active format change. Vblank snaps back to its minimum (fastest frame
// rate), and the exposure range follows the new frame length.
func (s *Sensor) setFramingLimitsLocked() {
	t := s.timingLocked()
	m := s.mode.mode

	hb := s.ctrls[ControlHBlank]
	hblank := t.LineLengthPCKMin - int64(m.Width)
	hb.Min, hb.Max, hb.Default, hb.Value = hblank, hblank, hblank, hblank

	vb := s.ctrls[ControlVBlank]
	vb.Min = t.FrameLengthLinesMin - int64(m.Height)
	vb.Max = vtsMax - int64(m.Height)
	vb.Default = vb.Min
	vb.Value = vb.Min

	s.adjustExposureRangeLocked(vb.Value)
}

// adjustExposureRangeLocked bounds exposure by the frame length implied by
// vblank. The default follows the current value, capped at the new maximum.
// Returns true if the current exposure value had to be clamped.
func (s *Sensor) adjustExposureRangeLocked(vblank int64) bool {
	exp := s.ctrls[ControlExposure]
	exp.Max = int64(s.mode.mode.Height) + vblank - exposureMin
	exp.Default = min(exp.Max, exp.Value)
	if exp.Value > exp.Max {
		exp.Value = exp.Max
		return true
	}
	return false
}

// Control returns a snapshot of one control.
func (s *Sensor) Control(id ControlID) (Control, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.ctrls[id]
	if !ok {
		return Control{}, fmt.Errorf("%w: %s", ErrUnsupportedControl, id)
	}
	return *c, nil
}

// Controls returns a snapshot of all controls in enumeration order.
func (s *Sensor) Controls() []Control {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Control, 0, len(controlIDs))
	for _, id := range controlIDs {
		out = append(out, *s.ctrls[id])
	}
	return out
}

// SetControl validates and stages a control value, and applies it to the
// hardware immediately if the sensor happens to be powered. Values outside
// the range are clamped; values off the step grid are rounded down. Setting
// vblank re-bounds exposure first, so a single frame never carries an
// exposure longer than its frame length.
func (s *Sensor) SetControl(id ControlID, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.ctrls[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedControl, id)
	}
	if c.ReadOnly {
		return fmt.Errorf("%w: %s", ErrReadOnlyControl, c.Name)
	}
	if c.grabbed {
		return fmt.Errorf("%w: %s", ErrControlGrabbed, c.Name)
	}

	value = clampStep(value, c.Min, c.Max, c.Step)

	expClamped := false
	if id == ControlVBlank {
		expClamped = s.adjustExposureRangeLocked(value)
	}
	c.Value = value

	// Not powered: the value is staged and flushed by the next streaming
	// start, which re-applies every control.
	if !s.power.BorrowActive() {
		return nil
	}
	defer s.power.MarkIdleAutosuspend()

	if err := s.writeControlLocked(id); err != nil {
		return fmt.Errorf("apply %s: %w", c.Name, err)
	}
	if expClamped {
		if err := s.writeControlLocked(ControlExposure); err != nil {
			return fmt.Errorf("apply exposure after vblank clamp: %w", err)
		}
	}
	return nil
}

func clampStep(v, min, max, step int64) int64 {
	if v < min {
		return min
	}
	if v > max {
		v = max
	}
	if step > 1 {
		v = min + (v-min)/step*step
	}
	return v
}

// applyOrder is the register flush order on streaming start. Frame length
// goes first so the exposure written afterwards is always within bounds; the
// orientation write covers both flips at once.
var applyOrder = []ControlID{
	ControlVBlank,
	ControlExposure,
	ControlAnalogGain,
	ControlHFlip,
	ControlTestPattern,
	ControlTestDataRed,
	ControlTestDataGreenR,
	ControlTestDataBlue,
	ControlTestDataGreenB,
}

// applyControlsLocked flushes every staged control value to the hardware.
// Callers hold s.mu and have the sensor powered.
func (s *Sensor) applyControlsLocked() error {
	for _, id := range applyOrder {
		if err := s.writeControlLocked(id); err != nil {
			return fmt.Errorf("apply %s: %w", s.ctrls[id].Name, err)
		}
	}
	return nil
}

// writeControlLocked is the single funnel from control values to registers.
// Callers hold s.mu and have the sensor powered.
func (s *Sensor) writeControlLocked(id ControlID) error {
	switch id {
	case ControlVBlank:
		fll := int64(s.mode.mode.Height) + s.ctrls[ControlVBlank].Value
		return s.bus.Write(RegFrameLengthLines, uint64(fll))
	case ControlExposure:
		return s.bus.Write(RegCoarseIntegrationTime, uint64(s.ctrls[ControlExposure].Value))
	case ControlAnalogGain:
		return s.bus.Write(RegSensorGain, uint64(s.ctrls[ControlAnalogGain].Value))
	case ControlHFlip, ControlVFlip:
		v := uint64(s.ctrls[ControlHFlip].Value)<<orientationHFlipBit |
			uint64(s.ctrls[ControlVFlip].Value)<<orientationVFlipBit
		return s.bus.Write(RegImageOrientation, v)
	case ControlTestPattern:
		return s.bus.Write(RegTestPatternMode, testPatternRegVals[s.ctrls[ControlTestPattern].Value])
	case ControlTestDataRed:
		return s.bus.Write(RegTestDataRed, uint64(s.ctrls[ControlTestDataRed].Value))
	case ControlTestDataGreenR:
		return s.bus.Write(RegTestDataGreenR, uint64(s.ctrls[ControlTestDataGreenR].Value))
	case ControlTestDataBlue:
		return s.bus.Write(RegTestDataBlue, uint64(s.ctrls[ControlTestDataBlue].Value))
	case ControlTestDataGreenB:
		return s.bus.Write(RegTestDataGreenB, uint64(s.ctrls[ControlTestDataGreenB].Value))
	}
	// Read-only controls have no backing register.
	return nil
}

// grabFlipsLocked locks or unlocks the orientation controls. The flips pick
// the Bayer order of the stream, which receivers latch at stream start.
func (s *Sensor) grabFlipsLocked(grab bool) {
	s.ctrls[ControlHFlip].grabbed = grab
	s.ctrls[ControlVFlip].grabbed = grab
}
