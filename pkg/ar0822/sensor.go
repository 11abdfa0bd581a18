// Package ar0822 drives the OnSemi AR0822 CMOS image sensor over a CCI
// register transport. It owns mode selection, format negotiation, the control
// surface and the streaming sequence; power sequencing and the register
// transport itself are collaborators passed in at attach time.
package ar0822

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Kurokesu/ar0822-v4l2-driver/pkg/cci"
)

// PowerSequencer is the runtime power collaborator. It is reference counted
// and serialized internally; the sensor only calls it at defined points of
// the streaming sequence and around control writes.
type PowerSequencer interface {
	// Resume powers the sensor up (or joins an existing power-up) and holds
	// a use reference. It may block and may fail.
	Resume() error

	// MarkIdleAutosuspend drops a use reference and makes the sensor
	// eligible for delayed power-down once unused. Never blocks, never
	// fails.
	MarkIdleAutosuspend()

	// BorrowActive takes a use reference only if the sensor is currently
	// powered. Callers that get true must pair it with
	// MarkIdleAutosuspend.
	BorrowActive() bool

	// ForceSuspend powers the sensor down synchronously, discarding any
	// pending autosuspend. Used when a streaming start fails partway, so
	// the hardware is never left half-configured.
	ForceSuspend()
}

// Config is the attach-time hardware description, normally read from the
// hardware profile (the devicetree endpoint equivalent).
type Config struct {
	ExtClkHz        uint64
	NumDataLanes    int
	LinkFrequencies []int64
}

// activeMode is the current readout selection.
type activeMode struct {
	mode     *Mode
	bitDepth BitDepth
	code     uint32
}

// Sensor is a single attached AR0822. All mutable state (active mode, the
// control set, streaming state) is serialized by one mutex; register I/O is
// synchronous and may block while it is held.
type Sensor struct {
	bus   cci.Bus
	power PowerSequencer
	log   *slog.Logger

	clockCfg *ClockConfig
	laneMode LaneMode

	mu    sync.Mutex
	mode  activeMode
	ctrls map[ControlID]*Control
	state streamState
}

// New resolves the clock configuration for cfg and returns a sensor bound to
// the given transport and power sequencer. No register I/O happens here; call
// Probe to verify the chip is present.
func New(bus cci.Bus, power PowerSequencer, cfg Config, logger *slog.Logger) (*Sensor, error) {
	clockCfg, laneMode, err := ResolveClockConfig(cfg.ExtClkHz, cfg.NumDataLanes, cfg.LinkFrequencies)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &Sensor{
		bus:      bus,
		power:    power,
		log:      logger,
		clockCfg: clockCfg,
		laneMode: laneMode,
	}

	// Default to the largest mode at 10 bits, no flip.
	s.mode = activeMode{
		mode:     &clockCfg.Modes[0],
		bitDepth: BitDepth10,
		code:     formatCodes[BitDepth10][0],
	}

	s.initControls()

	logger.Debug("sensor configured",
		"extclk_hz", clockCfg.ExtClkHz,
		"link_freq_hz", clockCfg.LinkFreqHz,
		"lanes", laneMode.Lanes())

	return s, nil
}

// ClockConfig returns the resolved clock configuration.
func (s *Sensor) ClockConfig() *ClockConfig {
	return s.clockCfg
}

// LaneMode returns the resolved lane mode.
func (s *Sensor) LaneMode() LaneMode {
	return s.laneMode
}

// Probe powers the sensor up, verifies the chip version register and releases
// power again. A mismatch is fatal to the attach.
func (s *Sensor) Probe() error {
	if err := s.power.Resume(); err != nil {
		return fmt.Errorf("power on for probe: %w", err)
	}
	defer s.power.MarkIdleAutosuspend()

	model, err := s.bus.Read(RegChipVersion)
	if err != nil {
		return fmt.Errorf("read chip version: %w", err)
	}
	if model != ChipVersion {
		return fmt.Errorf("%w: read 0x%04X, want 0x%04X", ErrWrongChipID, model, ChipVersion)
	}

	s.log.Info("detected AR0822 image sensor")
	return nil
}

// Close stops streaming if active. The transport and power sequencer are
// owned by the caller and are not closed here.
func (s *Sensor) Close() error {
	return s.SetStreaming(false)
}

// timing returns the framing floor for the current mode, lane mode and bit
// depth. Callers hold s.mu.
func (s *Sensor) timingLocked() Timing {
	return s.mode.mode.Timing[s.laneMode][s.mode.bitDepth]
}
