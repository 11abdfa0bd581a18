package ar0822

import (
	"fmt"
	"time"
)

type streamState int

const (
	streamStopped streamState = iota
	streamStarting
	streamStreaming
)

// Hardware settle times from the datasheet power-up sequence.
const (
	// streamPulseDwell is the minimum width of the RESET_REGISTER stream-on
	// pulse that wakes the sensor out of software standby.
	streamPulseDwell = 2 * time.Millisecond
	// standbyExitDelay covers the 160000 EXTCLK cycles the sensor needs
	// after leaving standby before it accepts configuration.
	standbyExitDelay = 7 * time.Millisecond
	// pllSettleDelay lets the reprogrammed clock tree lock before the
	// streaming bit is set.
	pllSettleDelay = 1 * time.Millisecond
)

// Streaming reports whether the sensor is currently streaming.
func (s *Sensor) Streaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == streamStreaming
}

// SetStreaming starts or stops the video stream. Both directions are
// idempotent. Starting programs the full configuration (wake, PLL, serializer,
// mode, staged controls) and then sets the streaming bit; any failure along
// the way powers the sensor back down synchronously so it is never left
// half-configured. Stopping enters software standby and releases power to the
// autosuspend timer.
func (s *Sensor) SetStreaming(enable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enable {
		if s.state == streamStreaming {
			return nil
		}
		return s.startStreamingLocked()
	}

	if s.state == streamStopped {
		return nil
	}
	s.stopStreamingLocked()
	return nil
}

func (s *Sensor) startStreamingLocked() error {
	if err := s.power.Resume(); err != nil {
		return fmt.Errorf("resume power: %w", err)
	}
	s.state = streamStarting

	fail := func(step string, err error) error {
		s.log.Error("streaming start failed", "step", step, "error", err)
		s.power.ForceSuspend()
		s.state = streamStopped
		return fmt.Errorf("%s: %w", step, err)
	}

	// Pulse the streaming bit to leave software standby, then drop back to
	// low power for configuration.
	if err := s.bus.Write(RegReset, resetModeStreamOn); err != nil {
		return fail("standby exit pulse", err)
	}
	time.Sleep(streamPulseDwell)
	if err := s.bus.Write(RegReset, resetModeLowPower); err != nil {
		return fail("enter low power", err)
	}
	time.Sleep(standbyExitDelay)

	if err := s.bus.WriteSequence(s.clockCfg.PLLRegs); err != nil {
		return fail("program PLL", err)
	}
	if err := s.bus.WriteSequence(s.clockCfg.MIPITiming[s.mode.bitDepth]); err != nil {
		return fail("program MIPI timing", err)
	}
	if err := s.bus.Write(RegSerialFormat, serialFormatMIPI|uint64(s.laneMode.Lanes())); err != nil {
		return fail("program serial format", err)
	}
	if err := s.bus.WriteSequence(initRegs); err != nil {
		return fail("program init sequence", err)
	}
	if err := s.bus.WriteSequence(s.mode.mode.Regs); err != nil {
		return fail("program readout mode", err)
	}

	// Framing floors for the mode; vblank and exposure on top of them are
	// flushed with the controls below.
	t := s.timingLocked()
	if err := s.bus.Write(RegLineLengthPCK, uint64(t.LineLengthPCKMin)); err != nil {
		return fail("program line length", err)
	}
	if err := s.bus.Write(RegFrameLengthLines, uint64(t.FrameLengthLinesMin)); err != nil {
		return fail("program frame length", err)
	}
	time.Sleep(pllSettleDelay)

	if err := s.applyControlsLocked(); err != nil {
		return fail("apply controls", err)
	}

	if err := s.bus.Write(RegModeSelect, modeSelectStreamOn); err != nil {
		return fail("start streaming", err)
	}

	s.state = streamStreaming
	s.grabFlipsLocked(true)
	s.log.Info("streaming started",
		"width", s.mode.mode.Width,
		"height", s.mode.mode.Height,
		"bit_depth", s.mode.bitDepth.String(),
		"lanes", s.laneMode.Lanes())
	return nil
}

func (s *Sensor) stopStreamingLocked() {
	// Standby entry failing leaves nothing to recover; power is released
	// either way.
	if err := s.bus.Write(RegModeSelect, modeSelectStreamOff); err != nil {
		s.log.Warn("failed to enter software standby", "error", err)
	}
	s.power.MarkIdleAutosuspend()
	s.state = streamStopped
	s.grabFlipsLocked(false)
	s.log.Info("streaming stopped")
}
