// Package power owns the sensor's reset line and implements reference
// counted power sequencing with delayed autosuspend, so short idle gaps
// between register accesses do not bounce the sensor through reset.
package power

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// resetLine abstracts the GPIO so tests can observe transitions.
type resetLine interface {
	SetValue(value int) error
	Close() error
}

// resetSettleDelay is how long the sensor needs after reset release before
// it responds on the control bus.
const resetSettleDelay = 7 * time.Millisecond

// Sequencer drives the sensor reset line. Line value 1 is out of reset
// (powered), 0 holds the sensor in reset.
type Sequencer struct {
	line  resetLine
	chip  *gpiocdev.Chip
	delay time.Duration
	log   *slog.Logger

	mu      sync.Mutex
	refs    int
	powered bool
	timer   *time.Timer
}

// New opens the reset line on the given GPIO chip. An empty chip path means
// no reset line is wired; sequencing then tracks state without touching
// hardware.
func New(chipPath string, line int, autosuspendDelay time.Duration, logger *slog.Logger) (*Sequencer, error) {
	if chipPath == "" {
		logger.Debug("no reset line configured, power sequencing is timing-only")
		return newWithLine(noopLine{}, autosuspendDelay, logger), nil
	}

	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return nil, fmt.Errorf("open GPIO chip %s: %w", chipPath, err)
	}

	// Held in reset until the first Resume.
	l, err := chip.RequestLine(
		line,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer("ar0822-reset"),
	)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request reset line %d: %w", line, err)
	}

	s := newWithLine(l, autosuspendDelay, logger)
	s.chip = chip
	return s, nil
}

func newWithLine(line resetLine, autosuspendDelay time.Duration, logger *slog.Logger) *Sequencer {
	return &Sequencer{
		line:  line,
		delay: autosuspendDelay,
		log:   logger,
	}
}

// Resume powers the sensor up if needed and holds a use reference. A resume
// into a pending autosuspend just cancels the timer.
func (s *Sequencer) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()

	if !s.powered {
		if err := s.line.SetValue(1); err != nil {
			return fmt.Errorf("release reset: %w", err)
		}
		time.Sleep(resetSettleDelay)
		s.powered = true
		s.log.Debug("sensor powered up")
	}

	s.refs++
	return nil
}

// MarkIdleAutosuspend drops a use reference. When the last reference goes,
// power-down is scheduled after the autosuspend delay.
func (s *Sequencer) MarkIdleAutosuspend() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs > 0 {
		s.refs--
	}
	if s.refs == 0 && s.powered {
		s.stopTimerLocked()
		s.timer = time.AfterFunc(s.delay, s.autosuspend)
	}
}

// BorrowActive takes a use reference only if the sensor is currently
// powered, cancelling any pending autosuspend. Callers pair a true return
// with MarkIdleAutosuspend.
func (s *Sequencer) BorrowActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.powered {
		return false
	}
	s.stopTimerLocked()
	s.refs++
	return true
}

// ForceSuspend powers the sensor down immediately, dropping all references
// and any pending autosuspend.
func (s *Sequencer) ForceSuspend() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.refs = 0
	s.powerDownLocked()
}

// Close powers the sensor down and releases the GPIO.
func (s *Sequencer) Close() error {
	s.ForceSuspend()

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.line.Close()
	if s.chip != nil {
		if chipErr := s.chip.Close(); err == nil {
			err = chipErr
		}
	}
	return err
}

func (s *Sequencer) autosuspend() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A Resume or BorrowActive may have raced the timer.
	if s.refs != 0 {
		return
	}
	s.powerDownLocked()
}

func (s *Sequencer) powerDownLocked() {
	if !s.powered {
		return
	}
	if err := s.line.SetValue(0); err != nil {
		s.log.Warn("failed to assert reset", "error", err)
	}
	s.powered = false
	s.log.Debug("sensor powered down")
}

func (s *Sequencer) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// noopLine stands in when no reset line is wired.
type noopLine struct{}

func (noopLine) SetValue(int) error { return nil }
func (noopLine) Close() error       { return nil }
