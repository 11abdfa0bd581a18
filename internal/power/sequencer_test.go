package power

import (
	"log/slog"
	"sync"
	"testing"
	"time"
)

// fakeLine records reset line transitions.
type fakeLine struct {
	mu     sync.Mutex
	values []int
	closed bool
}

func (l *fakeLine) SetValue(v int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values = append(l.values, v)
	return nil
}

func (l *fakeLine) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

func (l *fakeLine) last() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.values) == 0 {
		return 0, false
	}
	return l.values[len(l.values)-1], true
}

func (l *fakeLine) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.values)
}

func newTestSequencer(delay time.Duration) (*Sequencer, *fakeLine) {
	line := &fakeLine{}
	return newWithLine(line, delay, slog.Default()), line
}

func TestResumePowersUpOnce(t *testing.T) {
	s, line := newTestSequencer(time.Hour)

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if v, ok := line.last(); !ok || v != 1 {
		t.Fatalf("line = %d (%v), want released (1)", v, ok)
	}

	// A second reference while powered must not touch the line again.
	if err := s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if line.count() != 1 {
		t.Errorf("line transitions = %d, want 1", line.count())
	}
}

func TestAutosuspendAfterLastReference(t *testing.T) {
	s, line := newTestSequencer(20 * time.Millisecond)

	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}

	// Dropping one of two references must not schedule suspend.
	s.MarkIdleAutosuspend()
	time.Sleep(60 * time.Millisecond)
	if v, _ := line.last(); v != 1 {
		t.Fatal("suspended while references remain")
	}

	s.MarkIdleAutosuspend()
	time.Sleep(60 * time.Millisecond)
	if v, _ := line.last(); v != 0 {
		t.Error("not suspended after delay with zero references")
	}
}

func TestResumeCancelsPendingAutosuspend(t *testing.T) {
	s, line := newTestSequencer(30 * time.Millisecond)

	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	s.MarkIdleAutosuspend()

	// Resume before the timer fires keeps the sensor powered.
	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(80 * time.Millisecond)
	if v, _ := line.last(); v != 1 {
		t.Error("sensor suspended despite active reference")
	}
	if line.count() != 1 {
		t.Errorf("line transitions = %d, want 1 (no reset bounce)", line.count())
	}
}

func TestBorrowActive(t *testing.T) {
	s, _ := newTestSequencer(20 * time.Millisecond)

	if s.BorrowActive() {
		t.Fatal("borrow succeeded while unpowered")
	}

	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	if !s.BorrowActive() {
		t.Fatal("borrow failed while powered")
	}

	// Two references held now; both must drop before autosuspend.
	s.MarkIdleAutosuspend()
	s.MarkIdleAutosuspend()
	time.Sleep(60 * time.Millisecond)
	if s.BorrowActive() {
		t.Error("borrow succeeded after autosuspend")
	}
}

func TestForceSuspendImmediate(t *testing.T) {
	s, line := newTestSequencer(time.Hour)

	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	s.ForceSuspend()

	if v, _ := line.last(); v != 0 {
		t.Error("line not asserted after ForceSuspend")
	}
	if s.BorrowActive() {
		t.Error("borrow succeeded after ForceSuspend")
	}

	// Power-up must work again afterwards.
	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	if v, _ := line.last(); v != 1 {
		t.Error("resume after ForceSuspend did not power up")
	}
}

func TestCloseReleasesLine(t *testing.T) {
	line := &fakeLine{}
	s := newWithLine(line, time.Hour, slog.Default())

	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if v, _ := line.last(); v != 0 {
		t.Error("sensor not held in reset after Close")
	}
	if !line.closed {
		t.Error("line not closed")
	}
}

func TestNoopSequencerWithoutChip(t *testing.T) {
	s, err := New("", 0, time.Millisecond, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if !s.BorrowActive() {
		t.Error("borrow failed on noop sequencer while powered")
	}
}
