package ar0822

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/Kurokesu/ar0822-v4l2-driver/pkg/cci"
)

// busOp records one transport operation for order assertions.
type busOp struct {
	read bool
	reg  cci.Reg
	val  uint64
}

// fakeBus is an in-memory register file.
type fakeBus struct {
	regs   map[cci.Reg]uint64
	ops    []busOp
	failOn map[cci.Reg]error
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		regs:   map[cci.Reg]uint64{RegChipVersion: ChipVersion},
		failOn: map[cci.Reg]error{},
	}
}

func (b *fakeBus) Read(reg cci.Reg) (uint64, error) {
	if err := b.failOn[reg]; err != nil {
		return 0, err
	}
	b.ops = append(b.ops, busOp{read: true, reg: reg, val: b.regs[reg]})
	return b.regs[reg], nil
}

func (b *fakeBus) Write(reg cci.Reg, val uint64) error {
	if err := b.failOn[reg]; err != nil {
		return err
	}
	b.regs[reg] = val
	b.ops = append(b.ops, busOp{reg: reg, val: val})
	return nil
}

func (b *fakeBus) WriteSequence(seq []cci.RegVal) error {
	for _, rv := range seq {
		if err := b.Write(rv.Reg, rv.Val); err != nil {
			return err
		}
	}
	return nil
}

func (b *fakeBus) Close() error { return nil }

// writesTo returns every value written to reg, in order.
func (b *fakeBus) writesTo(reg cci.Reg) []uint64 {
	var out []uint64
	for _, op := range b.ops {
		if !op.read && op.reg == reg {
			out = append(out, op.val)
		}
	}
	return out
}

func (b *fakeBus) lastWrite(reg cci.Reg) (uint64, bool) {
	w := b.writesTo(reg)
	if len(w) == 0 {
		return 0, false
	}
	return w[len(w)-1], true
}

// fakePower tracks reference operations. powered stays true after
// MarkIdleAutosuspend, mimicking a pending autosuspend timer.
type fakePower struct {
	powered   bool
	resumes   int
	idles     int
	forced    int
	resumeErr error
}

func (p *fakePower) Resume() error {
	if p.resumeErr != nil {
		return p.resumeErr
	}
	p.powered = true
	p.resumes++
	return nil
}

func (p *fakePower) MarkIdleAutosuspend() { p.idles++ }

func (p *fakePower) BorrowActive() bool { return p.powered }

func (p *fakePower) ForceSuspend() {
	p.powered = false
	p.forced++
}

func newTestSensor(t *testing.T) (*Sensor, *fakeBus, *fakePower) {
	t.Helper()
	bus := newFakeBus()
	power := &fakePower{}
	s, err := New(bus, power, Config{
		ExtClkHz:        24000000,
		NumDataLanes:    4,
		LinkFrequencies: []int64{480000000},
	}, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, bus, power
}

func TestProbe(t *testing.T) {
	t.Run("matching chip version", func(t *testing.T) {
		s, _, power := newTestSensor(t)
		if err := s.Probe(); err != nil {
			t.Fatalf("Probe: %v", err)
		}
		if power.resumes != 1 || power.idles != 1 {
			t.Errorf("power not balanced: %d resumes, %d idles", power.resumes, power.idles)
		}
	})

	t.Run("wrong chip version", func(t *testing.T) {
		s, bus, power := newTestSensor(t)
		bus.regs[RegChipVersion] = 0x0F54
		err := s.Probe()
		if !errors.Is(err, ErrWrongChipID) {
			t.Fatalf("Probe error = %v, want ErrWrongChipID", err)
		}
		if power.idles != power.resumes {
			t.Errorf("power not released after failed probe")
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		s, bus, _ := newTestSensor(t)
		bus.failOn[RegChipVersion] = fmt.Errorf("i2c timeout")
		if err := s.Probe(); err == nil {
			t.Fatal("Probe succeeded with broken transport")
		}
	})

	t.Run("power failure", func(t *testing.T) {
		s, _, power := newTestSensor(t)
		power.resumeErr = fmt.Errorf("regulator fault")
		if err := s.Probe(); err == nil {
			t.Fatal("Probe succeeded without power")
		}
	})
}
