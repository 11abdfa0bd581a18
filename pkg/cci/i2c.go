package cci

import (
	"fmt"

	"github.com/swdee/go-i2c"
)

// I2CBus implements Bus on a Linux I2C character device. Register addresses
// and values are framed big-endian, address first, the way the AR08xx family
// (and most CCI devices) expect.
type I2CBus struct {
	dev *i2c.Options
}

// NewI2C opens the I2C device (e.g. "/dev/i2c-1") at the given 7-bit address.
func NewI2C(addr uint8, device string) (*I2CBus, error) {
	dev, err := i2c.New(addr, device)
	if err != nil {
		return nil, fmt.Errorf("open %s @0x%02X: %w", device, addr, err)
	}
	return &I2CBus{dev: dev}, nil
}

// Read reads a single register.
func (b *I2CBus) Read(reg Reg) (uint64, error) {
	addr := []byte{byte(reg.Addr() >> 8), byte(reg.Addr())}
	if _, err := b.dev.WriteBytes(addr); err != nil {
		return 0, fmt.Errorf("read %s: %w", reg, err)
	}

	buf := make([]byte, reg.Width())
	n, err := b.dev.ReadBytes(buf)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", reg, err)
	}
	if n < reg.Width() {
		return 0, fmt.Errorf("read %s: short read (%d of %d bytes)", reg, n, reg.Width())
	}

	var val uint64
	for _, by := range buf {
		val = val<<8 | uint64(by)
	}
	return val, nil
}

// Write writes a single register.
func (b *I2CBus) Write(reg Reg, val uint64) error {
	buf := make([]byte, 0, 2+reg.Width())
	buf = append(buf, byte(reg.Addr()>>8), byte(reg.Addr()))
	for i := reg.Width() - 1; i >= 0; i-- {
		buf = append(buf, byte(val>>(8*i)))
	}

	if _, err := b.dev.WriteBytes(buf); err != nil {
		return fmt.Errorf("write %s: %w", reg, err)
	}
	return nil
}

// WriteSequence writes the entries of seq in order.
func (b *I2CBus) WriteSequence(seq []RegVal) error {
	for _, rv := range seq {
		if err := b.Write(rv.Reg, rv.Val); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the I2C device.
func (b *I2CBus) Close() error {
	return b.dev.Close()
}
