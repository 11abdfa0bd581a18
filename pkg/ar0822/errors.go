package ar0822

import "errors"

// Configuration errors are fatal at attach time.
var (
	// ErrNoMatchingConfig means no clock configuration in the catalog
	// matches the external clock and requested link frequency exactly.
	ErrNoMatchingConfig = errors.New("ar0822: no clock configuration for this external clock and link frequency")

	// ErrInvalidLaneCount means the CSI-2 endpoint declares a lane count
	// the sensor cannot drive (only 2 and 4 are supported).
	ErrInvalidLaneCount = errors.New("ar0822: invalid number of CSI-2 data lanes")

	// ErrNoLinkFrequencies means the hardware description carries no link
	// frequency list at all.
	ErrNoLinkFrequencies = errors.New("ar0822: no link frequencies defined")

	// ErrWrongChipID means the chip version register did not read back the
	// AR0822 model id.
	ErrWrongChipID = errors.New("ar0822: chip version mismatch")
)

// Caller errors; they never change device state.
var (
	// ErrUnsupportedControl is returned for control ids the sensor does not
	// expose.
	ErrUnsupportedControl = errors.New("ar0822: unsupported control")

	// ErrReadOnlyControl is returned when writing a read-only control.
	ErrReadOnlyControl = errors.New("ar0822: control is read-only")

	// ErrControlGrabbed is returned when writing a control that is locked
	// while streaming (the flips, which select the output Bayer order).
	ErrControlGrabbed = errors.New("ar0822: control is locked while streaming")

	// ErrUnsupportedFormat is returned for selection or enumeration queries
	// against media-bus codes the sensor does not produce.
	ErrUnsupportedFormat = errors.New("ar0822: unsupported media-bus format")

	// ErrStreaming is returned for operations that need the stream stopped,
	// such as changing the active format.
	ErrStreaming = errors.New("ar0822: not allowed while streaming")
)
