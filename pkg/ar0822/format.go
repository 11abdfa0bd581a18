package ar0822

import "fmt"

// Whence selects which format state an operation reads or writes. Try state
// is per caller and never touches the hardware; Active state is the single
// device configuration the next streaming start will program.
type Whence int

const (
	Try Whence = iota
	Active
)

// FrameFormat is a negotiated output format: the output size and the
// media-bus code carrying bit depth and Bayer order.
type FrameFormat struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Code   uint32 `json:"code"`
}

// FrameSize is one discrete output size.
type FrameSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PadState holds one caller's try format. Each API client or file handle
// gets its own; the zero value is not useful, use NewPadState.
type PadState struct {
	format FrameFormat
	crop   Rect
}

// NewPadState returns a pad state initialized to the sensor defaults, the
// same format the active state starts with.
func (s *Sensor) NewPadState() *PadState {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := &s.clockCfg.Modes[0]
	return &PadState{
		format: FrameFormat{
			Width:  m.Width,
			Height: m.Height,
			Code:   s.formatCodeLocked(BitDepth10),
		},
		crop: m.Crop,
	}
}

// formatCodeLocked returns the media-bus code for the given depth at the
// current flip settings. Callers hold s.mu.
func (s *Sensor) formatCodeLocked(depth BitDepth) uint32 {
	idx := s.ctrls[ControlVFlip].Value<<1 | s.ctrls[ControlHFlip].Value
	return formatCodes[depth][idx]
}

// EnumMediaBusCodes lists the producible media-bus codes, one per bit depth,
// with the Bayer order reflecting the current flip settings.
func (s *Sensor) EnumMediaBusCodes() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return []uint32{
		s.formatCodeLocked(BitDepth10),
		s.formatCodeLocked(BitDepth12),
	}
}

// EnumFrameSizes lists the output sizes available for a media-bus code. The
// code must name the current Bayer order; codes for other flip combinations
// or foreign formats are rejected.
func (s *Sensor) EnumFrameSizes(code uint32) ([]FrameSize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	depth, ok := bitDepthForCode(code)
	if !ok || code != s.formatCodeLocked(depth) {
		return nil, fmt.Errorf("%w: code 0x%04X", ErrUnsupportedFormat, code)
	}

	sizes := make([]FrameSize, 0, len(s.clockCfg.Modes))
	for i := range s.clockCfg.Modes {
		m := &s.clockCfg.Modes[i]
		sizes = append(sizes, FrameSize{Width: m.Width, Height: m.Height})
	}
	return sizes, nil
}

// nearestMode picks the catalog mode closest to the requested size by
// squared distance over both axes.
func nearestMode(modes []Mode, width, height int) *Mode {
	best := &modes[0]
	bestDist := int64(-1)
	for i := range modes {
		m := &modes[i]
		dw := int64(m.Width - width)
		dh := int64(m.Height - height)
		dist := dw*dw + dh*dh
		if bestDist < 0 || dist < bestDist {
			best = m
			bestDist = dist
		}
	}
	return best
}

// SetFormat negotiates a format. The requested size snaps to the nearest
// catalog mode and the code snaps to a producible one: the bit depth is
// taken from the request when recognized (falling back to the active depth
// for foreign codes), the Bayer order always comes from the flip controls.
// Try negotiation only updates state; Active negotiation reconfigures the
// sensor and resets the framing limits. Changing the active format while
// streaming is rejected.
func (s *Sensor) SetFormat(state *PadState, req FrameFormat, which Whence) (FrameFormat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	depth, ok := bitDepthForCode(req.Code)
	if !ok {
		depth = s.mode.bitDepth
	}
	code := s.formatCodeLocked(depth)
	m := nearestMode(s.clockCfg.Modes, req.Width, req.Height)

	applied := FrameFormat{Width: m.Width, Height: m.Height, Code: code}

	switch which {
	case Try:
		state.format = applied
		state.crop = m.Crop
	case Active:
		if s.state != streamStopped {
			return FrameFormat{}, fmt.Errorf("set format: %w", ErrStreaming)
		}
		if m != s.mode.mode || depth != s.mode.bitDepth || code != s.mode.code {
			s.mode = activeMode{mode: m, bitDepth: depth, code: code}
			s.setFramingLimitsLocked()
			s.log.Debug("active format changed",
				"width", m.Width, "height", m.Height, "code", fmt.Sprintf("0x%04X", code))
		}
	}

	return applied, nil
}

// GetFormat returns the current format for the given state. The code is
// recomputed against the current flip settings, so a format fetched after an
// orientation change reports the rotated Bayer order.
func (s *Sensor) GetFormat(state *PadState, which Whence) FrameFormat {
	s.mu.Lock()
	defer s.mu.Unlock()

	if which == Active {
		return FrameFormat{
			Width:  s.mode.mode.Width,
			Height: s.mode.mode.Height,
			Code:   s.formatCodeLocked(s.mode.bitDepth),
		}
	}

	f := state.format
	depth, ok := bitDepthForCode(f.Code)
	if !ok {
		depth = s.mode.bitDepth
	}
	f.Code = s.formatCodeLocked(depth)
	return f
}

// SelectionTarget names a geometry query.
type SelectionTarget int

const (
	// SelectionCrop is the analog crop rectangle of the current format.
	SelectionCrop SelectionTarget = iota
	// SelectionNativeSize is the full native pixel array.
	SelectionNativeSize
	// SelectionCropDefault is the recommended default crop.
	SelectionCropDefault
	// SelectionCropBounds is the outer bound for crop rectangles.
	SelectionCropBounds
)

// Selection answers geometry queries against the try or active state.
func (s *Sensor) Selection(state *PadState, target SelectionTarget, which Whence) (Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch target {
	case SelectionCrop:
		if which == Active {
			return s.mode.mode.Crop, nil
		}
		return state.crop, nil
	case SelectionNativeSize:
		return Rect{Left: 0, Top: 0, Width: NativeWidth, Height: NativeHeight}, nil
	case SelectionCropDefault, SelectionCropBounds:
		return Rect{Left: 0, Top: 0, Width: pixelArrayWidth, Height: pixelArrayHeight}, nil
	}
	return Rect{}, fmt.Errorf("unknown selection target %d", target)
}
