package ar0822

import (
	"errors"
	"testing"
)

func TestSetFormatSnapsToNearestMode(t *testing.T) {
	s, _, _ := newTestSensor(t)
	state := s.NewPadState()

	tests := []struct {
		name string
		req  FrameFormat
		want FrameFormat
	}{
		{
			name: "exact",
			req:  FrameFormat{Width: 3840, Height: 2160, Code: MediaBusFmtSGRBG10},
			want: FrameFormat{Width: 3840, Height: 2160, Code: MediaBusFmtSGRBG10},
		},
		{
			name: "1080p snaps up to 4K",
			req:  FrameFormat{Width: 1920, Height: 1080, Code: MediaBusFmtSGRBG10},
			want: FrameFormat{Width: 3840, Height: 2160, Code: MediaBusFmtSGRBG10},
		},
		{
			name: "oversized snaps down to 4K",
			req:  FrameFormat{Width: 8192, Height: 8192, Code: MediaBusFmtSGRBG12},
			want: FrameFormat{Width: 3840, Height: 2160, Code: MediaBusFmtSGRBG12},
		},
		{
			name: "flipped code normalized to current orientation",
			req:  FrameFormat{Width: 3840, Height: 2160, Code: MediaBusFmtSBGGR12},
			want: FrameFormat{Width: 3840, Height: 2160, Code: MediaBusFmtSGRBG12},
		},
		{
			name: "foreign code falls back to active bit depth",
			req:  FrameFormat{Width: 3840, Height: 2160, Code: 0x1234},
			want: FrameFormat{Width: 3840, Height: 2160, Code: MediaBusFmtSGRBG10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SetFormat(state, tt.req, Try)
			if err != nil {
				t.Fatalf("SetFormat: %v", err)
			}
			if got != tt.want {
				t.Errorf("SetFormat = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTryFormatDoesNotTouchActive(t *testing.T) {
	s, _, _ := newTestSensor(t)
	state := s.NewPadState()

	_, err := s.SetFormat(state, FrameFormat{Width: 3840, Height: 2160, Code: MediaBusFmtSGRBG12}, Try)
	if err != nil {
		t.Fatalf("SetFormat(Try): %v", err)
	}

	if got := s.GetFormat(state, Try).Code; got != MediaBusFmtSGRBG12 {
		t.Errorf("try code = 0x%04X, want 12-bit", got)
	}
	if got := s.GetFormat(nil, Active).Code; got != MediaBusFmtSGRBG10 {
		t.Errorf("active code = 0x%04X, want untouched 10-bit", got)
	}
}

func TestActiveFormatResetsFramingLimits(t *testing.T) {
	s, _, _ := newTestSensor(t)

	// Stretch vblank away from its minimum first.
	if err := s.SetControl(ControlVBlank, 1000); err != nil {
		t.Fatalf("SetControl(vblank): %v", err)
	}

	_, err := s.SetFormat(nil, FrameFormat{Width: 3840, Height: 2160, Code: MediaBusFmtSGRBG12}, Active)
	if err != nil {
		t.Fatalf("SetFormat(Active): %v", err)
	}

	vb, _ := s.Control(ControlVBlank)
	if vb.Value != vb.Min {
		t.Errorf("vblank = %d after mode change, want reset to min %d", vb.Value, vb.Min)
	}
	if want := int64(fll4KMin - 2160); vb.Min != want {
		t.Errorf("vblank min = %d, want %d", vb.Min, want)
	}

	// 4 lanes, 12-bit: line length floor 2140.
	hb, _ := s.Control(ControlHBlank)
	if want := int64(2140 - 3840); hb.Value != want {
		t.Errorf("hblank = %d, want %d", hb.Value, want)
	}

	exp, _ := s.Control(ControlExposure)
	if want := int64(fll4KMin - exposureMin); exp.Max != want {
		t.Errorf("exposure max = %d, want %d", exp.Max, want)
	}
}

func TestFormatCodeTracksFlips(t *testing.T) {
	tests := []struct {
		name     string
		hflip    int64
		vflip    int64
		wantCode uint32
	}{
		{"no flip", 0, 0, MediaBusFmtSGRBG10},
		{"hflip", 1, 0, MediaBusFmtSRGGB10},
		{"vflip", 0, 1, MediaBusFmtSBGGR10},
		{"both", 1, 1, MediaBusFmtSGBRG10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestSensor(t)
			if err := s.SetControl(ControlHFlip, tt.hflip); err != nil {
				t.Fatalf("SetControl(hflip): %v", err)
			}
			if err := s.SetControl(ControlVFlip, tt.vflip); err != nil {
				t.Fatalf("SetControl(vflip): %v", err)
			}
			if got := s.GetFormat(nil, Active).Code; got != tt.wantCode {
				t.Errorf("active code = 0x%04X, want 0x%04X", got, tt.wantCode)
			}
			codes := s.EnumMediaBusCodes()
			if codes[0] != tt.wantCode {
				t.Errorf("enumerated 10-bit code = 0x%04X, want 0x%04X", codes[0], tt.wantCode)
			}
		})
	}
}

func TestEnumFrameSizes(t *testing.T) {
	s, _, _ := newTestSensor(t)

	sizes, err := s.EnumFrameSizes(MediaBusFmtSGRBG10)
	if err != nil {
		t.Fatalf("EnumFrameSizes: %v", err)
	}
	if len(sizes) != 1 || sizes[0] != (FrameSize{Width: 3840, Height: 2160}) {
		t.Errorf("sizes = %+v, want single 4K entry", sizes)
	}

	// BGGR10 is only produced with vflip set; with flips at zero it is not
	// enumerable.
	if _, err := s.EnumFrameSizes(MediaBusFmtSBGGR10); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("flipped code error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := s.EnumFrameSizes(0x1234); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("foreign code error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSelection(t *testing.T) {
	s, _, _ := newTestSensor(t)
	state := s.NewPadState()

	full := Rect{Left: 0, Top: 0, Width: 3840, Height: 2160}

	for _, tt := range []struct {
		name   string
		target SelectionTarget
		want   Rect
	}{
		{"crop", SelectionCrop, full},
		{"native size", SelectionNativeSize, full},
		{"crop default", SelectionCropDefault, full},
		{"crop bounds", SelectionCropBounds, full},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Selection(state, tt.target, Active)
			if err != nil {
				t.Fatalf("Selection: %v", err)
			}
			if got != tt.want {
				t.Errorf("Selection = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := s.Selection(state, SelectionTarget(99), Active); err == nil {
		t.Error("unknown selection target accepted")
	}
}

func TestSetFormatRejectedWhileStreaming(t *testing.T) {
	s, _, _ := newTestSensor(t)
	if err := s.SetStreaming(true); err != nil {
		t.Fatalf("SetStreaming: %v", err)
	}
	_, err := s.SetFormat(nil, FrameFormat{Width: 3840, Height: 2160, Code: MediaBusFmtSGRBG12}, Active)
	if !errors.Is(err, ErrStreaming) {
		t.Errorf("SetFormat while streaming = %v, want ErrStreaming", err)
	}
}
