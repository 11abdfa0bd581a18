package ar0822

import (
	"errors"
	"testing"
)

func TestResolveClockConfig(t *testing.T) {
	tests := []struct {
		name     string
		extClkHz uint64
		lanes    int
		freqs    []int64
		wantErr  error
		wantLane LaneMode
	}{
		{
			name:     "24MHz 480Mbps 2 lanes",
			extClkHz: 24000000,
			lanes:    2,
			freqs:    []int64{480000000},
			wantLane: LaneMode2,
		},
		{
			name:     "24MHz 480Mbps 4 lanes",
			extClkHz: 24000000,
			lanes:    4,
			freqs:    []int64{480000000},
			wantLane: LaneMode4,
		},
		{
			name:     "24MHz 960Mbps 4 lanes",
			extClkHz: 24000000,
			lanes:    4,
			freqs:    []int64{960000000},
			wantLane: LaneMode4,
		},
		{
			name:     "only first link frequency considered",
			extClkHz: 24000000,
			lanes:    4,
			freqs:    []int64{480000000, 960000000},
			wantLane: LaneMode4,
		},
		{
			name:     "unsupported lane count",
			extClkHz: 24000000,
			lanes:    3,
			freqs:    []int64{480000000},
			wantErr:  ErrInvalidLaneCount,
		},
		{
			name:     "no link frequencies",
			extClkHz: 24000000,
			lanes:    4,
			freqs:    nil,
			wantErr:  ErrNoLinkFrequencies,
		},
		{
			name:     "unknown external clock",
			extClkHz: 25000000,
			lanes:    4,
			freqs:    []int64{480000000},
			wantErr:  ErrNoMatchingConfig,
		},
		{
			name:     "unknown link frequency",
			extClkHz: 24000000,
			lanes:    4,
			freqs:    []int64{500000000},
			wantErr:  ErrNoMatchingConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, lane, err := ResolveClockConfig(tt.extClkHz, tt.lanes, tt.freqs)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.ExtClkHz != tt.extClkHz {
				t.Errorf("ExtClkHz = %d, want %d", cfg.ExtClkHz, tt.extClkHz)
			}
			if cfg.LinkFreqHz != tt.freqs[0] {
				t.Errorf("LinkFreqHz = %d, want %d", cfg.LinkFreqHz, tt.freqs[0])
			}
			if lane != tt.wantLane {
				t.Errorf("lane mode = %v, want %v", lane, tt.wantLane)
			}
			if len(cfg.Modes) == 0 {
				t.Error("config carries no modes")
			}
		})
	}
}

func TestTimingCatalogComplete(t *testing.T) {
	for i := range clockConfigs {
		cfg := &clockConfigs[i]
		for m := range cfg.Modes {
			mode := &cfg.Modes[m]
			for lane := LaneMode(0); lane < laneModeCount; lane++ {
				for depth := BitDepth(0); depth < bitDepthCount; depth++ {
					tm := mode.Timing[lane][depth]
					if tm.LineLengthPCKMin == 0 || tm.FrameLengthLinesMin == 0 {
						t.Errorf("config %d mode %dx%d: missing timing for %d lanes %s",
							i, mode.Width, mode.Height, lane.Lanes(), depth)
					}
					if tm.FrameLengthLinesMin <= int64(mode.Height) {
						t.Errorf("config %d mode %dx%d: frame length floor %d not above height",
							i, mode.Width, mode.Height, tm.FrameLengthLinesMin)
					}
				}
			}
		}
		for depth := BitDepth(0); depth < bitDepthCount; depth++ {
			if len(cfg.MIPITiming[depth]) == 0 {
				t.Errorf("config %d: missing MIPI timing for %s", i, depth)
			}
		}
		if len(cfg.PLLRegs) == 0 {
			t.Errorf("config %d: missing PLL registers", i)
		}
	}
}
