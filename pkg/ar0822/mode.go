package ar0822

import "fmt"

// ResolveClockConfig selects the clock configuration matching the attached
// hardware: the external clock frequency, the CSI-2 lane count, and the first
// link frequency the receiver requests. Matching is by exact equality; clock
// sources are assumed exact, so there is no tolerance window.
//
// This runs once at attach time, before any register I/O other than identity
// verification.
func ResolveClockConfig(extClkHz uint64, numLanes int, linkFrequencies []int64) (*ClockConfig, LaneMode, error) {
	var laneMode LaneMode
	switch numLanes {
	case 2:
		laneMode = LaneMode2
	case 4:
		laneMode = LaneMode4
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidLaneCount, numLanes)
	}

	if len(linkFrequencies) == 0 {
		return nil, 0, ErrNoLinkFrequencies
	}

	for i := range clockConfigs {
		cfg := &clockConfigs[i]
		if cfg.ExtClkHz == extClkHz && cfg.LinkFreqHz == linkFrequencies[0] {
			return cfg, laneMode, nil
		}
	}

	return nil, 0, fmt.Errorf("%w: EXTCLK %d Hz, link frequency %d bps",
		ErrNoMatchingConfig, extClkHz, linkFrequencies[0])
}
