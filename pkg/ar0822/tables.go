package ar0822

import "github.com/Kurokesu/ar0822-v4l2-driver/pkg/cci"

// BitDepth selects the raw Bayer sample width.
type BitDepth int

const (
	BitDepth10 BitDepth = iota
	BitDepth12
	bitDepthCount
)

func (d BitDepth) String() string {
	switch d {
	case BitDepth10:
		return "10-bit"
	case BitDepth12:
		return "12-bit"
	}
	return "unknown"
}

// Bits returns the sample width in bits.
func (d BitDepth) Bits() int {
	if d == BitDepth10 {
		return 10
	}
	return 12
}

// LaneMode is the number of MIPI CSI-2 data lanes in use.
type LaneMode int

const (
	LaneMode2 LaneMode = iota
	LaneMode4
	laneModeCount
)

// Lanes returns the physical lane count.
func (l LaneMode) Lanes() int {
	if l == LaneMode4 {
		return 4
	}
	return 2
}

// Timing holds the framing floor for one (lane mode, bit depth) combination.
// Both values are minimums fixed by the MIPI bandwidth budget: frame and line
// length may be stretched for lower frame rates but never shrunk below them.
type Timing struct {
	LineLengthPCKMin    int64
	FrameLengthLinesMin int64
}

// Rect is a pixel rectangle on the sensor array.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Mode is one entry of a clock configuration's readout catalog.
type Mode struct {
	Width  int
	Height int
	Crop   Rect
	// Regs programs the readout window, decimation and output size.
	Regs []cci.RegVal
	// Timing is indexed by [LaneMode][BitDepth].
	Timing [laneModeCount][bitDepthCount]Timing
}

// ClockConfig ties an external clock and link frequency to the register
// programming that produces them, plus the readout modes achievable at that
// lane rate. Exactly one ClockConfig is selected at attach time.
type ClockConfig struct {
	ExtClkHz   uint64
	LinkFreqHz int64
	PixelRate  uint64
	// PLLRegs programs the clock tree from EXTCLK to the pixel clock.
	PLLRegs []cci.RegVal
	// MIPITiming carries the serializer data format and D-PHY timing words
	// per bit depth, indexed by BitDepth.
	MIPITiming [bitDepthCount][]cci.RegVal
	Modes      []Mode
}

// Native pixel array geometry.
const (
	NativeWidth  = 3840
	NativeHeight = 2160

	pixelArrayWidth  = 3840
	pixelArrayHeight = 2160
)

const pixelRate = 160000000

// fll4KMin is the minimum frame length for the 4K readout.
const fll4KMin = 2184

// mode4KRegs programs the full-array 4K readout window.
var mode4KRegs = []cci.RegVal{
	{Reg: RegXAddrStart, Val: 8},
	{Reg: RegXAddrEnd, Val: 3847},
	{Reg: RegYAddrStart, Val: 8},
	{Reg: RegYAddrEnd, Val: 2167},
	{Reg: RegXOddInc, Val: 0x0001},
	{Reg: RegYOddInc, Val: 0x0001},
	{Reg: RegXOutputControl, Val: 3840},
	{Reg: RegYOutputControl, Val: 2160},
}

// initRegs is the common initialization applied on every streaming start,
// independent of clock configuration and mode.
var initRegs = []cci.RegVal{
	{Reg: RegMIPIF1PDT, Val: 0x122C},
	{Reg: RegT1PixDefID2, Val: 0x37C3},
	{Reg: RegOperationModeCtrl, Val: 0x0001},
	{Reg: RegDigitalCtrl, Val: 0x0024},
}

var pllRegs24_480 = []cci.RegVal{
	{Reg: RegPLLMultiplier, Val: 0x0050},
	{Reg: RegPrePLLClkDiv, Val: 0x0001},
	{Reg: RegVTSysClkDiv, Val: 0x0002},
	{Reg: RegVTPixClkDiv, Val: 0x0006},
	{Reg: RegOpSysClkDiv, Val: 0x0004},
	{Reg: RegOpWordClkDiv, Val: 0x0006},
}

var pllRegs24_960 = []cci.RegVal{
	{Reg: RegPLLMultiplier, Val: 0x0050},
	{Reg: RegPrePLLClkDiv, Val: 0x0001},
	{Reg: RegVTSysClkDiv, Val: 0x0002},
	{Reg: RegVTPixClkDiv, Val: 0x0006},
	{Reg: RegOpSysClkDiv, Val: 0x0002},
	{Reg: RegOpWordClkDiv, Val: 0x0006},
}

// The D-PHY timing words depend on the lane rate, not the sample width, so
// the per-depth sequences of one clock configuration differ only in the
// serializer data format.
var mipiTiming24_480 = [bitDepthCount][]cci.RegVal{
	BitDepth10: {
		{Reg: RegDataFormatBits, Val: dataFormatRaw10},
		{Reg: RegFramePreamble, Val: 0x006C},
		{Reg: RegLinePreamble, Val: 0x004A},
		{Reg: RegMIPITiming0, Val: 0x51C8},
		{Reg: RegMIPITiming1, Val: 0x5248},
		{Reg: RegMIPITiming2, Val: 0x70CA},
		{Reg: RegMIPITiming3, Val: 0x028A},
		{Reg: RegMIPITiming4, Val: 0x0C08},
	},
	BitDepth12: {
		{Reg: RegDataFormatBits, Val: dataFormatRaw12},
		{Reg: RegFramePreamble, Val: 0x006C},
		{Reg: RegLinePreamble, Val: 0x004A},
		{Reg: RegMIPITiming0, Val: 0x51C8},
		{Reg: RegMIPITiming1, Val: 0x5248},
		{Reg: RegMIPITiming2, Val: 0x70CA},
		{Reg: RegMIPITiming3, Val: 0x028A},
		{Reg: RegMIPITiming4, Val: 0x0C08},
	},
}

// At 960 Mbps the receiver needs periodic deskew bursts, hence the two extra
// pattern-width registers.
var mipiTiming24_960 = [bitDepthCount][]cci.RegVal{
	BitDepth10: {
		{Reg: RegDataFormatBits, Val: dataFormatRaw10},
		{Reg: RegFramePreamble, Val: 0x00B8},
		{Reg: RegLinePreamble, Val: 0x0079},
		{Reg: RegMIPITiming0, Val: 0x830E},
		{Reg: RegMIPITiming1, Val: 0x8451},
		{Reg: RegMIPITiming2, Val: 0xD0CE},
		{Reg: RegMIPITiming3, Val: 0x0494},
		{Reg: RegMIPITiming4, Val: 0x1810},
		{Reg: RegMIPIDeskewPatWidth, Val: 0x0ABF},
		{Reg: RegMIPIPerDeskewPatWidth, Val: 0x006E},
	},
	BitDepth12: {
		{Reg: RegDataFormatBits, Val: dataFormatRaw12},
		{Reg: RegFramePreamble, Val: 0x00B8},
		{Reg: RegLinePreamble, Val: 0x0079},
		{Reg: RegMIPITiming0, Val: 0x830E},
		{Reg: RegMIPITiming1, Val: 0x8451},
		{Reg: RegMIPITiming2, Val: 0xD0CE},
		{Reg: RegMIPITiming3, Val: 0x0494},
		{Reg: RegMIPITiming4, Val: 0x1810},
		{Reg: RegMIPIDeskewPatWidth, Val: 0x0ABF},
		{Reg: RegMIPIPerDeskewPatWidth, Val: 0x006E},
	},
}

// clockConfigs is the full catalog; lookups are linear scans, the catalog is
// two entries.
var clockConfigs = []ClockConfig{
	{
		ExtClkHz:   24000000,
		LinkFreqHz: 480000000,
		PixelRate:  pixelRate,
		PLLRegs:    pllRegs24_480,
		MIPITiming: mipiTiming24_480,
		Modes: []Mode{
			{
				Width:  3840,
				Height: 2160,
				Crop:   Rect{Left: 0, Top: 0, Width: 3840, Height: 2160},
				Regs:   mode4KRegs,
				Timing: [laneModeCount][bitDepthCount]Timing{
					LaneMode2: {
						BitDepth10: {LineLengthPCKMin: 3412, FrameLengthLinesMin: fll4KMin},
						BitDepth12: {LineLengthPCKMin: 4062, FrameLengthLinesMin: fll4KMin},
					},
					LaneMode4: {
						BitDepth10: {LineLengthPCKMin: 1812, FrameLengthLinesMin: fll4KMin},
						BitDepth12: {LineLengthPCKMin: 2140, FrameLengthLinesMin: fll4KMin},
					},
				},
			},
		},
	},
	{
		ExtClkHz:   24000000,
		LinkFreqHz: 960000000,
		PixelRate:  pixelRate,
		PLLRegs:    pllRegs24_960,
		MIPITiming: mipiTiming24_960,
		Modes: []Mode{
			{
				Width:  3840,
				Height: 2160,
				Crop:   Rect{Left: 0, Top: 0, Width: 3840, Height: 2160},
				Regs:   mode4KRegs,
				Timing: [laneModeCount][bitDepthCount]Timing{
					LaneMode2: {
						BitDepth10: {LineLengthPCKMin: 1782, FrameLengthLinesMin: fll4KMin},
						BitDepth12: {LineLengthPCKMin: 2106, FrameLengthLinesMin: fll4KMin},
					},
					LaneMode4: {
						BitDepth10: {LineLengthPCKMin: 982, FrameLengthLinesMin: fll4KMin},
						BitDepth12: {LineLengthPCKMin: 1146, FrameLengthLinesMin: fll4KMin},
					},
				},
			},
		},
	},
}

// Media-bus format codes, from the kernel media-bus-format.h.
const (
	MediaBusFmtSBGGR10 = 0x3007
	MediaBusFmtSGBRG10 = 0x300E
	MediaBusFmtSGRBG10 = 0x300A
	MediaBusFmtSRGGB10 = 0x300F
	MediaBusFmtSBGGR12 = 0x3008
	MediaBusFmtSGBRG12 = 0x3010
	MediaBusFmtSGRBG12 = 0x3011
	MediaBusFmtSRGGB12 = 0x3012
)

// formatCodes enumerates the Bayer rotation per flip combination, indexed by
// vflip<<1 | hflip. Flipping the readout shifts the colour filter phase, so
// the reported code must track the orientation controls.
var formatCodes = [bitDepthCount][4]uint32{
	BitDepth10: {
		MediaBusFmtSGRBG10, // no flip
		MediaBusFmtSRGGB10, // horizontal flip
		MediaBusFmtSBGGR10, // vertical flip
		MediaBusFmtSGBRG10, // both
	},
	BitDepth12: {
		MediaBusFmtSGRBG12,
		MediaBusFmtSRGGB12,
		MediaBusFmtSBGGR12,
		MediaBusFmtSGBRG12,
	},
}

// CodeName returns the kernel name of a media-bus code, or "unknown" for
// codes the sensor does not produce.
func CodeName(code uint32) string {
	switch code {
	case MediaBusFmtSBGGR10:
		return "SBGGR10_1X10"
	case MediaBusFmtSGBRG10:
		return "SGBRG10_1X10"
	case MediaBusFmtSGRBG10:
		return "SGRBG10_1X10"
	case MediaBusFmtSRGGB10:
		return "SRGGB10_1X10"
	case MediaBusFmtSBGGR12:
		return "SBGGR12_1X12"
	case MediaBusFmtSGBRG12:
		return "SGBRG12_1X12"
	case MediaBusFmtSGRBG12:
		return "SGRBG12_1X12"
	case MediaBusFmtSRGGB12:
		return "SRGGB12_1X12"
	}
	return "unknown"
}

// bitDepthForCode maps a media-bus code to its sample width. ok is false for
// codes the sensor does not produce.
func bitDepthForCode(code uint32) (BitDepth, bool) {
	switch code {
	case MediaBusFmtSGRBG10, MediaBusFmtSRGGB10, MediaBusFmtSBGGR10, MediaBusFmtSGBRG10:
		return BitDepth10, true
	case MediaBusFmtSGRBG12, MediaBusFmtSRGGB12, MediaBusFmtSBGGR12, MediaBusFmtSGBRG12:
		return BitDepth12, true
	}
	return 0, false
}

// Test pattern generator modes.
const (
	TestPatternDisabled = iota
	TestPatternSolidColor
	TestPatternVerticalColorBars
	TestPatternFadeToGrey
	TestPatternPN9
	TestPatternWalking1s
)

// TestPatternNames is the selectable test pattern menu, indexed by the
// TestPattern control value.
var TestPatternNames = []string{
	"Disabled",
	"Solid Color",
	"Vertical Color Bars",
	"Fade to Grey Vertical Color Bars",
	"PN9",
	"Walking 1s",
}

// testPatternRegVals maps the menu index to the register value; "Walking 1s"
// lives in a separate mode bank, hence the jump.
var testPatternRegVals = []uint64{0, 1, 2, 3, 4, 256}
