package ar0822

import "github.com/Kurokesu/ar0822-v4l2-driver/pkg/cci"

// AR0822 register map. Addresses follow the OnSemi datasheet naming.
var (
	// Identification and global control
	RegChipVersion      = cci.Reg16(0x3000)
	RegReset            = cci.Reg16(0x301A)
	RegModeSelect       = cci.Reg8(0x301C)
	RegImageOrientation = cci.Reg8(0x301D)

	// Frame timing
	RegFrameLengthLines      = cci.Reg16(0x300A)
	RegLineLengthPCK         = cci.Reg16(0x300C)
	RegCoarseIntegrationTime = cci.Reg16(0x3012)

	// Gain
	RegSensorGain = cci.Reg8(0x5900)

	// Test pattern generator
	RegTestPatternMode = cci.Reg16(0x3070)
	RegTestDataRed     = cci.Reg16(0x3072)
	RegTestDataGreenR  = cci.Reg16(0x3074)
	RegTestDataBlue    = cci.Reg16(0x3076)
	RegTestDataGreenB  = cci.Reg16(0x3078)

	// PLL divider block
	RegVTPixClkDiv   = cci.Reg16(0x302A)
	RegVTSysClkDiv   = cci.Reg16(0x302C)
	RegPrePLLClkDiv  = cci.Reg16(0x302E)
	RegPLLMultiplier = cci.Reg16(0x3030)
	RegOpWordClkDiv  = cci.Reg16(0x3036)
	RegOpSysClkDiv   = cci.Reg16(0x3038)

	// Readout window and scaling
	RegYAddrStart     = cci.Reg16(0x3002)
	RegXAddrStart     = cci.Reg16(0x3004)
	RegYAddrEnd       = cci.Reg16(0x3006)
	RegXAddrEnd       = cci.Reg16(0x3008)
	RegXOddInc        = cci.Reg16(0x30A2)
	RegYOddInc        = cci.Reg16(0x30A6)
	RegXOutputControl = cci.Reg16(0x3402)
	RegYOutputControl = cci.Reg16(0x3404)

	// Operating mode
	RegOperationModeCtrl = cci.Reg16(0x3082)
	RegDigitalCtrl       = cci.Reg16(0x30BA)
	RegSerialFormat      = cci.Reg16(0x31AE)
	RegDataFormatBits    = cci.Reg16(0x31AC)
	RegT1PixDefID2       = cci.Reg16(0x31E0)

	// MIPI serializer timing
	RegFramePreamble         = cci.Reg16(0x31B0)
	RegLinePreamble          = cci.Reg16(0x31B2)
	RegMIPITiming0           = cci.Reg16(0x31B4)
	RegMIPITiming1           = cci.Reg16(0x31B6)
	RegMIPITiming2           = cci.Reg16(0x31B8)
	RegMIPITiming3           = cci.Reg16(0x31BA)
	RegMIPITiming4           = cci.Reg16(0x31BC)
	RegMIPIDeskewPatWidth    = cci.Reg16(0x31C8)
	RegMIPIPerDeskewPatWidth = cci.Reg16(0x5930)
	RegMIPIF1PDT             = cci.Reg16(0x3342)
)

const (
	// ChipVersion is the value RegChipVersion reads back on a genuine AR0822.
	ChipVersion = 0x0F56

	// RegReset values. Stream-on is the low-power word with the streaming
	// bit set; the sensor wants it pulsed for at least 2 ms before it
	// accepts configuration after standby.
	resetModeLowPower = 0x0018
	resetModeStreamOn = resetModeLowPower | 0x0004

	modeSelectStreamOff = 0x00
	modeSelectStreamOn  = 0x01

	// RegSerialFormat: MIPI interface in the high byte, lane count low.
	serialFormatMIPI = 0x0200

	// RegDataFormatBits: raw bit depth replicated in both nibbles.
	dataFormatRaw10 = 0x0A0A
	dataFormatRaw12 = 0x0C0C

	orientationHFlipBit = 0
	orientationVFlipBit = 1
)
