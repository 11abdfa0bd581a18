// Package models holds the API request and response shapes.
package models

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"unknown" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"unknown" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go toolchain version"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Build platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Sensor models
type SensorData struct {
	Model        string `json:"model" example:"AR0822" doc:"Sensor model name"`
	ChipVersion  uint16 `json:"chip_version" example:"3926" doc:"Chip version register value"`
	Streaming    bool   `json:"streaming" example:"false" doc:"Whether the sensor is streaming"`
	ExtClkHz     uint64 `json:"extclk_hz" example:"24000000" doc:"External clock frequency in Hz"`
	LinkFreqHz   int64  `json:"link_freq_hz" example:"480000000" doc:"CSI-2 link frequency in Hz"`
	NumDataLanes int    `json:"num_data_lanes" example:"4" doc:"Number of CSI-2 data lanes"`
	PixelRate    uint64 `json:"pixel_rate" example:"160000000" doc:"Pixel rate in pixels per second"`
	NativeWidth  int    `json:"native_width" example:"3840" doc:"Pixel array width"`
	NativeHeight int    `json:"native_height" example:"2160" doc:"Pixel array height"`
}

type SensorResponse struct {
	Body SensorData
}

// Format models
type FormatData struct {
	Width    int    `json:"width" example:"3840" doc:"Output width in pixels"`
	Height   int    `json:"height" example:"2160" doc:"Output height in pixels"`
	Code     uint32 `json:"code" example:"12298" doc:"Media-bus format code"`
	CodeName string `json:"code_name" example:"SGRBG10_1X10" doc:"Media-bus format name"`
}

type FormatResponse struct {
	Body FormatData
}

type FormatRequestData struct {
	Width  int    `json:"width" example:"3840" doc:"Requested output width in pixels"`
	Height int    `json:"height" example:"2160" doc:"Requested output height in pixels"`
	Code   uint32 `json:"code,omitempty" example:"12298" doc:"Requested media-bus code, 0 keeps the current bit depth"`
}

type FormatRequest struct {
	Body FormatRequestData
}

type CodeInfo struct {
	Code uint32 `json:"code" example:"12298" doc:"Media-bus format code"`
	Name string `json:"name" example:"SGRBG10_1X10" doc:"Media-bus format name"`
}

type FrameSizeData struct {
	Width  int `json:"width" example:"3840" doc:"Frame width in pixels"`
	Height int `json:"height" example:"2160" doc:"Frame height in pixels"`
}

type FormatsData struct {
	Codes []CodeInfo      `json:"codes" doc:"Producible media-bus codes at the current orientation"`
	Sizes []FrameSizeData `json:"sizes" doc:"Discrete output sizes"`
}

type FormatsResponse struct {
	Body FormatsData
}

// Selection models
type RectData struct {
	Left   int `json:"left" doc:"Left edge on the pixel array"`
	Top    int `json:"top" doc:"Top edge on the pixel array"`
	Width  int `json:"width" doc:"Rectangle width"`
	Height int `json:"height" doc:"Rectangle height"`
}

type SelectionData struct {
	Crop        RectData `json:"crop" doc:"Analog crop of the current mode"`
	CropDefault RectData `json:"crop_default" doc:"Default crop rectangle"`
	NativeSize  RectData `json:"native_size" doc:"Full pixel array rectangle"`
}

type SelectionResponse struct {
	Body SelectionData
}

// Control models
type ControlData struct {
	Name     string `json:"name" example:"exposure" doc:"Control name"`
	Value    int64  `json:"value" example:"380" doc:"Current value"`
	Min      int64  `json:"min" example:"4" doc:"Minimum value"`
	Max      int64  `json:"max" example:"2180" doc:"Maximum value"`
	Step     int64  `json:"step" example:"1" doc:"Value granularity"`
	Default  int64  `json:"default" example:"380" doc:"Default value"`
	ReadOnly bool   `json:"read_only" example:"false" doc:"Whether the control is read-only"`
	Grabbed  bool   `json:"grabbed" example:"false" doc:"Whether the control is locked while streaming"`
}

type ControlListData struct {
	Controls []ControlData `json:"controls" doc:"All sensor controls"`
	Count    int           `json:"count" example:"13" doc:"Number of controls"`
}

type ControlListResponse struct {
	Body ControlListData
}

type ControlResponse struct {
	Body ControlData
}

type ControlUpdateData struct {
	Value int64 `json:"value" example:"1000" doc:"New control value, clamped to the control's range and step"`
}

type ControlUpdateRequest struct {
	Body ControlUpdateData
}

// Stream models
type StreamRequestData struct {
	Streaming bool `json:"streaming" example:"true" doc:"Desired streaming state"`
}

type StreamRequest struct {
	Body StreamRequestData
}

type StreamData struct {
	Streaming bool   `json:"streaming" example:"true" doc:"Streaming state after the request"`
	Timestamp string `json:"timestamp" doc:"When the state changed"`
}

type StreamResponse struct {
	Body StreamData
}

// Test pattern models
type TestPatternData struct {
	Index int    `json:"index" example:"2" doc:"Test pattern menu index"`
	Name  string `json:"name" example:"Vertical Color Bars" doc:"Test pattern name"`
}

type TestPatternsResponse struct {
	Body struct {
		Patterns []TestPatternData `json:"patterns" doc:"Selectable test pattern generator modes"`
	}
}
