package events

// Event type constants for kelindar/event.
const (
	TypeStreamingChanged uint32 = iota + 1
	TypeControlChanged
	TypeFormatChanged
	TypeTransportError
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// StreamingChangedEvent is published when the sensor starts or stops
// streaming. The LED manager and metrics react to it.
type StreamingChangedEvent struct {
	Streaming bool   `json:"streaming" example:"true" doc:"Whether the sensor is streaming"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for StreamingChangedEvent.
func (e StreamingChangedEvent) Type() uint32 { return TypeStreamingChanged }

// ControlChangedEvent is published after a control write is accepted.
type ControlChangedEvent struct {
	Control   string `json:"control" example:"exposure" doc:"Control name"`
	Value     int64  `json:"value" example:"380" doc:"Applied value, after clamping"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ControlChangedEvent.
func (e ControlChangedEvent) Type() uint32 { return TypeControlChanged }

// FormatChangedEvent is published when the active format changes.
type FormatChangedEvent struct {
	Width     int    `json:"width" example:"3840" doc:"Output width in pixels"`
	Height    int    `json:"height" example:"2160" doc:"Output height in pixels"`
	Code      uint32 `json:"code" example:"12298" doc:"Media-bus format code"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for FormatChangedEvent.
func (e FormatChangedEvent) Type() uint32 { return TypeFormatChanged }

// TransportErrorEvent is published when a register transaction fails outside
// an API request, such as during preset hot-reload.
type TransportErrorEvent struct {
	Operation string `json:"operation" example:"apply exposure" doc:"Failed operation"`
	Error     string `json:"error" doc:"Error description"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for TransportErrorEvent.
func (e TransportErrorEvent) Type() uint32 { return TypeTransportError }
