package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/Kurokesu/ar0822-v4l2-driver/internal/events"
)

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	if s.eventBus == nil {
		s.logger.Debug("event bus not available, skipping SSE routes")
		return
	}

	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time event stream for streaming state, control and format changes, and transport errors",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"streaming-changed": events.StreamingChangedEvent{},
		"control-changed":   events.ControlChangedEvent{},
		"format-changed":    events.FormatChangedEvent{},
		"transport-error":   events.TransportErrorEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		// Per-connection event channel
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.StreamingChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ControlChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.FormatChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.TransportErrorEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// Initial snapshot so clients learn the current state on connect
		if err := send.Data(events.StreamingChangedEvent{
			Streaming: s.sensor.Streaming(),
			Timestamp: time.Now().Format(time.RFC3339),
		}); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					// Connection failed, clean up and exit
					return
				}
			}
		}
	})
}
