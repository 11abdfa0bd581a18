package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Kurokesu/ar0822-v4l2-driver/internal/api/models"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/events"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/metrics"
	"github.com/Kurokesu/ar0822-v4l2-driver/pkg/ar0822"
)

// registerSensorRoutes registers sensor identity and streaming endpoints.
func (s *Server) registerSensorRoutes() {
	// Sensor identity and resolved configuration
	huma.Register(s.api, huma.Operation{
		OperationID: "get-sensor",
		Method:      http.MethodGet,
		Path:        "/api/sensor",
		Summary:     "Get Sensor Info",
		Description: "Get sensor identity and the resolved clock configuration",
		Tags:        []string{"sensor"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.SensorResponse, error) {
		clockCfg := s.sensor.ClockConfig()
		return &models.SensorResponse{
			Body: models.SensorData{
				Model:        "AR0822",
				ChipVersion:  ar0822.ChipVersion,
				Streaming:    s.sensor.Streaming(),
				ExtClkHz:     clockCfg.ExtClkHz,
				LinkFreqHz:   clockCfg.LinkFreqHz,
				NumDataLanes: s.sensor.LaneMode().Lanes(),
				PixelRate:    clockCfg.PixelRate,
				NativeWidth:  ar0822.NativeWidth,
				NativeHeight: ar0822.NativeHeight,
			},
		}, nil
	})

	// Start or stop streaming
	huma.Register(s.api, huma.Operation{
		OperationID: "set-streaming",
		Method:      http.MethodPost,
		Path:        "/api/stream",
		Summary:     "Set Streaming State",
		Description: "Start or stop the video stream. Both directions are idempotent.",
		Tags:        []string{"sensor"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.StreamRequest) (*models.StreamResponse, error) {
		if err := s.sensor.SetStreaming(input.Body.Streaming); err != nil {
			s.publishTransportError("set_streaming", err)
			return nil, huma.Error500InternalServerError("failed to change streaming state", err)
		}

		timestamp := time.Now().Format(time.RFC3339)
		streaming := s.sensor.Streaming()
		metrics.SetStreaming(streaming)
		if s.eventBus != nil {
			s.eventBus.Publish(events.StreamingChangedEvent{
				Streaming: streaming,
				Timestamp: timestamp,
			})
		}

		return &models.StreamResponse{
			Body: models.StreamData{
				Streaming: streaming,
				Timestamp: timestamp,
			},
		}, nil
	})

	// Streaming state
	huma.Register(s.api, huma.Operation{
		OperationID: "get-streaming",
		Method:      http.MethodGet,
		Path:        "/api/stream",
		Summary:     "Get Streaming State",
		Description: "Get the current streaming state",
		Tags:        []string{"sensor"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.StreamResponse, error) {
		return &models.StreamResponse{
			Body: models.StreamData{
				Streaming: s.sensor.Streaming(),
				Timestamp: time.Now().Format(time.RFC3339),
			},
		}, nil
	})
}

// publishTransportError reports a failed sensor operation on the event bus.
func (s *Server) publishTransportError(operation string, err error) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(events.TransportErrorEvent{
		Operation: operation,
		Error:     err.Error(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// mapSensorError maps sensor errors to HTTP errors.
func (s *Server) mapSensorError(err error) error {
	switch {
	case errors.Is(err, ar0822.ErrUnsupportedControl):
		return huma.Error404NotFound("unknown control", err)
	case errors.Is(err, ar0822.ErrReadOnlyControl):
		return huma.Error400BadRequest("control is read-only", err)
	case errors.Is(err, ar0822.ErrControlGrabbed):
		return huma.Error409Conflict("control is locked while streaming", err)
	case errors.Is(err, ar0822.ErrStreaming):
		return huma.Error409Conflict("not allowed while streaming", err)
	case errors.Is(err, ar0822.ErrUnsupportedFormat):
		return huma.Error400BadRequest("unsupported media-bus format", err)
	default:
		return huma.Error500InternalServerError("internal server error", err)
	}
}
