package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// LEDRequest sets the state of one board LED by hand, overriding whatever the
// record indicator last wrote to it.
type LEDRequest struct {
	Body struct {
		Type    string  `json:"type" example:"act" doc:"Board LED identifier (act, user, system, ...)"`
		Enabled bool    `json:"enabled" example:"true" doc:"Turn the LED on or off"`
		Pattern *string `json:"pattern,omitempty" example:"solid" doc:"Optional trigger pattern (solid, blink, heartbeat)"`
	}
}

// LEDCapabilitiesResponse lists what the detected board exposes under
// /sys/class/leds.
type LEDCapabilitiesResponse struct {
	Body struct {
		AvailableTypes    []string `json:"available_types" doc:"LED identifiers present on this board"`
		AvailablePatterns []string `json:"available_patterns" doc:"Trigger patterns the LEDs accept"`
	}
}

// registerLEDRoutes exposes manual LED control. Boards without a usable LED
// get no routes at all rather than routes that always fail.
func (s *Server) registerLEDRoutes() {
	if s.options.LEDController == nil {
		s.logger.Debug("LED controller not available, skipping LED routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "control-led",
		Method:      http.MethodPost,
		Path:        "/api/leds",
		Summary:     "Control LED",
		Description: "Set an LED's state and optional trigger pattern. Identifiers and patterns depend on the board.",
		Tags:        []string{"leds"},
		Errors:      []int{400, 401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *LEDRequest) (*struct{}, error) {
		pattern := ""
		if input.Body.Pattern != nil {
			pattern = *input.Body.Pattern
		}

		if err := s.options.LEDController.Set(input.Body.Type, input.Body.Enabled, pattern); err != nil {
			return nil, huma.Error400BadRequest("Failed to control LED", err)
		}

		return &struct{}{}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-led-capabilities",
		Method:      http.MethodGet,
		Path:        "/api/leds/capabilities",
		Summary:     "Get LED Capabilities",
		Description: "List the LED identifiers and trigger patterns available on this board",
		Tags:        []string{"leds"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*LEDCapabilitiesResponse, error) {
		resp := &LEDCapabilitiesResponse{}
		resp.Body.AvailableTypes = s.options.LEDController.Available()
		resp.Body.AvailablePatterns = s.options.LEDController.Patterns()
		return resp, nil
	})

	s.logger.Info("LED routes registered")
}
