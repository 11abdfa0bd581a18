package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Kurokesu/ar0822-v4l2-driver/internal/api/models"
	"github.com/Kurokesu/ar0822-v4l2-driver/internal/events"
	"github.com/Kurokesu/ar0822-v4l2-driver/pkg/ar0822"
)

// registerControlRoutes registers control read and write endpoints.
func (s *Server) registerControlRoutes() {
	// List all controls
	huma.Register(s.api, huma.Operation{
		OperationID: "list-controls",
		Method:      http.MethodGet,
		Path:        "/api/controls",
		Summary:     "List Controls",
		Description: "Get all sensor controls with their ranges and current values",
		Tags:        []string{"controls"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.ControlListResponse, error) {
		ctrls := s.sensor.Controls()

		apiCtrls := make([]models.ControlData, len(ctrls))
		for i, ctrl := range ctrls {
			apiCtrls[i] = controlToAPI(ctrl)
		}

		return &models.ControlListResponse{
			Body: models.ControlListData{
				Controls: apiCtrls,
				Count:    len(apiCtrls),
			},
		}, nil
	})

	// Get a single control
	huma.Register(s.api, huma.Operation{
		OperationID: "get-control",
		Method:      http.MethodGet,
		Path:        "/api/controls/{name}",
		Summary:     "Get Control",
		Description: "Get one control by name",
		Tags:        []string{"controls"},
		Errors:      []int{401, 404},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Name string `path:"name" example:"exposure" doc:"Control name"`
	}) (*models.ControlResponse, error) {
		id, ok := ar0822.ControlIDByName(input.Name)
		if !ok {
			return nil, huma.Error404NotFound("unknown control " + input.Name)
		}
		ctrl, err := s.sensor.Control(id)
		if err != nil {
			return nil, s.mapSensorError(err)
		}
		return &models.ControlResponse{Body: controlToAPI(ctrl)}, nil
	})

	// Set a control value
	huma.Register(s.api, huma.Operation{
		OperationID: "set-control",
		Method:      http.MethodPut,
		Path:        "/api/controls/{name}",
		Summary:     "Set Control",
		Description: "Set a control value. Values are clamped to the control's range and step. While the sensor is powered down the value is staged and applied at the next streaming start.",
		Tags:        []string{"controls"},
		Errors:      []int{400, 401, 404, 409, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Name string `path:"name" example:"exposure" doc:"Control name"`
		Body models.ControlUpdateData
	}) (*models.ControlResponse, error) {
		id, ok := ar0822.ControlIDByName(input.Name)
		if !ok {
			return nil, huma.Error404NotFound("unknown control " + input.Name)
		}

		if err := s.sensor.SetControl(id, input.Body.Value); err != nil {
			s.publishTransportError("set_control", err)
			return nil, s.mapSensorError(err)
		}

		ctrl, err := s.sensor.Control(id)
		if err != nil {
			return nil, s.mapSensorError(err)
		}

		if s.eventBus != nil {
			s.eventBus.Publish(events.ControlChangedEvent{
				Control:   ctrl.Name,
				Value:     ctrl.Value,
				Timestamp: time.Now().Format(time.RFC3339),
			})
		}

		return &models.ControlResponse{Body: controlToAPI(ctrl)}, nil
	})

	// Test pattern menu
	huma.Register(s.api, huma.Operation{
		OperationID: "list-test-patterns",
		Method:      http.MethodGet,
		Path:        "/api/test-patterns",
		Summary:     "List Test Patterns",
		Description: "Get the selectable test pattern generator modes",
		Tags:        []string{"controls"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.TestPatternsResponse, error) {
		resp := &models.TestPatternsResponse{}
		resp.Body.Patterns = make([]models.TestPatternData, len(ar0822.TestPatternNames))
		for i, name := range ar0822.TestPatternNames {
			resp.Body.Patterns[i] = models.TestPatternData{Index: i, Name: name}
		}
		return resp, nil
	})
}

func controlToAPI(ctrl ar0822.Control) models.ControlData {
	return models.ControlData{
		Name:     ctrl.Name,
		Value:    ctrl.Value,
		Min:      ctrl.Min,
		Max:      ctrl.Max,
		Step:     ctrl.Step,
		Default:  ctrl.Default,
		ReadOnly: ctrl.ReadOnly,
		Grabbed:  ctrl.Grabbed(),
	}
}
