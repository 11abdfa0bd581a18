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

// registerFormatRoutes registers format negotiation and geometry endpoints.
func (s *Server) registerFormatRoutes() {
	// Enumerate producible formats
	huma.Register(s.api, huma.Operation{
		OperationID: "list-formats",
		Method:      http.MethodGet,
		Path:        "/api/formats",
		Summary:     "List Formats",
		Description: "Enumerate producible media-bus codes and output sizes. The Bayer order of the codes tracks the flip controls.",
		Tags:        []string{"formats"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.FormatsResponse, error) {
		codes := s.sensor.EnumMediaBusCodes()

		apiCodes := make([]models.CodeInfo, len(codes))
		for i, code := range codes {
			apiCodes[i] = models.CodeInfo{Code: code, Name: ar0822.CodeName(code)}
		}

		// Sizes are shared across depths; enumerate against the first code.
		sizes, err := s.sensor.EnumFrameSizes(codes[0])
		if err != nil {
			return nil, s.mapSensorError(err)
		}
		apiSizes := make([]models.FrameSizeData, len(sizes))
		for i, size := range sizes {
			apiSizes[i] = models.FrameSizeData{Width: size.Width, Height: size.Height}
		}

		return &models.FormatsResponse{
			Body: models.FormatsData{
				Codes: apiCodes,
				Sizes: apiSizes,
			},
		}, nil
	})

	// Get active format
	huma.Register(s.api, huma.Operation{
		OperationID: "get-format",
		Method:      http.MethodGet,
		Path:        "/api/format",
		Summary:     "Get Active Format",
		Description: "Get the active output format. The code reflects the current flip settings.",
		Tags:        []string{"formats"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.FormatResponse, error) {
		format := s.sensor.GetFormat(nil, ar0822.Active)
		return &models.FormatResponse{Body: formatToAPI(format)}, nil
	})

	// Set active format
	huma.Register(s.api, huma.Operation{
		OperationID: "set-format",
		Method:      http.MethodPut,
		Path:        "/api/format",
		Summary:     "Set Active Format",
		Description: "Negotiate and apply the active output format. The size snaps to the nearest readout mode. Rejected while streaming.",
		Tags:        []string{"formats"},
		Errors:      []int{401, 409},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.FormatRequest) (*models.FormatResponse, error) {
		req := ar0822.FrameFormat{
			Width:  input.Body.Width,
			Height: input.Body.Height,
			Code:   input.Body.Code,
		}
		applied, err := s.sensor.SetFormat(nil, req, ar0822.Active)
		if err != nil {
			return nil, s.mapSensorError(err)
		}

		if s.eventBus != nil {
			s.eventBus.Publish(events.FormatChangedEvent{
				Width:     applied.Width,
				Height:    applied.Height,
				Code:      applied.Code,
				Timestamp: time.Now().Format(time.RFC3339),
			})
		}

		return &models.FormatResponse{Body: formatToAPI(applied)}, nil
	})

	// Try a format without applying it
	huma.Register(s.api, huma.Operation{
		OperationID: "try-format",
		Method:      http.MethodPost,
		Path:        "/api/format/try",
		Summary:     "Try Format",
		Description: "Negotiate a format without touching the active configuration, returning what Set Active Format would apply.",
		Tags:        []string{"formats"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.FormatRequest) (*models.FormatResponse, error) {
		req := ar0822.FrameFormat{
			Width:  input.Body.Width,
			Height: input.Body.Height,
			Code:   input.Body.Code,
		}
		state := s.sensor.NewPadState()
		negotiated, err := s.sensor.SetFormat(state, req, ar0822.Try)
		if err != nil {
			return nil, s.mapSensorError(err)
		}
		return &models.FormatResponse{Body: formatToAPI(negotiated)}, nil
	})

	// Selection rectangles
	huma.Register(s.api, huma.Operation{
		OperationID: "get-selection",
		Method:      http.MethodGet,
		Path:        "/api/selection",
		Summary:     "Get Selection",
		Description: "Get the analog crop of the active mode plus the default and native rectangles",
		Tags:        []string{"formats"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.SelectionResponse, error) {
		crop, err := s.sensor.Selection(nil, ar0822.SelectionCrop, ar0822.Active)
		if err != nil {
			return nil, s.mapSensorError(err)
		}
		cropDefault, err := s.sensor.Selection(nil, ar0822.SelectionCropDefault, ar0822.Active)
		if err != nil {
			return nil, s.mapSensorError(err)
		}
		native, err := s.sensor.Selection(nil, ar0822.SelectionNativeSize, ar0822.Active)
		if err != nil {
			return nil, s.mapSensorError(err)
		}

		return &models.SelectionResponse{
			Body: models.SelectionData{
				Crop:        rectToAPI(crop),
				CropDefault: rectToAPI(cropDefault),
				NativeSize:  rectToAPI(native),
			},
		}, nil
	})
}

func formatToAPI(f ar0822.FrameFormat) models.FormatData {
	return models.FormatData{
		Width:    f.Width,
		Height:   f.Height,
		Code:     f.Code,
		CodeName: ar0822.CodeName(f.Code),
	}
}

func rectToAPI(r ar0822.Rect) models.RectData {
	return models.RectData{
		Left:   r.Left,
		Top:    r.Top,
		Width:  r.Width,
		Height: r.Height,
	}
}
