package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
	"github.com/anatelli10/shipment-tracking/internal/core/ports"
)

// TrackingHandler handles HTTP requests for package tracking.
type TrackingHandler struct {
	service ports.TrackingService
}

func NewTrackingHandler(service ports.TrackingService) *TrackingHandler {
	return &TrackingHandler{service: service}
}

// --- Request / Response types ---

type trackRequest struct {
	CourierCode string `query:"courier_code" validate:"omitempty,oneof=fedex ups usps s10"`
	Env         string `query:"env"          validate:"omitempty,oneof=development production"`
}

type trackingEventResponse struct {
	Status   string `json:"status,omitempty"`
	Label    string `json:"label,omitempty"`
	Location string `json:"location,omitempty"`
	Time     int64  `json:"time,omitempty"`
}

type trackResponse struct {
	TrackingNumber        string                  `json:"tracking_number"`
	Events                []trackingEventResponse `json:"events"`
	EstimatedDeliveryTime int64                   `json:"estimated_delivery_time,omitempty"`
}

// Track handles GET /api/v1/track/:tracking_number.
//
// Query parameters:
//   - courier_code: bypass number-format detection (fedex, ups, usps, s10)
//   - env: override the process environment for endpoint selection
func (h *TrackingHandler) Track(c echo.Context) error {
	trackingNumber := c.Param("tracking_number")
	if trackingNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tracking number is required")
	}

	var req trackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	info, err := h.service.Track(c.Request().Context(), trackingNumber, ports.TrackOptions{
		CourierCode: req.CourierCode,
		Env:         domain.Environment(req.Env),
	})
	if err != nil {
		// The central error handler maps tracking errors to status codes.
		return err
	}

	events := make([]trackingEventResponse, 0, len(info.Events))
	for _, ev := range info.Events {
		events = append(events, trackingEventResponse{
			Status:   string(ev.Status),
			Label:    ev.Label,
			Location: ev.Location,
			Time:     ev.Time,
		})
	}

	return c.JSON(http.StatusOK, trackResponse{
		TrackingNumber:        trackingNumber,
		Events:                events,
		EstimatedDeliveryTime: info.EstimatedDeliveryTime,
	})
}
