package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/anatelli10/shipment-tracking/internal/api/handler"
	"github.com/anatelli10/shipment-tracking/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(service ports.TrackingService, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("shipment_tracking"))

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probe ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)

	// --- Tracking ---
	trackingHandler := handler.NewTrackingHandler(service)
	e.GET("/api/v1/track/:tracking_number", trackingHandler.Track)

	return e
}
