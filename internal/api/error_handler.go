package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known tracking errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known tracking errors → deterministic HTTP codes. Carrier-side
	// failures surface as 502: the request was fine, the upstream was not.
	switch {
	case errors.Is(err, domain.ErrInvalidTrackingNumber):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnsupportedCourier):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrTrackingNotFound):
		return http.StatusNotFound, "tracking information not found"
	case errors.Is(err, domain.ErrCredentialsMissing):
		// Server-side misconfiguration; don't leak credential names.
		log.Error().Err(err).Str("path", c.Path()).Msg("courier credentials not configured")
		return http.StatusInternalServerError, "courier credentials not configured"
	case errors.Is(err, domain.ErrCarrierReported):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, domain.ErrResponseMalformed):
		return http.StatusBadGateway, "courier returned an unreadable response"
	case errors.Is(err, domain.ErrRequestFailed):
		return http.StatusBadGateway, "courier request failed"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
