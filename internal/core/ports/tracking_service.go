package ports

import (
	"context"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
)

// TrackOptions tune a single track call.
type TrackOptions struct {
	// CourierCode bypasses number-format detection when set.
	CourierCode string
	// Env overrides the process-wide environment used to pick the
	// courier's dev or prod endpoint.
	Env domain.Environment
}

// TrackingService is the public tracking entry point: one stateless
// detect → validate → fetch → parse round trip per call.
type TrackingService interface {
	Track(ctx context.Context, trackingNumber string, opts TrackOptions) (*domain.TrackingInfo, error)
}
