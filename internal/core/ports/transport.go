package ports

import (
	"context"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
)

// Transport issues a single carrier API request and returns the raw response
// body. Implementations return a *domain.RequestError for non-success
// responses so callers can inspect the carrier's error payload. Timeouts and
// cancellation are the transport's concern, driven by ctx.
type Transport interface {
	Fetch(ctx context.Context, req domain.RequestDescriptor) ([]byte, error)
}
