package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/anatelli10/shipment-tracking/internal/api/metrics"
	"github.com/anatelli10/shipment-tracking/internal/core/domain"
	"github.com/anatelli10/shipment-tracking/internal/core/ports"
	"github.com/anatelli10/shipment-tracking/internal/couriers"
)

// TrackingService resolves a tracking number to a courier, performs the
// carrier API round trip, and normalises the response. Each call is one
// linear detect → validate → fetch → parse pipeline; nothing is cached,
// retried, or shared between calls beyond the immutable registry.
type TrackingService struct {
	registry  *couriers.Registry
	transport ports.Transport
	creds     ports.CredentialSource
	env       domain.Environment
	logger    zerolog.Logger
}

func NewTrackingService(
	registry *couriers.Registry,
	transport ports.Transport,
	creds ports.CredentialSource,
	env domain.Environment,
	logger zerolog.Logger,
) *TrackingService {
	return &TrackingService{
		registry:  registry,
		transport: transport,
		creds:     creds,
		env:       env,
		logger:    logger,
	}
}

func (s *TrackingService) Track(ctx context.Context, trackingNumber string, opts ports.TrackOptions) (*domain.TrackingInfo, error) {
	start := time.Now()

	code := opts.CourierCode
	if code == "" {
		detected, err := s.registry.Detect(trackingNumber)
		if err != nil {
			metrics.TracksTotal.WithLabelValues("unknown", "invalid_number").Inc()
			return nil, err
		}
		code = detected
	}

	courier, ok := s.registry.Get(code)
	if !ok {
		metrics.TracksTotal.WithLabelValues(code, "unsupported_courier").Inc()
		return nil, fmt.Errorf("%w: %q (supported couriers: %s)",
			domain.ErrUnsupportedCourier, code, strings.Join(s.registry.Supported(), ", "))
	}

	creds, err := s.resolveCredentials(courier)
	if err != nil {
		metrics.TracksTotal.WithLabelValues(courier.Code(), "credentials_missing").Inc()
		return nil, err
	}

	baseURL := courier.Endpoints().For(s.environment(opts.Env))

	req, err := courier.BuildRequest(ctx, trackingNumber, baseURL, creds)
	if err != nil {
		metrics.TracksTotal.WithLabelValues(courier.Code(), "request_failed").Inc()
		return nil, err
	}

	body, err := s.transport.Fetch(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).
			Str("courier", courier.Code()).
			Str("tracking_number", trackingNumber).
			Msg("courier request failed")
		metrics.TracksTotal.WithLabelValues(courier.Code(), "request_failed").Inc()
		return nil, err
	}

	info, err := courier.Parse(body)
	if err != nil {
		metrics.TracksTotal.WithLabelValues(courier.Code(), "parse_failed").Inc()
		return nil, err
	}

	s.logger.Info().
		Str("courier", courier.Code()).
		Str("tracking_number", trackingNumber).
		Int("events", len(info.Events)).
		Msg("tracking retrieved")
	metrics.TracksTotal.WithLabelValues(courier.Code(), "ok").Inc()
	metrics.TrackDuration.WithLabelValues(courier.Code()).Observe(time.Since(start).Seconds())

	return info, nil
}

// resolveCredentials looks up every credential the courier requires and
// fails with ErrCredentialsMissing, naming all absent identifiers, before
// any network call is made.
func (s *TrackingService) resolveCredentials(c couriers.Courier) (couriers.CredentialSet, error) {
	required := c.RequiredCredentials()
	set := make(couriers.CredentialSet, len(required))
	var missing []string
	for _, name := range required {
		value, ok := s.creds.Lookup(name)
		if !ok || value == "" {
			missing = append(missing, name)
			continue
		}
		set[name] = value
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCredentialsMissing, strings.Join(missing, ", "))
	}
	return set, nil
}

func (s *TrackingService) environment(override domain.Environment) domain.Environment {
	if override != "" {
		return override
	}
	return s.env
}
