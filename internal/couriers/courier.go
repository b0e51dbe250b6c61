// Package couriers implements the per-carrier tracking adapters and the
// registry used to select one. Each courier bundles the strategy the carrier
// needs: number-format matching, request building, and response
// normalisation into the canonical tracking model.
package couriers

import (
	"context"
	"regexp"
	"strings"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
)

// CredentialSet holds resolved credential values keyed by their environment
// variable name.
type CredentialSet map[string]string

// Endpoints is a courier's dev/prod base URL pair.
type Endpoints struct {
	Dev  string
	Prod string
}

// For returns the base URL for env. Anything other than production selects
// the dev endpoint.
func (e Endpoints) For(env domain.Environment) string {
	if env == domain.EnvProduction {
		return e.Prod
	}
	return e.Dev
}

// Courier is the uniform per-carrier strategy. One concrete implementation
// exists per carrier; shared code never branches on carrier identity.
type Courier interface {
	Name() string
	Code() string

	// RequiredCredentials lists the environment variable names that must be
	// present before a request can be built.
	RequiredCredentials() []string

	Endpoints() Endpoints

	// Matches reports whether trackingNumber fits one of this carrier's
	// number formats.
	Matches(trackingNumber string) bool

	// BuildRequest describes the outbound API call for trackingNumber
	// against baseURL. No network traffic happens here.
	BuildRequest(ctx context.Context, trackingNumber, baseURL string, creds CredentialSet) (domain.RequestDescriptor, error)

	// Parse normalises a raw response body into a TrackingInfo, or returns
	// the most specific error the response warrants.
	Parse(body []byte) (*domain.TrackingInfo, error)
}

// joinLocation space-joins the non-empty address parts. Returns "" when every
// part is empty.
func joinLocation(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func matchesAny(formats []*regexp.Regexp, trackingNumber string) bool {
	for _, re := range formats {
		if re.MatchString(trackingNumber) {
			return true
		}
	}
	return false
}
