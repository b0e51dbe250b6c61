package couriers

import (
	"fmt"
	"strings"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
	"github.com/anatelli10/shipment-tracking/internal/core/ports"
)

// Registry is the process-wide courier table. It is built once at startup
// and read-only afterwards; concurrent track calls share it without locking.
type Registry struct {
	ordered []Courier
	byCode  map[string]Courier
}

// Options configure optional courier behaviour in the default registry.
type Options struct {
	// UPSTokens switches the UPS adapter to OAuth bearer authentication.
	// Leave nil to authenticate with the access-license header credential.
	UPSTokens ports.TokenSource
}

// NewRegistry registers couriers in detection order. Couriers with more
// specific number formats must come before couriers with broader ones, since
// Detect returns the first match.
func NewRegistry(couriers ...Courier) *Registry {
	r := &Registry{
		ordered: make([]Courier, 0, len(couriers)),
		byCode:  make(map[string]Courier, len(couriers)),
	}
	for _, c := range couriers {
		r.ordered = append(r.ordered, c)
		r.byCode[c.Code()] = c
	}
	return r
}

// NewDefaultRegistry builds the registry with all supported couriers:
// FedEx, UPS, and USPS, plus the "s10" alias for international S10 numbers,
// which USPS handles.
func NewDefaultRegistry(opts Options) *Registry {
	usps := NewUSPS()
	r := NewRegistry(NewFedEx(), NewUPS(opts.UPSTokens), usps)
	r.byCode["s10"] = usps
	return r
}

// Get returns the courier registered under code.
func (r *Registry) Get(code string) (Courier, bool) {
	c, ok := r.byCode[code]
	return c, ok
}

// Supported returns the registered courier codes in detection order.
func (r *Registry) Supported() []string {
	codes := make([]string, 0, len(r.ordered))
	for _, c := range r.ordered {
		codes = append(codes, c.Code())
	}
	return codes
}

// Detect returns the code of the first registered courier whose number
// formats accept trackingNumber.
func (r *Registry) Detect(trackingNumber string) (string, error) {
	for _, c := range r.ordered {
		if c.Matches(trackingNumber) {
			return c.Code(), nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported couriers: %s)",
		domain.ErrInvalidTrackingNumber, trackingNumber, strings.Join(r.Supported(), ", "))
}
