package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTrackingNumber means the number matches no supported
	// courier's number formats.
	ErrInvalidTrackingNumber = errors.New("tracking number matches no supported courier")
	// ErrUnsupportedCourier means an explicitly supplied courier code is
	// not registered.
	ErrUnsupportedCourier = errors.New("unsupported courier code")
	// ErrCredentialsMissing means a required courier credential is absent
	// from the environment. Raised before any network call.
	ErrCredentialsMissing = errors.New("courier credentials missing")
	// ErrRequestFailed means the carrier API call itself failed.
	ErrRequestFailed = errors.New("courier request failed")
	// ErrResponseMalformed means the shipment record was not found where
	// the carrier's response format says it should be.
	ErrResponseMalformed = errors.New("courier response malformed")
	// ErrTrackingNotFound means the carrier explicitly reported the number
	// as unknown.
	ErrTrackingNotFound = errors.New("tracking information not found")
	// ErrCarrierReported means the carrier reported a terminal error for a
	// known number.
	ErrCarrierReported = errors.New("courier reported an error")
)

// RequestError is returned by the transport when the carrier answers with a
// non-success HTTP status. Body holds the raw carrier error payload when one
// was provided, so callers see the carrier's own diagnostics rather than just
// a status line. Matches ErrRequestFailed under errors.Is.
type RequestError struct {
	StatusCode int
	Body       []byte
}

func (e *RequestError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("courier request failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("courier request failed: status %d: %s", e.StatusCode, e.Body)
}

func (e *RequestError) Unwrap() error { return ErrRequestFailed }
