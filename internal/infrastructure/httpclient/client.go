// Package httpclient implements the carrier transport over net/http.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
)

// Client performs a single carrier API call per Fetch. Cancellation comes
// from ctx; Timeout caps the whole round trip.
type Client struct {
	http *http.Client
}

func New(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// NewWithHTTPClient wraps an existing http.Client. Used by tests.
func NewWithHTTPClient(hc *http.Client) *Client {
	return &Client{http: hc}
}

func (c *Client) Fetch(ctx context.Context, req domain.RequestDescriptor) ([]byte, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRequestFailed, err)
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrRequestFailed, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Keep the carrier's error payload; it usually names the real cause.
		return nil, &domain.RequestError{StatusCode: resp.StatusCode, Body: payload}
	}
	return payload, nil
}
