// Package oauth implements the token-exchange collaborator for couriers
// using bearer authentication.
package oauth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentials exchanges an OAuth client id/secret for bearer tokens.
// The underlying oauth2 token source caches tokens and refreshes them on
// expiry, so Token is cheap on the hot path.
type ClientCredentials struct {
	source oauth2.TokenSource
}

func NewClientCredentials(ctx context.Context, clientID, clientSecret, tokenURL string) *ClientCredentials {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return &ClientCredentials{source: cfg.TokenSource(ctx)}
}

// Token returns a currently valid access token, performing the exchange if
// the cached token has expired.
func (c *ClientCredentials) Token(_ context.Context) (string, error) {
	token, err := c.source.Token()
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}
