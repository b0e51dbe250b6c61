package ports

import (
	"context"
	"os"
)

// CredentialSource resolves courier credential identifiers (environment
// variable names) to their values. Presence is checked per call, before any
// network traffic.
type CredentialSource interface {
	Lookup(name string) (string, bool)
}

// EnvCredentialSource reads credentials from process environment variables.
type EnvCredentialSource struct{}

func (EnvCredentialSource) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// TokenSource supplies a bearer token for couriers that use OAuth-style
// authentication. The token exchange itself is a black box to the core.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
