package googleauth

import (
	"context"
	"net/http"

	"google.golang.org/api/idtoken"
)

// WithVerifier replaces ID-token validation for tests.
func (p *Provider) WithVerifier(f func(ctx context.Context, raw, aud string) (*idtoken.Payload, error)) *Provider {
	p.verify = f
	return p
}

func NewTestTransport(base http.RoundTripper, rps int) http.RoundTripper {
	return newTransport(base, rps)
}
