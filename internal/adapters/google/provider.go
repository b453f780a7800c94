// Package googleauth signs accounts in with Google: it builds the consent URL,
// exchanges authorization codes and verifies the returned ID token.
package googleauth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"stayhub/internal/domain"
)

var ErrNotConfigured = domain.Errorf(domain.ErrValidation, "google sign-in is not configured")

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	RPS          int
	// Endpoint overrides google.Endpoint; tests point it at a local server.
	Endpoint oauth2.Endpoint
}

type verifyFunc func(ctx context.Context, rawIDToken, audience string) (*idtoken.Payload, error)

type Provider struct {
	oauth  *oauth2.Config
	hc     *http.Client
	verify verifyFunc
}

func New(ctx context.Context, c Config) (*Provider, error) {
	if c.ClientID == "" {
		return nil, ErrNotConfigured
	}
	ep := c.Endpoint
	if ep.TokenURL == "" {
		ep = google.Endpoint
	}
	hc := &http.Client{Timeout: 20 * time.Second, Transport: newTransport(nil, c.RPS)}
	v, err := idtoken.NewValidator(ctx, option.WithHTTPClient(hc))
	if err != nil {
		return nil, err
	}
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     ep,
		},
		hc:     hc,
		verify: v.Validate,
	}, nil
}

func (p *Provider) AuthURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for a verified identity.
func (p *Provider) Exchange(ctx context.Context, code string) (domain.ExternalIdentity, error) {
	if code == "" {
		return domain.ExternalIdentity{}, domain.Errorf(domain.ErrValidation, "authorization code is required")
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.hc)
	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return domain.ExternalIdentity{}, domain.Errorf(domain.ErrUnauthorized, "google rejected the authorization code")
		}
		return domain.ExternalIdentity{}, err
	}
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return domain.ExternalIdentity{}, domain.Errorf(domain.ErrUnauthorized, "google response carried no id token")
	}
	payload, err := p.verify(ctx, raw, p.oauth.ClientID)
	if err != nil {
		return domain.ExternalIdentity{}, domain.Errorf(domain.ErrUnauthorized, "google id token is invalid")
	}
	return identityFrom(payload), nil
}

func identityFrom(p *idtoken.Payload) domain.ExternalIdentity {
	str := func(k string) string {
		s, _ := p.Claims[k].(string)
		return s
	}
	verified := false
	switch v := p.Claims["email_verified"].(type) {
	case bool:
		verified = v
	case string:
		verified = v == "true"
	}
	return domain.ExternalIdentity{
		Subject:       p.Subject,
		Email:         domain.NormalizeEmail(str("email")),
		EmailVerified: verified,
		GivenName:     str("given_name"),
		FamilyName:    str("family_name"),
	}
}
