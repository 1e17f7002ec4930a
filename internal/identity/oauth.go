package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"campus-market-go/internal/config"
	"campus-market-go/internal/domain/person"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OAuthFlow drives the authorization-code sign-in. The id_token returned by the
// token endpoint goes through the same verifier as one-tap credentials.
type OAuthFlow struct {
	config   *oauth2.Config
	verifier *GoogleVerifier
}

func NewOAuthFlow(cfg config.AuthConfig, verifier *GoogleVerifier) *OAuthFlow {
	return &OAuthFlow{
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		verifier: verifier,
	}
}

func (f *OAuthFlow) Enabled() bool {
	return f != nil && f.config.ClientID != "" && f.config.ClientSecret != ""
}

// AuthCodeURL returns the consent URL and the state value the callback must echo.
func (f *OAuthFlow) AuthCodeURL() (string, string, error) {
	state, err := randomState()
	if err != nil {
		return "", "", err
	}
	return f.config.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account")), state, nil
}

func (f *OAuthFlow) Exchange(ctx context.Context, code string) (person.Identity, error) {
	if !f.Enabled() {
		return person.Identity{}, ErrNotConfigured
	}

	token, err := f.config.Exchange(ctx, code)
	if err != nil {
		return person.Identity{}, fmt.Errorf("%w: exchange code: %v", ErrInvalidCredential, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return person.Identity{}, fmt.Errorf("%w: token response without id_token", ErrInvalidCredential)
	}
	return f.verifier.Verify(ctx, rawIDToken)
}

func randomState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
