package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"pet-adoption/internal/domain/session"
)

var (
	ErrNotConfigured = errors.New("oidc client not configured")
	ErrUnauthorized  = errors.New("oidc unauthorized")
	ErrUpstream      = errors.New("oidc upstream error")
)

// Config del proveedor de identidad. IssuerURL se usa para discovery.
type Config struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	Scopes       []string

	Timeout time.Duration
	// Transport opcional (tests).
	Transport http.RoundTripper
}

func (c Config) IsConfigured() bool {
	return strings.TrimSpace(c.IssuerURL) != "" && strings.TrimSpace(c.ClientID) != ""
}

// Client agrupa verificación de ID tokens y el password grant.
type Client struct {
	verifier *gooidc.IDTokenVerifier
	oauth    *oauth2.Config
	http     *http.Client
}

// NewClient hace discovery contra el issuer. Falla si el proveedor no responde.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if !cfg.IsConfigured() {
		return nil, ErrNotConfigured
	}
	hc := httpClient(cfg)
	provider, err := gooidc.NewProvider(gooidc.ClientContext(ctx, hc), strings.TrimSpace(cfg.IssuerURL))
	if err != nil {
		return nil, fmt.Errorf("%w: discovery: %w", ErrUpstream, err)
	}
	return newClient(cfg, hc, provider.Endpoint(), provider.Verifier(&gooidc.Config{ClientID: cfg.ClientID})), nil
}

func newClient(cfg Config, hc *http.Client, endpoint oauth2.Endpoint, v *gooidc.IDTokenVerifier) *Client {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{gooidc.ScopeOpenID, "email", "profile"}
	}
	return &Client{
		verifier: v,
		http:     hc,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
	}
}

func httpClient(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	tr := cfg.Transport
	if tr == nil {
		tr = http.DefaultTransport
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// PasswordLogin reenvía email/contraseña al proveedor (resource owner password grant).
func (c *Client) PasswordLogin(ctx context.Context, email, password string) (session.Tokens, error) {
	if c == nil || c.oauth == nil {
		return session.Tokens{}, ErrNotConfigured
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.oauth.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode < 500 {
			return session.Tokens{}, fmt.Errorf("%w: status=%d", ErrUnauthorized, re.Response.StatusCode)
		}
		return session.Tokens{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	out := session.Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
	if raw, ok := tok.Extra("id_token").(string); ok {
		out.IDToken = raw
	}
	return out, nil
}
