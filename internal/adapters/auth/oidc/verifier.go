package oidc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-adoption/internal/ports/auth"
)

var ErrTokenEmpty = errors.New("token is empty")

// Verifier implementa auth.AuthVerifier validando ID tokens del issuer.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

type idClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	Name          string `json:"name"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil || v.client.verifier == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	idt, err := v.client.verifier.Verify(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	var c idClaims
	if err := idt.Claims(&c); err != nil {
		return auth.Claims{}, fmt.Errorf("%w: claims: %w", ErrUnauthorized, err)
	}
	// Email sin verificar no sirve para la allow-list.
	if c.EmailVerified != nil && !*c.EmailVerified {
		c.Email = ""
	}

	uid := strings.TrimSpace(c.Subject)
	if uid == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", ErrUnauthorized)
	}
	return auth.Claims{
		UserID: uid,
		Email:  strings.TrimSpace(c.Email),
		Name:   strings.TrimSpace(c.Name),
	}, nil
}
