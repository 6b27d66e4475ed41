package session

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotConfigured = errors.New("login not configured")
)

// Tokens devueltos por el proveedor de identidad.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	IDToken      string    `json:"id_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
}

type PasswordAuthenticator interface {
	PasswordLogin(ctx context.Context, email, password string) (Tokens, error)
}

type Service struct {
	auth PasswordAuthenticator
}

func NewService(a PasswordAuthenticator) *Service {
	return &Service{auth: a}
}

// Login valida el formulario y reenvía las credenciales. No guarda nada.
func (s *Service) Login(ctx context.Context, email, password string) (Tokens, error) {
	if s.auth == nil {
		return Tokens{}, ErrNotConfigured
	}
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return Tokens{}, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if password == "" {
		return Tokens{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	return s.auth.PasswordLogin(ctx, email, password)
}
