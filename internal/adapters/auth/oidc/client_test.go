package oidc

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	jose "github.com/go-jose/go-jose/v3"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const issuer = "https://idp.adote.example"

// -------------------------
// Helpers
// -------------------------

func signToken(t *testing.T, key *rsa.PrivateKey, claims map[string]any) string {
	t.Helper()
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: key}, (&jose.SignerOptions{}).WithType("JWT"))
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	obj, err := signer.Sign(payload)
	require.NoError(t, err)
	raw, err := obj.CompactSerialize()
	require.NoError(t, err)
	return raw
}

func staticVerifier(t *testing.T) (*Verifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ks := &gooidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	v := gooidc.NewVerifier(issuer, ks, &gooidc.Config{ClientID: "adote-web"})
	c := newClient(Config{IssuerURL: issuer, ClientID: "adote-web"}, http.DefaultClient, oauth2.Endpoint{}, v)
	return NewVerifier(c), key
}

func baseClaims() map[string]any {
	return map[string]any{
		"iss":   issuer,
		"aud":   "adote-web",
		"sub":   "user-1",
		"email": " admin@adote.example ",
		"name":  "Admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

// -------------------------
// Verifier
// -------------------------

func TestVerify_ValidToken(t *testing.T) {
	v, key := staticVerifier(t)

	claims, err := v.Verify(context.Background(), signToken(t, key, baseClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@adote.example", claims.Email)
	assert.Equal(t, "Admin", claims.Name)
}

func TestVerify_Rejects(t *testing.T) {
	v, key := staticVerifier(t)

	expired := baseClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	wrongAud := baseClaims()
	wrongAud["aud"] = "otro-cliente"

	cases := map[string]string{
		"expirado":       signToken(t, key, expired),
		"otra audiencia": signToken(t, key, wrongAud),
		"basura":         "not-a-jwt",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tok)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}

	_, err := v.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}

func TestVerify_UnverifiedEmailIsDropped(t *testing.T) {
	v, key := staticVerifier(t)
	c := baseClaims()
	c["email_verified"] = false

	claims, err := v.Verify(context.Background(), signToken(t, key, c))
	require.NoError(t, err)
	assert.Empty(t, claims.Email)
}

func TestVerify_NilClient(t *testing.T) {
	_, err := NewVerifier(nil).Verify(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

// -------------------------
// Discovery + password grant
// -------------------------

func mockProvider(t *testing.T) *httpmock.MockTransport {
	t.Helper()
	tr := httpmock.NewMockTransport()
	tr.RegisterResponder(http.MethodGet, issuer+"/.well-known/openid-configuration",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + "/authorize",
			"token_endpoint":         issuer + "/token",
			"jwks_uri":               issuer + "/jwks",
		}))
	return tr
}

func TestNewClient_NotConfigured(t *testing.T) {
	_, err := NewClient(context.Background(), Config{ClientID: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPasswordLogin_ForwardsGrant(t *testing.T) {
	tr := mockProvider(t)
	tr.RegisterResponder(http.MethodPost, issuer+"/token", func(req *http.Request) (*http.Response, error) {
		require.NoError(t, req.ParseForm())
		assert.Equal(t, "password", req.PostForm.Get("grant_type"))
		assert.Equal(t, "admin@adote.example", req.PostForm.Get("username"))
		assert.Equal(t, "s3cret", req.PostForm.Get("password"))
		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
			"access_token":  "at-1",
			"refresh_token": "rt-1",
			"id_token":      "idt-1",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	})

	c, err := NewClient(context.Background(), Config{IssuerURL: issuer, ClientID: "adote-web", ClientSecret: "x", Transport: tr})
	require.NoError(t, err)

	tok, err := c.PasswordLogin(context.Background(), "admin@adote.example", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "at-1", tok.AccessToken)
	assert.Equal(t, "idt-1", tok.IDToken)
	assert.Equal(t, "rt-1", tok.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Expiry, time.Minute)
}

func TestPasswordLogin_BadCredentials(t *testing.T) {
	tr := mockProvider(t)
	tr.RegisterResponder(http.MethodPost, issuer+"/token",
		httpmock.NewJsonResponderOrPanic(http.StatusBadRequest, map[string]string{"error": "invalid_grant"}))

	c, err := NewClient(context.Background(), Config{IssuerURL: issuer, ClientID: "adote-web", Transport: tr})
	require.NoError(t, err)

	_, err = c.PasswordLogin(context.Background(), "admin@adote.example", "mal")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
