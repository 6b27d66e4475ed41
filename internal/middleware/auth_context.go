package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// Headers de modo dev (solo cuando no hay verifier).
const (
	DebugUserIDHeader    = "X-Debug-User-ID"
	DebugUserEmailHeader = "X-Debug-User-Email"
)

// AuthContext:
// - Si verifier != nil y viene Bearer token => intenta Verify() y setea claims.
// - Si verifier == nil => modo dev: X-Debug-User-Email / X-Debug-User-ID setean claims.
// - Si no hay claims, el request sigue igual; RequireAdmin decide 401/403.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				email := strings.TrimSpace(r.Header.Get(DebugUserEmailHeader))
				uid := strings.TrimSpace(r.Header.Get(DebugUserIDHeader))
				if email == "" && uid == "" {
					next.ServeHTTP(w, r)
					return
				}
				if uid == "" {
					uid = email
				}
				ctx := context.WithValue(r.Context(), claimsKey, auth.Claims{UserID: uid, Email: email})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				Logger(r.Context()).Debug("token rejected", logger.Fields{"error": err})
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// AdminPolicy es la allow-list de admins.
type AdminPolicy interface {
	IsAdmin(email string) bool
	HasAdmins() bool
}

// RequireAdmin corta antes de cualquier efecto: 503 sin lista de admins,
// 401 sin claims, 403 si el email no está en la lista.
func RequireAdmin(policy AdminPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if policy == nil || !policy.HasAdmins() {
				writeAuthError(w, http.StatusServiceUnavailable, "not_configured", "admin list not configured")
				return
			}
			claims, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.Email) == "" {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
				return
			}
			if !policy.IsAdmin(claims.Email) {
				Logger(r.Context()).Warn("admin access denied", logger.Fields{"email": claims.Email})
				writeAuthError(w, http.StatusForbidden, "forbidden", "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
