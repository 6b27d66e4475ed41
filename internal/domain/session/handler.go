package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/auth/login", loginHandler(svc))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// loginHandler godoc
// @Summary Login de admins
// @Description Reenvía email y contraseña al proveedor de identidad y devuelve sus tokens. El id_token se usa como Bearer en /admin.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} Tokens
// @Failure 400 {object} errorResponse "invalid json / email inválido"
// @Failure 401 {object} errorResponse "credenciales rechazadas"
// @Failure 503 {object} errorResponse "proveedor sin configurar"
// @Router /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json", Code: "invalid_json"})
			return
		}

		tok, err := svc.Login(r.Context(), req.Email, req.Password)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, tok)
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_input"})
		case errors.Is(err, ErrNotConfigured):
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Code: "not_configured"})
		default:
			// No distinguimos credenciales malas de caída del proveedor hacia afuera.
			middleware.Logger(r.Context()).Warn("login failed", logger.Fields{"error": err})
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "login failed", Code: "unauthorized"})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
