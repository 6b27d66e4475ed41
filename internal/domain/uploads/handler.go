package uploads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-adoption/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /admin/batch-upload. El router debe envolverlo con RequireAdmin.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/admin/batch-upload", func(ar chi.Router) {
		ar.Post("/intents", createIntentsHandler(svc))
		ar.Post("/", processBatchHandler(svc))
		ar.Get("/history", historyHandler(svc))
	})
}

type fileSpecRequest struct {
	FileName    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type createIntentsRequest struct {
	Files []fileSpecRequest `json:"files"`
}

type intentResponse struct {
	FileName  string            `json:"filename"`
	State     State             `json:"state"`
	Key       string            `json:"key,omitempty"`
	URL       string            `json:"url,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	Reason    string            `json:"reason,omitempty"`
}

type intentsResponse struct {
	Intents  []intentResponse `json:"intents"`
	Failures []Failure        `json:"failures"`
}

type imageRequest struct {
	URL           string `json:"url"`
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
	FileName      string `json:"file_name"`
}

type processBatchRequest struct {
	ContactDetails string         `json:"contact_details"`
	Address        string         `json:"address"`
	AdditionalInfo string         `json:"additional_info"`
	Images         []imageRequest `json:"images"`
}

type batchResponse struct {
	Batch
	Failures []Failure `json:"failures"`
}

type errorResponse struct {
	Error    string    `json:"error"`
	Code     string    `json:"code"`
	Failures []Failure `json:"failures,omitempty"`
}

// createIntentsHandler godoc
// @Summary Pedir destinos de subida firmados
// @Description Un destino firmado (S3 presigned POST) por archivo. Cada archivo se resuelve por separado: los rechazados vienen en `failures`. Si todos fallan responde 502. Solo admins.
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Debug-User-Email header string false "Solo en modo dev, email del usuario"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createIntentsRequest true "Archivos a subir"
// @Success 200 {object} intentsResponse
// @Failure 400 {object} errorResponse "invalid json / lote vacío"
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 403 {object} errorResponse "forbidden"
// @Failure 502 {object} errorResponse "todos los archivos fallaron"
// @Failure 503 {object} errorResponse "almacenamiento sin configurar"
// @Router /admin/batch-upload/intents [post]
func createIntentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createIntentsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", errors.New("invalid json"), nil)
			return
		}

		files := make([]FileSpec, 0, len(req.Files))
		for _, f := range req.Files {
			files = append(files, FileSpec{FileName: f.FileName, ContentType: f.ContentType, Size: f.Size})
		}

		batch, err := svc.RequestIntents(r.Context(), adminEmail(r), files)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		failures := []Failure{}
		var be *BatchError
		if errors.As(batch.Err(), &be) {
			failures = be.Failures
			if be.AllFailed() {
				writeError(w, http.StatusBadGateway, "all_failed", be, be.Failures)
				return
			}
		}

		out := intentsResponse{Intents: make([]intentResponse, 0, len(batch.Intents)), Failures: failures}
		for _, in := range batch.Intents {
			ir := intentResponse{
				FileName: in.FileName,
				State:    in.State,
				Key:      in.Key,
				URL:      in.URL,
				Fields:   in.Fields,
				Reason:   in.Reason,
			}
			if !in.ExpiresAt.IsZero() {
				t := in.ExpiresAt
				ir.ExpiresAt = &t
			}
			out.Intents = append(out.Intents, ir)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// processBatchHandler godoc
// @Summary Procesar un lote de fotos subidas
// @Description Publica cada foto como asset, pide el caption a la IA y crea la ficha. Los fallos por archivo vienen en `failures`; si ninguno se persiste responde 502. Solo admins.
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Debug-User-Email header string false "Solo en modo dev, email del usuario"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body processBatchRequest true "Datos del formulario e imágenes ya subidas"
// @Success 200 {object} batchResponse
// @Failure 400 {object} errorResponse "validación del formulario"
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 403 {object} errorResponse "forbidden"
// @Failure 502 {object} errorResponse "todos los archivos fallaron"
// @Failure 503 {object} errorResponse "CMS o IA sin configurar"
// @Router /admin/batch-upload [post]
func processBatchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processBatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", errors.New("invalid json"), nil)
			return
		}

		in := BatchInput{
			ContactDetails: req.ContactDetails,
			Address:        req.Address,
			AdditionalInfo: req.AdditionalInfo,
			Images:         make([]Image, 0, len(req.Images)),
		}
		for _, img := range req.Images {
			in.Images = append(in.Images, Image{
				URL:           img.URL,
				ContentType:   img.ContentType,
				ContentLength: img.ContentLength,
				FileName:      img.FileName,
			})
		}

		b, err := svc.Process(r.Context(), adminEmail(r), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := batchResponse{Batch: b, Failures: []Failure{}}
		var be *BatchError
		if errors.As(b.Err(), &be) {
			resp.Failures = be.Failures
			if be.AllFailed() {
				writeError(w, http.StatusBadGateway, "all_failed", be, be.Failures)
				return
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// historyHandler godoc
// @Summary Historial de lotes
// @Tags admin
// @Produce json
// @Param X-Debug-User-Email header string false "Solo en modo dev, email del usuario"
// @Param Authorization header string false "Bearer token en producción"
// @Param limit query int false "Máximo de lotes (1-100). Por defecto 20"
// @Success 200 {array} Batch
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 403 {object} errorResponse "forbidden"
// @Router /admin/batch-upload/history [get]
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_input", errors.New("limit must be an integer"), nil)
				return
			}
			limit = n
		}

		items, err := svc.History(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", errors.New("internal error"), nil)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func adminEmail(r *http.Request) string {
	claims, _ := middleware.GetClaims(r.Context())
	return claims.Email
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusForbidden, "forbidden", err, nil)
	case errors.Is(err, ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "not_configured", err, nil)
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err, nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal", errors.New("internal error"), nil)
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error, failures []Failure) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code, Failures: failures})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
