package pets

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes agrupa lo que necesita el read path público.
type Routes struct {
	Pets       *Service
	Filters    *Aggregator
	SiteConfig *SiteConfigService

	// PublicBaseURL es el origen del sitio usado en los links de share-search.
	PublicBaseURL string
}

func RegisterRoutes(r chi.Router, rt Routes) {
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/get-pets", getPetsHandler(rt.Pets))
		ar.Get("/filters", getFiltersHandler(rt.Filters))
		ar.Get("/site-config", getSiteConfigHandler(rt.SiteConfig))
		ar.Get("/share-search", shareSearchHandler(rt.PublicBaseURL))
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type filtersResponse struct {
	Filters   FilterUniverse   `json:"filters"`
	Labels    map[Field]string `json:"labels"`
	Total     int              `json:"total"`
	Truncated bool             `json:"truncated"`
}

type shareSearchResponse struct {
	URL string `json:"url"`
}

type petsPageResponse struct {
	PagedResult
	NextSkip *int `json:"next_skip,omitempty"`
}

// getPetsHandler godoc
// @Summary Buscar mascotas
// @Description Página del catálogo filtrada. Los filtros son repetibles (`?species=cachorro&species=gato`). Las respuestas se sirven desde cache mientras dure el TTL.
// @Tags pets
// @Produce json
// @Param species query []string false "Especies" collectionFormat(multi)
// @Param breed query []string false "Razas" collectionFormat(multi)
// @Param size query []string false "Portes" collectionFormat(multi)
// @Param gender query []string false "Sexos" collectionFormat(multi)
// @Param color query []string false "Colores" collectionFormat(multi)
// @Param searchTerm query string false "Texto libre"
// @Param skip query int false "Offset de paginación"
// @Success 200 {object} petsPageResponse
// @Failure 400 {object} errorResponse "skip inválido"
// @Failure 502 {object} errorResponse "error del CMS"
// @Failure 503 {object} errorResponse "CMS sin configurar"
// @Router /api/get-pets [get]
func getPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := ParseQuery(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", err)
			return
		}

		page, err := svc.Search(r.Context(), q)
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		resp := petsPageResponse{PagedResult: page}
		if next, ok := NextSkip(page); ok {
			resp.NextSkip = &next
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// getFiltersHandler godoc
// @Summary Valores de filtro disponibles
// @Description Valores distintos por atributo sobre todo el catálogo, ordenados. Si el catálogo supera el tope de páginas, `truncated` es true.
// @Tags pets
// @Produce json
// @Success 200 {object} filtersResponse
// @Failure 502 {object} errorResponse "error del CMS"
// @Failure 503 {object} errorResponse "CMS sin configurar"
// @Router /api/filters [get]
func getFiltersHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := agg.Summary(r.Context())
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, filtersResponse{
			Filters:   s.Filters.Sorted(),
			Labels:    FieldLabels,
			Total:     s.Total,
			Truncated: s.Truncated,
		})
	}
}

// getSiteConfigHandler godoc
// @Summary Configuración del sitio
// @Tags pets
// @Produce json
// @Success 200 {object} SiteConfig
// @Failure 502 {object} errorResponse "error del CMS"
// @Failure 503 {object} errorResponse "CMS sin configurar"
// @Router /api/site-config [get]
func getSiteConfigHandler(svc *SiteConfigService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.Get(r.Context())
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

// shareSearchHandler godoc
// @Summary Link para compartir la búsqueda
// @Description Solo se serializan los filtros (no el texto libre ni el offset).
// @Tags pets
// @Produce json
// @Param species query []string false "Especies" collectionFormat(multi)
// @Param breed query []string false "Razas" collectionFormat(multi)
// @Success 200 {object} shareSearchResponse
// @Router /api/share-search [get]
func shareSearchHandler(baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sel := ParseSelection(r.URL.Query())
		writeJSON(w, http.StatusOK, shareSearchResponse{URL: ShareURL(baseURL, sel)})
	}
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "not_configured", err)
	default:
		writeError(w, http.StatusBadGateway, "catalog_unavailable", errors.New("catalog unavailable"))
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
