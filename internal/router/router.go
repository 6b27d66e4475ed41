package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-adoption/docs"
	memcache "pet-adoption/internal/adapters/cache/memory"
	mem "pet-adoption/internal/adapters/storage/memory"
	pg "pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/session"
	"pet-adoption/internal/domain/uploads"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/ports/auth"
	"pet-adoption/internal/ports/cache"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Logger       logger.Logger
	Metrics      *metrics.Metrics

	// Catálogo (lectura). Sin Catalog o SiteConfig las rutas responden 503.
	Catalog    pets.Catalog
	SiteConfig pets.SiteConfigSource

	// Opcional: si viene, KV remoto. Si no, cache in-memory.
	Cache         cache.Cache
	PetsTTL       time.Duration
	FiltersTTL    time.Duration
	SiteConfigTTL time.Duration
	MaxPages      int

	PublicBaseURL string
	CORSOrigins   []string

	// Pipeline de carga. Los colaboradores nil dejan /admin en 503.
	Uploads   uploads.Config
	Presigner uploads.Presigner
	Assets    uploads.AssetPublisher
	Captioner uploads.Captioner
	Entries   uploads.EntryCreator

	// Opcional: si viene, el historial va a Postgres. Si no, in-memory.
	DB *sql.DB

	Login session.PasswordAuthenticator
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(opts.CORSOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.TraceHeader},
		ExposedHeaders: []string{middleware.TraceHeader},
		MaxAge:         300,
	}))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	c := opts.Cache
	if c == nil {
		c = memcache.New(10 * time.Minute)
	}

	var uploadsRepo uploads.Repository
	if opts.DB != nil {
		uploadsRepo = pg.NewUploadsRepo(opts.DB)
	} else {
		uploadsRepo = mem.NewUploadsRepo()
	}

	// Services por módulo
	petsOpts := func(ttl time.Duration) pets.Options {
		return pets.Options{TTL: ttl, Logger: log, Metrics: opts.Metrics}
	}
	petsSvc := pets.NewService(opts.Catalog, c, petsOpts(opts.PetsTTL))
	filtersSvc := pets.NewAggregator(petsSvc, c, opts.MaxPages, petsOpts(opts.FiltersTTL))
	siteSvc := pets.NewSiteConfigService(opts.SiteConfig, c, petsOpts(opts.SiteConfigTTL))

	uploadsSvc := uploads.NewService(opts.Uploads, uploads.Deps{
		Presigner: opts.Presigner,
		Assets:    opts.Assets,
		Captioner: opts.Captioner,
		Entries:   opts.Entries,
		Repo:      uploadsRepo,
		Logger:    log,
		Metrics:   opts.Metrics,
	})
	sessionSvc := session.NewService(opts.Login)

	// Rutas por módulo
	pets.RegisterRoutes(r, pets.Routes{
		Pets:          petsSvc,
		Filters:       filtersSvc,
		SiteConfig:    siteSvc,
		PublicBaseURL: opts.PublicBaseURL,
	})
	session.RegisterRoutes(r, sessionSvc)
	r.Group(func(ar chi.Router) {
		ar.Use(middleware.RequireAdmin(uploadsSvc))
		uploads.RegisterRoutes(ar, uploadsSvc)
	})

	return r
}

func corsOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{"*"}
	}
	return in
}
