// @title Adote um Pet API
// @version 1.0
// @description Catálogo de pets para adoção (lectura cacheada) y carga de fotos por lote para admins.
// @BasePath /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-adoption/internal/adapters/auth/oidc"
	"pet-adoption/internal/adapters/cache/kv"
	"pet-adoption/internal/adapters/captioning/openai"
	"pet-adoption/internal/adapters/contentful"
	"pet-adoption/internal/adapters/objectstore/s3"
	pg "pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/config"
	"pet-adoption/internal/domain/uploads"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).Error("config error", logger.Fields{"error": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.AppName,
	})
	if cfg.Fluent.Enabled {
		fl, client, err := logger.NewFluent(logger.FluentConfig{
			Host:      cfg.Fluent.Host,
			Port:      cfg.Fluent.Port,
			TagPrefix: cfg.AppName,
			Level:     logger.ParseLevel(cfg.Log.Level),
		})
		if err != nil {
			log.Warn("fluent disabled", logger.Fields{"error": err})
		} else {
			defer client.Close()
			log = logger.Multi(log, fl)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, cleanup, err := buildOptions(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", logger.Fields{"error": err})
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2 * time.Minute, // el POST de lote espera a la IA y al CMS
	}

	go func() {
		log.Info("starting server", logger.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", logger.Fields{"error": err})
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", logger.Fields{"error": err})
	}
	log.Info("server stopped", nil)
}

// buildOptions arma los adapters. Solo el catálogo es obligatorio; el resto se
// omite con un warning y deja sus rutas en 503.
func buildOptions(ctx context.Context, cfg config.Config, log logger.Logger) (router.Options, func(), error) {
	cleanup := func() {}
	opts := router.Options{
		Logger:        log,
		Metrics:       metrics.New(),
		PetsTTL:       cfg.Cache.PetsTTL,
		FiltersTTL:    cfg.Cache.FiltersTTL,
		SiteConfigTTL: cfg.Cache.SiteConfigTTL,
		MaxPages:      cfg.Cache.MaxPages,
		PublicBaseURL: cfg.PublicBaseURL,
		CORSOrigins:   cfg.CORSOrigins,
		Uploads: uploads.Config{
			AdminEmails: cfg.AdminEmails,
			MaxBytes:    cfg.Upload.MaxBytes,
			IntentTTL:   cfg.Upload.IntentTTL,
			BatchWidth:  cfg.Upload.BatchWidth,
		},
	}

	cf := contentful.Config{
		SpaceID:         cfg.Contentful.SpaceID,
		Environment:     cfg.Contentful.Environment,
		Locale:          cfg.Contentful.Locale,
		DeliveryToken:   cfg.Contentful.DeliveryAPIKey,
		ManagementToken: cfg.Contentful.ManagementAPIKey,
		CDNURL:          cfg.Contentful.CDNURL,
		CMAURL:          cfg.Contentful.CMAURL,
		Timeout:         cfg.Contentful.Timeout,
	}
	delivery, err := contentful.NewDeliveryClient(cf)
	if err != nil {
		return router.Options{}, cleanup, err
	}
	opts.Catalog = delivery
	opts.SiteConfig = delivery

	if mc, err := contentful.NewManagementClient(cf); err != nil {
		log.Warn("contentful management disabled", logger.Fields{"error": err})
	} else {
		opts.Assets = mc
		opts.Entries = mc
	}

	if c, err := kv.New(kv.Config{URL: cfg.KV.URL, Token: cfg.KV.Token}); err != nil {
		log.Warn("kv cache disabled, using in-memory cache", logger.Fields{"error": err})
	} else {
		opts.Cache = c
	}

	if p, err := s3.New(s3.Config{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Endpoint:  cfg.S3.Endpoint,
	}); err != nil {
		log.Warn("object storage disabled", logger.Fields{"error": err})
	} else {
		opts.Presigner = p
	}

	if c, err := openai.New(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	}); err != nil {
		log.Warn("captioning disabled", logger.Fields{"error": err})
	} else {
		opts.Captioner = c
	}

	if c, err := oidc.NewClient(ctx, oidc.Config{
		IssuerURL:    cfg.OIDC.IssuerURL,
		ClientID:     cfg.OIDC.ClientID,
		ClientSecret: cfg.OIDC.ClientSecret,
	}); err != nil {
		if cfg.AuthDevMode {
			// sin verifier el middleware acepta los headers X-Debug-*
			log.Warn("oidc disabled, dev auth headers enabled", logger.Fields{"error": err})
		} else {
			log.Warn("oidc disabled, admin routes locked", logger.Fields{"error": err})
			opts.AuthVerifier = oidc.NewVerifier(nil)
		}
	} else {
		opts.AuthVerifier = oidc.NewVerifier(c)
		opts.Login = c
	}

	if cfg.DBDSN != "" {
		db, err := pg.Open(ctx, cfg.DBDSN)
		if err != nil {
			return router.Options{}, cleanup, err
		}
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return router.Options{}, cleanup, err
		}
		opts.DB = db
		cleanup = func() { _ = db.Close() }
	}

	return opts, cleanup, nil
}
