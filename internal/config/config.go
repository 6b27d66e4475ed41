package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var ErrMissing = errors.New("missing required configuration")

type (
	Config struct {
		Port          string   `env:"PORT" envDefault:"8080"`
		AppName       string   `env:"APP_NAME" envDefault:"pet-adoption"`
		PublicBaseURL string   `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:3000"`
		CORSOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
		DBDSN         string   `env:"DB_DSN"`

		Log        LogConfig        `envPrefix:"LOG_"`
		Fluent     FluentConfig     `envPrefix:"FLUENT_"`
		Contentful ContentfulConfig `envPrefix:"CONTENTFUL_"`
		KV         KVConfig         `envPrefix:"KV_REST_API_"`
		S3         S3Config
		OpenAI     OpenAIConfig
		OIDC       OIDCConfig `envPrefix:"OIDC_"`
		Cache      CacheConfig
		Upload     UploadConfig `envPrefix:"UPLOAD_"`

		AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`
		// AuthDevMode habilita X-Debug-User-Email cuando no hay OIDC. Solo local.
		AuthDevMode bool     `env:"AUTH_DEV_MODE" envDefault:"false"`
	}

	LogConfig struct {
		Level  string `env:"LEVEL" envDefault:"info"`
		Format string `env:"FORMAT" envDefault:"text"`
	}

	FluentConfig struct {
		Enabled bool   `env:"ENABLED" envDefault:"false"`
		Host    string `env:"HOST" envDefault:"localhost"`
		Port    int    `env:"PORT" envDefault:"24224"`
	}

	ContentfulConfig struct {
		SpaceID          string        `env:"SPACE_ID"`
		DeliveryAPIKey   string        `env:"DELIVERY_API_KEY"`
		ManagementAPIKey string        `env:"MANAGEMENT_API_KEY"`
		Environment      string        `env:"ENVIRONMENT" envDefault:"master"`
		Locale           string        `env:"LOCALE" envDefault:"en-US"`
		CDNURL           string        `env:"CDN_URL"`
		CMAURL           string        `env:"CMA_URL"`
		Timeout          time.Duration `env:"TIMEOUT" envDefault:"10s"`
	}

	KVConfig struct {
		URL   string `env:"URL"`
		Token string `env:"TOKEN"`
	}

	S3Config struct {
		Bucket    string `env:"AWS_BUCKET_NAME"`
		Region    string `env:"AWS_REGION" envDefault:"us-east-1"`
		AccessKey string `env:"AWS_ACCESS_KEY_ID"`
		SecretKey string `env:"AWS_SECRET_ACCESS_KEY"`
		Endpoint  string `env:"S3_ENDPOINT"`
	}

	OpenAIConfig struct {
		APIKey  string `env:"OPEN_AI_API_KEY"`
		BaseURL string `env:"OPENAI_BASE_URL"`
		Model   string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	}

	OIDCConfig struct {
		IssuerURL    string `env:"ISSUER_URL"`
		ClientID     string `env:"CLIENT_ID"`
		ClientSecret string `env:"CLIENT_SECRET"`
	}

	CacheConfig struct {
		PetsTTL       time.Duration `env:"PETS_CACHE_TTL" envDefault:"3h"`
		FiltersTTL    time.Duration `env:"FILTERS_CACHE_TTL" envDefault:"3h"`
		SiteConfigTTL time.Duration `env:"SITE_CONFIG_CACHE_TTL" envDefault:"30m"`
		MaxPages      int           `env:"AGGREGATE_MAX_PAGES" envDefault:"20"`
	}

	UploadConfig struct {
		BatchWidth int           `env:"BATCH_WIDTH" envDefault:"5"`
		MaxBytes   int64         `env:"MAX_BYTES" envDefault:"10485760"`
		IntentTTL  time.Duration `env:"INTENT_TTL" envDefault:"15m"`
	}
)

// Load lee un .env opcional y luego el entorno del proceso.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom parsea solo el mapa dado, sin tocar el entorno del proceso.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg.AdminEmails = compact(cfg.AdminEmails)
	cfg.CORSOrigins = compact(cfg.CORSOrigins)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate corta el arranque sin catálogo. El resto de las integraciones es opcional.
func (c Config) validate() error {
	var missing []string
	if strings.TrimSpace(c.Contentful.SpaceID) == "" {
		missing = append(missing, "CONTENTFUL_SPACE_ID")
	}
	if strings.TrimSpace(c.Contentful.DeliveryAPIKey) == "" {
		missing = append(missing, "CONTENTFUL_DELIVERY_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	if c.Cache.MaxPages <= 0 {
		return fmt.Errorf("AGGREGATE_MAX_PAGES must be positive, got %d", c.Cache.MaxPages)
	}
	return nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Addr es la dirección de escucha del server HTTP.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}
