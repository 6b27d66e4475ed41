package contentful

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNotConfigured = errors.New("contentful client not configured")
	ErrUnauthorized  = errors.New("contentful unauthorized")
	ErrUpstream      = errors.New("contentful upstream error")
	ErrNotProcessed  = errors.New("contentful asset not processed")
)

const (
	DefaultCDNURL      = "https://cdn.contentful.com"
	DefaultCMAURL      = "https://api.contentful.com"
	DefaultEnvironment = "master"
	DefaultLocale      = "en-US"

	contentTypeCMA = "application/vnd.contentful.management.v1+json"
)

type Config struct {
	SpaceID     string
	Environment string
	Locale      string

	DeliveryToken   string
	ManagementToken string

	CDNURL string
	CMAURL string

	Timeout time.Duration
	// Transport opcional (tests).
	Transport http.RoundTripper

	// Espera entre consultas mientras el asset se procesa.
	PollInterval time.Duration
	PollAttempts int
}

func (c Config) withDefaults() Config {
	c.SpaceID = strings.TrimSpace(c.SpaceID)
	if strings.TrimSpace(c.Environment) == "" {
		c.Environment = DefaultEnvironment
	}
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = DefaultLocale
	}
	if strings.TrimSpace(c.CDNURL) == "" {
		c.CDNURL = DefaultCDNURL
	}
	if strings.TrimSpace(c.CMAURL) == "" {
		c.CMAURL = DefaultCMAURL
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.PollAttempts <= 0 {
		c.PollAttempts = 30
	}
	return c
}

func (c Config) DeliveryConfigured() bool {
	return strings.TrimSpace(c.SpaceID) != "" && strings.TrimSpace(c.DeliveryToken) != ""
}

func (c Config) ManagementConfigured() bool {
	return strings.TrimSpace(c.SpaceID) != "" && strings.TrimSpace(c.ManagementToken) != ""
}

func (c Config) envPath(suffix string) string {
	return "/spaces/" + c.SpaceID + "/environments/" + c.Environment + suffix
}
