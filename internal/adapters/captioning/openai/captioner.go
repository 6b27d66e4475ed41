package openai

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"pet-adoption/internal/domain/uploads"
	"pet-adoption/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("openai client not configured")
	ErrUpstream      = errors.New("openai upstream error")
	ErrBadCaption    = errors.New("caption does not match schema")
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"
	DefaultTimeout = 60 * time.Second
)

//go:embed caption.schema.json
var captionSchemaJSON string

var captionSchema = jsonschema.MustCompileString("caption.schema.json", captionSchemaJSON)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// Transport opcional (tests).
	Transport http.RoundTripper
}

func (c Config) IsConfigured() bool { return strings.TrimSpace(c.APIKey) != "" }

// Captioner describe una foto con chat completions y valida el JSON devuelto.
// Implementa uploads.Captioner.
type Captioner struct {
	model string
	http  *httpclient.Client
}

func New(cfg Config) (*Captioner, error) {
	if !cfg.IsConfigured() {
		return nil, ErrNotConfigured
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc, err := httpclient.NewWithTransport(timeout, cfg.Transport).WithBaseURL(base, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	return &Captioner{model: model, http: hc}, nil
}

func (c *Captioner) Caption(ctx context.Context, imageURL string) (uploads.Caption, error) {
	var resp chatResponse
	err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/chat/completions",
		Body:   c.request(imageURL),
	}, &resp)
	if err != nil {
		if code := httpclient.StatusCode(err); code != 0 {
			return uploads.Caption{}, fmt.Errorf("%w: status=%d", ErrUpstream, code)
		}
		return uploads.Caption{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return uploads.Caption{}, fmt.Errorf("%w: empty choices", ErrUpstream)
	}
	return parseCaption(resp.Choices[0].Message.Content)
}

func parseCaption(content string) (uploads.Caption, error) {
	content = strings.TrimSpace(content)
	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return uploads.Caption{}, fmt.Errorf("%w: not json: %w", ErrBadCaption, err)
	}
	if err := captionSchema.Validate(v); err != nil {
		return uploads.Caption{}, fmt.Errorf("%w: %w", ErrBadCaption, err)
	}
	var out uploads.Caption
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return uploads.Caption{}, fmt.Errorf("%w: %w", ErrBadCaption, err)
	}
	return out, nil
}
