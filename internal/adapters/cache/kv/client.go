package kv

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-adoption/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("kv not configured")
	ErrKV            = errors.New("kv error")
)

// Config para el KV hosteado con API REST (formato comando: ["SET", k, v, "EX", n]).
type Config struct {
	URL   string
	Token string

	Timeout time.Duration
	// Transport opcional (tests).
	Transport http.RoundTripper
}

func (c Config) IsConfigured() bool {
	return strings.TrimSpace(c.URL) != "" && strings.TrimSpace(c.Token) != ""
}

// Client implementa cache.Cache contra el KV.
type Client struct {
	http *httpclient.Client
}

func New(cfg Config) (*Client, error) {
	if !cfg.IsConfigured() {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithTransport(cfg.Timeout, cfg.Transport).WithBaseURL(cfg.URL, cfg.Token)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

type commandResponse struct {
	Result any    `json:"result"`
	Error  string `json:"error"`
}

func (c *Client) command(ctx context.Context, args ...any) (any, error) {
	var out commandResponse
	if err := c.http.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/", Body: args}, &out); err != nil {
		if code := httpclient.StatusCode(err); code != 0 {
			return nil, fmt.Errorf("%w: %s: status=%d", ErrKV, args[0], code)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrKV, args[0], err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s: %s", ErrKV, args[0], out.Error)
	}
	return out.Result, nil
}

// Get devuelve found=false si la clave no existe (result null).
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := c.command(ctx, "GET", key)
	if err != nil {
		return nil, false, err
	}
	switch v := res.(type) {
	case nil:
		return nil, false, nil
	case string:
		return []byte(v), true, nil
	default:
		return nil, false, fmt.Errorf("%w: GET: unexpected result type %T", ErrKV, res)
	}
}

// Set guarda con expiración en segundos (redondeo hacia arriba, mínimo 1).
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := []any{"SET", key, string(value)}
	if ttl > 0 {
		secs := int64(math.Ceil(ttl.Seconds()))
		args = append(args, "EX", strconv.FormatInt(max(secs, 1), 10))
	}
	_, err := c.command(ctx, args...)
	return err
}
