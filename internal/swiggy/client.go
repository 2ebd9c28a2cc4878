// Package swiggy talks to the delivery platform: the phone/OTP login that
// yields a session token, and the paginated order-history endpoint.
package swiggy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/foodspend/internal/models"
)

const (
	DefaultBaseURL  = "https://www.swiggy.com"
	DefaultMaxPages = 300

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	sessionCookie    = "_session_tid"
	wafActionHeader  = "X-Amzn-Waf-Action"
	maxBodyBytes     = 32 << 20
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	maxPages   int
	logger     logrus.FieldLogger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxPages caps the number of order-history pages fetched per call.
func WithMaxPages(n int) Option {
	return func(c *Client) { c.maxPages = n }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  defaultUserAgent,
		maxPages:   DefaultMaxPages,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxPages <= 0 {
		c.maxPages = DefaultMaxPages
	}
	return c
}

// NewClientFromConfig builds a client from the swiggy section of the config.
func NewClientFromConfig(cfg models.SwiggyConfig, logger logrus.FieldLogger) *Client {
	opts := []Option{WithLogger(logger), WithMaxPages(cfg.MaxPages)}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	return NewClient(opts...)
}

// FormatCookie turns a session token into a Cookie header value. A full
// cookie string (anything containing "=") is used as is; a bare token is
// sent as the session cookie.
func FormatCookie(token string) string {
	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, "=") {
		return token
	}
	return sessionCookie + "=" + token
}

// response is a fully read upstream response.
type response struct {
	status int
	header http.Header
	body   []byte
	raw    *http.Response
}

// blocked reports whether the platform's web application firewall answered
// with a bot challenge instead of data.
func (r *response) blocked() bool {
	return strings.EqualFold(r.header.Get(wafActionHeader), "challenge") ||
		(r.status == http.StatusAccepted && len(bytes.TrimSpace(r.body)) == 0)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, cookie string) (*response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Origin", DefaultBaseURL)
	req.Header.Set("Referer", DefaultBaseURL+"/")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &UpstreamError{Kind: ErrNetwork, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("failed to close response body")
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &UpstreamError{Kind: ErrNetwork, Status: resp.StatusCode, Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"method":  method,
		"path":    req.URL.Path,
		"status":  resp.StatusCode,
		"bytes":   len(b),
		"elapsed": time.Since(start),
	}).Debug("upstream request")

	return &response{status: resp.StatusCode, header: resp.Header, body: b, raw: resp}, nil
}
