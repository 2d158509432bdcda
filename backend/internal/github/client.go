// Package github talks to the GitHub REST API: single authenticated GETs and
// Link-header pagination over the followers/following endpoints.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ifatinha/ghost-following/backend/internal/constants"
	apperrors "github.com/ifatinha/ghost-following/backend/pkg/errors"
)

// Response is the raw result of one successful GET
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client issues GitHub API requests with an optional token
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	baseURL    string
	baseHost   string
	token      string
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient uses hc's transport and settings. The client is copied, so
// the per-request timeout never leaks back into hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the client's logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the API at baseURL. An empty token means
// unauthenticated requests.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		timeout:    constants.RequestTimeout,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	hc := *c.httpClient
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = &hc

	if u, err := url.Parse(c.baseURL); err == nil {
		c.baseHost = u.Host
	}
	return c
}

// sendsToken reports whether the token may go to rawURL. Like net/http on
// redirects, credentials stay on the API host.
func (c *Client) sendsToken(rawURL string) bool {
	if c.token == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	return err == nil && u.Host == c.baseHost
}

// Fetch performs one GET against rawURL. Non-2xx answers come back as
// *errors.HTTPError and are never retried. The token is only attached when
// rawURL is on the API host.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", constants.UserAgent)
	authenticated := c.sendsToken(rawURL)
	if authenticated {
		req.Header.Set("Authorization", "token "+c.token)
	} else if c.token != "" {
		c.logger.Warn("Dropping credential for foreign host", zap.String("url", rawURL))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", rawURL, err)
	}

	c.logger.Debug("GitHub request",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Bool("authenticated", authenticated),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewHTTPError(rawURL, resp.StatusCode, body)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
