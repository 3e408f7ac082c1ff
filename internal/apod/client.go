package apod

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DeafMist/apod-edge/internal/logger"
	"github.com/DeafMist/apod-edge/internal/processing"
)

// ErrUpstreamUnavailable wraps every failure to obtain a body from the upstream.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

const maxBodyBytes = 4 << 20

// Config describes how to reach the upstream.
type Config struct {
	BaseURL          string
	Path             string
	Backend          string
	CredentialHeader string
	UserAgent        string
	Timeout          time.Duration
	// Transport overrides http.DefaultTransport; used by tests.
	Transport http.RoundTripper
}

// Query carries the per-request inputs of one upstream call.
type Query struct {
	APIKey     string
	Credential string
	Window     processing.DateWindow
	RequestID  string
}

// Result is a fully read upstream response plus the instants the request was
// sent and the body was received.
type Result struct {
	Status   int
	Body     []byte
	Started  time.Time
	Finished time.Time
}

// Elapsed is the time between sending the request and reading the whole body.
func (r *Result) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Client calls the picture-of-the-day feed endpoint.
type Client struct {
	httpClient       *http.Client
	endpoint         *url.URL
	backend          string
	credentialHeader string
	userAgent        string
	log              *slog.Logger
}

// New instantiates the upstream client.
func New(cfg Config, log *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream base url %q must be absolute", cfg.BaseURL)
	}
	if strings.TrimSpace(cfg.CredentialHeader) == "" {
		return nil, errors.New("upstream credential header is required")
	}

	if log == nil {
		log = logger.Discard()
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		httpClient:       &http.Client{Timeout: cfg.Timeout, Transport: transport},
		endpoint:         base.JoinPath(cfg.Path),
		backend:          cfg.Backend,
		credentialHeader: cfg.CredentialHeader,
		userAgent:        cfg.UserAgent,
		log:              log,
	}, nil
}

// Backend returns the name the upstream is known by in logs and metrics.
func (c *Client) Backend() string {
	return c.backend
}

// Fetch requests the feed for the query's date window. The request is never
// served from or stored in a shared cache.
func (c *Client) Fetch(ctx context.Context, q Query) (*Result, error) {
	u := *c.endpoint
	params := url.Values{}
	params.Set("api_key", q.APIKey)
	params.Set("start_date", q.Window.StartDate())
	params.Set("end_date", q.Window.EndDate())
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	requestID := q.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	req.Header.Set(c.credentialHeader, q.Credential)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	started := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error repeats the URL, which carries the api key.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, c.backend, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	finished := time.Now()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %w", ErrUpstreamUnavailable, c.backend, err)
	}

	c.log.Debug("upstream responded",
		slog.String("backend", c.backend),
		slog.Int("status", res.StatusCode),
		slog.String("request_id", requestID),
		slog.Duration("elapsed", finished.Sub(started)),
	)

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s responded %s: %s",
			ErrUpstreamUnavailable, c.backend, res.Status, snippet(body))
	}

	return &Result{
		Status:   res.StatusCode,
		Body:     body,
		Started:  started,
		Finished: finished,
	}, nil
}

// IsTimeout reports whether err came from a deadline rather than a refused or
// broken connection.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func snippet(body []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return processing.HeaderValue(s)
}
