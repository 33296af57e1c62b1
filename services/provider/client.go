package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

var (
	// ErrUnauthorized is returned when the provider rejects the caller's key.
	ErrUnauthorized = errors.New("provider rejected api key")
	// ErrNotFound is returned for unknown titles or records.
	ErrNotFound = errors.New("not found at provider")
)

const (
	apiKeyHeader = "X-Subs-Api-Key"

	defaultUserAgent      = "subresolver"
	defaultTimeout        = 30 * time.Second
	defaultRetries        = 3
	defaultBackoff        = 500 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
	defaultRateLimit      = 2
	defaultRateLimitBurst = 4

	maxArchiveBytes = 20 << 20
	maxPageBytes    = 4 << 20
)

// Options configures a provider client.
type Options struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	Timeout           time.Duration
	Backoff           time.Duration
}

func normalizeOptions(opts Options) Options {
	opts.BaseURL = strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRateLimit
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultRateLimitBurst
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultRetries
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	return opts
}

// Client talks to the subtitle provider on behalf of one caller key. Every
// request goes through the caller's own rate limiter.
type Client struct {
	apiKey     string
	baseURL    string
	baseHost   string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries uint
	backoff    time.Duration

	// requests waiting on the limiter or in flight
	queued atomic.Int64
}

// NewClient builds a client for apiKey. httpClient may be nil.
func NewClient(apiKey string, opts Options, httpClient *http.Client) *Client {
	opts = normalizeOptions(opts)
	if httpClient == nil {
		httpClient = newHTTPClient(opts.Timeout)
	}
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    opts.BaseURL,
		baseHost:   hostOf(opts.BaseURL),
		userAgent:  opts.UserAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		maxRetries: uint(opts.MaxRetries),
		backoff:    opts.Backoff,
	}
}

// QueueDepth is the number of this caller's requests currently waiting or running.
func (c *Client) QueueDepth() int {
	return int(c.queued.Load())
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// get performs a rate-limited GET with retries and returns at most limit body bytes.
func (c *Client) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	c.queued.Add(1)
	defer c.queued.Add(-1)

	return retry.DoWithData(
		func() ([]byte, error) {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, retry.Unrecoverable(err)
			}
			return c.doGet(ctx, rawURL, limit)
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetries),
		retry.Delay(c.backoff),
		retry.MaxDelay(defaultMaxBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func (c *Client) doGet(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	// Record links come from upstream data and may point anywhere.
	if c.apiKey != "" && c.baseHost != "" && hostOf(rawURL) == c.baseHost {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", redactURL(rawURL), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, retry.Unrecoverable(ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return nil, retry.Unrecoverable(ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))
		return nil, fmt.Errorf("GET %s: status %d", redactURL(rawURL), resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, retry.Unrecoverable(fmt.Errorf("GET %s: status %d", redactURL(rawURL), resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", redactURL(rawURL), err)
	}
	if int64(len(body)) > limit {
		return nil, retry.Unrecoverable(fmt.Errorf("GET %s: body exceeds %d bytes", redactURL(rawURL), limit))
	}
	return body, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// newHTTPClient drops the api key when a redirect leaves the provider host.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			if !strings.EqualFold(req.URL.Host, via[0].URL.Host) {
				req.Header.Del(apiKeyHeader)
			}
			return nil
		},
	}
}

// redactURL drops the query string so credentials never reach the logs.
func redactURL(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}
