// Package client is the consumer side of the metrics API: every request runs
// under a timeout and is retried with a linearly growing delay.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mauv0809/finmetrics/internal/models"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultMinLoadDelay = 300 * time.Millisecond
)

// ErrTimeout is returned (wrapped) when a request does not finish within the client timeout.
var ErrTimeout = errors.New("request timed out")

// APIError is a failed API call: a non-2xx status or a body with success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client calls the metrics API.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	timeout      time.Duration
	retry        RetryPolicy
	minLoadDelay time.Duration
	log          *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetryPolicy sets the retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithMinLoadDelay sets the minimum duration of LoadOptions. Zero disables it.
func WithMinLoadDelay(d time.Duration) Option {
	return func(c *Client) { c.minLoadDelay = d }
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{},
		timeout:      DefaultTimeout,
		retry:        DefaultRetryPolicy(),
		minLoadDelay: DefaultMinLoadDelay,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = c.logRetry
	}
	return c
}

func (c *Client) logRetry(attempt int, delay time.Duration, err error) {
	c.log.Warn("retrying request",
		zap.Int("attempt", attempt),
		zap.Duration("delay", delay),
		zap.Error(err),
	)
}

// envelope holds the fields every API response may carry.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// FetchJSON performs a single GET of path and decodes the body into out.
// The request is cancelled once the client timeout elapses.
func (c *Client) FetchJSON(ctx context.Context, path string, query url.Values, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u, nil)
	if err != nil {
		return eris.Wrap(err, "client: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.requestError(ctx, reqCtx, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.requestError(ctx, reqCtx, path, err)
	}

	var env envelope
	_ = json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if env.Success != nil && !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request was not successful"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrapf(err, "client: decode %s", path)
	}
	return nil
}

// requestError tells a client-side timeout apart from cancellation by the caller.
func (c *Client) requestError(parent, reqCtx context.Context, path string, err error) error {
	if parent.Err() != nil {
		return eris.Wrapf(parent.Err(), "client: GET %s", path)
	}
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return eris.Wrapf(ErrTimeout, "client: GET %s after %s", path, c.timeout)
	}
	return eris.Wrapf(err, "client: GET %s", path)
}

// Companies lists company names.
func (c *Client) Companies(ctx context.Context) ([]string, error) {
	resp, err := WithRetry(ctx, c.retry, func(ctx context.Context) (models.CompaniesResponse, error) {
		var out models.CompaniesResponse
		err := c.FetchJSON(ctx, "/api/companies", nil, &out)
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return resp.Companies, nil
}

// Metrics lists metric names.
func (c *Client) Metrics(ctx context.Context) ([]string, error) {
	resp, err := WithRetry(ctx, c.retry, func(ctx context.Context) (models.MetricsResponse, error) {
		var out models.MetricsResponse
		err := c.FetchJSON(ctx, "/api/metrics", nil, &out)
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return resp.Metrics, nil
}

// Data fetches the series for one company and metric.
func (c *Client) Data(ctx context.Context, company, metric string) (*models.DataResponse, error) {
	q := url.Values{}
	q.Set("company", company)
	q.Set("metric", metric)

	return WithRetry(ctx, c.retry, func(ctx context.Context) (*models.DataResponse, error) {
		var out models.DataResponse
		if err := c.FetchJSON(ctx, "/api/data", q, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Options is what a user can pick from.
type Options struct {
	Companies []string
	Metrics   []string
}

// LoadOptions fetches companies and metrics in parallel. It takes at least the
// configured minimum load delay so that loading states do not flicker.
func (c *Client) LoadOptions(ctx context.Context) (Options, error) {
	var opts Options
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		companies, err := c.Companies(gctx)
		opts.Companies = companies
		return err
	})
	g.Go(func() error {
		metrics, err := c.Metrics(gctx)
		opts.Metrics = metrics
		return err
	})
	if c.minLoadDelay > 0 {
		g.Go(func() error {
			timer := time.NewTimer(c.minLoadDelay)
			defer timer.Stop()
			select {
			case <-gctx.Done():
			case <-timer.C:
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
