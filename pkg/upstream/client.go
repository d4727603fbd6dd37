// Package upstream is the shared outbound HTTP layer for the media normalizers.
// Every call goes through a per-upstream circuit breaker and is recorded in metrics.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/theta/pkg/config"
	pkgerrors "github.com/angelmondragon/theta/pkg/errors"
	"github.com/angelmondragon/theta/pkg/logger"
	"github.com/angelmondragon/theta/pkg/metrics"
	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	maxBodyBytes   int64 = 16 << 20
	errorBodyLimit       = 512
	halfOpenProbes       = 3
)

// Response is a fully read upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Snippet returns a bounded prefix of the body for diagnostics.
func (r *Response) Snippet() string {
	if r == nil {
		return ""
	}
	body := r.Body
	if len(body) > errorBodyLimit {
		body = body[:errorBodyLimit]
	}
	return strings.TrimSpace(string(body))
}

// serverStatusError marks responses the breaker should count as failures.
type serverStatusError struct {
	status int
}

func (e serverStatusError) Error() string {
	return fmt.Sprintf("upstream status %d", e.status)
}

// callerGoneError marks a request abandoned by its own context; the breaker ignores it.
type callerGoneError struct {
	err error
}

func (e callerGoneError) Error() string {
	return e.err.Error()
}

func (e callerGoneError) Unwrap() error {
	return e.err
}

// Client executes requests for one named upstream.
type Client struct {
	name       string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Response]
	metrics    *metrics.UpstreamMetrics
	logg       *logger.Logger
	now        func() time.Time
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMetrics attaches upstream metrics.
func WithMetrics(m *metrics.UpstreamMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger attaches a logger for breaker transitions.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

// New builds a breaker-protected client named after its upstream.
func New(name string, cfg config.UpstreamConfig, opts ...Option) *Client {
	c := &Client{
		name:       name,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logg:       logger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	minRequests := cfg.BreakerMinRequests
	ratio := cfg.BreakerFailureRatio
	c.breaker = gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: halfOpenProbes,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			ctx := c.logg.WithFields(context.Background(), map[string]any{
				"upstream": name,
				"from":     from.String(),
				"to":       to.String(),
			})
			c.logg.Warn(ctx, "upstream.breaker.transition")
			c.metrics.SetBreakerState(name, stateValue(to))
			c.metrics.IncBreakerTransition(name, from.String(), to.String())
		},
		IsExcluded: func(err error) bool {
			var gone callerGoneError
			return errors.As(err, &gone)
		},
	})
	c.metrics.SetBreakerState(name, stateValue(gobreaker.StateClosed))
	return c
}

// Name returns the upstream label.
func (c *Client) Name() string {
	return c.name
}

// Do executes req through the circuit breaker and reads the whole body.
// Transport failures and an open breaker are returned as CodeUpstream errors; any
// HTTP status is returned as a Response for the caller to interpret.
func (c *Client) Do(req *http.Request) (*Response, error) {
	start := c.now()
	resp, err := c.breaker.Execute(func() (*Response, error) {
		return c.roundTrip(req)
	})

	var (
		statusErr serverStatusError
		gone      callerGoneError
	)
	switch {
	case err == nil:
		c.metrics.ObserveRequest(c.name, outcomeFor(resp), c.now().Sub(start))
		return resp, nil
	case errors.As(err, &statusErr):
		c.metrics.ObserveRequest(c.name, metrics.OutcomeStatus, c.now().Sub(start))
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.metrics.ObserveRequest(c.name, metrics.OutcomeRejected, c.now().Sub(start))
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, c.name+" temporarily unavailable")
	case errors.As(err, &gone):
		c.metrics.ObserveRequest(c.name, metrics.OutcomeCanceled, c.now().Sub(start))
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, gone.err, c.name+" request abandoned")
	default:
		c.metrics.ObserveRequest(c.name, metrics.OutcomeTransport, c.now().Sub(start))
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, c.name+" request failed")
	}
}

func (c *Client) roundTrip(req *http.Request) (*Response, error) {
	raw, err := c.httpClient.Do(req)
	if err != nil {
		return nil, callerErr(req, err)
	}
	defer func() { _ = raw.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(raw.Body, maxBodyBytes))
	if err != nil {
		return nil, callerErr(req, fmt.Errorf("read body: %w", err))
	}
	resp := &Response{StatusCode: raw.StatusCode, Header: raw.Header, Body: body}
	if raw.StatusCode >= http.StatusInternalServerError || raw.StatusCode == http.StatusTooManyRequests {
		return resp, serverStatusError{status: raw.StatusCode}
	}
	return resp, nil
}

// callerErr tags err when the request's own context has ended.
func callerErr(req *http.Request, err error) error {
	if req.Context().Err() != nil {
		return callerGoneError{err: err}
	}
	return err
}

// StatusError converts a non-2xx response into a CodeUpstream error carrying the status.
func StatusError(name string, resp *Response) error {
	return pkgerrors.New(pkgerrors.CodeUpstream, fmt.Sprintf("%s returned status %d", name, resp.StatusCode)).
		WithDetails(map[string]any{"status": resp.StatusCode})
}

func outcomeFor(resp *Response) string {
	switch {
	case resp.OK():
		return metrics.OutcomeSuccess
	case resp.StatusCode == http.StatusNotFound:
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeStatus
	}
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
