package fetcher

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v3"
	"github.com/pkg/errors"

	"github.com/Crowley723/server-tracker/config"
	"github.com/Crowley723/server-tracker/metrics"
)

const maxBodySize = 1 << 20

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Fetcher struct {
	client      *http.Client
	endpoint    string
	userAgent   string
	timeout     time.Duration
	retryDelay  time.Duration
	maxAttempts int
	recorder    Recorder
	metrics     *metrics.Metrics
	logger      *slog.Logger
	sleep       SleepFunc
}

type Option func(*Fetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithSleep replaces the wait between attempts.
func WithSleep(sleep SleepFunc) Option {
	return func(f *Fetcher) {
		f.sleep = sleep
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

func New(cfg *config.Config, recorder Recorder, logger *slog.Logger, opts ...Option) *Fetcher {
	timeout := cfg.Monitor.TimeoutDuration()

	f := &Fetcher{
		client:      &http.Client{Timeout: timeout},
		endpoint:    cfg.Monitor.Endpoint,
		userAgent:   cfg.Monitor.UserAgent,
		timeout:     timeout,
		retryDelay:  cfg.Monitor.RetryDelayDuration(),
		maxAttempts: cfg.Monitor.MaxAttempts,
		recorder:    recorder,
		logger:      logger.With("component", "fetcher"),
		sleep:       sleepContext,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.maxAttempts < 1 {
		f.maxAttempts = 1
	}

	return f
}

// Fetch queries the status endpoint for host, retrying transient failures,
// and records the online count on success.
func (f *Fetcher) Fetch(ctx context.Context, host string) (int, error) {
	logger := f.logger.With("host", host)
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(f.retryDelay), uint64(f.maxAttempts-1))

	for attempt := 1; ; attempt++ {
		logger.Info("getting server data", "attempt", attempt, "max_attempts", f.maxAttempts)

		result := f.Query(ctx, host)
		f.metrics.ObserveAttempt(host, result.Outcome.String())

		switch result.Outcome {
		case OutcomeSuccess:
			summary := f.recorder.Record(host, result.Online)
			f.metrics.SetOnline(host, result.Online)
			logger.Info("online count recorded",
				"online", result.Online,
				"peak", summary.Peak,
				"samples", summary.Count)
			return result.Online, nil
		case OutcomeFatal:
			logger.Error("fetch aborted", "attempt", attempt, "error", result.Err)
			return 0, result.Err
		}

		logger.Warn("fetch attempt failed",
			"attempt", attempt,
			"kind", failureKind(result.Err),
			"error", result.Err)

		if attempt >= f.maxAttempts {
			break
		}

		delay := policy.NextBackOff()
		if delay == backoff.Stop {
			break
		}

		logger.Info("retrying", "delay", delay)
		if err := f.sleep(ctx, delay); err != nil {
			return 0, errors.Wrap(err, "retry wait interrupted")
		}
	}

	logger.Error("giving up on host for this tick", "attempts", f.maxAttempts)
	return 0, errors.Wrapf(ErrAttemptsExhausted, "host %s after %d attempts", host, f.maxAttempts)
}

// Query performs a single request without recording the result.
func (f *Fetcher) Query(ctx context.Context, host string) Result {
	if err := ctx.Err(); err != nil {
		return fatal(err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, f.statusURL(host), nil)
	if err != nil {
		return fatal(errors.Wrap(err, "failed to build status request"))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fatal(ctx.Err())
		}
		return retryable(errors.Wrapf(ErrTransient, "request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return retryable(errors.Wrapf(ErrTransient, "failed to read body: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return retryable(errors.Wrapf(ErrTransient, "status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	online, err := parseOnline(body)
	if err != nil {
		return retryable(err)
	}

	return success(online)
}

func (f *Fetcher) statusURL(host string) string {
	endpoint := f.endpoint
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return endpoint + url.PathEscape(host)
}

func parseOnline(body []byte) (int, error) {
	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return 0, errors.Wrapf(ErrMalformedResponse, "invalid json: %v", err)
	}

	if status.Players == nil {
		return 0, errors.Wrap(ErrMalformedResponse, "missing key players")
	}
	if status.Players.Online == nil {
		return 0, errors.Wrap(ErrMalformedResponse, "missing key players.online")
	}
	if *status.Players.Online < 0 {
		return 0, errors.Wrapf(ErrMalformedResponse, "negative online count %d", *status.Players.Online)
	}

	return *status.Players.Online, nil
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrTransient):
		return "transient"
	default:
		return "unknown"
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
