package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultRetryBaseDelay is the first backoff interval.
	DefaultRetryBaseDelay = 2 * time.Second
	// DefaultRetryJitterPercent is the maximum jitter added to each delay.
	DefaultRetryJitterPercent = 25
)

// RetryProvider retries transport-level failures (rate limits, 5xx, network
// errors) with exponential backoff. Decoding failures are never retried here:
// a reply that arrived is passed back unchanged.
type RetryProvider struct {
	provider      Provider
	maxRetries    int
	baseDelay     time.Duration
	jitterPercent int
	logger        io.Writer
}

// NewRetryProvider wraps provider. With maxRetries <= 0 the provider is
// returned as is.
func NewRetryProvider(provider Provider, maxRetries int, baseDelay time.Duration, logger io.Writer) Provider {
	if maxRetries <= 0 {
		return provider
	}
	if baseDelay <= 0 {
		baseDelay = DefaultRetryBaseDelay
	}
	return &RetryProvider{
		provider:      provider,
		maxRetries:    maxRetries,
		baseDelay:     baseDelay,
		jitterPercent: DefaultRetryJitterPercent,
		logger:        logger,
	}
}

func (r *RetryProvider) Name() string {
	return r.provider.Name()
}

func (r *RetryProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		resp, err := r.provider.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return nil, err
		}
		if attempt >= r.maxRetries {
			if r.logger != nil {
				fmt.Fprintf(r.logger, "%s: all %d retry attempts exhausted\n", r.provider.Name(), r.maxRetries)
			}
			break
		}

		delay := backoffDelay(r.baseDelay, attempt, r.jitterPercent)
		if r.logger != nil {
			fmt.Fprintf(r.logger, "%s: %v; retrying in %s (attempt %d/%d)\n",
				r.provider.Name(), err, delay.Round(time.Millisecond), attempt+1, r.maxRetries)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}

// backoffDelay returns base * 2^attempt plus up to jitterPercent of that.
func backoffDelay(base time.Duration, attempt int, jitterPercent int) time.Duration {
	delay := base * time.Duration(1<<attempt)
	if jitterPercent > 0 {
		jitterRange := float64(delay) * float64(jitterPercent) / 100.0
		delay += time.Duration(rand.Float64() * jitterRange)
	}
	return delay
}

var retryablePatterns = []string{
	"rate limit",
	"rate_limit",
	"timeout",
	"timed out",
	"connection refused",
	"connection reset",
	"temporary failure",
	"service unavailable",
	"overloaded",
	"too many requests",
}

// IsRetryable reports whether err is a transient transport failure.
// Cancellation and client errors (4xx other than 429) are not retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
