package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/joeychilson/paperoutline/config"
	"github.com/joeychilson/paperoutline/fetcher"
)

// jitterPercent is the jitter added to retry delays (+/- 25%).
const jitterPercent = 0.25

// retryableStatus are the HTTP status codes worth retrying.
var retryableStatus = map[int]bool{429: true, 500: true, 502: true, 503: true, 504: true}

// Retrier wraps a fetcher with retry logic and exponential backoff.
type Retrier struct {
	fetcher *fetcher.Fetcher
	config  config.RetryConfig
}

// New creates a Retrier around the given fetcher.
func New(f *fetcher.Fetcher, cfg config.RetryConfig) *Retrier {
	return &Retrier{fetcher: f, config: cfg}
}

// Fetch attempts to fetch the URL, retrying transient failures with
// exponential backoff and jitter.
func (r *Retrier) Fetch(ctx context.Context, url string) (*fetcher.Response, error) {
	maxRetries := r.config.GetMaxRetries()

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := r.fetcher.Fetch(ctx, url)

		switch {
		case resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		case resp != nil && !retryableStatus[resp.StatusCode]:
			return resp, fmt.Errorf("failed to fetch %s: HTTP %d", url, resp.StatusCode)
		case resp != nil:
			lastErr = fmt.Errorf("attempt %d: HTTP %d", attempt, resp.StatusCode)
		default:
			lastErr = fmt.Errorf("attempt %d failed: %w", attempt, err)
		}

		if attempt < maxRetries {
			if sleepErr := r.sleep(ctx, r.backoff(attempt)); sleepErr != nil {
				return nil, sleepErr
			}
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxRetries+1, lastErr)
}

// backoff computes the delay for an attempt using exponential backoff with
// jitter.
func (r *Retrier) backoff(attempt int) time.Duration {
	delay := float64(r.config.GetInitialDelay()) * math.Pow(r.config.GetMultiplier(), float64(attempt))
	if max := float64(r.config.GetMaxDelay()); delay > max {
		delay = max
	}

	jitter := (rand.Float64()*2.0 - 1.0) * delay * jitterPercent
	delay += jitter
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// sleep waits for the duration or until the context is cancelled.
func (r *Retrier) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
