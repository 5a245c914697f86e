package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultMaxRetries  = 3
	defaultBaseBackoff = 500 * time.Millisecond
)

// doRequestWithRetry sends req, retrying connection errors, 429s, and 5xx
// answers with exponential backoff. A Retry-After header overrides the
// computed delay. Requests here carry no body, so the same req can be
// reissued as-is.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	maxAttempts := c.maxRetries
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxRetries
	}
	base := c.baseBackoff
	if base <= 0 {
		base = defaultBaseBackoff
	}

	ctx := req.Context()

	var (
		lastErr    error
		lastStatus int
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("request canceled: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		var delay time.Duration
		if err != nil {
			lastErr, lastStatus = err, 0
		} else {
			lastErr, lastStatus = nil, resp.StatusCode
			delay = parseRetryAfter(resp)
			_ = resp.Body.Close()
		}

		if attempt == maxAttempts-1 {
			break
		}

		if delay <= 0 {
			delay = base * time.Duration(1<<attempt)
		}
		if err := sleepWithContext(ctx, delay); err != nil {
			return nil, err
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", maxAttempts, lastErr)
	}
	return nil, fmt.Errorf("request failed after %d attempts: status %d", maxAttempts, lastStatus)
}

// retryableStatus reports whether a status is worth another attempt: rate
// limiting or a server-side failure.
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// parseRetryAfter reads the Retry-After header, accepting both the
// delta-seconds and HTTP-date forms. Zero means no usable header.
func parseRetryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(header); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}

	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
