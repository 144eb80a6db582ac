// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil implements the rate-limit retry policy shared by the
// arXiv and Tavily clients.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// RetryBaseDelay is the first backoff interval after an HTTP 429. Tests
// shrink it to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// DoWithRetry sends req and retries only on HTTP 429, doubling the wait
// after each attempt starting from RetryBaseDelay. Any other status,
// including 5xx, is returned to the caller on the first attempt.
//
// maxRetries <= 0 selects the default of 5. The request is cloned per
// attempt so bodies with GetBody set (POST with a byte reader) are re-sent
// intact. A context cancellation during the wait aborts with ctx.Err();
// when the limit is exhausted the final 429 response is handed back
// unconsumed.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	delay := RetryBaseDelay
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		if attempt >= maxRetries {
			return resp, nil
		}

		// Drain so the connection can be reused across the wait.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
