// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RetryBaseDelay = time.Millisecond
}

// rateLimiter serves 429 for the first reject requests, then 200 echoing
// the request body. It counts every request it sees.
type rateLimiter struct {
	reject int32
	calls  int32
	bodies []string
}

func (rl *rateLimiter) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&rl.calls, 1)
		body, _ := io.ReadAll(r.Body)
		rl.bodies = append(rl.bodies, string(body))
		if n <= atomic.LoadInt32(&rl.reject) {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(body)
	}
}

func TestDoWithRetryFirstAttemptSucceeds(t *testing.T) {
	rl := &rateLimiter{}
	ts := httptest.NewServer(rl.handler())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&rl.calls))
}

func TestDoWithRetryRecoversFrom429(t *testing.T) {
	rl := &rateLimiter{reject: 2}
	ts := httptest.NewServer(rl.handler())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&rl.calls))
}

func TestDoWithRetryResendsPostBody(t *testing.T) {
	rl := &rateLimiter{reject: 1}
	ts := httptest.NewServer(rl.handler())
	defer ts.Close()

	payload := `{"query":"diffusion models"}`
	req, err := http.NewRequest(http.MethodPost, ts.URL, bytes.NewReader([]byte(payload)))
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, rl.bodies, 2)
	assert.Equal(t, payload, rl.bodies[0], "rate-limited attempt carries the body")
	assert.Equal(t, payload, rl.bodies[1], "retry must re-send the full body")
}

func TestDoWithRetryReturnsFinal429(t *testing.T) {
	rl := &rateLimiter{reject: 100}
	ts := httptest.NewServer(rl.handler())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 3)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, int32(4), atomic.LoadInt32(&rl.calls), "initial attempt plus three retries")
}

func TestDoWithRetryDefaultLimit(t *testing.T) {
	rl := &rateLimiter{reject: 100}
	ts := httptest.NewServer(rl.handler())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 0)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, int32(6), atomic.LoadInt32(&rl.calls), "initial attempt plus five default retries")
}

func TestDoWithRetryContextCancelsBackoff(t *testing.T) {
	rl := &rateLimiter{reject: 100}
	ts := httptest.NewServer(rl.handler())
	defer ts.Close()

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoWithRetryDoesNotRetryServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
