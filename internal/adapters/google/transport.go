package googleauth

import (
	"context"
	crand "crypto/rand"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"stayhub/internal/adapters/observability"
)

const maxRetries = 3

// transport rate-limits outbound calls, records them, and retries idempotent
// requests on 429 and transient 5xx, honoring Retry-After.
type transport struct {
	base    http.RoundTripper
	rl      *rate.Limiter
	service string
}

func newTransport(base http.RoundTripper, rps int) *transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if rps <= 0 {
		rps = 5
	}
	return &transport{base: base, rl: rate.NewLimiter(rate.Limit(rps), rps), service: "google"}
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := t.rl.Wait(ctx); err != nil {
		return nil, err
	}
	idempotent := req.Method == http.MethodGet || req.Method == http.MethodHead

	for i := 0; ; i++ {
		start := time.Now()
		resp, err := t.base.RoundTrip(req)
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		observability.ObserveExternal(t.service, req.URL.Host, status, time.Since(start))

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if idempotent && i < maxRetries && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return nil, err
		}
		if !idempotent || i >= maxRetries || !retryable(resp.StatusCode) {
			return resp, nil
		}

		wait := retryAfter(resp)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if wait == 0 {
			wait = backoff(i)
		}
		if !sleepCtx(ctx, wait) {
			return nil, ctx.Err()
		}
	}
}

func retryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(h); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	return base + time.Duration(0.5*float64(b[0])/255.0*float64(base))
}
