package discord

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

// parseRetryAfter reads Discord's rate limit headers. Retry-After carries
// whole seconds; X-RateLimit-Reset-After is fractional and more precise,
// so it wins when both are present
func parseRetryAfter(h http.Header) time.Duration {
	if s := h.Get("X-RateLimit-Reset-After"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
			return time.Duration(f * float64(time.Second))
		}
	}
	if s := h.Get("Retry-After"); s != "" {
		if sec, err := strconv.Atoi(s); err == nil && sec > 0 {
			return time.Duration(sec) * time.Second
		}
	}
	return 0
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
