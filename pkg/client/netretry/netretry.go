// Package netretry provides shared retry utilities for transient failures of the
// cloud provider APIs (EC2, Hetzner Cloud).
package netretry

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// httpStatusCodePattern matches HTTP 429 and 5xx status codes at word boundaries
// to avoid false positives on port numbers like ":5000".
var httpStatusCodePattern = regexp.MustCompile(`\b(429|50[0-4])\b`)

// transientPatterns are status texts and TCP-level failures that resolve on their own.
//
//nolint:gochecknoglobals // Package-level constant for error text classification
var transientPatterns = []string{
	"Internal Server Error", "Bad Gateway",
	"Service Unavailable", "Gateway Timeout",
	"Too Many Requests",
	"connection reset by peer", "connection refused",
	"i/o timeout", "TLS handshake timeout",
	"unexpected EOF", "no such host",
}

// IsRetryable returns true if the error text indicates a transient network error
// that should be retried. It is the fallback for errors that carry no provider
// error code, i.e. failures below the API layer.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()

	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return httpStatusCodePattern.MatchString(errMsg)
}

// ExponentialDelay returns the delay before the given retry attempt (1-based)
// using the formula min(baseWait * 2^(attempt-1), maxWait).
func ExponentialDelay(
	attempt int,
	baseWait, maxWait time.Duration,
) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	return min(baseWait*time.Duration(1<<(attempt-1)), maxWait)
}

// Sleep blocks for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
