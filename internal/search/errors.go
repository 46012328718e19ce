package search

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrorKind classifies adapter failures so callers branch on the condition
// rather than matching message text.
type ErrorKind int

const (
	// KindBackend covers any non-retryable failure: unexpected status,
	// transport error, or malformed body.
	KindBackend ErrorKind = iota
	// KindConfiguration marks an adapter invoked without its credential.
	KindConfiguration
	// KindRateLimited marks an HTTP 429 or 503 from the backend.
	KindRateLimited
	// KindRetryExhausted marks a rate-limited call that kept failing after
	// every backoff attempt.
	KindRetryExhausted
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindRateLimited:
		return "rate limited"
	case KindRetryExhausted:
		return "retry exhausted"
	default:
		return "backend error"
	}
}

// Error is the typed failure adapters return. Status is zero when the
// failure happened before an HTTP response arrived.
type Error struct {
	Provider string
	Kind     ErrorKind
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	switch {
	case e.Status > 0:
		return fmt.Sprintf("%s: %s: status %d: %s", e.Provider, e.Kind, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsRateLimit reports whether err is rate-limit-classified: either an
// outright RateLimited failure or a RetryExhausted one, which only arises
// from rate-limited attempts. This is the decision input for cross-provider
// fallback.
func IsRateLimit(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Kind == KindRateLimited || se.Kind == KindRetryExhausted
}

// statusError classifies a non-2xx response. 429 and 503 become
// KindRateLimited; everything else is KindBackend.
func statusError(provider string, status int, msg string) *Error {
	kind := KindBackend
	if status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable {
		kind = KindRateLimited
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Provider: provider, Kind: kind, Status: status, Message: msg}
}

// configError reports a missing credential or malformed adapter setting.
func configError(provider, msg string) *Error {
	return &Error{Provider: provider, Kind: KindConfiguration, Message: msg}
}

// backendError wraps a transport or decode failure.
func backendError(provider string, err error) *Error {
	return &Error{Provider: provider, Kind: KindBackend, Err: err}
}

// errBody reads a bounded prefix of an error response body for diagnostics.
func errBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
