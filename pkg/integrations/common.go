package integrations

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	httpTimeout = 10 * time.Second

	// maxBodySize caps response bodies; image payloads above it are rejected.
	maxBodySize = 64 << 20
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (connection errors, non-2xx responses).
	ErrNetwork = errors.New("network error")

	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrTooLarge is returned when a response body exceeds the size limit.
	ErrTooLarge = errors.New("response too large")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string // first bytes of the response body
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// Unwrap maps the status onto ErrNotFound or ErrNetwork.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrNetwork
}

// NewHTTPClient creates an HTTP client with the given timeout. A zero
// timeout selects the 10 second default.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = httpTimeout
	}
	return &http.Client{Timeout: timeout}
}
