package clipapi

import (
	"fmt"
	"net/http"
	"strings"
)

// TransportError is returned when the request never produced a response.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError represents a non-2xx answer from the clipping server.
type ServerError struct {
	StatusCode int
	// Status is the reason phrase, e.g. "Internal Server Error".
	Status string
	// Detail is the server's {"error": ...} message when it sent one.
	Detail string
}

func (e *ServerError) Error() string {
	return "Server error: " + e.Status
}

// IsRetryable returns true for 5xx responses. Nothing in this module retries;
// callers may use it to word their message.
func (e *ServerError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// PayloadError is returned when a 2xx body is not the expected JSON.
type PayloadError struct {
	Err error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("invalid response payload: %v", e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// statusText extracts the reason phrase from resp.Status ("500 Internal Server
// Error"), falling back to the standard text for the code.
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}
