package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNetwork marks transport-level failures: no response arrived at all.
// Callers show a retry-oriented message for these rather than a
// server-error message.
var ErrNetwork = errors.New("network error")

// APIError is a backend-rejected request, normalized from the response
// body's detail/message field. Callers never see a raw unparsed failure.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s (HTTP %d)", e.Message, e.Status)
}

// AsAPIError unwraps err into an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 from the backend, meaning
// the session's credential is missing, invalid, or expired.
func IsUnauthorized(err error) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Status == http.StatusUnauthorized
	}
	return false
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}
