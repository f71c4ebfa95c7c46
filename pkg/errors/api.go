package errors

import (
	"errors"
	"fmt"
	"strings"
)

// APIError carries a non-2xx JSON:API response.
type APIError struct {
	StatusCode int
	Status     string
	Method     string
	Path       string
	// Details holds "title: detail" for each entry of the errors array.
	Details []string
}

func NewAPIError(statusCode int, status, method, path string, details ...string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Status:     status,
		Method:     method,
		Path:       path,
		Details:    details,
	}
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Status)
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(e.Details, "; "))
	}
	return msg
}

// Transient reports whether the status is one a retry may fix.
func (e *APIError) Transient() bool {
	switch e.StatusCode {
	case 502, 503, 504:
		return true
	default:
		return false
	}
}

func IsAPIError(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

// AsAPIError unwraps err into an *APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	if IsResourceNotFoundError(err) {
		return true
	}
	e, ok := AsAPIError(err)
	return ok && e.StatusCode == 404
}
