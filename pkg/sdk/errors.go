package bibdex

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by API errors. Use errors.Is() to check.
var (
	ErrUnknownEntity  = errors.New("unknown entity")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrUnavailable    = errors.New("search unavailable")
)

// APIError is a non-2xx answer of the API.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bibdex: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the error code to a sentinel.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "unknown_entity":
		return ErrUnknownEntity
	case "validation_failed", "bad_request":
		return ErrInvalidRequest
	case "unauthorized":
		return ErrUnauthorized
	case "search_engine_unavailable", "index_not_found", "search_failed", "internal_error":
		return ErrUnavailable
	default:
		return nil
	}
}
