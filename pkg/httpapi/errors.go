package httpapi

import (
	"errors"
	"net/http"
)

var (
	ErrUnknownSchema        = errors.New("unknown schema")
	ErrDuplicateSchema      = errors.New("schema already registered")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrUnsupportedMediaType = errors.New("unsupported content type")
	ErrInvalidStrictHeader  = errors.New("invalid strict header")
	ErrLoadingSchemas       = errors.New("failed to load schemas")
	ErrRateLimited          = errors.New("too many requests")
)

// HTTPError pairs an error code with its HTTP status.
type HTTPError struct {
	Status int
	Code   string
	Err    error
}

func (e HTTPError) Error() string { return e.Err.Error() }
func (e HTTPError) Unwrap() error { return e.Err }

func statusError(status int, code string, err error) HTTPError {
	return HTTPError{Status: status, Code: code, Err: err}
}

var (
	errNotFound    = func(err error) error { return statusError(http.StatusNotFound, "not_found", err) }
	errBadRequest  = func(err error) error { return statusError(http.StatusBadRequest, "bad_request", err) }
	errTooLarge    = statusError(http.StatusRequestEntityTooLarge, "body_too_large", ErrBodyTooLarge)
	errUnsupported = statusError(http.StatusUnsupportedMediaType, "unsupported_media_type", ErrUnsupportedMediaType)
	errRateLimited = statusError(http.StatusTooManyRequests, "rate_limited", ErrRateLimited)
)
