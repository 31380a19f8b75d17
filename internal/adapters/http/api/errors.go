package api

import (
	"errors"
	"net/http"

	"github.com/okian/wordboard/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// Error codes used in error bodies.
const (
	codeBadRequest    = "bad_request"
	codeNotFound      = "not_found"
	codeConflict      = "conflict"
	codeInternal      = "internal_error"
	codeUnavailable   = "unavailable"
	codeUpstreamError = "upstream_error"
)

// statusFor maps service errors to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, model.ErrWordExists):
		return http.StatusConflict, codeConflict
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrEmptyBatch):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, model.ErrNotStarted):
		return http.StatusServiceUnavailable, codeUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
