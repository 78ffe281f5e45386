package api

import (
	"errors"
	"net/http"

	"github.com/samcharles93/ansysio/pkg/errs"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// classify maps a reader error to an HTTP status and error type.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request_error"
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "not_found_error"
	case errors.Is(err, errs.ErrFormat):
		return http.StatusUnprocessableEntity, "format_error"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}
