// Package errors defines the sentinel errors shared across the engine and
// an AppError wrapper that carries an HTTP status for the server layer.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrDocumentExists = errors.New("document already exists")
	ErrSegmentSealed  = errors.New("segment is sealed")
	ErrIndexNotFound  = errors.New("index not found")
	ErrCorruptSegment = errors.New("corrupt segment file")
	ErrInternal       = errors.New("internal error")
)

// AppError wraps a sentinel with a human message and an HTTP status code.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// HTTPStatusCode maps an error chain to the status code the server should
// return. Unknown errors are treated as internal.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrDocumentExists):
		return http.StatusConflict
	case errors.Is(err, ErrIndexNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSegmentSealed), errors.Is(err, ErrCorruptSegment):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
