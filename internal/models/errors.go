package models

import (
	"fmt"
	"net/http"

	apperrors "github.com/kyvra-tech/walrus-nodes-tracker-backend/pkg/errors"
)

// ErrorCode represents a custom error code for the application
type ErrorCode string

const (
	ErrCodeFetchFailed       ErrorCode = "FETCH_FAILED"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// AppError represents a structured application error
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Internal   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the internal error for error chain support
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewFetchError marks a failed fetch cycle. The chain carries both the
// ErrFetchFailed sentinel and the underlying cause.
func NewFetchError(message string, err error) *AppError {
	return &AppError{
		Code:       ErrCodeFetchFailed,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   apperrors.Join(apperrors.ErrFetchFailed, err),
	}
}

func NewRateLimitError(message string) *AppError {
	return &AppError{
		Code:       ErrCodeRateLimitExceeded,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}
