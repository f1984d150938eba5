package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// StorageErrorMessage describes failures reading or writing the JSON data files.
	StorageErrorMessage = "storage operation failed"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// BadRequest wraps err as a 400 with the given message.
func BadRequest(err error, message string) *AppError {
	return New(err, http.StatusBadRequest, message)
}

// NotFound wraps err as a 404 with the given message.
func NotFound(err error, message string) *AppError {
	return New(err, http.StatusNotFound, message)
}

// WrapStorage wraps a file store error with a consistent status code and message.
func WrapStorage(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusInternalServerError, StorageErrorMessage)
}

// StatusOf returns the HTTP status carried by err, or 500 when err is not an AppError.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the safe message carried by err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return SystemErrorMessage
}
