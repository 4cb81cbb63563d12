package utils

import (
	"errors"
	"net/http"
)

// AppError is a failure that maps onto a client visible status and message.
type AppError struct {
	Status  int
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	// ErrInvalidCredentials is returned by login for an unknown user or a wrong password alike.
	ErrInvalidCredentials = &AppError{Status: http.StatusUnauthorized, Code: 40106, Message: "incorrect username or password"}
	// ErrUnauthenticated covers a missing, malformed or expired token and a token whose user is gone.
	ErrUnauthenticated = &AppError{Status: http.StatusUnauthorized, Code: 40105, Message: "could not validate credentials"}
	ErrForbidden       = &AppError{Status: http.StatusForbidden, Code: 40302, Message: "not authorized to delete this post"}
	ErrNotFound        = &AppError{Status: http.StatusNotFound, Code: 40404, Message: "post not found"}
	ErrConflict        = &AppError{Status: http.StatusConflict, Code: 40901, Message: "username already exists"}
)

// ValidationError reports malformed input with a short description of the offending field.
func ValidationError(message string) *AppError {
	return &AppError{Status: http.StatusUnprocessableEntity, Code: 42200, Message: message}
}

// IsAppError reports whether err carries a client facing status.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
