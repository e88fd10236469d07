package errors

import (
	"errors"
	"fmt"
)

// Common error types for the Psystock client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidationFailed   = errors.New("validation failed")

	// Token errors
	ErrRefreshFailed  = errors.New("refresh failed")
	ErrNoRefreshToken = errors.New("no refresh token")

	// Session errors
	ErrSessionExpired = errors.New("session expired")
	ErrSessionMissing = errors.New("no stored session")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
