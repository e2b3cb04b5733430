// Package service provides business logic for the video-sharing pipeline.
package service

import (
	"errors"
	"fmt"

	"github.com/sportscast/sportscast-api-go/internal/validation"
)

// ErrInvalidCredentials is returned on login with a wrong email or password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError carries the field-level violations found before any network
// call was made.
type ValidationError struct {
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string {
	return e.Fields.Error()
}

// UploadError represents a storage transport or service failure. The overall
// operation is aborted and reported; there is no retry.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type UploadError struct {
	Key   string
	Cause error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Key, e.Cause)
}

func (e *UploadError) Unwrap() error { return e.Cause }

// WriteError represents a metadata create/update/delete failure. Prior steps
// are not rolled back.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type WriteError struct {
	Op    string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Cause }
