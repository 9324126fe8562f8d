// Package errors provides custom error types for the teamroster system.
// These errors enable programmatic error checking and encode the pipeline's
// failure policy: per-record errors are collected and reported, while errors
// that make the merge or publish stage indeterminate are fatal.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the teamroster system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateIdentity indicates two rows derived the same identity
	ErrDuplicateIdentity = errors.New("duplicate identity")

	// ErrImageFetch indicates a member image could not be materialized
	ErrImageFetch = errors.New("image fetch failed")

	// ErrCorruptState indicates the previous collection could not be parsed
	ErrCorruptState = errors.New("corrupt state")

	// ErrDirtyRepository indicates the working copy is not on a clean base
	ErrDirtyRepository = errors.New("dirty repository")

	// ErrPublish indicates the publish stage failed after bounded retries
	ErrPublish = errors.New("publish failed")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")
)

// ConfigError represents a configuration error, including schema drift
// between the configured column mapping and the actual sheet header.
// ConfigErrors are always fatal: the operator must fix the configuration.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ValidationError represents a per-row validation failure. It carries the
// originating row reference so the batch report can point back at the sheet.
type ValidationError struct {
	Row     string // opaque reference to the originating row
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	switch {
	case e.Row != "" && e.Field != "":
		return fmt.Sprintf("row %s: validation failed for field %s: %s", e.Row, e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	default:
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(row, field string, value any, message string) *ValidationError {
	return &ValidationError{Row: row, Field: field, Value: value, Message: message}
}

// DuplicateIdentityError indicates two source rows derived the same member
// identity. Non-fatal: the later row wins, both are reported for review.
type DuplicateIdentityError struct {
	Identity string
	Rows     []string // references of the colliding rows
}

// Error implements the error interface
func (e *DuplicateIdentityError) Error() string {
	if len(e.Rows) > 0 {
		return fmt.Sprintf("duplicate identity %q derived from rows %s", e.Identity, strings.Join(e.Rows, ", "))
	}
	return fmt.Sprintf("duplicate identity %q", e.Identity)
}

// Is implements errors.Is support
func (e *DuplicateIdentityError) Is(target error) bool {
	return target == ErrDuplicateIdentity
}

// ImageFetchError indicates a member image could not be fetched or stored.
// Non-fatal: the record proceeds without an image and the failure is
// recorded as a warning in the change summary.
type ImageFetchError struct {
	Identity string
	URL      string
	Reason   string
	Err      error
}

// Error implements the error interface
func (e *ImageFetchError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("image fetch for %s from %s: %s", e.Identity, e.URL, e.Reason)
	}
	return fmt.Sprintf("image fetch for %s: %s", e.Identity, e.Reason)
}

// Unwrap implements errors.Unwrap
func (e *ImageFetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ImageFetchError) Is(target error) bool {
	return target == ErrImageFetch
}

// StateError indicates the previously published collection could not be
// loaded. Always fatal: merging against unknown prior state risks silent
// data loss.
type StateError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *StateError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("corrupt state in %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("corrupt state: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *StateError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StateError) Is(target error) bool {
	return target == ErrCorruptState
}

// RepoStateError indicates the target working copy is in a state the
// publisher refuses to build on, such as uncommitted unrelated changes.
// Always fatal, raised before anything is pushed.
type RepoStateError struct {
	Path    string
	Message string
}

// Error implements the error interface
func (e *RepoStateError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("repository %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("repository state: %s", e.Message)
}

// Is implements errors.Is support
func (e *RepoStateError) Is(target error) bool {
	return target == ErrDirtyRepository
}

// PublishError indicates the publish stage failed after bounded retries.
// Completed reports how far the run got (e.g. "branch pushed, pull request
// not created") so an operator can finish manually.
type PublishError struct {
	Operation string
	Attempts  int
	Completed string
	Err       error
}

// Error implements the error interface
func (e *PublishError) Error() string {
	msg := fmt.Sprintf("publish failed during %s after %d attempts", e.Operation, e.Attempts)
	if e.Completed != "" {
		msg += " (completed: " + e.Completed + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements errors.Unwrap
func (e *PublishError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PublishError) Is(target error) bool {
	return target == ErrPublish
}

// APIError represents an error response from a remote HTTP API
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{Service: service, StatusCode: statusCode, Message: message}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "csv"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// ProcessError represents an error from an external process or command
type ProcessError struct {
	Operation string // What operation was being performed
	Command   string // The command that was executed
	Output    string // Stdout/stderr output from the process
	Err       error  // Underlying error
}

// Error implements the error interface
func (e *ProcessError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("process error during %s (command: %s): %v\nOutput: %s", e.Operation, e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("process error during %s (command: %s): %v", e.Operation, e.Command, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a per-row validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDuplicateIdentity checks if an error is an identity collision
func IsDuplicateIdentity(err error) bool {
	return errors.Is(err, ErrDuplicateIdentity)
}

// IsImageFetch checks if an error is a degraded image fetch
func IsImageFetch(err error) bool {
	return errors.Is(err, ErrImageFetch)
}

// IsFatal reports whether an error must abort the run. Per-record errors
// (validation, duplicate identity, image fetch) are collected instead.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !IsValidation(err) && !IsDuplicateIdentity(err) && !IsImageFetch(err)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Message: err.Error(), Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

// WrapAPI wraps an error as an APIError
func WrapAPI(service string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
