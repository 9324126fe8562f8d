// Package constants provides shared constants used throughout the teamroster
// codebase. This includes timeouts, limits, file permissions, and other
// configuration values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests
	DefaultHTTPTimeout = 30 * time.Second

	// ImageFetchTimeout is the timeout for downloading a single member image
	ImageFetchTimeout = 1 * time.Minute

	// SheetFetchTimeout is the timeout for retrieving the roster spreadsheet
	SheetFetchTimeout = 2 * time.Minute

	// GitCommandTimeout is the timeout for a single git subprocess
	GitCommandTimeout = 2 * time.Minute

	// UpdateTimeout is the timeout for an entire update run
	UpdateTimeout = 10 * time.Minute

	// RetryBaseDelay is the base backoff duration for publish retries
	RetryBaseDelay = 1 * time.Second

	// MaxRetryDelay is the maximum backoff duration for publish retries
	MaxRetryDelay = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRetries is the default number of attempts for push and PR calls
	MaxRetries = 3

	// MaxConcurrentFetches is the bound on parallel image downloads
	MaxConcurrentFetches = 4

	// DefaultImageMaxBytes caps the size of a downloaded member image
	DefaultImageMaxBytes = 5 << 20

	// MaxNameLength is the maximum allowed length for a display name
	MaxNameLength = 256
)
