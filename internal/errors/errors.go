// Package errors defines domain-level errors used throughout the application.
// These errors represent repository maintenance failures and are intended to be
// wrapped with additional context at the point of use.
package errors

import (
	"errors"
)

var (
	// ErrIndexNotFound indicates that the Packages index file does not exist.
	// This occurs when running commands against a directory that has not been
	// initialized as a repository.
	ErrIndexNotFound = errors.New("packages index not found")

	// ErrDebsDirNotFound indicates that the configured debs directory does not exist.
	ErrDebsDirNotFound = errors.New("debs directory not found")

	// ErrIndexFetchFailed indicates that a remote Packages index could not be
	// retrieved from any of the candidate URLs.
	ErrIndexFetchFailed = errors.New("packages index fetch failed")

	// ErrDownloadFailed indicates that one or more archive downloads failed
	// after exhausting retries.
	ErrDownloadFailed = errors.New("download failed")
)
