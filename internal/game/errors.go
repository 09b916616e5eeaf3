package game

import "errors"

var (
	// ErrUnauthorized is returned when a station or admin secret does not match.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned for unknown team or station ids.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for malformed state payloads and task ids.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorage wraps failures of the persistence medium.
	ErrStorage = errors.New("storage failure")
	// ErrEvidencePurge marks a failed evidence cleanup after a reset. It is
	// reported in ResetResult and never fails the reset itself.
	ErrEvidencePurge = errors.New("evidence purge failed")
)
