package registry

import (
	"errors"
	"fmt"
)

// VersionNotFoundError indicates the registry knows the package but has no
// entry whose version exactly matches the requested one. Fatal to that
// dependency's audit task and not retried: without the exact version the
// audit cannot make a policy determination.
type VersionNotFoundError struct {
	Crate   string
	Version string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %s of %s not found in registry metadata", e.Version, e.Crate)
}

// UnavailableError indicates a network or HTTP failure contacting the
// registry. Not retried automatically; it propagates as a task failure.
type UnavailableError struct {
	URL        string
	StatusCode int
	Wrapped    error
}

func (e *UnavailableError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("registry unavailable (%s): %v", e.URL, e.Wrapped)
	}
	return fmt.Sprintf("registry returned status %d for %s", e.StatusCode, e.URL)
}

func (e *UnavailableError) Unwrap() error {
	return e.Wrapped
}

// IsVersionNotFound checks if an error is a missing-version error
func IsVersionNotFound(err error) bool {
	var notFound *VersionNotFoundError
	return errors.As(err, &notFound)
}
