package resolver

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// UnrecognizedRepoError indicates the registry's reported repository URL does
// not match the expected source-hosting pattern. This is fatal to the whole
// audit run, not just the one dependency: a URL the resolver cannot read
// means the attribution report would be silently incomplete.
type UnrecognizedRepoError struct {
	URL string
}

func (e *UnrecognizedRepoError) Error() string {
	return fmt.Sprintf("repository URL %q does not look like a github.com/owner/repo URL", e.URL)
}

// IsUnrecognizedRepo checks if an error is an unrecognized-repository error
func IsUnrecognizedRepo(err error) bool {
	var unrec *UnrecognizedRepoError
	return errors.As(err, &unrec)
}

// Attempt records one failed resolution strategy for diagnostics.
type Attempt struct {
	Strategy string
	Err      error
}

// ExhaustedError indicates every resolution strategy failed: all raw file
// candidates and the license-metadata API. It carries the attempted
// strategies so the operator can see the whole fallback chain.
type ExhaustedError struct {
	Repo     string
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	names := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		names[i] = a.Strategy
	}
	return fmt.Sprintf("could not resolve license text for %s (tried %s)", e.Repo, strings.Join(names, ", "))
}

// Unwrap exposes the per-strategy failures so errors.As can find a
// RateLimitError (or any other typed failure) buried in the chain.
func (e *ExhaustedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// RateLimitError indicates the source-hosting API rate limited the request.
// GitHub provides X-RateLimit-Reset with a Unix timestamp.
type RateLimitError struct {
	URL        string
	Limit      int
	Remaining  int
	RetryAfter time.Time
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter.IsZero() {
		return fmt.Sprintf("GitHub API rate limit exceeded (%d/%d) for %s", e.Remaining, e.Limit, e.URL)
	}
	wait := time.Until(e.RetryAfter)
	if wait < 0 {
		wait = 0
	}
	return fmt.Sprintf("GitHub API rate limit exceeded (%d/%d) for %s, resets in %v",
		e.Remaining, e.Limit, e.URL, wait.Round(time.Minute))
}
