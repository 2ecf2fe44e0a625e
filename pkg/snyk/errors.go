package snyk

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an organization id or slug does not
	// resolve within the group.
	ErrNotFound = errors.New("snyk organization not found")

	// ErrNoOrganizations is returned when the account has no organizations.
	ErrNoOrganizations = errors.New("no organizations found in snyk account")
)

// APIError wraps a failed Snyk API call with request context. Any non-2xx
// response or transport failure on the read path produces one; the caller
// treats it as fatal to the run.
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("snyk api error: %s %s returned status %d: %s",
			e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("snyk api error: %s %s failed: %s", e.Method, e.URL, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFoundError checks if an error means an organization was not found.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
