package service

import (
	"errors"
	"fmt"

	"contentgw/internal/transform"
)

var (
	// ErrNotFound covers absent keys and drafts alike so callers cannot probe for drafts.
	ErrNotFound = errors.New("not found")
	// ErrUnprocessable means the object exists but its frontmatter fails validation.
	ErrUnprocessable = errors.New("invalid frontmatter")
	// ErrUnauthorized is returned for a missing or wrong revalidation secret.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidTransform wraps bad image transform options.
	ErrInvalidTransform = transform.ErrInvalid
)

// HookError reports a deploy hook that could not be fired or answered non-2xx.
// Status is zero when no response was received.
type HookError struct {
	Status int
	Err    error
}

func (e *HookError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("deploy hook failed: %v", e.Err)
	}
	return fmt.Sprintf("deploy hook failed: status %d", e.Status)
}

func (e *HookError) Unwrap() error { return e.Err }
