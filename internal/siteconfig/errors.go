package siteconfig

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTemplate is returned when a requested template id is not
	// in the available set.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrDuplicateTemplate is returned when adding a template whose id
	// already exists.
	ErrDuplicateTemplate = errors.New("template already exists")

	// ErrNotFound is returned by backends when the singleton document is
	// missing. Read paths recover with Fallback; it is exported so
	// backends outside this package can signal it.
	ErrNotFound = errors.New("site config not found")
)

// PersistError wraps a failed write to the backing store. Unlike read
// failures, write failures are surfaced to the caller.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting site config: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
