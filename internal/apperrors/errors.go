// Package apperrors defines the sentinel errors shared across services and
// handlers. Callers classify failures with errors.Is rather than comparing
// message strings.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned by write paths that stamp an owner
	// field when no caller identity is available.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMissingAddress is returned by label generation when the order is
	// missing a buyer or seller address.
	ErrMissingAddress = errors.New("missing address")

	// ErrRemote tags failures of a remote collaborator (database, object
	// store, courier API). The underlying message is passed through.
	ErrRemote = errors.New("remote failure")
)

// Remote wraps err so it matches ErrRemote with errors.Is while keeping
// the underlying message text. A nil err stays nil.
func Remote(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrRemote, err)
}
