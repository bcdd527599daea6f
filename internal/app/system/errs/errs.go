// internal/app/system/errs/errs.go
//
// Package errs defines the engine's error taxonomy. Every operation the
// engine exposes resolves failures to exactly one of these kinds so
// callers can render an appropriate message; the engine never returns
// an ambiguous generic failure for an authorization-relevant decision.
package errs

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound: the resource id is absent, or soft-deleted when an
	// active-only read was requested.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized: the capability matrix denies the operation for
	// this identity. Checked before any business logic runs.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation: bad enum value, inverted sprint dates, or a
	// missing required field. Detected before any write.
	ErrValidation = errors.New("validation failed")

	// ErrConflict: a unique field (team name, username, email) already
	// exists. Detected by the store's unique indexes.
	ErrConflict = errors.New("conflict")

	// ErrTransient: a store I/O failure; the mutation rolled back and
	// is safe to retry. The engine does not retry internally.
	ErrTransient = errors.New("transient store error")
)

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

func Unauthorizedf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUnauthorized}, args...)...)
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}

// Validation wraps an existing validation failure (typically an enum
// parse error) into the taxonomy.
func Validation(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// FromStore maps raw store errors into the taxonomy. Document-missing
// becomes NotFound; anything else unrecognized is a transient store
// failure. Errors already carrying a taxonomy kind pass through.
func FromStore(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrTransient):
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}
