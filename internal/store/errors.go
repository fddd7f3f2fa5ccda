package store

import (
	"errors"
	"fmt"

	"github.com/yukikurage/taskboard-api/internal/permissions"
)

var (
	// ErrNotFound is returned when an id no longer exists. Deletes treat it as a no-op.
	ErrNotFound = errors.New("not found")
	// ErrNoAvailableColumn is returned when a target board has no active column
	ErrNoAvailableColumn = errors.New("no available column on target board")
	// ErrForbidden is returned when the actor's role is too low for the operation
	ErrForbidden = permissions.ErrForbidden
)

// ValidationError reports a field-level input problem; the mutation is not attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}
