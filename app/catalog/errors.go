package catalog

import "fmt"

// The engine reports three recoverable error kinds; callers translate them
// into 4xx responses with errors.As. Anything else is an unrecovered store
// fault.

// ValidationError marks a missing required field, a malformed id, or a
// cover id that does not belong to the target product.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError marks an operation targeting a nonexistent row.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError marks a caller-specified value colliding with a different
// existing row in a way the idempotent lookup cannot resolve, e.g. an
// explicit code update that collides with another category's code.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}
