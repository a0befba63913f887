package engine

import "fmt"

// ValidationError reports a missing or invalid required field. The engine
// validates fully before mutating, so a ValidationError guarantees the store
// was not touched.
type ValidationError struct {
	// Field is the first unmet field, in validation order.
	Field string
	// Reason describes what was wrong with it.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation targeting an unknown identifier.
type NotFoundError struct {
	// Kind is the entity type that was looked up (task, sprint, user).
	Kind string
	// ID is the key that failed to resolve.
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConflictError reports a violated cross-field or cross-entity invariant,
// such as sprint role exclusivity or date ordering.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func notFoundErr(kind string, id any) error {
	return &NotFoundError{Kind: kind, ID: fmt.Sprint(id)}
}

func conflictErr(format string, args ...any) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}
