package core

import (
	"errors"
	"fmt"
	"strings"
)

// Calculation errors are typed so adapters can map them to transport codes
// without string matching. Every error names the item or line that caused it;
// no calculation substitutes a zero or default value on failure.

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Kind string // "stock item", "component", "built item", "product", "order", "planner"
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// ValidationError reports invalid input rejected before any computation began.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// CycleError reports a cyclic BOM reference met during expansion. The graph
// invariants make this impossible in well-formed data; it exists so a bad
// data state fails the request instead of recursing without bound.
type CycleError struct {
	Path []ItemRef // expansion path up to and including the repeated node
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, ref := range e.Path {
		parts[i] = fmt.Sprintf("%s %d", ref.Type.Label(), ref.ID)
	}
	return "cyclic BOM reference: " + strings.Join(parts, " -> ")
}

// ConstraintError rejects the deletion of an entity still referenced by BOM
// entries, composition entries, planner items, or order lines. References
// carries enough detail for the caller to identify the referencing records.
type ConstraintError struct {
	Kind       string
	ID         int
	References []string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s %d is still referenced by: %s",
		e.Kind, e.ID, strings.Join(e.References, "; "))
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsCycle reports whether err is or wraps a CycleError.
func IsCycle(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}

// IsConstraint reports whether err is or wraps a ConstraintError.
func IsConstraint(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}
