package shared

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("version conflict")
	ErrUnknownField    = errors.New("unknown field")
	ErrInvalidField    = errors.New("invalid field value")
)

// FieldError names the offending JSON field of a rejected patch or payload.
type FieldError struct {
	Field  string
	Reason string
	kind   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.kind
}

func UnknownField(field string) error {
	return &FieldError{Field: field, Reason: "is not a known field", kind: ErrUnknownField}
}

func InvalidField(field, reason string) error {
	return &FieldError{Field: field, Reason: reason, kind: ErrInvalidField}
}

// NotFound wraps ErrNotFound with the entity name so handlers can build a message.
func NotFound(entity string) error {
	return errors.Wrap(ErrNotFound, entity)
}
