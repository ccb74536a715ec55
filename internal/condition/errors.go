package condition

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes condition errors.
type ErrorCode string

const (
	// ErrCodeInvalidOperation indicates an unrecognized spatial relation.
	ErrCodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// ErrCodeUnsupportedField indicates the field is unmapped or not bi-temporal.
	ErrCodeUnsupportedField ErrorCode = "UNSUPPORTED_FIELD"

	// ErrCodeMissingField indicates a null or blank field name.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"

	// ErrCodeInvalidInstant indicates a bound the field's mapper cannot parse.
	ErrCodeInvalidInstant ErrorCode = "INVALID_INSTANT"

	// ErrCodeInvalidBoost indicates a non-positive boost.
	ErrCodeInvalidBoost ErrorCode = "INVALID_BOOST"
)

// Error is a condition construction failure. Field and Operation name the
// offending input when known.
type Error struct {
	Code      ErrorCode
	Message   string
	Field     string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsInvalidOperation reports whether err is an unknown-operation error.
// Uses errors.As to handle wrapped errors.
func IsInvalidOperation(err error) bool { return hasCode(err, ErrCodeInvalidOperation) }

// IsUnsupportedField reports whether err is an unsupported-field error.
func IsUnsupportedField(err error) bool { return hasCode(err, ErrCodeUnsupportedField) }

// IsMissingField reports whether err is a blank-field error.
func IsMissingField(err error) bool { return hasCode(err, ErrCodeMissingField) }

// IsInvalidInstant reports whether err is an unparseable-bound error.
func IsInvalidInstant(err error) bool { return hasCode(err, ErrCodeInvalidInstant) }

// IsInvalidBoost reports whether err is a non-positive boost error.
func IsInvalidBoost(err error) bool { return hasCode(err, ErrCodeInvalidBoost) }

func newInvalidOperation(op string) *Error {
	return &Error{
		Code:      ErrCodeInvalidOperation,
		Message:   fmt.Sprintf("unknown operation %q", op),
		Operation: op,
	}
}

func newUnsupportedField(field, reason string) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedField,
		Message: fmt.Sprintf("field %q %s", field, reason),
		Field:   field,
	}
}
