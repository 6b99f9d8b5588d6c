package engine

import (
	"errors"
	"fmt"

	"github.com/ayushgw/graphql-basics/internal/model"
)

// ErrorCode categorizes domain errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the targeted id does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeConflict indicates a uniqueness constraint would be violated.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeValidation indicates a referenced entity fails its existence
	// or visibility condition.
	ErrCodeValidation ErrorCode = "VALIDATION"
)

// Error is a domain error returned by engine operations.
//
// Kind and ID name the entity the error is about. For a validation error
// that is the referenced entity (the missing author, the unpublished post),
// not the one being created.
type Error struct {
	Code    ErrorCode
	Kind    model.Kind
	ID      string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s (%s=%s)", e.Code, e.Message, e.Kind, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NotFoundError creates an Error for a missing id.
func NotFoundError(kind model.Kind, id string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Kind:    kind,
		ID:      id,
		Message: fmt.Sprintf("%s not found", kind),
	}
}

// ConflictError creates an Error for a taken email.
func ConflictError(email string) *Error {
	return &Error{
		Code:    ErrCodeConflict,
		Kind:    model.KindUser,
		Message: fmt.Sprintf("email %q is already taken", email),
	}
}

// ValidationError creates an Error for a referenced entity that fails its
// condition.
func ValidationError(kind model.Kind, id, message string) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Kind:    kind,
		ID:      id,
		Message: message,
	}
}

// CodeOf returns the code of the domain error in err's chain, or "" if
// there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsNotFound returns true if err is a NOT_FOUND domain error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsConflict returns true if err is a CONFLICT domain error.
func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

// IsValidation returns true if err is a VALIDATION domain error.
func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}
