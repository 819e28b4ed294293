package params

import (
	"errors"
	"fmt"
)

// Error represents a fatal failure of an engine call.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Variable names the offending VALUES variable, if any.
	Variable string

	// Clause is the offending VALUES clause rendered as SPARQL, if any.
	Clause string

	// Err is the underlying error, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeSyntax indicates the query text could not be parsed.
	ErrCodeSyntax ErrorCode = "SYNTAX_ERROR"

	// ErrCodeIllegalBindingType indicates a blank node was bound into a VALUES clause.
	ErrCodeIllegalBindingType ErrorCode = "ILLEGAL_BINDING_TYPE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Variable != "" && e.Clause != "" {
		return fmt.Sprintf("%s: %s (variable=?%s, clause=%s)", e.Code, e.Message, e.Variable, e.Clause)
	}
	if e.Variable != "" {
		return fmt.Sprintf("%s: %s (variable=?%s)", e.Code, e.Message, e.Variable)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsSyntaxError returns true if the error is a malformed-query error.
// Uses errors.As to handle wrapped errors.
func IsSyntaxError(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeSyntax
	}
	return false
}

// IsIllegalBindingType returns true if the error reports a blank node
// bound into a VALUES clause.
func IsIllegalBindingType(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeIllegalBindingType
	}
	return false
}

func newSyntaxError(err error) *Error {
	return &Error{
		Code:    ErrCodeSyntax,
		Message: err.Error(),
		Err:     err,
	}
}

func newIllegalBindingTypeError(variable, clause string) *Error {
	return &Error{
		Code:     ErrCodeIllegalBindingType,
		Message:  "blank nodes are not allowed in VALUES",
		Variable: variable,
		Clause:   clause,
	}
}
