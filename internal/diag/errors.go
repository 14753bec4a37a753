// Package diag defines the error taxonomy for the Strata toolchain.
// Every failure that aborts a generation pass carries a stable code and
// is qualified with the entity and field it originated from.
package diag

import (
	"errors"
	"fmt"
)

// Error code constants organized by phase
// S001-S099: Classification errors
// S100-S199: Merge errors
// S200-S299: Codegen errors
// S300-S399: Model file errors
const (
	CodeUnsupportedType   = "S001"
	CodeDuplicateName     = "S002"
	CodeBadIndexStrategy  = "S003"
	CodeMissingTarget     = "S004"
	CodeEmptyEntity       = "S005"
	CodeDuplicateEntity   = "S006"
	CodeMissingIDField    = "S007"
	CodeMultipleIDFields  = "S008"

	CodeUIDCollision = "S100"
	CodeIDRegression = "S101"

	CodeUnresolvableProperty = "S200"
	CodeUnknownRelationRef   = "S201"

	CodeModelParse = "S300"
	CodeModelWrite = "S301"
)

// Error is a generation-pass failure qualified by origin.
type Error struct {
	Code   string
	Entity string
	Field  string
	Msg    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Entity != "" && e.Field != "":
		return fmt.Sprintf("[%s] %s.%s: %s", e.Code, e.Entity, e.Field, e.Msg)
	case e.Entity != "":
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Entity, e.Msg)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
	}
}

// New creates an Error with no entity/field qualification.
func New(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Entityf creates an Error qualified with an entity name.
func Entityf(code, entity, format string, args ...interface{}) *Error {
	return &Error{Code: code, Entity: entity, Msg: fmt.Sprintf(format, args...)}
}

// Fieldf creates an Error qualified with an entity and field name.
func Fieldf(code, entity, field, format string, args ...interface{}) *Error {
	return &Error{Code: code, Entity: entity, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the diagnostic code from err, or "" if err is not a
// diag.Error.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
