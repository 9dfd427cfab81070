package apperrors

import (
	"fmt"
	"strings"
)

// FieldError is a single field-addressable problem.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError accumulates every failed check for an operation, in the
// order the checks ran. Callers re-render the whole form at once, so a
// validation pass never stops at the first problem.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError() *ValidationError {
	return &ValidationError{}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasField reports whether a problem was already recorded for field.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError signals a uniqueness violation on a specific field.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(field, message string) *ConflictError {
	return &ConflictError{Field: field, Message: message}
}

// ForbiddenError signals an authorization, ownership or status-precondition
// failure. It carries no field detail; callers show a generic denial.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	if e.Message == "" {
		return "not allowed"
	}
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// NotFoundError signals that the referenced entity is absent or out of the
// caller's scope. The two cases are deliberately indistinguishable.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// PreconditionReason identifies which lifecycle guard blocked an operation.
type PreconditionReason string

const (
	ReasonProjectActive PreconditionReason = "project_active"
	ReasonHasEntries    PreconditionReason = "has_entries"
)

// PreconditionError signals a lifecycle guard, e.g. delete blocked by
// dependent rows. Reason is machine-readable so callers can distinguish
// "deactivate first" from "remove the hours first".
type PreconditionError struct {
	Reason  PreconditionReason
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func NewPreconditionError(reason PreconditionReason, message string) *PreconditionError {
	return &PreconditionError{Reason: reason, Message: message}
}
