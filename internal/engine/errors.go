package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while planning or executing
// a stream.
//
// Runtime errors include:
//   - Unknown entity: The stream names an entity missing from the catalog
//   - Invalid step: A step was declared with bad arguments (negative skip)
//   - Not executable: The engine's dialect cannot run against the store
//   - Evaluation: An in-process step failed
//
// RuntimeError includes structured fields for diagnostics.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// QueryID identifies the affected query, when one was assigned.
	QueryID string

	// Entity is the entity the stream reads.
	Entity string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownEntity indicates the entity is not in the catalog.
	ErrCodeUnknownEntity RuntimeErrorCode = "UNKNOWN_ENTITY"

	// ErrCodeInvalidStep indicates a stream step was declared with bad arguments.
	ErrCodeInvalidStep RuntimeErrorCode = "INVALID_STEP"

	// ErrCodeNotExecutable indicates SQL was rendered for a dialect the
	// store cannot run.
	ErrCodeNotExecutable RuntimeErrorCode = "NOT_EXECUTABLE"

	// ErrCodeEvaluation indicates an in-process step failed.
	ErrCodeEvaluation RuntimeErrorCode = "EVALUATION_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.QueryID != "" && e.Entity != "" {
		return fmt.Sprintf("%s: %s (query=%s, entity=%s)", e.Code, e.Message, e.QueryID, e.Entity)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s (entity=%s)", e.Code, e.Message, e.Entity)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRuntimeError returns true if err wraps a RuntimeError with the given code.
// Uses errors.As to handle wrapped errors.
func IsRuntimeError(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewUnknownEntityError creates a RuntimeError for a missing entity.
func NewUnknownEntityError(entity string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnknownEntity,
		Message: "entity is not declared in the catalog",
		Entity:  entity,
	}
}

// NewNotExecutableError creates a RuntimeError for a non-SQLite dialect.
func NewNotExecutableError(queryID, entity, dialect string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeNotExecutable,
		Message: fmt.Sprintf("dialect %s can be explained but not executed against the sqlite store", dialect),
		QueryID: queryID,
		Entity:  entity,
		Details: map[string]string{"dialect": dialect},
	}
}
