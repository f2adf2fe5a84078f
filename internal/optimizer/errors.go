package optimizer

import (
	"errors"
	"fmt"
)

// ContractError reports a caller or collaborator breaking the optimizer's
// contract. It is never returned for an operation that merely cannot be
// pushed down; those stay in the residual pipeline.
type ContractError struct {
	// Code identifies the violated contract.
	Code ContractErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying collaborator error, if any.
	Err error
}

// ContractErrorCode categorizes contract violations.
type ContractErrorCode string

const (
	ErrCodeNilPipeline       ContractErrorCode = "NIL_PIPELINE"
	ErrCodeNilDialect        ContractErrorCode = "NIL_DIALECT"
	ErrCodeUnknownSupport    ContractErrorCode = "UNKNOWN_SKIP_LIMIT_SUPPORT"
	ErrCodeNilColumnNamer    ContractErrorCode = "NIL_COLUMN_NAMER"
	ErrCodeEmptySelect       ContractErrorCode = "EMPTY_SELECT_CLAUSE"
	ErrCodeRenderFailed      ContractErrorCode = "RENDER_FAILED"
	ErrCodeMalformedFragment ContractErrorCode = "MALFORMED_FRAGMENT"
	ErrCodeUnpushable        ContractErrorCode = "UNPUSHABLE_OPERATION"
)

func (e *ContractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// IsContractError returns true if err wraps a ContractError.
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

// ContractErrorCodeOf returns the code of a wrapped ContractError, or ""
// when err is not one.
func ContractErrorCodeOf(err error) ContractErrorCode {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func newContractError(code ContractErrorCode, format string, args ...any) *ContractError {
	return &ContractError{Code: code, Message: fmt.Sprintf(format, args...)}
}
