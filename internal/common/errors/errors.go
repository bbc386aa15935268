// Package errors provides standardized error handling for the HUD
// generation flow.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDealNotFound       ErrorCode = "DEAL_NOT_FOUND"
	ErrCodeSchemaMismatch     ErrorCode = "SCHEMA_MISMATCH"
	ErrCodeStoreQueryFailed   ErrorCode = "STORE_QUERY_FAILED"
	ErrCodeStoreAuthFailed    ErrorCode = "STORE_AUTH_FAILED"
	ErrCodeReferenceLoad      ErrorCode = "REFERENCE_LOAD_FAILED"
	ErrCodeReferenceNoMatch   ErrorCode = "REFERENCE_NO_MATCH"
	ErrCodeRenderFailed       ErrorCode = "RENDER_FAILED"
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeFilesNotLoaded     ErrorCode = "FILES_NOT_LOADED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// AppError is a structured application error.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("AppError[%s]: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.cause }

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Timestamp: time.Now().UTC()}
}

// Wrap creates an AppError that records an underlying cause.
func Wrap(code ErrorCode, message string, cause error) *AppError {
	e := New(code, message)
	e.cause = cause
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// NotFoundError indicates that a deal identifier matched no record in the
// primary store. It is blocking and user-facing.
type NotFoundError struct {
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("deal %q not found in the record store", e.Identifier)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// SchemaMismatchError indicates a requested field or relationship does not
// exist in the current store schema and the schema-tolerant retry loop could
// not recover. The last attempted query and raw store error are preserved
// verbatim for operator debugging.
type SchemaMismatchError struct {
	Entity    string
	LastQuery string
	Cause     error
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch on %s: query %q failed: %v", e.Entity, e.LastQuery, e.Cause)
}

func (e *SchemaMismatchError) Unwrap() error { return e.Cause }

// IsSchemaMismatch reports whether err is (or wraps) a SchemaMismatchError.
func IsSchemaMismatch(err error) bool {
	var sm *SchemaMismatchError
	return errors.As(err, &sm)
}
