// Package errors provides custom error types for the mamedex system.
// These errors enable programmatic error checking and carry enough
// context (dataset kind, byte offset, export target) to diagnose
// failures without string matching.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As for convenience.
var As = errors.As

// Common sentinel errors for the mamedex system
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that an entity already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoData indicates that an operation needs an ingested registry
	// but none of the datasets have been read yet
	ErrNoData = errors.New("no machine data loaded")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrReadOnly indicates an attempt to modify a read-only registry
	ErrReadOnly = errors.New("read only")
)

// RetrievalError represents a collaborator-reported failure to obtain
// the byte stream for a dataset. The ingest coordinator treats it as
// that dataset's ingestion failure.
type RetrievalError struct {
	Dataset string
	Source  string
	Err     error
}

// Error implements the error interface
func (e *RetrievalError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("retrieval of %s dataset from %s failed: %v", e.Dataset, e.Source, e.Err)
	}
	return fmt.Sprintf("retrieval of %s dataset failed: %v", e.Dataset, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// NewRetrievalError creates a new RetrievalError
func NewRetrievalError(dataset, source string, err error) *RetrievalError {
	return &RetrievalError{Dataset: dataset, Source: source, Err: err}
}

// FormatError represents a structurally unparsable dataset stream.
// Offset is the byte offset where parsing gave up, when known.
type FormatError struct {
	Dataset string
	Offset  int64
	Message string
	Err     error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("%s dataset unparsable at byte %d: %s", e.Dataset, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s dataset unparsable: %s", e.Dataset, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewFormatError creates a new FormatError
func NewFormatError(dataset string, offset int64, err error) *FormatError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &FormatError{Dataset: dataset, Offset: offset, Message: message, Err: err}
}

// ExportError represents an I/O or encoding failure while writing an
// export artifact.
type ExportError struct {
	Target   string // output path or table name
	Encoding string // "json", "yaml", "csv", "sqlite"
	Err      error
}

// Error implements the error interface
func (e *ExportError) Error() string {
	return fmt.Sprintf("export of %s (%s) failed: %v", e.Target, e.Encoding, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates a new ExportError
func NewExportError(target, encoding string, err error) *ExportError {
	return &ExportError{Target: target, Encoding: encoding, Err: err}
}

// FilterSpecError represents a malformed removal specification. It is
// raised during validation, before any mutation is applied.
type FilterSpecError struct {
	Predicate string
	Message   string
}

// Error implements the error interface
func (e *FilterSpecError) Error() string {
	if e.Predicate != "" {
		return fmt.Sprintf("invalid filter specification: predicate %s: %s", e.Predicate, e.Message)
	}
	return fmt.Sprintf("invalid filter specification: %s", e.Message)
}

// Is implements errors.Is support
func (e *FilterSpecError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewFilterSpecError creates a new FilterSpecError
func NewFilterSpecError(predicate, message string) *FilterSpecError {
	return &FilterSpecError{Predicate: predicate, Message: message}
}

// ParseError represents a recoverable parse failure for one entry of a
// dataset. Readers skip and count these rather than aborting.
type ParseError struct {
	Dataset string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s dataset at line %d: %s", e.Dataset, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s dataset: %s", e.Dataset, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(dataset string, line int, message string, err error) *ParseError {
	return &ParseError{Dataset: dataset, Line: line, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetrieval checks if an error is a retrieval error
func IsRetrieval(err error) bool {
	var re *RetrievalError
	return errors.As(err, &re)
}

// IsFormat checks if an error is a dataset format error
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsFilterSpec checks if an error is a filter specification error
func IsFilterSpec(err error) bool {
	var fe *FilterSpecError
	return errors.As(err, &fe)
}

// IsExport checks if an error is an export error
func IsExport(err error) bool {
	var ee *ExportError
	return errors.As(err, &ee)
}

// IsCanceled checks if an error is a cancellation error, including
// context cancellation and deadline expiry
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapExport wraps an error as an ExportError
func WrapExport(target, encoding string, err error) error {
	if err == nil {
		return nil
	}
	return NewExportError(target, encoding, err)
}

// WrapRetrieval wraps an error as a RetrievalError
func WrapRetrieval(dataset, source string, err error) error {
	if err == nil {
		return nil
	}
	return NewRetrievalError(dataset, source, err)
}
