package errors

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// ServiceError should be used to return error messages in JSON format.
type ServiceError struct {
	Message string `json:"message"`
}

// ErrNotFound is returned when a lookup has no matching record.
var ErrNotFound = stderrors.New("not found")

// ChainQueryError signals a failure talking to the chain node (RPC error, timeout, decoding).
type ChainQueryError struct {
	Op  string
	err error
}

// NewChainQueryError wraps err as a ChainQueryError for the operation op.
func NewChainQueryError(op string, err error) error {
	return &ChainQueryError{Op: op, err: errors.Wrap(err, op)}
}

func (e *ChainQueryError) Error() string { return "chain query: " + e.err.Error() }

// Unwrap returns the underlying cause.
func (e *ChainQueryError) Unwrap() error { return e.err }

// UpstreamAPIError signals a non-200 status or a malformed body from the block explorer.
type UpstreamAPIError struct {
	StatusCode int
	err        error
}

// NewUpstreamAPIError wraps err as an UpstreamAPIError.
func NewUpstreamAPIError(statusCode int, err error) error {
	return &UpstreamAPIError{StatusCode: statusCode, err: err}
}

func (e *UpstreamAPIError) Error() string { return "upstream api: " + e.err.Error() }

// Unwrap returns the underlying cause.
func (e *UpstreamAPIError) Unwrap() error { return e.err }

// ValidationError signals a missing or malformed request parameter.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string { return e.Field + " " + e.Reason }

// IsChainQuery reports whether err carries a ChainQueryError.
func IsChainQuery(err error) bool {
	var target *ChainQueryError
	return stderrors.As(err, &target)
}

// IsUpstreamAPI reports whether err carries an UpstreamAPIError.
func IsUpstreamAPI(err error) bool {
	var target *UpstreamAPIError
	return stderrors.As(err, &target)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}
