// Package domainerrors defines coded errors shared by services and transports.
//
// Services return *Error values so transports can map them to status codes
// without inspecting messages. Infrastructure layers return sentinel errors
// (see pkg/platform/sentinel) which services translate into codes here.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	CodeValidation         Code = "validation_error"
	CodeBadRequest         Code = "bad_request"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeInternal           Code = "internal_error"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInvalidTransition  Code = "invalid_transition"

	// Territory selection and claim taxonomy.
	CodeUnknownRegion         Code = "unknown_region"
	CodeAreaLimitExceeded     Code = "area_limit_exceeded"
	CodeSovereignExclusivity  Code = "sovereign_exclusivity"
	CodeRegionUnavailable     Code = "region_unavailable"
	CodeOracleUnavailable     Code = "oracle_unavailable"
	CodePriceUnavailable      Code = "price_unavailable"
	CodeFieldValidationFailed Code = "field_validation_failed"
	CodeTransactionRejected   Code = "transaction_rejected"
	CodeRegionConflict        Code = "region_conflict"
)

// Error is a coded domain error. Message is safe to show to callers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the outermost coded error in the chain,
// or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether any coded error in the chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}
