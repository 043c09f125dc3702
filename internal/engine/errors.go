package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/mdaq/internal/ir"
)

// Error represents a failure detected while planning or driving a stream.
//
// Codes:
//   - CONFIGURATION_ERROR: settings or geometry unusable; no event produced
//   - EMPTY_AXIS: an axis yields nothing, so the stream is empty
//   - EXECUTION_ERROR: the sink rejected an event; pulling stopped
//   - QUOTA_EXCEEDED: the stream is longer than the configured cap
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Axis names the offending axis (EMPTY_AXIS only).
	Axis ir.Axis

	// EventIndex is the zero-based index of the event being delivered
	// (EXECUTION_ERROR and QUOTA_EXCEEDED).
	EventIndex int

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeEmptyAxis     ErrorCode = "EMPTY_AXIS"
	ErrCodeExecution     ErrorCode = "EXECUTION_ERROR"
	ErrCodeQuotaExceeded ErrorCode = "QUOTA_EXCEEDED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	switch e.Code {
	case ErrCodeEmptyAxis:
		msg = fmt.Sprintf("%s (axis=%s)", msg, e.Axis)
	case ErrCodeExecution, ErrCodeQuotaExceeded:
		msg = fmt.Sprintf("%s (event=%d)", msg, e.EventIndex)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfigurationError wraps a failure that prevents planning.
func NewConfigurationError(message string, err error) *Error {
	return &Error{Code: ErrCodeConfiguration, Message: message, Err: err}
}

// NewEmptyAxisError reports that axis yields no values.
func NewEmptyAxisError(axis ir.Axis) *Error {
	return &Error{
		Code:    ErrCodeEmptyAxis,
		Message: "axis yields no events; stream is empty",
		Axis:    axis,
	}
}

// NewExecutionError wraps a sink failure for the event at index.
func NewExecutionError(index int, err error) *Error {
	return &Error{
		Code:       ErrCodeExecution,
		Message:    "sink rejected event",
		EventIndex: index,
		Err:        err,
	}
}

// NewQuotaError reports a stream that exceeds maxEvents.
func NewQuotaError(index, maxEvents int) *Error {
	return &Error{
		Code:       ErrCodeQuotaExceeded,
		Message:    fmt.Sprintf("stream exceeds max events (%d)", maxEvents),
		EventIndex: index,
	}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsConfigurationError reports whether err is a configuration error.
// Uses errors.As to handle wrapped errors.
func IsConfigurationError(err error) bool { return hasCode(err, ErrCodeConfiguration) }

// IsEmptyAxisError reports whether err is an empty-axis error.
func IsEmptyAxisError(err error) bool { return hasCode(err, ErrCodeEmptyAxis) }

// IsExecutionError reports whether err is an execution error.
func IsExecutionError(err error) bool { return hasCode(err, ErrCodeExecution) }

// IsQuotaError reports whether err is a quota error.
func IsQuotaError(err error) bool { return hasCode(err, ErrCodeQuotaExceeded) }
