package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Validation error codes (E200-E299)
const (
	ErrParse             = "E200" // file could not be parsed or decoded
	ErrRequired          = "E201" // required field missing or empty
	ErrOutOfRange        = "E202" // numeric field outside its allowed range
	ErrInvalidAxisOrder  = "E203" // axis order not a valid nesting
	ErrGridNeedsCamera   = "E204" // tile grid without camera geometry
	ErrUnsupportedFormat = "E205" // unknown settings file extension
	ErrInvalidValue      = "E206" // any other field rule
)

// CompileError is a parse or decode failure with its source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

// ValidationError represents a settings validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is every validation failure found in one document.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(v))
	for i, e := range v {
		messages[i] = e.Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasCode reports whether any error carries code.
func (v ValidationErrors) HasCode(code string) bool {
	for _, e := range v {
		if e.Code == code {
			return true
		}
	}
	return false
}
