// Package lifecycle implements the top-level state machine sequencing the
// install, upgrade, and uninstall actions. Steps run in strict order; fatal
// errors unwind immediately with the failing step's name and the underlying
// command output attached.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// Class classifies a lifecycle error for exit handling and operator output.
type Class string

const (
	// ClassValidation covers bad or missing CLI input, caught before any
	// side effect.
	ClassValidation Class = "validation"

	// ClassEnvironment covers an unresolvable distro or architecture.
	// Fatal with no fallback.
	ClassEnvironment Class = "environment"

	// ClassCommand covers a non-zero exit from an external command. Fatal
	// under install and upgrade, warning-only under uninstall.
	ClassCommand Class = "command"

	// ClassVerification covers a post-upgrade version mismatch: every
	// command succeeded but the upgrade did not take effect.
	ClassVerification Class = "verification"

	// ClassIO covers file copy or write failures during backup or
	// reconciliation. Always fatal.
	ClassIO Class = "io"
)

// Error is a classified lifecycle error.
type Error struct {
	Class   Class
	Step    string
	Message string

	// Output is the captured command output, kept so the operator can
	// diagnose without re-running.
	Output string

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", e.Class)
	if e.Step != "" {
		fmt.Fprintf(&b, " step %q:", e.Step)
	}
	b.WriteString(" " + e.Message)
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString("\n" + out)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithStep attaches the step name during which the error occurred.
func (e *Error) WithStep(step string) *Error {
	e.Step = step
	return e
}

// NewValidationError creates a validation-class error.
func NewValidationError(message string, err error) *Error {
	return &Error{Class: ClassValidation, Message: message, Err: err}
}

// NewEnvironmentError creates an environment-class error.
func NewEnvironmentError(message string, err error) *Error {
	return &Error{Class: ClassEnvironment, Message: message, Err: err}
}

// NewCommandError creates a command-class error carrying captured output.
func NewCommandError(message, output string, err error) *Error {
	return &Error{Class: ClassCommand, Message: message, Output: output, Err: err}
}

// NewVerificationError creates a verification-class error.
func NewVerificationError(message, output string) *Error {
	return &Error{Class: ClassVerification, Message: message, Output: output}
}

// NewIOError creates an io-class error.
func NewIOError(message string, err error) *Error {
	return &Error{Class: ClassIO, Message: message, Err: err}
}

// ClassOf returns the class of a lifecycle error, or empty for other errors.
func ClassOf(err error) Class {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return ""
}

// IsCommand reports whether the error is command-class.
func IsCommand(err error) bool {
	return ClassOf(err) == ClassCommand
}

// IsVerification reports whether the error is verification-class.
func IsVerification(err error) bool {
	return ClassOf(err) == ClassVerification
}

// IsValidation reports whether the error is validation-class.
func IsValidation(err error) bool {
	return ClassOf(err) == ClassValidation
}
