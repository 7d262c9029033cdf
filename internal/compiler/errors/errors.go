// Package errors provides structured error handling for the static reflector.
// It defines error codes, categories, and formatting for both human-readable
// terminal output and machine-parseable JSON.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode string

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryReflection represents unsupported constructs met while
	// simplifying metadata (REF100-199)
	CategoryReflection ErrorCategory = "reflection"
	// CategoryHost represents failures at the module metadata host (HST200-299)
	CategoryHost ErrorCategory = "host"
	// CategoryResolution represents failures building compile metadata (RES300-399)
	CategoryResolution ErrorCategory = "resolution"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an error that aborts the run
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a problem that was recovered from
	SeverityWarning ErrorSeverity = "warning"
)

// DeclarationRef names the declaration an error is attributed to
type DeclarationRef struct {
	Module string `json:"module"`
	Name   string `json:"name"`
}

// CompilerError represents a structured error with enough context to trace
// it back to the annotation that caused it
type CompilerError struct {
	// Code is the unique error code (e.g., "REF100")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Declaration is the class or symbol whose metadata was being read
	Declaration *DeclarationRef `json:"declaration,omitempty"`
	// Expression is the offending symbolic expression, compactly rendered
	Expression string `json:"expression,omitempty"`
	// File is the metadata file involved (optional)
	File string `json:"file,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Documentation is a URL to detailed error documentation
	Documentation string `json:"documentation,omitempty"`
}

// Error implements the error interface
func (e *CompilerError) Error() string {
	return FormatCompact(e)
}

// Format returns a human-readable error message for terminal output
func (e *CompilerError) Format() string {
	return FormatError(e)
}

// ToJSON returns the error as a JSON string
func (e *CompilerError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithFile sets the metadata file for the error
func (e *CompilerError) WithFile(file string) *CompilerError {
	e.File = file
	return e
}

// WithDeclaration sets the declaration the error is attributed to
func (e *CompilerError) WithDeclaration(module, name string) *CompilerError {
	e.Declaration = &DeclarationRef{Module: module, Name: name}
	return e
}

// WithExpression records the offending expression
func (e *CompilerError) WithExpression(node any) *CompilerError {
	e.Expression = renderExpression(node)
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *CompilerError) WithSuggestion(suggestion string) *CompilerError {
	e.Suggestion = suggestion
	return e
}

// Attribute attaches the originating declaration to a CompilerError that
// does not carry one yet. Other errors are returned unchanged.
func Attribute(err error, module, name string) error {
	if err == nil {
		return nil
	}
	var ce *CompilerError
	if stderrors.As(err, &ce) && ce.Declaration == nil {
		ce.WithDeclaration(module, name)
	}
	return err
}

// CodeOf returns the code of the first CompilerError in err's chain.
func CodeOf(err error) ErrorCode {
	var ce *CompilerError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// ErrorList is a collection of compiler errors
type ErrorList []*CompilerError

// Error implements the error interface
func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	return FormatErrorList(el)
}

// HasErrors returns true if the list contains any errors (excludes warnings)
func (el ErrorList) HasErrors() bool {
	for _, err := range el {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of errors by severity
func (el ErrorList) ErrorCount() (errors, warnings int) {
	for _, err := range el {
		switch err.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return
}

// documentationURL returns the documentation URL for an error code
func documentationURL(code ErrorCode) string {
	return fmt.Sprintf("https://ngtools.dev/staticreflect/errors/%s", code)
}

const maxExpressionLen = 200

// renderExpression renders a symbolic node as compact JSON, truncated
func renderExpression(node any) string {
	data, err := json.Marshal(node)
	if err != nil {
		return fmt.Sprintf("%v", node)
	}
	s := string(data)
	if len(s) > maxExpressionLen {
		s = s[:maxExpressionLen] + "…"
	}
	return s
}

// newError creates a new CompilerError with the given parameters
func newError(
	code ErrorCode,
	typ string,
	category ErrorCategory,
	message string,
) *CompilerError {
	return &CompilerError{
		Code:          code,
		Type:          typ,
		Category:      category,
		Severity:      SeverityError,
		Message:       message,
		Documentation: documentationURL(code),
	}
}
