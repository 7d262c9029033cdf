package errors

import (
	"fmt"
	"strings"
)

// FormatError returns a human-readable error message for terminal output
func FormatError(e *CompilerError) string {
	var b strings.Builder

	icon := severityIcon(e.Severity)
	categoryName := categoryDisplayName(e.Category)

	fmt.Fprintf(&b, "%s %s [%s]\n", icon, categoryName, e.Code)
	fmt.Fprintf(&b, "  %s\n", e.Message)

	if e.Declaration != nil {
		fmt.Fprintf(&b, "\n  Declaration: %s in %s\n", e.Declaration.Name, e.Declaration.Module)
	}
	if e.File != "" {
		fmt.Fprintf(&b, "  File:        %s\n", e.File)
	}
	if e.Expression != "" {
		fmt.Fprintf(&b, "  Expression:  %s\n", e.Expression)
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", e.Suggestion)
	}

	if e.Documentation != "" {
		fmt.Fprintf(&b, "\nLearn more: %s\n", e.Documentation)
	}

	return b.String()
}

// FormatErrorList returns a formatted string of all errors
func FormatErrorList(errors ErrorList) string {
	if len(errors) == 0 {
		return "no errors"
	}

	var b strings.Builder

	errCount, warnCount := errors.ErrorCount()
	fmt.Fprintf(&b, "Reflection failed with %d error(s), %d warning(s)\n\n", errCount, warnCount)

	for i, err := range errors {
		if i > 0 {
			b.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
		b.WriteString(err.Format())
	}

	return b.String()
}

// FormatCompact returns a compact one-line error format
func FormatCompact(e *CompilerError) string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Declaration != nil {
		fmt.Fprintf(&b, " (in %s of %s)", e.Declaration.Name, e.Declaration.Module)
	}
	if e.File != "" {
		fmt.Fprintf(&b, " [%s]", e.File)
	}
	if e.Expression != "" {
		fmt.Fprintf(&b, ": %s", e.Expression)
	}
	return b.String()
}

// severityIcon returns the emoji/icon for a severity level
func severityIcon(severity ErrorSeverity) string {
	switch severity {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️ "
	default:
		return "❓"
	}
}

// categoryDisplayName returns a human-readable category name
func categoryDisplayName(category ErrorCategory) string {
	switch category {
	case CategoryReflection:
		return "Unsupported Metadata"
	case CategoryHost:
		return "Metadata Host Error"
	case CategoryResolution:
		return "Resolution Error"
	default:
		return "Compiler Error"
	}
}
