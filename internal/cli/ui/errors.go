package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	cerrors "github.com/ngtools/staticreflect/internal/compiler/errors"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Details      []string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error block.
//
// Example output:
//
//	❌ SYMBOL NOT FOUND: Cannot find 'HeroComponnet' in /app/hero.
//
//	   Did you mean: HeroComponent?
//
//	   → List declarations: ngreflect annotations /app/hero <Name>
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string
	switch opts.Level {
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	default:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	}
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	if opts.NoColor {
		for _, c := range []*color.Color{headerColor, bodyColor, yellow, cyan} {
			c.DisableColor()
		}
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if len(opts.Details) > 0 {
		b.WriteString("\n")
		for _, d := range opts.Details {
			bodyColor.Fprintf(&b, "   %s\n", d)
		}
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// ReflectionError renders any error returned by the reflector, hosts or
// resolvers. Structured compiler errors keep their code, attribution and
// offending expression; anything else is shown as a plain message.
func ReflectionError(err error, noColor bool) string {
	var ce *cerrors.CompilerError
	if !stderrors.As(err, &ce) {
		return FormatError(ErrorOptions{Problem: err.Error(), NoColor: noColor})
	}

	opts := ErrorOptions{
		Context: fmt.Sprintf("%s %s", ce.Category, ce.Code),
		Problem: ce.Message,
		NoColor: noColor,
	}
	if ce.Severity == cerrors.SeverityWarning {
		opts.Level = ErrorLevelWarning
	}
	if ce.Declaration != nil {
		opts.Details = append(opts.Details, fmt.Sprintf("Declaration: %s in %s", ce.Declaration.Name, ce.Declaration.Module))
	}
	if ce.File != "" {
		opts.Details = append(opts.Details, "File:        "+ce.File)
	}
	if ce.Expression != "" {
		opts.Details = append(opts.Details, "Expression:  "+ce.Expression)
	}
	if ce.Suggestion != "" {
		opts.HelpCommands = append(opts.HelpCommands, ce.Suggestion)
	}
	if ce.Documentation != "" {
		opts.HelpCommands = append(opts.HelpCommands, "Learn more: "+ce.Documentation)
	}
	return FormatError(opts)
}

// SymbolNotFoundError reports a name the module does not declare.
func SymbolNotFoundError(module, name string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "SYMBOL NOT FOUND",
		Problem:     fmt.Sprintf("Cannot find '%s' in %s.", name, module),
		Suggestions: suggestions,
		HelpCommands: []string{
			"Check the module's .metadata.json is up to date",
			"Get help: ngreflect --help",
		},
		NoColor: noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "CONFIGURATION ERROR",
		Problem: message,
		HelpCommands: []string{
			"View config: cat ngreflect.yaml",
			"Get help: ngreflect --help",
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, noColor bool) string {
	return FormatError(ErrorOptions{Level: ErrorLevelWarning, Problem: message, NoColor: noColor})
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}
