package errors

import "fmt"

// Resolution error codes (RES300-399)
const (
	// ErrNoDirectiveAnnotation indicates a type without @Directive or @Component
	ErrNoDirectiveAnnotation ErrorCode = "RES300"
	// ErrNoPipeAnnotation indicates a type without @Pipe
	ErrNoPipeAnnotation ErrorCode = "RES301"
	// ErrNoView indicates a component without a template or @View
	ErrNoView ErrorCode = "RES302"
	// ErrUnexpectedDirective indicates a non-type entry in a view's directives
	ErrUnexpectedDirective ErrorCode = "RES303"
	// ErrUnexpectedPipe indicates a non-type entry in a view's pipes
	ErrUnexpectedPipe ErrorCode = "RES304"
	// ErrNoToken indicates a constructor parameter without a dependency token
	ErrNoToken ErrorCode = "RES305"
	// ErrInvalidProvider indicates a blank or malformed provider entry
	ErrInvalidProvider ErrorCode = "RES306"
	// ErrNotStringArray indicates a field that must be an array of strings
	ErrNotStringArray ErrorCode = "RES307"
)

// NewNoDirectiveAnnotation creates a RES300 error
func NewNoDirectiveAnnotation(module, name string) *CompilerError {
	return newError(
		ErrNoDirectiveAnnotation,
		"no_directive_annotation",
		CategoryResolution,
		fmt.Sprintf("No Directive annotation found on %s", name),
	).WithDeclaration(module, name)
}

// NewNoPipeAnnotation creates a RES301 error
func NewNoPipeAnnotation(module, name string) *CompilerError {
	return newError(
		ErrNoPipeAnnotation,
		"no_pipe_annotation",
		CategoryResolution,
		fmt.Sprintf("No Pipe decorator found on %s", name),
	).WithDeclaration(module, name)
}

// NewNoView creates a RES302 error
func NewNoView(module, name string) *CompilerError {
	return newError(
		ErrNoView,
		"no_view",
		CategoryResolution,
		fmt.Sprintf("Component '%s' must have either 'template' or 'templateUrl' set", name),
	).WithDeclaration(module, name)
}

// NewUnexpectedDirective creates a RES303 error
func NewUnexpectedDirective(module, name, value string) *CompilerError {
	return newError(
		ErrUnexpectedDirective,
		"unexpected_directive",
		CategoryResolution,
		fmt.Sprintf("Unexpected directive value '%s' on the View of component '%s'", value, name),
	).WithDeclaration(module, name)
}

// NewUnexpectedPipe creates a RES304 error
func NewUnexpectedPipe(module, name, value string) *CompilerError {
	return newError(
		ErrUnexpectedPipe,
		"unexpected_pipe",
		CategoryResolution,
		fmt.Sprintf("Unexpected piped value '%s' on the View of component '%s'", value, name),
	).WithDeclaration(module, name)
}

// NewNoToken creates a RES305 error
func NewNoToken(module, name string, index int) *CompilerError {
	return newError(
		ErrNoToken,
		"no_token",
		CategoryResolution,
		fmt.Sprintf("No token found for parameter %d of %s", index, name),
	).WithDeclaration(module, name).
		WithSuggestion("Annotate the parameter with a type or @Inject(token)")
}

// NewInvalidProvider creates a RES306 error
func NewInvalidProvider(index int, value any) *CompilerError {
	if value == nil {
		return newError(
			ErrInvalidProvider,
			"invalid_provider",
			CategoryResolution,
			fmt.Sprintf("Invalid provider at index %d: value is blank", index),
		)
	}
	return newError(
		ErrInvalidProvider,
		"invalid_provider",
		CategoryResolution,
		fmt.Sprintf("Invalid provider at index %d: expected a type or a provider", index),
	).WithExpression(value)
}

// NewNotStringArray creates a RES307 error
func NewNotStringArray(field string, value any) *CompilerError {
	return newError(
		ErrNotStringArray,
		"not_string_array",
		CategoryResolution,
		fmt.Sprintf("Expected '%s' to be an array of strings", field),
	).WithExpression(value)
}
