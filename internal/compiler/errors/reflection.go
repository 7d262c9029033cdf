package errors

import "fmt"

// Reflection error codes (REF100-199)
const (
	// ErrUnsupportedConstructor indicates a `new` expression outside the allow-list
	ErrUnsupportedConstructor ErrorCode = "REF100"
	// ErrReferenceWithoutName indicates a reference node lacking its symbol name
	ErrReferenceWithoutName ErrorCode = "REF101"
	// ErrUnresolvableTarget indicates a call or new target that did not resolve
	ErrUnresolvableTarget ErrorCode = "REF102"
	// ErrMissingParameters indicates constructor parameter metadata could not be located
	ErrMissingParameters ErrorCode = "REF103"
	// ErrCircularReference indicates references that resolve back to themselves
	ErrCircularReference ErrorCode = "REF104"
)

// NewUnsupportedConstructor creates a REF100 error
func NewUnsupportedConstructor(module, name string, node any) *CompilerError {
	return newError(
		ErrUnsupportedConstructor,
		"unsupported_constructor",
		CategoryReflection,
		fmt.Sprintf("Unknown constructor call in metadata: %s.%s", module, name),
	).WithExpression(node).
		WithSuggestion("Only provider descriptors may be constructed in metadata; move other construction into a factory")
}

// NewReferenceWithoutName creates a REF101 error
func NewReferenceWithoutName(node any) *CompilerError {
	return newError(
		ErrReferenceWithoutName,
		"reference_without_name",
		CategoryReflection,
		"Cannot resolve a reference without a name property",
	).WithExpression(node)
}

// NewUnresolvableTarget creates a REF102 error
func NewUnresolvableTarget(kind string, node any) *CompilerError {
	return newError(
		ErrUnresolvableTarget,
		"unresolvable_target",
		CategoryReflection,
		fmt.Sprintf("The target of a %s expression does not resolve to a declaration", kind),
	).WithExpression(node)
}

// NewMissingParameters creates a REF103 error
func NewMissingParameters(module, name, reason string) *CompilerError {
	return newError(
		ErrMissingParameters,
		"missing_parameters",
		CategoryReflection,
		fmt.Sprintf("Cannot locate constructor parameters: %s", reason),
	).WithDeclaration(module, name).
		WithSuggestion("Make sure the class is exported and its metadata was collected")
}

// NewCircularReference creates a REF104 error
func NewCircularReference(module, name string) *CompilerError {
	return newError(
		ErrCircularReference,
		"circular_reference",
		CategoryReflection,
		fmt.Sprintf("Reference to %s in %s resolves back to itself", name, module),
	)
}
