package errors

import "fmt"

// Host error codes (HST200-299)
const (
	// ErrModuleNotFound indicates an import specifier could not be resolved
	ErrModuleNotFound ErrorCode = "HST200"
	// ErrMalformedDocument indicates a metadata document that cannot be read or parsed
	ErrMalformedDocument ErrorCode = "HST201"
	// ErrUnsupportedVersion indicates a metadata document newer than the reflector
	ErrUnsupportedVersion ErrorCode = "HST202"
)

// NewModuleNotFound creates a HST200 error
func NewModuleNotFound(name, containingFile string) *CompilerError {
	msg := fmt.Sprintf("Could not locate any module named %q", name)
	if containingFile != "" {
		msg = fmt.Sprintf("%s imported from %s", msg, containingFile)
	}
	return newError(
		ErrModuleNotFound,
		"module_not_found",
		CategoryHost,
		msg,
	).WithSuggestion("Check module_roots and base_path in the configuration")
}

// NewMalformedDocument creates a HST201 error
func NewMalformedDocument(path, reason string) *CompilerError {
	return newError(
		ErrMalformedDocument,
		"malformed_document",
		CategoryHost,
		fmt.Sprintf("Failed to read metadata document: %s", reason),
	).WithFile(path)
}

// NewUnsupportedVersion creates a HST202 error
func NewUnsupportedVersion(path string, found, supported int) *CompilerError {
	return newError(
		ErrUnsupportedVersion,
		"unsupported_version",
		CategoryHost,
		fmt.Sprintf("Metadata version %d is newer than the supported version %d", found, supported),
	).WithFile(path)
}
