package reflector

import "github.com/ngtools/staticreflect/internal/compiler/metadata"

// Host supplies module metadata to the reflector and resolves module names.
// It is the reflector's only I/O seam. Implementations backed by
// asynchronous storage must complete their reads before returning; see the
// host package for a preloading adapter.
type Host interface {
	// GetMetadataFor returns the metadata document for an absolute module
	// path. A nil document with a nil error means the module has no metadata
	// and is treated as empty. Errors are reserved for documents that exist
	// but cannot be read or parsed.
	GetMetadataFor(modulePath string) (*metadata.ModuleDocument, error)

	// ResolveModule resolves an import specifier to an absolute module path.
	// containingFile is the importing module, used for relative specifiers.
	ResolveModule(moduleName, containingFile string) (string, error)

	// FindDeclaration follows re-exports from modulePath to the module that
	// actually declares symbolName.
	FindDeclaration(modulePath, symbolName string) (metadata.Declaration, error)
}
