package host

import (
	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

// MemoryHost serves documents from a map keyed by module name. Relative
// specifiers are joined onto the importing module; every other specifier is
// its own module path.
type MemoryHost struct {
	docs map[string]*metadata.ModuleDocument
}

// NewMemoryHost creates a host over docs. The map is not copied.
func NewMemoryHost(docs map[string]*metadata.ModuleDocument) *MemoryHost {
	if docs == nil {
		docs = make(map[string]*metadata.ModuleDocument)
	}
	return &MemoryHost{docs: docs}
}

// Add registers or replaces the document for module.
func (h *MemoryHost) Add(module string, doc *metadata.ModuleDocument) {
	h.docs[module] = doc
}

// Modules returns the number of documents held.
func (h *MemoryHost) Modules() int {
	return len(h.docs)
}

func (h *MemoryHost) GetMetadataFor(modulePath string) (*metadata.ModuleDocument, error) {
	return h.docs[modulePath], nil
}

func (h *MemoryHost) ResolveModule(moduleName, containingFile string) (string, error) {
	if isRelative(moduleName) {
		return joinRelative(moduleName, containingFile), nil
	}
	return moduleName, nil
}

func (h *MemoryHost) FindDeclaration(modulePath, symbolName string) (metadata.Declaration, error) {
	return findDeclaration(h, modulePath, symbolName)
}
