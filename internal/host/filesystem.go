package host

import (
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	cerrors "github.com/ngtools/staticreflect/internal/compiler/errors"
	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

// FileSystemOptions configures a FileSystemHost
type FileSystemOptions struct {
	// BasePath is the project root. Bare specifiers are looked up under each
	// module root relative to it, then under it directly.
	BasePath string
	// ModuleRoots are directories holding third-party packages.
	ModuleRoots []string
	Logger      *zap.Logger
}

// FileSystemHost reads `<module>.metadata.json` files. Module paths are
// absolute and carry no extension.
type FileSystemHost struct {
	fs          afero.Fs
	basePath    string
	moduleRoots []string
	logger      *zap.Logger
}

// NewFileSystemHost creates a host reading from fs.
func NewFileSystemHost(fs afero.Fs, opts FileSystemOptions) *FileSystemHost {
	base := opts.BasePath
	if base == "" {
		base = "/"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystemHost{
		fs:          fs,
		basePath:    path.Clean(filepath.ToSlash(base)),
		moduleRoots: opts.ModuleRoots,
		logger:      logger,
	}
}

// GetMetadataFor reads and parses the module's metadata file. A module
// without one has no metadata.
func (h *FileSystemHost) GetMetadataFor(modulePath string) (*metadata.ModuleDocument, error) {
	file := modulePath + MetadataSuffix

	data, err := afero.ReadFile(h.fs, file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		h.logger.Error("failed to read metadata file", zap.String("path", file), zap.Error(err))
		return nil, cerrors.NewMalformedDocument(file, err.Error())
	}

	doc, err := metadata.ParseModuleDocument(file, data)
	if err != nil {
		h.logger.Error("failed to parse metadata file", zap.String("path", file), zap.Error(err))
		return nil, err
	}
	return doc, nil
}

// ResolveModule maps a specifier to a module path. Relative specifiers are
// joined onto the importing module's directory without checking that the
// target exists; bare specifiers must be found under a module root.
func (h *FileSystemHost) ResolveModule(moduleName, containingFile string) (string, error) {
	moduleName = filepath.ToSlash(moduleName)

	switch {
	case path.IsAbs(moduleName):
		return path.Clean(moduleName), nil
	case isRelative(moduleName):
		if containingFile == "" {
			return path.Join(h.basePath, moduleName), nil
		}
		return joinRelative(moduleName, containingFile), nil
	}

	candidates := make([]string, 0, len(h.moduleRoots)+1)
	for _, root := range h.moduleRoots {
		candidates = append(candidates, h.abs(path.Join(root, moduleName)))
	}
	candidates = append(candidates, path.Join(h.basePath, moduleName))

	for _, candidate := range candidates {
		if h.exists(candidate + MetadataSuffix) {
			return candidate, nil
		}
		if index := path.Join(candidate, "index"); h.exists(index + MetadataSuffix) {
			return index, nil
		}
	}
	return "", cerrors.NewModuleNotFound(moduleName, containingFile)
}

func (h *FileSystemHost) FindDeclaration(modulePath, symbolName string) (metadata.Declaration, error) {
	return findDeclaration(h, modulePath, symbolName)
}

func (h *FileSystemHost) abs(p string) string {
	p = filepath.ToSlash(p)
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(h.basePath, p)
}

func (h *FileSystemHost) exists(file string) bool {
	ok, err := afero.Exists(h.fs, file)
	return err == nil && ok
}
