// Package host provides module metadata hosts for the static reflector: an
// in-memory host, a file-system host reading *.metadata.json files, a bundle
// host backed by a SQLite database, and a preloading adapter.
package host

import (
	"path"
	"strings"

	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

// Host is the contract the reflector consumes. It is repeated here so that
// hosts do not depend on the reflector.
type Host interface {
	GetMetadataFor(modulePath string) (*metadata.ModuleDocument, error)
	ResolveModule(moduleName, containingFile string) (string, error)
	FindDeclaration(modulePath, symbolName string) (metadata.Declaration, error)
}

// MetadataSuffix is appended to a module path to name its metadata file.
const MetadataSuffix = ".metadata.json"

// documentSource is what declaration lookup needs from a host.
type documentSource interface {
	GetMetadataFor(modulePath string) (*metadata.ModuleDocument, error)
	ResolveModule(moduleName, containingFile string) (string, error)
}

// findDeclaration follows re-exports from modulePath to the module that
// declares symbolName. Named re-exports are followed by their original
// name, then star re-exports are searched in order. A symbol that cannot be
// traced is assumed to be declared where it was asked for.
func findDeclaration(src documentSource, modulePath, symbolName string) (metadata.Declaration, error) {
	decl, found, err := traceDeclaration(src, modulePath, symbolName, map[string]bool{})
	if err != nil {
		return metadata.Declaration{}, err
	}
	if !found {
		return metadata.Declaration{Path: modulePath, Name: symbolName}, nil
	}
	return decl, nil
}

func traceDeclaration(src documentSource, modulePath, name string, seen map[string]bool) (metadata.Declaration, bool, error) {
	key := metadata.SymbolKey(modulePath, name)
	if seen[key] {
		return metadata.Declaration{}, false, nil
	}
	seen[key] = true

	doc, err := src.GetMetadataFor(modulePath)
	if err != nil {
		return metadata.Declaration{}, false, err
	}
	if doc == nil {
		return metadata.Declaration{}, false, nil
	}
	if _, ok := doc.Lookup(name); ok {
		return metadata.Declaration{Path: modulePath, Name: name}, true, nil
	}

	for _, entry := range doc.Exports {
		for _, exported := range entry.Export {
			if exported.Exported() != name {
				continue
			}
			target, err := src.ResolveModule(entry.From, modulePath)
			if err != nil {
				return metadata.Declaration{}, false, err
			}
			decl, found, err := traceDeclaration(src, target, exported.Name, seen)
			if err != nil || found {
				return decl, found, err
			}
			// The re-export names its source even when that module has no
			// metadata of its own.
			return metadata.Declaration{Path: target, Name: exported.Name}, true, nil
		}
	}

	for _, entry := range doc.Exports {
		if entry.Export != nil {
			continue
		}
		target, err := src.ResolveModule(entry.From, modulePath)
		if err != nil {
			return metadata.Declaration{}, false, err
		}
		decl, found, err := traceDeclaration(src, target, name, seen)
		if err != nil || found {
			return decl, found, err
		}
	}
	return metadata.Declaration{}, false, nil
}

func isRelative(moduleName string) bool {
	return moduleName == "." || moduleName == ".." ||
		strings.HasPrefix(moduleName, "./") || strings.HasPrefix(moduleName, "../")
}

// joinRelative resolves a relative specifier against the importing module.
func joinRelative(moduleName, containingFile string) string {
	if containingFile == "" {
		return path.Clean(moduleName)
	}
	return path.Join(path.Dir(containingFile), moduleName)
}
