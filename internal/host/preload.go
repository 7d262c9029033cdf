package host

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

// PreloadedHost serves buffered documents and defers everything else to the
// host it wraps.
type PreloadedHost struct {
	inner Host
	docs  map[string]*metadata.ModuleDocument
}

// Preload fetches modules from h concurrently, at most concurrency at a
// time, and returns a host that answers those modules from memory. The
// first fetch error cancels the rest and is returned.
func Preload(ctx context.Context, h Host, modules []string, concurrency int) (*PreloadedHost, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	var mu sync.Mutex
	docs := make(map[string]*metadata.ModuleDocument, len(modules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, module := range modules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := h.GetMetadataFor(module)
			if err != nil {
				return err
			}
			mu.Lock()
			docs[module] = doc
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &PreloadedHost{inner: h, docs: docs}, nil
}

// Buffered reports whether module was preloaded.
func (p *PreloadedHost) Buffered(module string) bool {
	_, ok := p.docs[module]
	return ok
}

func (p *PreloadedHost) GetMetadataFor(modulePath string) (*metadata.ModuleDocument, error) {
	if doc, ok := p.docs[modulePath]; ok {
		return doc, nil
	}
	return p.inner.GetMetadataFor(modulePath)
}

func (p *PreloadedHost) ResolveModule(moduleName, containingFile string) (string, error) {
	return p.inner.ResolveModule(moduleName, containingFile)
}

func (p *PreloadedHost) FindDeclaration(modulePath, symbolName string) (metadata.Declaration, error) {
	return findDeclaration(p, modulePath, symbolName)
}
