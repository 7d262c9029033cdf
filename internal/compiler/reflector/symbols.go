package reflector

import "github.com/ngtools/staticreflect/internal/compiler/metadata"

// SymbolCache interns static symbols so that each (module, name) pair maps
// to a single *metadata.StaticSymbol for the lifetime of a reflector.
// Consumers rely on pointer equality, so symbols must never be constructed
// outside a cache.
type SymbolCache struct {
	symbols map[string]*metadata.StaticSymbol
}

// NewSymbolCache creates an empty cache
func NewSymbolCache() *SymbolCache {
	return &SymbolCache{symbols: make(map[string]*metadata.StaticSymbol)}
}

// Get returns the canonical symbol for moduleID and name, creating it on
// first use.
func (c *SymbolCache) Get(moduleID, name string) *metadata.StaticSymbol {
	key := metadata.SymbolKey(moduleID, name)
	if sym, ok := c.symbols[key]; ok {
		return sym
	}
	sym := &metadata.StaticSymbol{ModuleID: moduleID, Name: name}
	c.symbols[key] = sym
	return sym
}

// Size returns the number of interned symbols
func (c *SymbolCache) Size() int {
	return len(c.symbols)
}
