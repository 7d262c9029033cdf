package metadata

import "fmt"

// StaticSymbol is a token standing in for a declared class or value whose
// implementation is never loaded. Symbols are interned by the reflector, so
// two symbols for the same (ModuleID, Name) are the same pointer and can be
// used directly as map keys.
type StaticSymbol struct {
	ModuleID string `json:"moduleId"`
	Name     string `json:"name"`
}

// SymbolKey returns the interning key for a module/name pair.
func SymbolKey(moduleID, name string) string {
	return fmt.Sprintf("%q.%s", moduleID, name)
}

// String implements fmt.Stringer
func (s *StaticSymbol) String() string {
	if s == nil {
		return "<nil>"
	}
	return SymbolKey(s.ModuleID, s.Name)
}

// Declaration is where a symbol is actually defined after re-exports and
// aliases have been followed.
type Declaration struct {
	Path string `json:"declarationPath"`
	Name string `json:"declaredName"`
}
