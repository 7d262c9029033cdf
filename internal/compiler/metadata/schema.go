// Package metadata defines the serialized module metadata format read by the
// static reflector, the declaration identity token, and the typed decorator
// metadata the reflector produces from it.
package metadata

import (
	"encoding/json"
	"fmt"
)

// MaxVersion is the newest module document version the reflector understands.
const MaxVersion = 3

// SymbolicKey is the field carrying the tag of a symbolic node.
const SymbolicKey = "__symbolic"

// Node is one decoded unit of the symbolic expression format: a primitive
// (string, float64, bool, nil), a []any of nodes, or a map[string]any that is
// either tagged with SymbolicKey or a plain keyed structure.
type Node = any

// Kind is the tag of a symbolic node
type Kind string

const (
	KindModule      Kind = "module"
	KindClass       Kind = "class"
	KindNew         Kind = "new"
	KindBinop       Kind = "binop"
	KindPre         Kind = "pre"
	KindIndex       Kind = "index"
	KindSelect      Kind = "select"
	KindReference   Kind = "reference"
	KindCall        Kind = "call"
	KindFunction    Kind = "function"
	KindConstructor Kind = "constructor"
	KindProperty    Kind = "property"
	KindMethod      Kind = "method"
)

// ModuleDocument is the per-module metadata produced by the collector.
type ModuleDocument struct {
	Symbolic Kind            `json:"__symbolic,omitempty"`
	Version  int             `json:"version,omitempty"`
	Module   string          `json:"module,omitempty"`
	Metadata map[string]Node `json:"metadata"`
	Exports  []ExportEntry   `json:"exports,omitempty"`
}

// EmptyDocument is what the reflector uses in place of a module the host
// could not supply.
func EmptyDocument(module string) *ModuleDocument {
	return &ModuleDocument{
		Symbolic: KindModule,
		Module:   module,
		Metadata: map[string]Node{},
	}
}

// Lookup returns the declared value for name and whether it is declared.
func (d *ModuleDocument) Lookup(name string) (Node, bool) {
	if d == nil || d.Metadata == nil {
		return nil, false
	}
	v, ok := d.Metadata[name]
	return v, ok
}

// ExportEntry is a re-export clause. A nil Export list means `export * from`.
type ExportEntry struct {
	From   string         `json:"from"`
	Export []ExportedName `json:"export,omitempty"`
}

// ExportedName is one name in a named re-export, optionally renamed.
type ExportedName struct {
	Name string `json:"name"`
	As   string `json:"as,omitempty"`
}

// Exported returns the name the symbol is visible under in the re-exporting module.
func (n ExportedName) Exported() string {
	if n.As != "" {
		return n.As
	}
	return n.Name
}

// UnmarshalJSON accepts either a bare string or a {name, as} object.
func (n *ExportedName) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		n.Name = name
		n.As = ""
		return nil
	}

	type plain ExportedName
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("export entry must be a string or {name, as}: %w", err)
	}
	if p.Name == "" {
		return fmt.Errorf("export entry is missing a name")
	}
	*n = ExportedName(p)
	return nil
}

// SymbolicKind returns the tag of a symbolic node, if it has one.
func SymbolicKind(n Node) (Kind, bool) {
	m, ok := n.(map[string]any)
	if !ok {
		return "", false
	}
	tag, ok := m[SymbolicKey].(string)
	if !ok {
		return "", false
	}
	return Kind(tag), true
}

// IsKind reports whether n is a symbolic node tagged k.
func IsKind(n Node, k Kind) bool {
	tag, ok := SymbolicKind(n)
	return ok && tag == k
}

// IsPrimitive reports whether n is a JSON primitive.
func IsPrimitive(n Node) bool {
	switch n.(type) {
	case nil, string, bool, float64, float32, int, int32, int64:
		return true
	}
	return false
}

// Field returns a named field of a keyed node, or nil.
func Field(n Node, name string) Node {
	if m, ok := n.(map[string]any); ok {
		return m[name]
	}
	return nil
}

// StringField returns a named string field of a keyed node, or "".
func StringField(n Node, name string) string {
	s, _ := Field(n, name).(string)
	return s
}
