package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"
)

// render writes value as JSON or YAML, or calls table for the table format.
// YAML goes through JSON first so both formats share field names.
func (a *app) render(w io.Writer, value any, table func(w io.Writer, noColor bool)) error {
	switch a.opts.format {
	case formatJSON:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case formatYAML:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	}

	table(w, a.opts.noColor || color.NoColor)
	return nil
}

// annotationView tags an annotation with its kind for structured output.
type annotationView struct {
	Kind  metadata.AnnotationKind `json:"kind"`
	Value metadata.Annotation     `json:"value"`
}

func viewAnnotations(annotations []metadata.Annotation) []annotationView {
	out := make([]annotationView, len(annotations))
	for i, a := range annotations {
		out[i] = annotationView{Kind: a.AnnotationKind(), Value: a}
	}
	return out
}

// describe renders a simplified value on one line.
func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case *metadata.StaticSymbol:
		return t.Name + " (" + t.ModuleID + ")"
	case string:
		return t
	case metadata.Annotation:
		return string(t.AnnotationKind())
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = describe(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	data, err := json.Marshal(encodable(v))
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// encodable replaces the non-finite numbers arithmetic can produce, which
// JSON cannot represent, with their JavaScript spellings.
func encodable(v any) any {
	switch t := v.(type) {
	case float64:
		switch {
		case math.IsNaN(t):
			return "NaN"
		case math.IsInf(t, 1):
			return "Infinity"
		case math.IsInf(t, -1):
			return "-Infinity"
		}
		return t
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = encodable(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = encodable(item)
		}
		return out
	}
	return v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// annotationDetail is the annotation's fields as compact JSON, or "" for
// marker annotations.
func annotationDetail(a metadata.Annotation) string {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Sprintf("%+v", a)
	}
	if s := string(data); s != "{}" {
		return s
	}
	return ""
}
