package ui

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	cerrors "github.com/ngtools/staticreflect/internal/compiler/errors"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"KIND", "DETAIL"}, true)
	table.AddRow("Component", "selector=hero")
	table.AddRow("Injectable", "")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"KIND        DETAIL",
		"──────────  ─────────────",
		"Component   selector=hero",
		"Injectable",
	}, lines)
}

func TestTable_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, nil, true)
	table.AddRow("ignored")
	table.Render()
	assert.Empty(t, buf.String())
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("selector", "hero")
	kv.AddRow("type", "HeroComponent")
	kv.Render()

	assert.Equal(t, "selector: hero\ntype:     HeroComponent\n", buf.String())
}

func TestSection(t *testing.T) {
	var buf bytes.Buffer
	s := NewSection(&buf, "Inputs", true)
	s.AddLine("title -> heading")
	s.Render()
	assert.Equal(t, "Inputs\n  title -> heading\n\n", buf.String())

	buf.Reset()
	NewSection(&buf, "Empty", true).Render()
	assert.Empty(t, buf.String())
}

func TestFormatError(t *testing.T) {
	out := FormatError(ErrorOptions{
		Context:      "symbol not found",
		Problem:      "Cannot find 'Hero' in /app.",
		Details:      []string{"Declaration: Hero"},
		Suggestions:  []string{"HeroComponent", "HeroService"},
		HelpCommands: []string{"Get help: ngreflect --help"},
		NoColor:      true,
	})

	assert.Contains(t, out, "❌ SYMBOL NOT FOUND: Cannot find 'Hero' in /app.")
	assert.Contains(t, out, "   Declaration: Hero")
	assert.Contains(t, out, "Did you mean: HeroComponent, HeroService?")
	assert.Contains(t, out, "→ Get help: ngreflect --help")

	warn := Warning("module skipped", true)
	assert.True(t, strings.HasPrefix(warn, "⚠️ module skipped"))
}

func TestReflectionError(t *testing.T) {
	err := cerrors.Attribute(
		cerrors.NewUnsupportedConstructor("/app/a", "Map", map[string]any{"__symbolic": "new"}),
		"/app/a", "Foo",
	)
	wrapped := fmt.Errorf("annotations: %w", err)

	out := ReflectionError(wrapped, true)
	assert.Contains(t, out, "REF100")
	assert.Contains(t, out, "Declaration: Foo in /app/a")
	assert.Contains(t, out, "Expression:")

	plain := ReflectionError(errors.New("boom"), true)
	assert.Equal(t, "❌ boom\n", plain)
}

func TestSymbolNotFoundError(t *testing.T) {
	out := SymbolNotFoundError("/app/hero", "HeroComponnet", FindSimilar("HeroComponnet", []string{"HeroComponent", "Other"}), true)
	assert.Contains(t, out, "Cannot find 'HeroComponnet' in /app/hero.")
	assert.Contains(t, out, "Did you mean: HeroComponent?")
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"HeroComponent", "HeroService", "heroComponents", "Unrelated"}

	assert.Equal(t, []string{"HeroComponent", "heroComponents"}, FindSimilar("herocomponent", candidates))
	assert.Empty(t, FindSimilar("Zzz", candidates))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Pipe", "Pipe", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b), "%s/%s", tt.a, tt.b)
	}
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{Total: 4, Width: 4, Message: "bundling", NoColor: true})
	bar.Add(1)
	assert.Contains(t, buf.String(), "[█░░░]  25% bundling")

	bar.Add(10)
	assert.Contains(t, buf.String(), "[████] 100% bundling")

	bar.Finish("wrote 4 modules")
	assert.True(t, strings.HasSuffix(buf.String(), "✓ wrote 4 modules\n"))
}
