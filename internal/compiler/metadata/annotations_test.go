package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQueryMetadata_Defaults(t *testing.T) {
	tests := []struct {
		kind        QueryKind
		descendants bool
		first       bool
		view        bool
	}{
		{QueryContent, false, false, false},
		{QueryView, false, false, true},
		{QueryContentChildren, false, false, false},
		{QueryContentChild, true, true, false},
		{QueryViewChildren, true, false, true},
		{QueryViewChild, true, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			q := NewQueryMetadata(tt.kind, "item")
			assert.Equal(t, tt.descendants, q.Descendants)
			assert.Equal(t, tt.first, q.First)
			assert.Equal(t, tt.view, q.IsViewQuery())
			assert.Equal(t, AnnotationQuery, q.AnnotationKind())
		})
	}
}

func TestQueryMetadata_VarBindings(t *testing.T) {
	q := NewQueryMetadata(QueryContentChildren, " a, b ,,c ")
	assert.True(t, q.IsVarBindingQuery())
	assert.Equal(t, []string{"a", "b", "c"}, q.VarBindings())

	typed := NewQueryMetadata(QueryContentChildren, &StaticSymbol{ModuleID: "/app/x", Name: "X"})
	assert.False(t, typed.IsVarBindingQuery())
	assert.Nil(t, typed.VarBindings())
}

func TestPipeMetadata_IsPure(t *testing.T) {
	impure := false
	assert.True(t, (&PipeMetadata{Name: "a"}).IsPure())
	assert.False(t, (&PipeMetadata{Name: "b", Pure: &impure}).IsPure())
}

func TestAsDirective(t *testing.T) {
	dir := &DirectiveMetadata{Selector: "[x]"}
	got, ok := AsDirective(dir)
	assert.True(t, ok)
	assert.Same(t, dir, got)

	comp := &ComponentMetadata{DirectiveMetadata: DirectiveMetadata{Selector: "app"}}
	got, ok = AsDirective(comp)
	assert.True(t, ok)
	assert.Equal(t, "app", got.Selector)
	assert.False(t, comp.HasInlineView())

	_, ok = AsDirective(&PipeMetadata{Name: "p"})
	assert.False(t, ok)
}

func TestResolveForwardRef(t *testing.T) {
	sym := &StaticSymbol{ModuleID: "/app/a", Name: "A"}
	assert.Same(t, sym, ResolveForwardRef(&ForwardRef{Ref: &ForwardRef{Ref: sym}}))
	assert.Equal(t, "plain", ResolveForwardRef("plain"))
}
