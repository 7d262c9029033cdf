package reflector

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	cerrors "github.com/ngtools/staticreflect/internal/compiler/errors"
	"github.com/ngtools/staticreflect/internal/compiler/metadata"
	"github.com/ngtools/staticreflect/internal/host"
)

const appModule = `{
	"__symbolic": "module",
	"version": 3,
	"metadata": {
		"Foo": {
			"__symbolic": "class",
			"decorators": [
				{
					"__symbolic": "call",
					"expression": {"__symbolic": "reference", "module": "angular2/core", "name": "Component"},
					"arguments": [{
						"selector": "foo",
						"properties": ["a", "b: bee"],
						"template": "<b></b>",
						"providers": [{"__symbolic": "reference", "module": "./tokens", "name": "TOKENS"}]
					}]
				},
				{
					"__symbolic": "call",
					"expression": {"__symbolic": "reference", "module": "./util", "name": "helper"},
					"arguments": []
				}
			],
			"members": {
				"title": [{
					"__symbolic": "property",
					"decorators": [{
						"__symbolic": "call",
						"expression": {"__symbolic": "reference", "module": "angular2/core", "name": "Input"},
						"arguments": ["heading"]
					}]
				}],
				"plain": [{"__symbolic": "property"}],
				"unknown": [{
					"__symbolic": "property",
					"decorators": [{
						"__symbolic": "call",
						"expression": {"__symbolic": "reference", "module": "./util", "name": "helper"},
						"arguments": []
					}]
				}],
				"changed": [
					{
						"__symbolic": "property",
						"decorators": [{
							"__symbolic": "call",
							"expression": {"__symbolic": "reference", "module": "angular2/core", "name": "Input"},
							"arguments": []
						}]
					},
					{
						"__symbolic": "property",
						"decorators": [{
							"__symbolic": "call",
							"expression": {"__symbolic": "reference", "module": "angular2/core", "name": "Output"},
							"arguments": ["change"]
						}]
					}
				],
				"ngOnInit": [{"__symbolic": "method"}],
				"__ctor__": [{
					"__symbolic": "constructor",
					"parameters": [
						{"__symbolic": "reference", "module": "./types", "name": "TypeX"},
						null
					],
					"parameterDecorators": [
						[{
							"__symbolic": "call",
							"expression": {"__symbolic": "reference", "module": "angular2/core", "name": "Inject"},
							"arguments": ["token"]
						}],
						[
							{
								"__symbolic": "call",
								"expression": {"__symbolic": "reference", "module": "angular2/core", "name": "Optional"}
							},
							{
								"__symbolic": "call",
								"expression": {"__symbolic": "reference", "module": "angular2/core", "name": "Attribute"},
								"arguments": ["title"]
							}
						]
					]
				}]
			}
		},
		"Bare": {"__symbolic": "class"},
		"NoCtor": {"__symbolic": "class", "members": {"__ctor__": [{"__symbolic": "method"}]}},
		"LIMIT": {"__symbolic": "binop", "operator": "*", "left": 4, "right": {"__symbolic": "reference", "name": "BASE"}},
		"BASE": 10,
		"SELF": {"__symbolic": "reference", "name": "SELF"},
		"PING": {"__symbolic": "reference", "name": "PONG"},
		"PONG": {"__symbolic": "reference", "name": "PING"}
	}
}`

const tokensModule = `{
	"version": 3,
	"metadata": {
		"TOKENS": ["x", {"__symbolic": "reference", "module": "./b", "name": "Bar"}]
	}
}`

func parseDoc(t *testing.T, src string) *metadata.ModuleDocument {
	t.Helper()
	doc, err := metadata.ParseModuleDocument("test", []byte(src))
	require.NoError(t, err)
	return doc
}

// declaring returns a document declaring each converter name as a function.
func declaring(converters map[string]converter) *metadata.ModuleDocument {
	doc := metadata.EmptyDocument("")
	for name := range converters {
		doc.Metadata[name] = map[string]any{"__symbolic": "function"}
	}
	return doc
}

func fixtureHost(t *testing.T) *host.MemoryHost {
	t.Helper()
	return host.NewMemoryHost(map[string]*metadata.ModuleDocument{
		"angular2/core": parseDoc(t, `{"version": 3, "metadata": {}, "exports": [
			{"from": "./src/core/metadata"},
			{"from": "./src/core/di/metadata"},
			{"from": "./src/core/di/provider"},
			{"from": "./src/core/di/forward_ref"}
		]}`),
		LegacyLayout.Metadata:   declaring(coreConverters),
		LegacyLayout.DI:         declaring(diConverters),
		LegacyLayout.Provider:   declaring(providerConverters),
		LegacyLayout.ForwardRef: declaring(forwardRefConverters),
		"/app/a":                parseDoc(t, appModule),
		"/app/tokens":           parseDoc(t, tokensModule),
		"/app/b":                parseDoc(t, `{"version": 3, "metadata": {"Bar": 42}}`),
		"/app/barrel":           parseDoc(t, `{"version": 3, "metadata": {}, "exports": [{"from": "./b", "export": ["Bar"]}]}`),
	})
}

func newReflector(t *testing.T, h Host) *StaticReflector {
	t.Helper()
	r, err := New(h)
	require.NoError(t, err)
	return r
}

func TestGetStaticSymbol_Interning(t *testing.T) {
	r := newReflector(t, host.NewMemoryHost(nil))

	a1 := r.GetStaticSymbol("/app/a", "Foo")
	a2 := r.GetStaticSymbol("/app/a", "Foo")
	b := r.GetStaticSymbol("/app/a", "Bar")
	// A module name containing the separator must not collide.
	c := r.GetStaticSymbol("/app/a.Foo", "")

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.NotSame(t, a1, c)
	assert.Equal(t, "/app/a", a1.ModuleID)
	assert.Equal(t, "Foo", a1.Name)
	assert.Equal(t, "/app/a", r.ImportURI(a1))
}

func TestAnnotations_Component(t *testing.T) {
	r := newReflector(t, fixtureHost(t))
	foo := r.GetStaticSymbol("/app/a", "Foo")

	annotations, err := r.Annotations(foo)
	require.NoError(t, err)
	require.Len(t, annotations, 1, "unregistered calls are dropped")

	comp, ok := annotations[0].(*metadata.ComponentMetadata)
	require.True(t, ok)
	assert.Equal(t, "foo", comp.Selector)
	assert.Equal(t, []string{"a", "b: bee"}, comp.Inputs)
	assert.Equal(t, "<b></b>", comp.Template)
	// Provider arguments are dereferenced across modules.
	assert.Equal(t, []any{[]any{"x", float64(42)}}, comp.Providers)

	again, err := r.Annotations(foo)
	require.NoError(t, err)
	assert.Same(t, annotations[0], again[0], "annotations are memoized")
}

func TestAnnotations_AbsentModuleIsEmpty(t *testing.T) {
	r := newReflector(t, fixtureHost(t))

	annotations, err := r.Annotations(r.GetStaticSymbol("/vendor/none", "Thing"))
	require.NoError(t, err)
	assert.Empty(t, annotations)

	props, err := r.PropMetadata(r.GetStaticSymbol("/vendor/none", "Thing"))
	require.NoError(t, err)
	assert.Empty(t, props)

	props, err = r.PropMetadata(r.GetStaticSymbol("/app/a", "Bare"))
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestPropMetadata(t *testing.T) {
	r := newReflector(t, fixtureHost(t))

	props, err := r.PropMetadata(r.GetStaticSymbol("/app/a", "Foo"))
	require.NoError(t, err)

	want := map[string][]metadata.Annotation{
		"title": {&metadata.InputMetadata{BindingPropertyName: "heading"}},
		"changed": {
			&metadata.InputMetadata{},
			&metadata.OutputMetadata{BindingPropertyName: "change"},
		},
	}
	if diff := cmp.Diff(want, props); diff != "" {
		t.Errorf("PropMetadata mismatch (-want +got):\n%s", diff)
	}
	assert.NotContains(t, props, "plain")
	assert.NotContains(t, props, "unknown")
}

func TestParameters(t *testing.T) {
	r := newReflector(t, fixtureHost(t))

	params, err := r.Parameters(r.GetStaticSymbol("/app/a", "Foo"))
	require.NoError(t, err)
	require.Len(t, params, 2)

	require.Len(t, params[0], 2)
	assert.Same(t, r.GetStaticSymbol("/app/types", "TypeX"), params[0][0])
	assert.Equal(t, &metadata.InjectMetadata{Token: "token"}, params[0][1])

	assert.Equal(t, []any{
		&metadata.OptionalMetadata{},
		&metadata.AttributeMetadata{AttributeName: "title"},
	}, params[1])
}

func TestParameters_ImplicitConstructor(t *testing.T) {
	r := newReflector(t, fixtureHost(t))

	params, err := r.Parameters(r.GetStaticSymbol("/app/a", "Bare"))
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestParameters_Missing(t *testing.T) {
	r := newReflector(t, fixtureHost(t))

	tests := []struct {
		name   string
		module string
		symbol string
	}{
		{"no class declaration", "/app/a", "Nope"},
		{"not a class", "/app/a", "BASE"},
		{"constructor entry missing", "/app/a", "NoCtor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Parameters(r.GetStaticSymbol(tt.module, tt.symbol))
			require.Error(t, err)
			assert.True(t, cerrors.Is(err, cerrors.ErrMissingParameters))

			var ce *cerrors.CompilerError
			require.ErrorAs(t, err, &ce)
			require.NotNil(t, ce.Declaration)
			assert.Equal(t, tt.symbol, ce.Declaration.Name)
		})
	}
}

func TestHasLifecycleHook(t *testing.T) {
	r := newReflector(t, fixtureHost(t))
	foo := r.GetStaticSymbol("/app/a", "Foo")

	ok, err := r.HasLifecycleHook(foo, "ngOnInit")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.HasLifecycleHook(foo, "ngOnDestroy")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSimplify_CrossModuleReference(t *testing.T) {
	r := newReflector(t, fixtureHost(t))
	ref := map[string]any{"__symbolic": "reference", "module": "./barrel", "name": "Bar"}

	v, err := r.Simplify("/app/c", ref, true)
	require.NoError(t, err)
	assert.Equal(t, float64(42), v)

	v, err = r.Simplify("/app/c", ref, false)
	require.NoError(t, err)
	assert.Same(t, r.GetStaticSymbol("/app/b", "Bar"), v, "identity only, no dereference")
}

func TestSimplify_UndeclaredCrossModuleTarget(t *testing.T) {
	r := newReflector(t, fixtureHost(t))

	v, err := r.Simplify("/app/c", map[string]any{
		"__symbolic": "reference", "module": "rxjs/Observable", "name": "Observable",
	}, true)
	require.NoError(t, err)
	assert.Same(t, r.GetStaticSymbol("rxjs/Observable", "Observable"), v)
}

func TestSimplify_LocalReferences(t *testing.T) {
	r := newReflector(t, fixtureHost(t))

	v, err := r.Simplify("/app/a", map[string]any{"__symbolic": "reference", "name": "LIMIT"}, false)
	require.NoError(t, err)
	assert.Equal(t, float64(40), v)

	v, err = r.Simplify("/app/a", map[string]any{"__symbolic": "reference", "name": "Foo"}, false)
	require.NoError(t, err)
	assert.Same(t, r.GetStaticSymbol("/app/a", "Foo"), v)

	v, err = r.Simplify("/app/a", map[string]any{"__symbolic": "reference", "name": "Undeclared"}, false)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = r.Simplify("/app/a", map[string]any{"__symbolic": "class", "name": "Other"}, false)
	require.NoError(t, err)
	assert.Same(t, r.GetStaticSymbol("/app/a", "Other"), v)
}

func TestSimplify_CircularReference(t *testing.T) {
	r := newReflector(t, fixtureHost(t))

	for _, name := range []string{"SELF", "PING"} {
		_, err := r.Simplify("/app/a", map[string]any{"__symbolic": "reference", "name": name}, true)
		require.Error(t, err, name)
		assert.True(t, cerrors.Is(err, cerrors.ErrCircularReference), name)
	}
}

func TestSimplify_New(t *testing.T) {
	r := newReflector(t, fixtureHost(t))

	t.Run("allow-listed provider", func(t *testing.T) {
		v, err := r.Simplify("/app/c", map[string]any{
			"__symbolic": "new",
			"expression": map[string]any{"__symbolic": "reference", "module": "angular2/core", "name": "Provider"},
			"arguments": []any{
				"tok",
				map[string]any{"useValue": map[string]any{"__symbolic": "binop", "operator": "+", "left": 1, "right": 2}},
			},
		}, true)
		require.NoError(t, err)
		assert.Equal(t, &metadata.Provider{Token: "tok", UseValue: float64(3)}, v)
	})

	t.Run("unsupported constructor", func(t *testing.T) {
		_, err := r.Simplify("/app/c", map[string]any{
			"__symbolic": "new",
			"expression": map[string]any{"__symbolic": "reference", "module": "./date", "name": "Date"},
			"arguments":  []any{},
		}, true)
		require.Error(t, err)
		assert.True(t, cerrors.Is(err, cerrors.ErrUnsupportedConstructor))

		var ce *cerrors.CompilerError
		require.ErrorAs(t, err, &ce)
		assert.Contains(t, ce.Expression, `"__symbolic":"new"`)
	})

	t.Run("unresolvable target", func(t *testing.T) {
		_, err := r.Simplify("/app/c", map[string]any{
			"__symbolic": "new",
			"expression": map[string]any{"__symbolic": "binop", "operator": "+", "left": 1, "right": 2},
		}, true)
		assert.True(t, cerrors.Is(err, cerrors.ErrUnresolvableTarget))

		_, err = r.Simplify("/app/c", map[string]any{"__symbolic": "new"}, true)
		assert.True(t, cerrors.Is(err, cerrors.ErrUnresolvableTarget))
	})
}

func TestSimplify_ReferenceWithoutName(t *testing.T) {
	r := newReflector(t, fixtureHost(t))

	_, err := r.Simplify("/app/a", []any{1, map[string]any{"__symbolic": "reference", "module": "./b"}}, true)
	require.Error(t, err)
	assert.True(t, cerrors.Is(err, cerrors.ErrReferenceWithoutName))
}

func TestSimplify_Calls(t *testing.T) {
	r := newReflector(t, fixtureHost(t))
	call := func(name string, args ...any) map[string]any {
		return map[string]any{
			"__symbolic": "call",
			"expression": map[string]any{"__symbolic": "reference", "module": "angular2/core", "name": name},
			"arguments":  args,
		}
	}

	t.Run("provide", func(t *testing.T) {
		v, err := r.Simplify("/app/c", call("provide", "tok", map[string]any{"useExisting": "other", "multi": true}), true)
		require.NoError(t, err)
		assert.Equal(t, &metadata.Provider{Token: "tok", UseExisting: "other", Multi: true}, v)
	})

	t.Run("forwardRef", func(t *testing.T) {
		v, err := r.Simplify("/app/c", call("forwardRef", map[string]any{
			"__symbolic": "function",
			"parameters": []any{},
			"value":      map[string]any{"__symbolic": "reference", "module": "./a", "name": "Foo"},
		}), true)
		require.NoError(t, err)
		ref, ok := v.(*metadata.ForwardRef)
		require.True(t, ok)
		assert.Same(t, r.GetStaticSymbol("/app/a", "Foo"), metadata.ResolveForwardRef(ref))
	})

	t.Run("queries", func(t *testing.T) {
		v, err := r.Simplify("/app/c", call("ViewChild", "ref"), true)
		require.NoError(t, err)
		assert.Equal(t, &metadata.QueryMetadata{
			Kind: metadata.QueryViewChild, Selector: "ref", Descendants: true, First: true,
		}, v)

		v, err = r.Simplify("/app/c", call("Query", "a", map[string]any{"descendants": true, "first": true}), true)
		require.NoError(t, err)
		assert.Equal(t, &metadata.QueryMetadata{
			Kind: metadata.QueryContent, Selector: "a", Descendants: true, First: true,
		}, v)
	})

	t.Run("host listener", func(t *testing.T) {
		v, err := r.Simplify("/app/c", call("HostListener", "click", []any{"$event"}), true)
		require.NoError(t, err)
		assert.Equal(t, &metadata.HostListenerMetadata{EventName: "click", Args: []string{"$event"}}, v)
	})

	t.Run("pipe purity", func(t *testing.T) {
		v, err := r.Simplify("/app/c", call("Pipe", map[string]any{"name": "lower", "pure": false}), true)
		require.NoError(t, err)
		pipe := v.(*metadata.PipeMetadata)
		assert.Equal(t, "lower", pipe.Name)
		assert.False(t, pipe.IsPure())
	})

	t.Run("unregistered callee", func(t *testing.T) {
		v, err := r.Simplify("/app/c", map[string]any{
			"__symbolic": "call",
			"expression": map[string]any{"__symbolic": "reference", "module": "./util", "name": "helper"},
		}, true)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("missing callee", func(t *testing.T) {
		_, err := r.Simplify("/app/c", map[string]any{"__symbolic": "call"}, true)
		assert.True(t, cerrors.Is(err, cerrors.ErrUnresolvableTarget))
	})
}

func TestSimplify_LenientAccess(t *testing.T) {
	r := newReflector(t, fixtureHost(t))

	tests := []struct {
		name string
		node any
		want any
	}{
		{
			name: "index into array",
			node: map[string]any{"__symbolic": "index", "expression": []any{"a", "b"}, "index": 1},
			want: "b",
		},
		{
			name: "select from structure",
			node: map[string]any{"__symbolic": "select", "expression": map[string]any{"k": 7.0}, "member": "k"},
			want: float64(7),
		},
		{
			name: "array length",
			node: map[string]any{"__symbolic": "select", "expression": []any{1, 2, 3}, "member": "length"},
			want: float64(3),
		},
		{
			name: "select from symbol",
			node: map[string]any{"__symbolic": "select", "expression": map[string]any{"__symbolic": "class", "name": "Foo"}, "member": "x"},
			want: nil,
		},
		{
			name: "index out of range",
			node: map[string]any{"__symbolic": "index", "expression": []any{"a"}, "index": 5},
			want: nil,
		},
		{
			name: "huge index",
			node: map[string]any{"__symbolic": "index", "expression": []any{1, 2, 3}, "index": 1e300},
			want: nil,
		},
		{
			name: "huge index into string",
			node: map[string]any{"__symbolic": "index", "expression": "abc", "index": 1e300},
			want: nil,
		},
		{
			name: "unknown tag",
			node: map[string]any{"__symbolic": "if", "condition": true},
			want: nil,
		},
		{
			name: "unknown operator",
			node: map[string]any{"__symbolic": "binop", "operator": "**", "left": 2, "right": 3},
			want: nil,
		},
		{
			name: "unknown prefix operator",
			node: map[string]any{"__symbolic": "pre", "operator": "typeof", "operand": 1},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Simplify("/app/c", tt.node, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSimplify_ShortCircuit(t *testing.T) {
	r := newReflector(t, fixtureHost(t))
	broken := map[string]any{"__symbolic": "reference"}

	v, err := r.Simplify("/app/c", map[string]any{"__symbolic": "binop", "operator": "&&", "left": false, "right": broken}, true)
	require.NoError(t, err)
	assert.Equal(t, false, v)

	v, err = r.Simplify("/app/c", map[string]any{"__symbolic": "binop", "operator": "||", "left": "x", "right": broken}, true)
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	_, err = r.Simplify("/app/c", map[string]any{"__symbolic": "binop", "operator": "&&", "left": true, "right": broken}, true)
	assert.True(t, cerrors.Is(err, cerrors.ErrReferenceWithoutName))
}

func TestSimplify_Deterministic(t *testing.T) {
	r := newReflector(t, fixtureHost(t))
	doc, err := r.GetModuleMetadata("/app/a")
	require.NoError(t, err)
	node, _ := doc.Lookup("Foo")
	decorators := node.(map[string]any)["decorators"]

	first, err := r.Simplify("/app/a", decorators, false)
	require.NoError(t, err)
	second, err := r.Simplify("/app/a", decorators, false)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated simplification differs (-first +second):\n%s", diff)
	}
}

func TestSimplify_KeyedStructure(t *testing.T) {
	r := newReflector(t, fixtureHost(t))

	got, err := r.Simplify("/app/a", map[string]any{
		"limit": map[string]any{"__symbolic": "reference", "name": "LIMIT"},
		"list":  []any{map[string]any{"__symbolic": "pre", "operator": "-", "operand": 1}, "s"},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"limit": float64(40), "list": []any{float64(-1), "s"}}, got)
}

type failingHost struct {
	*host.MemoryHost
	module string
}

func (f *failingHost) GetMetadataFor(modulePath string) (*metadata.ModuleDocument, error) {
	if modulePath == f.module {
		return nil, cerrors.NewMalformedDocument(modulePath+".metadata.json", "unexpected EOF")
	}
	return f.MemoryHost.GetMetadataFor(modulePath)
}

func TestHostErrorsAreReraised(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := &failingHost{MemoryHost: fixtureHost(t), module: "/app/broken"}
	r, err := New(h, WithLogger(zap.New(core)))
	require.NoError(t, err)

	_, err = r.Annotations(r.GetStaticSymbol("/app/broken", "X"))
	require.Error(t, err)
	assert.True(t, cerrors.Is(err, cerrors.ErrMalformedDocument))

	var ce *cerrors.CompilerError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, &cerrors.DeclarationRef{Module: "/app/broken", Name: "X"}, ce.Declaration)

	failures := logs.FilterMessage("failed to read module metadata").All()
	require.Len(t, failures, 1)
	assert.Equal(t, r.RunID().String(), failures[0].ContextMap()["run_id"])

	// Errors are not cached.
	_, err = r.Annotations(r.GetStaticSymbol("/app/broken", "X"))
	assert.Error(t, err)
	assert.Len(t, logs.FilterMessage("failed to read module metadata").All(), 2)
}

func TestNew_BindsThroughLayout(t *testing.T) {
	t.Run("scoped layout", func(t *testing.T) {
		h := host.NewMemoryHost(map[string]*metadata.ModuleDocument{
			"/app/s": parseDoc(t, `{"version": 3, "metadata": {"S": {
				"__symbolic": "class",
				"decorators": [{
					"__symbolic": "call",
					"expression": {"__symbolic": "reference", "module": "@angular/core/src/metadata", "name": "Directive"},
					"arguments": [{"selector": "[s]"}]
				}]
			}}}`),
		})
		r, err := New(h, WithLayout(ScopedLayout))
		require.NoError(t, err)

		annotations, err := r.Annotations(r.GetStaticSymbol("/app/s", "S"))
		require.NoError(t, err)
		require.Len(t, annotations, 1)
		assert.Equal(t, "[s]", annotations[0].(*metadata.DirectiveMetadata).Selector)
	})

	t.Run("legacy decorators are not recognized under the scoped layout", func(t *testing.T) {
		r, err := New(fixtureHost(t), WithLayout(ScopedLayout))
		require.NoError(t, err)

		annotations, err := r.Annotations(r.GetStaticSymbol("/app/a", "Foo"))
		require.NoError(t, err)
		assert.Empty(t, annotations)
	})

	t.Run("host resolution failures", func(t *testing.T) {
		_, err := New(&resolveErrorHost{MemoryHost: host.NewMemoryHost(nil)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
	})
}

type resolveErrorHost struct {
	*host.MemoryHost
}

func (h *resolveErrorHost) ResolveModule(moduleName, containingFile string) (string, error) {
	return "", fmt.Errorf("resolve %s: permission denied", moduleName)
}
