// Package resolver assembles compile metadata for directives, pipes and
// their dependencies from what the static reflector reads out of module
// metadata documents.
package resolver

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"go.uber.org/zap"

	cerrors "github.com/ngtools/staticreflect/internal/compiler/errors"
	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

// MetadataResolver builds and caches compile metadata. Like the reflector it
// reads from, it belongs to a single compilation run.
type MetadataResolver struct {
	reflector  Reflector
	directives *DirectiveResolver
	pipes      *PipeResolver
	views      *ViewResolver
	logger     *zap.Logger

	platformDirectives []any
	platformPipes      []any

	directiveCache map[*metadata.StaticSymbol]*CompileDirectiveMetadata
	pipeCache      map[*metadata.StaticSymbol]*CompilePipeMetadata

	anonymousTypes     map[any]int
	anonymousTypeIndex int
}

// Option configures a MetadataResolver
type Option func(*MetadataResolver)

// WithPlatformDirectives sets directives available in every view.
func WithPlatformDirectives(directives []any) Option {
	return func(m *MetadataResolver) { m.platformDirectives = directives }
}

// WithPlatformPipes sets pipes available in every view.
func WithPlatformPipes(pipes []any) Option {
	return func(m *MetadataResolver) { m.platformPipes = pipes }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *MetadataResolver) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMetadataResolver creates a resolver reading from r.
func NewMetadataResolver(r Reflector, opts ...Option) *MetadataResolver {
	m := &MetadataResolver{
		reflector:      r,
		directives:     NewDirectiveResolver(r),
		pipes:          NewPipeResolver(r),
		views:          NewViewResolver(r),
		logger:         zap.NewNop(),
		directiveCache: make(map[*metadata.StaticSymbol]*CompileDirectiveMetadata),
		pipeCache:      make(map[*metadata.StaticSymbol]*CompilePipeMetadata),
		anonymousTypes: make(map[any]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetDirectiveMetadata returns the compile metadata of a directive or component.
func (m *MetadataResolver) GetDirectiveMetadata(sym *metadata.StaticSymbol) (*CompileDirectiveMetadata, error) {
	if meta, ok := m.directiveCache[sym]; ok {
		return meta, nil
	}

	resolved, err := m.directives.Resolve(sym)
	if err != nil {
		return nil, err
	}
	dir, _ := metadata.AsDirective(resolved)
	moduleURL := m.reflector.ImportURI(sym)

	var template *CompileTemplateMetadata
	var changeDetection any
	viewProviders := []*CompileProviderMetadata{}

	if comp, ok := resolved.(*metadata.ComponentMetadata); ok {
		if _, err := assertArrayOfStrings("styles", comp.Styles); err != nil {
			return nil, cerrors.Attribute(err, sym.ModuleID, sym.Name)
		}
		moduleURL = calcModuleURL(m.reflector, sym, comp)

		view, err := m.views.Resolve(sym)
		if err != nil {
			return nil, err
		}
		styles, err := assertArrayOfStrings("styles", view.Styles)
		if err != nil {
			return nil, cerrors.Attribute(err, sym.ModuleID, sym.Name)
		}
		template = &CompileTemplateMetadata{
			Encapsulation: view.Encapsulation,
			Template:      view.Template,
			TemplateURL:   view.TemplateURL,
			Styles:        styles,
			StyleURLs:     view.StyleURLs,
		}
		changeDetection = comp.ChangeDetection
		if comp.ViewProviders != nil {
			if viewProviders, err = m.GetProvidersMetadata(comp.ViewProviders); err != nil {
				return nil, cerrors.Attribute(err, sym.ModuleID, sym.Name)
			}
		}
	}

	providers := []*CompileProviderMetadata{}
	if dir.Providers != nil {
		if providers, err = m.GetProvidersMetadata(dir.Providers); err != nil {
			return nil, cerrors.Attribute(err, sym.ModuleID, sym.Name)
		}
	}

	var queries, viewQueries []*CompileQueryMetadata
	if dir.Queries != nil {
		if queries, err = m.GetQueriesMetadata(dir.Queries, false); err != nil {
			return nil, err
		}
		if viewQueries, err = m.GetQueriesMetadata(dir.Queries, true); err != nil {
			return nil, err
		}
	}

	typ, err := m.GetTypeMetadata(sym, moduleURL)
	if err != nil {
		return nil, err
	}
	hooks, err := m.lifecycleHooks(sym)
	if err != nil {
		return nil, err
	}

	meta := CreateDirectiveMetadata(DirectiveOptions{
		Type:            typ,
		IsComponent:     template != nil,
		Selector:        dir.Selector,
		ExportAs:        dir.ExportAs,
		ChangeDetection: changeDetection,
		Inputs:          dir.Inputs,
		Outputs:         dir.Outputs,
		Host:            dir.Host,
		LifecycleHooks:  hooks,
		Providers:       providers,
		ViewProviders:   viewProviders,
		Queries:         queries,
		ViewQueries:     viewQueries,
		Template:        template,
	})
	m.directiveCache[sym] = meta
	return meta, nil
}

// MaybeGetDirectiveMetadata is GetDirectiveMetadata for types that may not
// be directives at all: a type without a directive annotation yields nil.
func (m *MetadataResolver) MaybeGetDirectiveMetadata(sym *metadata.StaticSymbol) (*CompileDirectiveMetadata, error) {
	meta, err := m.GetDirectiveMetadata(sym)
	if err == nil {
		return meta, nil
	}
	if cerrors.Is(err, cerrors.ErrNoDirectiveAnnotation) {
		return nil, nil
	}
	m.logger.Error("couldn't produce metadata for type",
		zap.String("module", sym.ModuleID),
		zap.String("name", sym.Name),
		zap.Error(err))
	return nil, err
}

// GetTypeMetadata describes an injectable type.
func (m *MetadataResolver) GetTypeMetadata(sym *metadata.StaticSymbol, moduleURL string) (*CompileTypeMetadata, error) {
	deps, err := m.GetDependenciesMetadata(sym, nil)
	if err != nil {
		return nil, err
	}
	return &CompileTypeMetadata{
		Name:      m.sanitizeTokenName(sym),
		ModuleURL: moduleURL,
		Runtime:   sym,
		DiDeps:    deps,
	}, nil
}

// GetFactoryMetadata describes a provider factory.
func (m *MetadataResolver) GetFactoryMetadata(sym *metadata.StaticSymbol, moduleURL string, deps []any) (*CompileFactoryMetadata, error) {
	diDeps, err := m.GetDependenciesMetadata(sym, deps)
	if err != nil {
		return nil, err
	}
	return &CompileFactoryMetadata{
		Name:      m.sanitizeTokenName(sym),
		ModuleURL: moduleURL,
		Runtime:   sym,
		DiDeps:    diDeps,
	}, nil
}

// GetPipeMetadata returns the compile metadata of a pipe.
func (m *MetadataResolver) GetPipeMetadata(sym *metadata.StaticSymbol) (*CompilePipeMetadata, error) {
	if meta, ok := m.pipeCache[sym]; ok {
		return meta, nil
	}

	pipe, err := m.pipes.Resolve(sym)
	if err != nil {
		return nil, err
	}
	typ, err := m.GetTypeMetadata(sym, m.reflector.ImportURI(sym))
	if err != nil {
		return nil, err
	}
	hooks, err := m.lifecycleHooks(sym)
	if err != nil {
		return nil, err
	}

	meta := &CompilePipeMetadata{
		Type:           typ,
		Name:           pipe.Name,
		Pure:           pipe.IsPure(),
		LifecycleHooks: hooks,
	}
	m.pipeCache[sym] = meta
	return meta, nil
}

// GetViewDirectivesMetadata returns the directives usable in a component's
// view, platform directives first.
func (m *MetadataResolver) GetViewDirectivesMetadata(component *metadata.StaticSymbol) ([]*CompileDirectiveMetadata, error) {
	view, err := m.views.Resolve(component)
	if err != nil {
		return nil, err
	}

	types := flattenWithPlatform(m.platformDirectives, view.Directives)
	out := make([]*CompileDirectiveMetadata, 0, len(types))
	for _, t := range types {
		sym, ok := t.(*metadata.StaticSymbol)
		if !ok {
			return nil, cerrors.NewUnexpectedDirective(component.ModuleID, component.Name, stringify(t))
		}
		meta, err := m.GetDirectiveMetadata(sym)
		if err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, nil
}

// GetViewPipesMetadata returns the pipes usable in a component's view,
// platform pipes first.
func (m *MetadataResolver) GetViewPipesMetadata(component *metadata.StaticSymbol) ([]*CompilePipeMetadata, error) {
	view, err := m.views.Resolve(component)
	if err != nil {
		return nil, err
	}

	types := flattenWithPlatform(m.platformPipes, view.Pipes)
	out := make([]*CompilePipeMetadata, 0, len(types))
	for _, t := range types {
		sym, ok := t.(*metadata.StaticSymbol)
		if !ok {
			return nil, cerrors.NewUnexpectedPipe(component.ModuleID, component.Name, stringify(t))
		}
		meta, err := m.GetPipeMetadata(sym)
		if err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, nil
}

// GetDependenciesMetadata resolves the constructor dependencies of sym. An
// explicit deps list, as given by a provider, replaces the reflected
// constructor parameters; each entry is a token or a list of a token and
// qualifier markers.
func (m *MetadataResolver) GetDependenciesMetadata(sym *metadata.StaticSymbol, deps []any) ([]*CompileDiDependencyMetadata, error) {
	var params [][]any
	if deps != nil {
		params = make([][]any, len(deps))
		for i, dep := range deps {
			if list, ok := dep.([]any); ok {
				params[i] = list
			} else {
				params[i] = []any{dep}
			}
		}
	} else {
		var err error
		if params, err = m.reflector.Parameters(sym); err != nil {
			return nil, err
		}
	}

	out := make([]*CompileDiDependencyMetadata, len(params))
	for i, param := range params {
		dep, err := m.dependency(param)
		if err != nil {
			return nil, err
		}
		if dep == nil {
			return nil, cerrors.NewNoToken(sym.ModuleID, sym.Name, i)
		}
		out[i] = dep
	}
	return out, nil
}

// dependency folds one parameter's entries into a dependency. It returns
// nil when no entry supplies a token.
func (m *MetadataResolver) dependency(entries []any) (*CompileDiDependencyMetadata, error) {
	dep := &CompileDiDependencyMetadata{}
	var token any
	var query, viewQuery *metadata.QueryMetadata

	for _, entry := range entries {
		switch e := entry.(type) {
		case *metadata.HostMetadata:
			dep.IsHost = true
		case *metadata.SelfMetadata:
			dep.IsSelf = true
		case *metadata.SkipSelfMetadata:
			dep.IsSkipSelf = true
		case *metadata.OptionalMetadata:
			dep.IsOptional = true
		case *metadata.AttributeMetadata:
			dep.IsAttribute = true
			token = e.AttributeName
		case *metadata.InjectMetadata:
			token = e.Token
		case *metadata.QueryMetadata:
			if e.IsViewQuery() {
				viewQuery = e
			} else {
				query = e
			}
		case metadata.Annotation:
			// other decorators do not qualify a dependency
		default:
			if token == nil {
				token = entry
			}
		}
	}

	if token == nil || token == "" {
		return nil, nil
	}

	var err error
	if dep.Token, err = m.GetTokenMetadata(token); err != nil {
		return nil, err
	}
	if query != nil {
		if dep.Query, err = m.getQueryMetadata(query, ""); err != nil {
			return nil, err
		}
	}
	if viewQuery != nil {
		if dep.ViewQuery, err = m.getQueryMetadata(viewQuery, ""); err != nil {
			return nil, err
		}
	}
	return dep, nil
}

// GetTokenMetadata describes a DI token. Strings are value tokens; anything
// else is an identifier named after the symbol or, for anonymous values, a
// generated name.
func (m *MetadataResolver) GetTokenMetadata(token any) (*CompileTokenMetadata, error) {
	token = metadata.ResolveForwardRef(token)
	if s, ok := token.(string); ok {
		return &CompileTokenMetadata{Value: s}, nil
	}

	id := &CompileIdentifierMetadata{
		Name:    m.sanitizeTokenName(token),
		Runtime: token,
	}
	if sym, ok := token.(*metadata.StaticSymbol); ok {
		id.ModuleURL = m.reflector.ImportURI(sym)
	}
	return &CompileTokenMetadata{Identifier: id}, nil
}

// GetProvidersMetadata flattens nested provider arrays and describes each
// provider. A bare type provides itself.
func (m *MetadataResolver) GetProvidersMetadata(providers []any) ([]*CompileProviderMetadata, error) {
	flat := flattenArray(providers, nil)
	out := make([]*CompileProviderMetadata, 0, len(flat))
	for i, p := range flat {
		var meta *CompileProviderMetadata
		var err error

		switch v := p.(type) {
		case *metadata.Provider:
			meta, err = m.getProviderMetadata(i, v)
		case *metadata.StaticSymbol:
			meta, err = m.typeProvider(v)
		default:
			err = cerrors.NewInvalidProvider(i, p)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, nil
}

func (m *MetadataResolver) typeProvider(sym *metadata.StaticSymbol) (*CompileProviderMetadata, error) {
	typ, err := m.GetTypeMetadata(sym, m.reflector.ImportURI(sym))
	if err != nil {
		return nil, err
	}
	token, err := m.GetTokenMetadata(sym)
	if err != nil {
		return nil, err
	}
	return &CompileProviderMetadata{
		Kind:     ProviderClass,
		Token:    token,
		UseClass: typ,
		Deps:     typ.DiDeps,
	}, nil
}

func (m *MetadataResolver) getProviderMetadata(index int, p *metadata.Provider) (*CompileProviderMetadata, error) {
	token, err := m.GetTokenMetadata(p.Token)
	if err != nil {
		return nil, err
	}
	meta := &CompileProviderMetadata{Token: token, Multi: p.Multi}

	switch {
	case p.UseClass != nil:
		sym, ok := metadata.ResolveForwardRef(p.UseClass).(*metadata.StaticSymbol)
		if !ok {
			return nil, cerrors.NewInvalidProvider(index, p.UseClass)
		}
		meta.Kind = ProviderClass
		if meta.UseClass, err = m.GetTypeMetadata(sym, m.reflector.ImportURI(sym)); err != nil {
			return nil, err
		}
		if meta.Deps, err = m.GetDependenciesMetadata(sym, p.Dependencies); err != nil {
			return nil, err
		}

	case p.UseExisting != nil:
		meta.Kind = ProviderAlias
		if meta.UseExisting, err = m.GetTokenMetadata(p.UseExisting); err != nil {
			return nil, err
		}

	case p.UseFactory != nil:
		sym, ok := metadata.ResolveForwardRef(p.UseFactory).(*metadata.StaticSymbol)
		if !ok {
			return nil, cerrors.NewInvalidProvider(index, p.UseFactory)
		}
		meta.Kind = ProviderFactory
		if meta.UseFactory, err = m.GetFactoryMetadata(sym, m.reflector.ImportURI(sym), p.Dependencies); err != nil {
			return nil, err
		}
		meta.Deps = meta.UseFactory.DiDeps

	default:
		meta.Kind = ProviderValue
		meta.UseValue = p.UseValue
	}
	return meta, nil
}

// GetQueriesMetadata describes the view queries or the content queries of
// a directive, ordered by property name.
func (m *MetadataResolver) GetQueriesMetadata(queries map[string]*metadata.QueryMetadata, isViewQuery bool) ([]*CompileQueryMetadata, error) {
	names := make([]string, 0, len(queries))
	for name, q := range queries {
		if q.IsViewQuery() == isViewQuery {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]*CompileQueryMetadata, 0, len(names))
	for _, name := range names {
		q, err := m.getQueryMetadata(queries[name], name)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (m *MetadataResolver) getQueryMetadata(q *metadata.QueryMetadata, propertyName string) (*CompileQueryMetadata, error) {
	var selectors []*CompileTokenMetadata
	if q.IsVarBindingQuery() {
		for _, name := range q.VarBindings() {
			token, err := m.GetTokenMetadata(name)
			if err != nil {
				return nil, err
			}
			selectors = append(selectors, token)
		}
	} else {
		token, err := m.GetTokenMetadata(q.Selector)
		if err != nil {
			return nil, err
		}
		selectors = []*CompileTokenMetadata{token}
	}

	meta := &CompileQueryMetadata{
		Selectors:    selectors,
		Descendants:  q.Descendants,
		First:        q.First,
		PropertyName: propertyName,
	}
	if q.Read != nil {
		read, err := m.GetTokenMetadata(q.Read)
		if err != nil {
			return nil, err
		}
		meta.Read = read
	}
	return meta, nil
}

func (m *MetadataResolver) lifecycleHooks(sym *metadata.StaticSymbol) ([]LifecycleHook, error) {
	hooks := []LifecycleHook{}
	for _, hook := range LifecycleHooks {
		ok, err := m.reflector.HasLifecycleHook(sym, hook.Method())
		if err != nil {
			return nil, err
		}
		if ok {
			hooks = append(hooks, hook)
		}
	}
	return hooks, nil
}

// sanitizeTokenName names a token for generated code. Values without a
// stable name get "anonymous_token_<n>_", where n is assigned the first time
// this resolver sees the value.
func (m *MetadataResolver) sanitizeTokenName(token any) string {
	var identifier string
	switch t := token.(type) {
	case *metadata.StaticSymbol:
		identifier = t.Name
	case string:
		identifier = t
	case float64:
		identifier = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		identifier = strconv.FormatBool(t)
	default:
		key := identityKey(token)
		index, ok := m.anonymousTypes[key]
		if !ok {
			index = m.anonymousTypeIndex
			m.anonymousTypeIndex++
			m.anonymousTypes[key] = index
		}
		identifier = fmt.Sprintf("anonymous_token_%d_", index)
	}
	return sanitizeIdentifier(identifier)
}

type referenceKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// identityKey returns a comparable key that is equal for the same object.
// A slice is keyed by its length as well, so a prefix of an array is a
// different token. Zero-length slices share one backing address and so
// share one key.
func identityKey(token any) any {
	v := reflect.ValueOf(token)
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Slice:
		return referenceKey{typ: v.Type(), ptr: v.Pointer(), len: v.Len()}
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan:
		return referenceKey{typ: v.Type(), ptr: v.Pointer()}
	}
	if v.Type().Comparable() {
		return token
	}
	return referenceKey{typ: v.Type()}
}
