package reflector

import (
	"go.uber.org/zap"

	cerrors "github.com/ngtools/staticreflect/internal/compiler/errors"
	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

// PackageLayout names the modules that declare the well-known decorators.
type PackageLayout struct {
	Metadata   string
	DI         string
	Provider   string
	ForwardRef string
}

var (
	// LegacyLayout is the angular2/... npm namespace.
	LegacyLayout = PackageLayout{
		Metadata:   "angular2/src/core/metadata",
		DI:         "angular2/src/core/di/metadata",
		Provider:   "angular2/src/core/di/provider",
		ForwardRef: "angular2/src/core/di/forward_ref",
	}

	// ScopedLayout is the @angular/... npm namespace.
	ScopedLayout = PackageLayout{
		Metadata:   "@angular/core/src/metadata",
		DI:         "@angular/core/src/di/metadata",
		Provider:   "@angular/core/src/di/provider",
		ForwardRef: "@angular/core/src/di/forward_ref",
	}
)

// constructible is the closed set of classes a `new` expression may target.
var constructible = map[string]bool{
	"Provider": true,
}

// converter builds a typed value from a call to a well-known declaration.
type converter func(c *conversionContext) (any, error)

// conversionContext gives a converter access to the call's arguments.
type conversionContext struct {
	e    *evaluator
	call map[string]any
}

func (c *conversionContext) argNode(index int) metadata.Node {
	args, _ := c.call["arguments"].([]any)
	if index < 0 || index >= len(args) {
		return nil
	}
	return args[index]
}

// arg simplifies argument index across modules. Missing arguments are nil.
func (c *conversionContext) arg(index int) (any, error) {
	node := c.argNode(index)
	if node == nil {
		return nil, nil
	}
	return c.e.in(c.e.module, true).simplify(node)
}

// objectArg returns argument index as a keyed structure, empty when absent.
func (c *conversionContext) objectArg(index int) (map[string]any, error) {
	v, err := c.arg(index)
	if err != nil {
		return nil, err
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	return map[string]any{}, nil
}

func (c *conversionContext) stringArg(index int) (string, error) {
	v, err := c.arg(index)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// initializeConversionMap binds every well-known decorator to the symbol that
// declares it in this compilation's module graph.
func (r *StaticReflector) initializeConversionMap() error {
	bindings := []struct {
		module     string
		converters map[string]converter
	}{
		{r.layout.Metadata, coreConverters},
		{r.layout.DI, diConverters},
		{r.layout.Provider, providerConverters},
		{r.layout.ForwardRef, forwardRefConverters},
	}

	for _, b := range bindings {
		if err := r.bind(b.module, b.converters); err != nil {
			return err
		}
	}
	return nil
}

func (r *StaticReflector) bind(moduleName string, converters map[string]converter) error {
	modulePath, err := r.host.ResolveModule(moduleName, "")
	if err != nil {
		if cerrors.Is(err, cerrors.ErrModuleNotFound) {
			r.logger.Warn("decorator module not found; its decorators will not be recognized",
				zap.String("module", moduleName))
			return nil
		}
		return err
	}

	for name, conv := range converters {
		decl, err := r.host.FindDeclaration(modulePath, name)
		if err != nil {
			return err
		}
		sym := r.GetStaticSymbol(decl.Path, decl.Name)
		r.conversions[sym] = conv
		r.logger.Debug("bound decorator",
			zap.String("name", name),
			zap.String("declaration", sym.String()))
	}
	return nil
}

// convertCall resolves the callee of a call node and, when it is a
// well-known declaration, converts the call. Calls to anything else are
// absent.
func (e *evaluator) convertCall(call map[string]any) (any, error) {
	target, ok := call["expression"]
	if !ok || target == nil {
		return nil, cerrors.NewUnresolvableTarget("call", call)
	}
	callee, err := e.in(e.module, false).simplify(target)
	if err != nil {
		return nil, err
	}
	sym, ok := callee.(*metadata.StaticSymbol)
	if !ok {
		return nil, nil
	}
	conv, ok := e.r.conversions[sym]
	if !ok {
		return nil, nil
	}
	return conv(&conversionContext{e: e, call: call})
}

var coreConverters = map[string]converter{
	"Directive": func(c *conversionContext) (any, error) {
		p0, err := c.objectArg(0)
		if err != nil {
			return nil, err
		}
		return directiveFrom(p0), nil
	},
	"Component": func(c *conversionContext) (any, error) {
		p0, err := c.objectArg(0)
		if err != nil {
			return nil, err
		}
		return &metadata.ComponentMetadata{
			DirectiveMetadata: *directiveFrom(p0),
			ModuleID:          stringField(p0, "moduleId"),
			ViewProviders:     firstList(p0, "viewProviders", "viewBindings"),
			ChangeDetection:   p0["changeDetection"],
			TemplateURL:       stringField(p0, "templateUrl"),
			Template:          stringField(p0, "template"),
			StyleURLs:         stringList(p0, "styleUrls"),
			Styles:            p0["styles"],
			Directives:        listField(p0, "directives"),
			Pipes:             listField(p0, "pipes"),
			Encapsulation:     p0["encapsulation"],
		}, nil
	},
	"View": func(c *conversionContext) (any, error) {
		p0, err := c.objectArg(0)
		if err != nil {
			return nil, err
		}
		return &metadata.ViewMetadata{
			TemplateURL:   stringField(p0, "templateUrl"),
			Template:      stringField(p0, "template"),
			Directives:    listField(p0, "directives"),
			Pipes:         listField(p0, "pipes"),
			Encapsulation: p0["encapsulation"],
			Styles:        p0["styles"],
			StyleURLs:     stringList(p0, "styleUrls"),
		}, nil
	},
	"Pipe": func(c *conversionContext) (any, error) {
		p0, err := c.objectArg(0)
		if err != nil {
			return nil, err
		}
		pipe := &metadata.PipeMetadata{Name: stringField(p0, "name")}
		if pure, ok := p0["pure"].(bool); ok {
			pipe.Pure = &pure
		}
		return pipe, nil
	},
	"Input": func(c *conversionContext) (any, error) {
		name, err := c.stringArg(0)
		return &metadata.InputMetadata{BindingPropertyName: name}, err
	},
	"Output": func(c *conversionContext) (any, error) {
		name, err := c.stringArg(0)
		return &metadata.OutputMetadata{BindingPropertyName: name}, err
	},
	"HostBinding": func(c *conversionContext) (any, error) {
		name, err := c.stringArg(0)
		return &metadata.HostBindingMetadata{HostPropertyName: name}, err
	},
	"HostListener": func(c *conversionContext) (any, error) {
		event, err := c.stringArg(0)
		if err != nil {
			return nil, err
		}
		args, err := c.arg(1)
		if err != nil {
			return nil, err
		}
		return &metadata.HostListenerMetadata{EventName: event, Args: toStrings(args)}, nil
	},
	"Attribute": func(c *conversionContext) (any, error) {
		name, err := c.stringArg(0)
		return &metadata.AttributeMetadata{AttributeName: name}, err
	},
	"Query":           queryConverter(metadata.QueryContent),
	"ViewQuery":       queryConverter(metadata.QueryView),
	"ContentChildren": queryConverter(metadata.QueryContentChildren),
	"ContentChild":    queryConverter(metadata.QueryContentChild),
	"ViewChildren":    queryConverter(metadata.QueryViewChildren),
	"ViewChild":       queryConverter(metadata.QueryViewChild),
}

func queryConverter(kind metadata.QueryKind) converter {
	return func(c *conversionContext) (any, error) {
		selector, err := c.arg(0)
		if err != nil {
			return nil, err
		}
		opts, err := c.objectArg(1)
		if err != nil {
			return nil, err
		}
		q := metadata.NewQueryMetadata(kind, selector)
		if v, ok := opts["descendants"].(bool); ok {
			q.Descendants = v
		}
		if kind == metadata.QueryContent || kind == metadata.QueryView {
			if v, ok := opts["first"].(bool); ok {
				q.First = v
			}
		}
		q.Read = opts["read"]
		return q, nil
	}
}

func marker(a metadata.Annotation) converter {
	return func(*conversionContext) (any, error) { return a, nil }
}

var diConverters = map[string]converter{
	"Inject": func(c *conversionContext) (any, error) {
		token, err := c.arg(0)
		if err != nil {
			return nil, err
		}
		return &metadata.InjectMetadata{Token: token}, nil
	},
	"Injectable": marker(&metadata.InjectableMetadata{}),
	"Optional":   marker(&metadata.OptionalMetadata{}),
	"Self":       marker(&metadata.SelfMetadata{}),
	"SkipSelf":   marker(&metadata.SkipSelfMetadata{}),
	"Host":       marker(&metadata.HostMetadata{}),
}

var providerConverters = map[string]converter{
	"provide": func(c *conversionContext) (any, error) {
		token, err := c.arg(0)
		if err != nil {
			return nil, err
		}
		opts, err := c.arg(1)
		if err != nil {
			return nil, err
		}
		return providerFrom([]any{token, opts}), nil
	},
}

var forwardRefConverters = map[string]converter{
	"forwardRef": func(c *conversionContext) (any, error) {
		node := c.argNode(0)
		if metadata.IsKind(node, metadata.KindFunction) {
			node = metadata.Field(node, "value")
		}
		ref, err := c.e.in(c.e.module, true).simplify(node)
		if err != nil {
			return nil, err
		}
		return &metadata.ForwardRef{Ref: ref}, nil
	},
}

// providerFrom builds a provider from `(token, {useClass, useValue, ...})`.
func providerFrom(args []any) *metadata.Provider {
	p := &metadata.Provider{}
	if len(args) > 0 {
		p.Token = args[0]
	}
	if len(args) > 1 {
		if opts, ok := args[1].(map[string]any); ok {
			p.UseClass = opts["useClass"]
			p.UseValue = opts["useValue"]
			p.UseExisting = opts["useExisting"]
			p.UseFactory = opts["useFactory"]
			p.Dependencies = listField(opts, "deps")
			p.Multi, _ = opts["multi"].(bool)
		}
	}
	return p
}

func directiveFrom(p0 map[string]any) *metadata.DirectiveMetadata {
	return &metadata.DirectiveMetadata{
		Selector:  stringField(p0, "selector"),
		Inputs:    firstStrings(p0, "inputs", "properties"),
		Outputs:   firstStrings(p0, "outputs", "events"),
		Host:      stringMap(p0, "host"),
		Providers: firstList(p0, "providers", "bindings"),
		ExportAs:  stringField(p0, "exportAs"),
		Queries:   queryMap(p0, "queries"),
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func listField(m map[string]any, key string) []any {
	l, _ := m[key].([]any)
	return l
}

func firstList(m map[string]any, keys ...string) []any {
	for _, key := range keys {
		if l := listField(m, key); l != nil {
			return l
		}
	}
	return nil
}

func toStrings(v any) []string {
	l, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringList(m map[string]any, key string) []string {
	return toStrings(m[key])
}

func firstStrings(m map[string]any, keys ...string) []string {
	for _, key := range keys {
		if _, ok := m[key].([]any); ok {
			return stringList(m, key)
		}
	}
	return nil
}

func stringMap(m map[string]any, key string) map[string]string {
	src, ok := m[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func queryMap(m map[string]any, key string) map[string]*metadata.QueryMetadata {
	src, ok := m[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]*metadata.QueryMetadata, len(src))
	for k, v := range src {
		if q, ok := v.(*metadata.QueryMetadata); ok {
			out[k] = q
		}
	}
	return out
}
