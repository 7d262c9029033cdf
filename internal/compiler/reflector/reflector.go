// Package reflector reads decorator metadata from serialized module
// documents without loading the modules they describe. A StaticReflector
// owns every cache for one compilation run and is not safe for concurrent
// use.
package reflector

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	cerrors "github.com/ngtools/staticreflect/internal/compiler/errors"
	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

const ctorMember = "__ctor__"

// StaticReflector answers annotation, property and parameter queries for
// static symbols.
type StaticReflector struct {
	host   Host
	logger *zap.Logger
	runID  uuid.UUID
	layout PackageLayout

	symbols         *SymbolCache
	annotationCache map[*metadata.StaticSymbol][]metadata.Annotation
	propertyCache   map[*metadata.StaticSymbol]map[string][]metadata.Annotation
	parameterCache  map[*metadata.StaticSymbol][][]any
	metadataCache   map[string]*metadata.ModuleDocument
	conversions     map[*metadata.StaticSymbol]converter
}

// Option configures a StaticReflector
type Option func(*StaticReflector)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(r *StaticReflector) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLayout selects the module names the well-known decorators are bound
// from. The default is LegacyLayout.
func WithLayout(layout PackageLayout) Option {
	return func(r *StaticReflector) {
		r.layout = layout
	}
}

// New creates a reflector over host and binds the well-known decorators.
func New(host Host, opts ...Option) (*StaticReflector, error) {
	r := &StaticReflector{
		host:            host,
		logger:          zap.NewNop(),
		runID:           uuid.New(),
		layout:          LegacyLayout,
		symbols:         NewSymbolCache(),
		annotationCache: make(map[*metadata.StaticSymbol][]metadata.Annotation),
		propertyCache:   make(map[*metadata.StaticSymbol]map[string][]metadata.Annotation),
		parameterCache:  make(map[*metadata.StaticSymbol][][]any),
		metadataCache:   make(map[string]*metadata.ModuleDocument),
		conversions:     make(map[*metadata.StaticSymbol]converter),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("run_id", r.runID.String()))

	if err := r.initializeConversionMap(); err != nil {
		return nil, err
	}
	r.logger.Debug("reflector ready", zap.Int("decorators", len(r.conversions)))
	return r, nil
}

// RunID identifies this reflector in logs.
func (r *StaticReflector) RunID() uuid.UUID {
	return r.runID
}

// GetStaticSymbol returns the interned symbol for (moduleID, name).
func (r *StaticReflector) GetStaticSymbol(moduleID, name string) *metadata.StaticSymbol {
	return r.symbols.Get(moduleID, name)
}

// ImportURI returns the module a symbol is declared in.
func (r *StaticReflector) ImportURI(sym *metadata.StaticSymbol) string {
	return sym.ModuleID
}

// GetModuleMetadata returns the cached document for module. A module the
// host has no metadata for is an empty document.
func (r *StaticReflector) GetModuleMetadata(module string) (*metadata.ModuleDocument, error) {
	if doc, ok := r.metadataCache[module]; ok {
		return doc, nil
	}

	doc, err := r.host.GetMetadataFor(module)
	if err != nil {
		r.logger.Error("failed to read module metadata",
			zap.String("module", module),
			zap.Error(err))
		return nil, err
	}
	r.logger.Debug("fetched module metadata",
		zap.String("module", module),
		zap.Bool("found", doc != nil))
	if doc == nil {
		doc = metadata.EmptyDocument(module)
	}
	r.metadataCache[module] = doc
	return doc, nil
}

// Simplify evaluates a symbolic node in the context of module. With
// crossModules set, references to other modules are replaced by the values
// those modules declare.
func (r *StaticReflector) Simplify(module string, node metadata.Node, crossModules bool) (any, error) {
	return r.newEvaluator(module, crossModules).simplify(node)
}

// Annotations returns the recognized class decorators of sym in source order.
func (r *StaticReflector) Annotations(sym *metadata.StaticSymbol) ([]metadata.Annotation, error) {
	if cached, ok := r.annotationCache[sym]; ok {
		return cached, nil
	}

	class, err := r.classMetadata(sym)
	if err != nil {
		return nil, cerrors.Attribute(err, sym.ModuleID, sym.Name)
	}
	annotations, err := r.convertDecorators(sym.ModuleID, class["decorators"])
	if err != nil {
		return nil, cerrors.Attribute(err, sym.ModuleID, sym.Name)
	}

	r.annotationCache[sym] = annotations
	return annotations, nil
}

// PropMetadata returns the decorators of each decorated property of sym.
func (r *StaticReflector) PropMetadata(sym *metadata.StaticSymbol) (map[string][]metadata.Annotation, error) {
	if cached, ok := r.propertyCache[sym]; ok {
		return cached, nil
	}

	class, err := r.classMetadata(sym)
	if err != nil {
		return nil, cerrors.Attribute(err, sym.ModuleID, sym.Name)
	}

	props := make(map[string][]metadata.Annotation)
	members, _ := class["members"].(map[string]any)
	for name, entries := range members {
		list, _ := entries.([]any)
		var annotations []metadata.Annotation
		for _, entry := range list {
			if !metadata.IsKind(entry, metadata.KindProperty) {
				continue
			}
			converted, err := r.convertDecorators(sym.ModuleID, metadata.Field(entry, "decorators"))
			if err != nil {
				return nil, cerrors.Attribute(err, sym.ModuleID, sym.Name)
			}
			annotations = append(annotations, converted...)
		}
		if len(annotations) > 0 {
			props[name] = annotations
		}
	}

	r.propertyCache[sym] = props
	return props, nil
}

// Parameters returns, for each constructor parameter of sym, its type symbol
// (when declared) followed by its parameter decorators.
func (r *StaticReflector) Parameters(sym *metadata.StaticSymbol) ([][]any, error) {
	if cached, ok := r.parameterCache[sym]; ok {
		return cached, nil
	}

	params, err := r.parameters(sym)
	if err != nil {
		return nil, cerrors.Attribute(err, sym.ModuleID, sym.Name)
	}
	r.parameterCache[sym] = params
	return params, nil
}

func (r *StaticReflector) parameters(sym *metadata.StaticSymbol) ([][]any, error) {
	doc, err := r.GetModuleMetadata(sym.ModuleID)
	if err != nil {
		return nil, err
	}
	node, ok := doc.Lookup(sym.Name)
	if ok && metadata.IsKind(node, metadata.KindFunction) {
		// Factories carry no parameter types.
		return [][]any{}, nil
	}
	if !ok || !metadata.IsKind(node, metadata.KindClass) {
		return nil, cerrors.NewMissingParameters(sym.ModuleID, sym.Name, "no class declaration")
	}
	members, _ := node.(map[string]any)["members"].(map[string]any)

	entries, ok := members[ctorMember]
	if !ok {
		return [][]any{}, nil
	}
	ctor := findMember(entries, metadata.KindConstructor)
	if ctor == nil {
		return nil, cerrors.NewMissingParameters(sym.ModuleID, sym.Name, "no constructor entry")
	}

	e := r.newEvaluator(sym.ModuleID, false)
	types, err := e.simplify(ctor["parameters"])
	if err != nil {
		return nil, err
	}
	decorators, err := e.simplify(ctor["parameterDecorators"])
	if err != nil {
		return nil, err
	}
	typeList, _ := types.([]any)
	decoratorList, _ := decorators.([]any)

	params := make([][]any, max(len(typeList), len(decoratorList)))
	for i := range params {
		entry := []any{}
		if i < len(typeList) && typeList[i] != nil {
			entry = append(entry, typeList[i])
		}
		if i < len(decoratorList) {
			list, _ := decoratorList[i].([]any)
			for _, d := range list {
				if d != nil {
					entry = append(entry, d)
				}
			}
		}
		params[i] = entry
	}
	return params, nil
}

// HasLifecycleHook reports whether sym's class declares a member named method.
func (r *StaticReflector) HasLifecycleHook(sym *metadata.StaticSymbol, method string) (bool, error) {
	class, err := r.classMetadata(sym)
	if err != nil {
		return false, cerrors.Attribute(err, sym.ModuleID, sym.Name)
	}
	members, _ := class["members"].(map[string]any)
	_, ok := members[method]
	return ok, nil
}

// classMetadata returns the class descriptor of sym, or an empty descriptor
// when sym is not a class declared in its module.
func (r *StaticReflector) classMetadata(sym *metadata.StaticSymbol) (map[string]any, error) {
	doc, err := r.GetModuleMetadata(sym.ModuleID)
	if err != nil {
		return nil, err
	}
	node, ok := doc.Lookup(sym.Name)
	if !ok || !metadata.IsKind(node, metadata.KindClass) {
		return map[string]any{}, nil
	}
	return node.(map[string]any), nil
}

func (r *StaticReflector) convertDecorators(module string, decorators metadata.Node) ([]metadata.Annotation, error) {
	list, _ := decorators.([]any)
	annotations := make([]metadata.Annotation, 0, len(list))
	e := r.newEvaluator(module, false)
	for _, d := range list {
		v, err := e.simplify(d)
		if err != nil {
			return nil, err
		}
		if a, ok := v.(metadata.Annotation); ok {
			annotations = append(annotations, a)
		}
	}
	return annotations, nil
}

// findMember returns the first entry of a member list with the given kind.
func findMember(entries metadata.Node, kind metadata.Kind) map[string]any {
	list, _ := entries.([]any)
	for _, entry := range list {
		if metadata.IsKind(entry, kind) {
			return entry.(map[string]any)
		}
	}
	return nil
}
