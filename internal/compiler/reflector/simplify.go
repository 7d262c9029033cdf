package reflector

import (
	cerrors "github.com/ngtools/staticreflect/internal/compiler/errors"
	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

// evaluator is a recursive-descent interpreter over symbolic nodes. It is
// bound to the module whose document the nodes come from and to the
// crossModules mode. Nested evaluators share the set of declarations
// currently being dereferenced so that reference cycles are reported rather
// than recursing forever.
type evaluator struct {
	r            *StaticReflector
	module       string
	crossModules bool
	active       map[string]bool
}

func (r *StaticReflector) newEvaluator(module string, crossModules bool) *evaluator {
	return &evaluator{
		r:            r,
		module:       module,
		crossModules: crossModules,
		active:       make(map[string]bool),
	}
}

// in returns an evaluator for another module or mode sharing e's cycle state.
func (e *evaluator) in(module string, crossModules bool) *evaluator {
	return &evaluator{
		r:            e.r,
		module:       module,
		crossModules: crossModules,
		active:       e.active,
	}
}

func (e *evaluator) simplify(node metadata.Node) (any, error) {
	switch v := node.(type) {
	case nil, string, bool, float64, float32, int, int32, int64:
		return v, nil
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			simplified, err := e.simplify(item)
			if err != nil {
				return nil, err
			}
			result[i] = simplified
		}
		return result, nil
	case map[string]any:
		kind, ok := metadata.SymbolicKind(v)
		if !ok {
			return e.simplifyStruct(v)
		}
		return e.simplifySymbolic(kind, v)
	}
	// Values that are already resolved (symbols, typed metadata) pass through.
	return node, nil
}

func (e *evaluator) simplifyStruct(v map[string]any) (any, error) {
	result := make(map[string]any, len(v))
	for key, value := range v {
		simplified, err := e.simplify(value)
		if err != nil {
			return nil, err
		}
		result[key] = simplified
	}
	return result, nil
}

func (e *evaluator) simplifySymbolic(kind metadata.Kind, v map[string]any) (any, error) {
	switch kind {
	case metadata.KindClass:
		name := metadata.StringField(v, "name")
		if name == "" {
			return nil, nil
		}
		return e.r.GetStaticSymbol(e.module, name), nil

	case metadata.KindBinop:
		return e.simplifyBinop(v)

	case metadata.KindPre:
		operand, err := e.simplify(v["operand"])
		if err != nil {
			return nil, err
		}
		result, _ := unaryOp(metadata.StringField(v, "operator"), operand)
		return result, nil

	case metadata.KindIndex:
		target, err := e.simplify(v["expression"])
		if err != nil {
			return nil, err
		}
		index, err := e.simplify(v["index"])
		if err != nil {
			return nil, err
		}
		if target == nil || !metadata.IsPrimitive(index) {
			return nil, nil
		}
		return indexValue(target, index), nil

	case metadata.KindSelect:
		target, err := e.simplify(v["expression"])
		if err != nil {
			return nil, err
		}
		member, err := e.simplify(v["member"])
		if err != nil {
			return nil, err
		}
		if target == nil || !metadata.IsPrimitive(member) {
			return nil, nil
		}
		return indexValue(target, member), nil

	case metadata.KindNew:
		return e.simplifyNew(v)

	case metadata.KindReference:
		return e.simplifyReference(v)

	case metadata.KindCall:
		return e.convertCall(v)
	}
	// Outside the supported subset: functions, conditionals, errors, ...
	return nil, nil
}

func (e *evaluator) simplifyBinop(v map[string]any) (any, error) {
	op := metadata.StringField(v, "operator")
	left, err := e.simplify(v["left"])
	if err != nil {
		return nil, err
	}

	switch op {
	case "&&":
		if !truthy(left) {
			return left, nil
		}
		return e.simplify(v["right"])
	case "||":
		if truthy(left) {
			return left, nil
		}
		return e.simplify(v["right"])
	}

	right, err := e.simplify(v["right"])
	if err != nil {
		return nil, err
	}
	result, _ := binaryOp(op, left, right)
	return result, nil
}

func (e *evaluator) simplifyNew(v map[string]any) (any, error) {
	target, ok := v["expression"]
	if !ok || target == nil {
		return nil, cerrors.NewUnresolvableTarget("new", v)
	}
	ctor, err := e.simplify(target)
	if err != nil {
		return nil, err
	}
	sym, ok := ctor.(*metadata.StaticSymbol)
	if !ok {
		return nil, cerrors.NewUnresolvableTarget("new", v)
	}
	if !constructible[sym.Name] {
		return nil, cerrors.NewUnsupportedConstructor(sym.ModuleID, sym.Name, v)
	}

	args, err := e.in(e.module, false).simplify(v["arguments"])
	if err != nil {
		return nil, err
	}
	list, _ := args.([]any)
	return providerFrom(list), nil
}

func (e *evaluator) simplifyReference(v map[string]any) (any, error) {
	name := metadata.StringField(v, "name")
	if name == "" {
		return nil, cerrors.NewReferenceWithoutName(v)
	}

	module := metadata.StringField(v, "module")
	if module == "" {
		value, _, err := e.declarationValue(e.module, name)
		return value, err
	}

	modulePath, err := e.r.host.ResolveModule(module, e.module)
	if err != nil {
		return nil, err
	}
	decl, err := e.r.host.FindDeclaration(modulePath, name)
	if err != nil {
		return nil, err
	}
	if !e.crossModules {
		return e.r.GetStaticSymbol(decl.Path, decl.Name), nil
	}

	value, declared, err := e.declarationValue(decl.Path, decl.Name)
	if err != nil {
		return nil, err
	}
	if !declared {
		// No metadata for the target: its identity is all that is known.
		return e.r.GetStaticSymbol(decl.Path, decl.Name), nil
	}
	return value, nil
}

// declarationValue simplifies the value declared as name in module, under
// module as context. Class and function declarations stand for themselves
// and yield their symbol. declared is false when the module has no such
// declaration.
func (e *evaluator) declarationValue(module, name string) (value any, declared bool, err error) {
	doc, err := e.r.GetModuleMetadata(module)
	if err != nil {
		return nil, false, err
	}
	node, ok := doc.Lookup(name)
	if !ok {
		return nil, false, nil
	}

	if kind, ok := metadata.SymbolicKind(node); ok {
		switch kind {
		case metadata.KindClass, metadata.KindFunction:
			return e.r.GetStaticSymbol(module, name), true, nil
		}
	}

	key := metadata.SymbolKey(module, name)
	if e.active[key] {
		return nil, true, cerrors.NewCircularReference(module, name)
	}
	e.active[key] = true
	defer delete(e.active, key)

	value, err = e.in(module, e.crossModules).simplify(node)
	return value, true, err
}
