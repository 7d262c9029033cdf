package resolver

import (
	"fmt"
	"sort"
	"strings"

	cerrors "github.com/ngtools/staticreflect/internal/compiler/errors"
	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

// Reflector is the part of the static reflector the resolvers read from.
type Reflector interface {
	Annotations(sym *metadata.StaticSymbol) ([]metadata.Annotation, error)
	PropMetadata(sym *metadata.StaticSymbol) (map[string][]metadata.Annotation, error)
	Parameters(sym *metadata.StaticSymbol) ([][]any, error)
	ImportURI(sym *metadata.StaticSymbol) string
	HasLifecycleHook(sym *metadata.StaticSymbol, method string) (bool, error)
}

// DirectiveResolver finds the @Directive or @Component of a type and merges
// in what its property decorators declare.
type DirectiveResolver struct {
	reflector Reflector
}

func NewDirectiveResolver(r Reflector) *DirectiveResolver {
	return &DirectiveResolver{reflector: r}
}

// Resolve returns a *metadata.DirectiveMetadata or *metadata.ComponentMetadata.
// The annotation itself is not modified.
func (d *DirectiveResolver) Resolve(sym *metadata.StaticSymbol) (metadata.Annotation, error) {
	annotations, err := d.reflector.Annotations(sym)
	if err != nil {
		return nil, err
	}

	for _, a := range annotations {
		dir, ok := metadata.AsDirective(a)
		if !ok {
			continue
		}
		props, err := d.reflector.PropMetadata(sym)
		if err != nil {
			return nil, err
		}
		merged := mergeProperties(dir, props)
		if comp, ok := a.(*metadata.ComponentMetadata); ok {
			c := *comp
			c.DirectiveMetadata = *merged
			return &c, nil
		}
		return merged, nil
	}
	return nil, cerrors.NewNoDirectiveAnnotation(sym.ModuleID, sym.Name)
}

// mergeProperties folds @Input, @Output, @HostBinding, @HostListener and
// query property decorators into the directive's own configuration. Entries
// from decorators come after the directive's own entries.
func mergeProperties(dir *metadata.DirectiveMetadata, props map[string][]metadata.Annotation) *metadata.DirectiveMetadata {
	merged := *dir
	merged.Inputs = append([]string(nil), dir.Inputs...)
	merged.Outputs = append([]string(nil), dir.Outputs...)
	merged.Host = make(map[string]string, len(dir.Host))
	for k, v := range dir.Host {
		merged.Host[k] = v
	}
	merged.Queries = make(map[string]*metadata.QueryMetadata, len(dir.Queries))
	for k, v := range dir.Queries {
		merged.Queries[k] = v
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, prop := range names {
		for _, a := range props[prop] {
			switch m := a.(type) {
			case *metadata.InputMetadata:
				merged.Inputs = append(merged.Inputs, bindingConfig(prop, m.BindingPropertyName))
			case *metadata.OutputMetadata:
				merged.Outputs = append(merged.Outputs, bindingConfig(prop, m.BindingPropertyName))
			case *metadata.HostBindingMetadata:
				name := m.HostPropertyName
				if name == "" {
					name = prop
				}
				merged.Host["["+name+"]"] = prop
			case *metadata.HostListenerMetadata:
				merged.Host["("+m.EventName+")"] = fmt.Sprintf("%s(%s)", prop, strings.Join(m.Args, ", "))
			case *metadata.QueryMetadata:
				merged.Queries[prop] = m
			}
		}
	}
	return &merged
}

func bindingConfig(prop, alias string) string {
	if alias == "" {
		return prop
	}
	return prop + ": " + alias
}

// ViewResolver finds the view of a component.
type ViewResolver struct {
	reflector Reflector
}

func NewViewResolver(r Reflector) *ViewResolver {
	return &ViewResolver{reflector: r}
}

// Resolve returns the component's inline view, or its @View annotation.
func (v *ViewResolver) Resolve(sym *metadata.StaticSymbol) (*metadata.ViewMetadata, error) {
	annotations, err := v.reflector.Annotations(sym)
	if err != nil {
		return nil, err
	}

	var comp *metadata.ComponentMetadata
	var view *metadata.ViewMetadata
	for _, a := range annotations {
		switch m := a.(type) {
		case *metadata.ComponentMetadata:
			if comp == nil {
				comp = m
			}
		case *metadata.ViewMetadata:
			if view == nil {
				view = m
			}
		}
	}

	if comp != nil && comp.HasInlineView() {
		return &metadata.ViewMetadata{
			TemplateURL:   comp.TemplateURL,
			Template:      comp.Template,
			Directives:    comp.Directives,
			Pipes:         comp.Pipes,
			Encapsulation: comp.Encapsulation,
			Styles:        comp.Styles,
			StyleURLs:     comp.StyleURLs,
		}, nil
	}
	if view != nil {
		return view, nil
	}
	return nil, cerrors.NewNoView(sym.ModuleID, sym.Name)
}

// PipeResolver finds the @Pipe of a type.
type PipeResolver struct {
	reflector Reflector
}

func NewPipeResolver(r Reflector) *PipeResolver {
	return &PipeResolver{reflector: r}
}

func (p *PipeResolver) Resolve(sym *metadata.StaticSymbol) (*metadata.PipeMetadata, error) {
	annotations, err := p.reflector.Annotations(sym)
	if err != nil {
		return nil, err
	}
	for _, a := range annotations {
		if pipe, ok := a.(*metadata.PipeMetadata); ok {
			return pipe, nil
		}
	}
	return nil, cerrors.NewNoPipeAnnotation(sym.ModuleID, sym.Name)
}
