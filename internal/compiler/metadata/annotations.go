package metadata

import "strings"

// AnnotationKind identifies a variant of Annotation
type AnnotationKind string

const (
	AnnotationDirective    AnnotationKind = "directive"
	AnnotationComponent    AnnotationKind = "component"
	AnnotationView         AnnotationKind = "view"
	AnnotationPipe         AnnotationKind = "pipe"
	AnnotationInput        AnnotationKind = "input"
	AnnotationOutput       AnnotationKind = "output"
	AnnotationHostBinding  AnnotationKind = "hostBinding"
	AnnotationHostListener AnnotationKind = "hostListener"
	AnnotationAttribute    AnnotationKind = "attribute"
	AnnotationQuery        AnnotationKind = "query"
	AnnotationInject       AnnotationKind = "inject"
	AnnotationInjectable   AnnotationKind = "injectable"
	AnnotationOptional     AnnotationKind = "optional"
	AnnotationSelf         AnnotationKind = "self"
	AnnotationSkipSelf     AnnotationKind = "skipSelf"
	AnnotationHost         AnnotationKind = "host"
)

// Annotation is the closed set of typed decorator metadata the reflector
// produces. Only types in this package implement it.
type Annotation interface {
	AnnotationKind() AnnotationKind
	annotation()
}

// DirectiveMetadata is the argument of @Directive.
type DirectiveMetadata struct {
	Selector  string                    `json:"selector,omitempty"`
	Inputs    []string                  `json:"inputs,omitempty"`
	Outputs   []string                  `json:"outputs,omitempty"`
	Host      map[string]string         `json:"host,omitempty"`
	Providers []any                     `json:"providers,omitempty"`
	ExportAs  string                    `json:"exportAs,omitempty"`
	Queries   map[string]*QueryMetadata `json:"queries,omitempty"`
}

// ComponentMetadata is the argument of @Component. It carries the directive
// fields plus the inline view.
type ComponentMetadata struct {
	DirectiveMetadata
	ModuleID        string   `json:"moduleId,omitempty"`
	ViewProviders   []any    `json:"viewProviders,omitempty"`
	ChangeDetection any      `json:"changeDetection,omitempty"`
	TemplateURL     string   `json:"templateUrl,omitempty"`
	Template        string   `json:"template,omitempty"`
	StyleURLs       []string `json:"styleUrls,omitempty"`
	Styles          any      `json:"styles,omitempty"`
	Directives      []any    `json:"directives,omitempty"`
	Pipes           []any    `json:"pipes,omitempty"`
	Encapsulation   any      `json:"encapsulation,omitempty"`
}

// HasInlineView reports whether the component declares its own template.
func (c *ComponentMetadata) HasInlineView() bool {
	return c.Template != "" || c.TemplateURL != ""
}

// ViewMetadata is the argument of @View.
type ViewMetadata struct {
	TemplateURL   string   `json:"templateUrl,omitempty"`
	Template      string   `json:"template,omitempty"`
	Directives    []any    `json:"directives,omitempty"`
	Pipes         []any    `json:"pipes,omitempty"`
	Encapsulation any      `json:"encapsulation,omitempty"`
	Styles        any      `json:"styles,omitempty"`
	StyleURLs     []string `json:"styleUrls,omitempty"`
}

// PipeMetadata is the argument of @Pipe.
type PipeMetadata struct {
	Name string `json:"name"`
	Pure *bool  `json:"pure,omitempty"`
}

// IsPure reports the pipe's purity; pipes are pure unless declared otherwise.
func (p *PipeMetadata) IsPure() bool {
	return p.Pure == nil || *p.Pure
}

// InputMetadata marks an input property.
type InputMetadata struct {
	BindingPropertyName string `json:"bindingPropertyName,omitempty"`
}

// OutputMetadata marks an output property.
type OutputMetadata struct {
	BindingPropertyName string `json:"bindingPropertyName,omitempty"`
}

// HostBindingMetadata binds a host element property to a directive property.
type HostBindingMetadata struct {
	HostPropertyName string `json:"hostPropertyName,omitempty"`
}

// HostListenerMetadata binds a host event to a directive method.
type HostListenerMetadata struct {
	EventName string   `json:"eventName"`
	Args      []string `json:"args,omitempty"`
}

// AttributeMetadata injects a static host attribute.
type AttributeMetadata struct {
	AttributeName string `json:"attributeName"`
}

// QueryKind distinguishes the query decorators
type QueryKind string

const (
	QueryContent         QueryKind = "Query"
	QueryView            QueryKind = "ViewQuery"
	QueryContentChildren QueryKind = "ContentChildren"
	QueryContentChild    QueryKind = "ContentChild"
	QueryViewChildren    QueryKind = "ViewChildren"
	QueryViewChild       QueryKind = "ViewChild"
)

// QueryMetadata covers @Query, @ViewQuery and the child/children decorators.
type QueryMetadata struct {
	Kind        QueryKind `json:"kind"`
	Selector    any       `json:"selector"`
	Descendants bool      `json:"descendants"`
	First       bool      `json:"first"`
	Read        any       `json:"read,omitempty"`
}

// NewQueryMetadata applies the per-decorator defaults for descendants and first.
func NewQueryMetadata(kind QueryKind, selector any) *QueryMetadata {
	q := &QueryMetadata{Kind: kind, Selector: selector}
	switch kind {
	case QueryContentChild, QueryViewChild:
		q.Descendants = true
		q.First = true
	case QueryViewChildren:
		q.Descendants = true
	}
	return q
}

// IsViewQuery reports whether the query looks into the component's view
// rather than its content.
func (q *QueryMetadata) IsViewQuery() bool {
	switch q.Kind {
	case QueryView, QueryViewChildren, QueryViewChild:
		return true
	}
	return false
}

// IsVarBindingQuery reports whether the selector names template variables.
func (q *QueryMetadata) IsVarBindingQuery() bool {
	_, ok := q.Selector.(string)
	return ok
}

// VarBindings splits a string selector into variable names.
func (q *QueryMetadata) VarBindings() []string {
	s, ok := q.Selector.(string)
	if !ok {
		return nil
	}
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// InjectMetadata overrides the dependency token of a parameter.
type InjectMetadata struct {
	Token any `json:"token"`
}

// InjectableMetadata marks a class as injectable.
type InjectableMetadata struct{}

// OptionalMetadata marks a dependency as optional.
type OptionalMetadata struct{}

// SelfMetadata restricts lookup to the local injector.
type SelfMetadata struct{}

// SkipSelfMetadata starts lookup at the parent injector.
type SkipSelfMetadata struct{}

// HostMetadata stops lookup at the host element injector.
type HostMetadata struct{}

func (*DirectiveMetadata) AnnotationKind() AnnotationKind    { return AnnotationDirective }
func (*ComponentMetadata) AnnotationKind() AnnotationKind    { return AnnotationComponent }
func (*ViewMetadata) AnnotationKind() AnnotationKind         { return AnnotationView }
func (*PipeMetadata) AnnotationKind() AnnotationKind         { return AnnotationPipe }
func (*InputMetadata) AnnotationKind() AnnotationKind        { return AnnotationInput }
func (*OutputMetadata) AnnotationKind() AnnotationKind       { return AnnotationOutput }
func (*HostBindingMetadata) AnnotationKind() AnnotationKind  { return AnnotationHostBinding }
func (*HostListenerMetadata) AnnotationKind() AnnotationKind { return AnnotationHostListener }
func (*AttributeMetadata) AnnotationKind() AnnotationKind    { return AnnotationAttribute }
func (*QueryMetadata) AnnotationKind() AnnotationKind        { return AnnotationQuery }
func (*InjectMetadata) AnnotationKind() AnnotationKind       { return AnnotationInject }
func (*InjectableMetadata) AnnotationKind() AnnotationKind   { return AnnotationInjectable }
func (*OptionalMetadata) AnnotationKind() AnnotationKind     { return AnnotationOptional }
func (*SelfMetadata) AnnotationKind() AnnotationKind         { return AnnotationSelf }
func (*SkipSelfMetadata) AnnotationKind() AnnotationKind     { return AnnotationSkipSelf }
func (*HostMetadata) AnnotationKind() AnnotationKind         { return AnnotationHost }

func (*DirectiveMetadata) annotation()    {}
func (*ComponentMetadata) annotation()    {}
func (*ViewMetadata) annotation()         {}
func (*PipeMetadata) annotation()         {}
func (*InputMetadata) annotation()        {}
func (*OutputMetadata) annotation()       {}
func (*HostBindingMetadata) annotation()  {}
func (*HostListenerMetadata) annotation() {}
func (*AttributeMetadata) annotation()    {}
func (*QueryMetadata) annotation()        {}
func (*InjectMetadata) annotation()       {}
func (*InjectableMetadata) annotation()   {}
func (*OptionalMetadata) annotation()     {}
func (*SelfMetadata) annotation()         {}
func (*SkipSelfMetadata) annotation()     {}
func (*HostMetadata) annotation()         {}

// AsDirective returns the directive part of a @Directive or @Component annotation.
func AsDirective(a Annotation) (*DirectiveMetadata, bool) {
	switch v := a.(type) {
	case *DirectiveMetadata:
		return v, true
	case *ComponentMetadata:
		return &v.DirectiveMetadata, true
	}
	return nil, false
}

// Provider is the value of `new Provider(token, {...})` or `provide(token, {...})`.
type Provider struct {
	Token        any   `json:"token"`
	UseClass     any   `json:"useClass,omitempty"`
	UseValue     any   `json:"useValue,omitempty"`
	UseExisting  any   `json:"useExisting,omitempty"`
	UseFactory   any   `json:"useFactory,omitempty"`
	Dependencies []any `json:"deps,omitempty"`
	Multi        bool  `json:"multi,omitempty"`
}

// ForwardRef is the value of `forwardRef(() => X)`.
type ForwardRef struct {
	Ref any `json:"ref"`
}

// ResolveForwardRef unwraps forward references.
func ResolveForwardRef(v any) any {
	for {
		ref, ok := v.(*ForwardRef)
		if !ok {
			return v
		}
		v = ref.Ref
	}
}
