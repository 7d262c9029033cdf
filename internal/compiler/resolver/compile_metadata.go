package resolver

import (
	"regexp"
)

// LifecycleHook names a directive lifecycle callback
type LifecycleHook string

const (
	HookOnChanges           LifecycleHook = "OnChanges"
	HookOnInit              LifecycleHook = "OnInit"
	HookDoCheck             LifecycleHook = "DoCheck"
	HookAfterContentInit    LifecycleHook = "AfterContentInit"
	HookAfterContentChecked LifecycleHook = "AfterContentChecked"
	HookAfterViewInit       LifecycleHook = "AfterViewInit"
	HookAfterViewChecked    LifecycleHook = "AfterViewChecked"
	HookOnDestroy           LifecycleHook = "OnDestroy"
)

// LifecycleHooks lists every hook in call order.
var LifecycleHooks = []LifecycleHook{
	HookOnChanges,
	HookOnInit,
	HookDoCheck,
	HookAfterContentInit,
	HookAfterContentChecked,
	HookAfterViewInit,
	HookAfterViewChecked,
	HookOnDestroy,
}

// Method returns the class member implementing the hook.
func (h LifecycleHook) Method() string {
	return "ng" + string(h)
}

// CompileIdentifierMetadata names a runtime value for generated code.
type CompileIdentifierMetadata struct {
	Name      string `json:"name"`
	ModuleURL string `json:"moduleUrl,omitempty"`
	Runtime   any    `json:"-"`
}

// CompileTokenMetadata is a DI token: either a string value or an identifier.
type CompileTokenMetadata struct {
	Value      string                     `json:"value,omitempty"`
	Identifier *CompileIdentifierMetadata `json:"identifier,omitempty"`
}

// Name returns the token's string value or identifier name.
func (t *CompileTokenMetadata) Name() string {
	if t.Identifier != nil {
		return t.Identifier.Name
	}
	return t.Value
}

// CompileDiDependencyMetadata is one resolved constructor dependency.
type CompileDiDependencyMetadata struct {
	IsAttribute bool                  `json:"isAttribute,omitempty"`
	IsSelf      bool                  `json:"isSelf,omitempty"`
	IsHost      bool                  `json:"isHost,omitempty"`
	IsSkipSelf  bool                  `json:"isSkipSelf,omitempty"`
	IsOptional  bool                  `json:"isOptional,omitempty"`
	Query       *CompileQueryMetadata `json:"query,omitempty"`
	ViewQuery   *CompileQueryMetadata `json:"viewQuery,omitempty"`
	Token       *CompileTokenMetadata `json:"token"`
}

// CompileTypeMetadata is an injectable type and its constructor dependencies.
type CompileTypeMetadata struct {
	Name      string                         `json:"name"`
	ModuleURL string                         `json:"moduleUrl"`
	Runtime   any                            `json:"-"`
	DiDeps    []*CompileDiDependencyMetadata `json:"diDeps"`
}

// CompileFactoryMetadata is a provider factory and its dependencies.
type CompileFactoryMetadata struct {
	Name      string                         `json:"name"`
	ModuleURL string                         `json:"moduleUrl"`
	Runtime   any                            `json:"-"`
	DiDeps    []*CompileDiDependencyMetadata `json:"diDeps"`
}

// ProviderKind classifies a provider by how it produces its value
type ProviderKind string

const (
	ProviderClass   ProviderKind = "class"
	ProviderValue   ProviderKind = "value"
	ProviderFactory ProviderKind = "factory"
	ProviderAlias   ProviderKind = "alias"
)

// CompileProviderMetadata is one flattened provider entry.
type CompileProviderMetadata struct {
	Kind        ProviderKind                   `json:"kind"`
	Token       *CompileTokenMetadata          `json:"token"`
	UseClass    *CompileTypeMetadata           `json:"useClass,omitempty"`
	UseValue    any                            `json:"useValue,omitempty"`
	UseFactory  *CompileFactoryMetadata        `json:"useFactory,omitempty"`
	UseExisting *CompileTokenMetadata          `json:"useExisting,omitempty"`
	Deps        []*CompileDiDependencyMetadata `json:"deps,omitempty"`
	Multi       bool                           `json:"multi,omitempty"`
}

// CompileQueryMetadata is a content or view query on a directive property.
type CompileQueryMetadata struct {
	Selectors    []*CompileTokenMetadata `json:"selectors"`
	Descendants  bool                    `json:"descendants"`
	First        bool                    `json:"first"`
	PropertyName string                  `json:"propertyName,omitempty"`
	Read         *CompileTokenMetadata   `json:"read,omitempty"`
}

// CompileTemplateMetadata is a component's view.
type CompileTemplateMetadata struct {
	Encapsulation any      `json:"encapsulation,omitempty"`
	Template      string   `json:"template,omitempty"`
	TemplateURL   string   `json:"templateUrl,omitempty"`
	Styles        []string `json:"styles,omitempty"`
	StyleURLs     []string `json:"styleUrls,omitempty"`
}

// CompileDirectiveMetadata is everything code generation needs about a
// directive or component.
type CompileDirectiveMetadata struct {
	Type            *CompileTypeMetadata       `json:"type"`
	IsComponent     bool                       `json:"isComponent"`
	Selector        string                     `json:"selector,omitempty"`
	ExportAs        string                     `json:"exportAs,omitempty"`
	ChangeDetection any                        `json:"changeDetection,omitempty"`
	Inputs          map[string]string          `json:"inputs"`
	Outputs         map[string]string          `json:"outputs"`
	HostListeners   map[string]string          `json:"hostListeners"`
	HostProperties  map[string]string          `json:"hostProperties"`
	HostAttributes  map[string]string          `json:"hostAttributes"`
	LifecycleHooks  []LifecycleHook            `json:"lifecycleHooks"`
	Providers       []*CompileProviderMetadata `json:"providers"`
	ViewProviders   []*CompileProviderMetadata `json:"viewProviders"`
	Queries         []*CompileQueryMetadata    `json:"queries"`
	ViewQueries     []*CompileQueryMetadata    `json:"viewQueries"`
	Template        *CompileTemplateMetadata   `json:"template,omitempty"`
}

// DirectiveOptions are the raw inputs to CreateDirectiveMetadata
type DirectiveOptions struct {
	Type            *CompileTypeMetadata
	IsComponent     bool
	Selector        string
	ExportAs        string
	ChangeDetection any
	Inputs          []string
	Outputs         []string
	Host            map[string]string
	LifecycleHooks  []LifecycleHook
	Providers       []*CompileProviderMetadata
	ViewProviders   []*CompileProviderMetadata
	Queries         []*CompileQueryMetadata
	ViewQueries     []*CompileQueryMetadata
	Template        *CompileTemplateMetadata
}

var hostKeyPattern = regexp.MustCompile(`^(?:\[([^\]]+)\]|\(([^\)]+)\))$`)

// CreateDirectiveMetadata parses the binding configs of a directive: inputs
// and outputs of the form "prop" or "prop: alias", and host keys of the form
// "[property]", "(event)" or a plain attribute name.
func CreateDirectiveMetadata(opts DirectiveOptions) *CompileDirectiveMetadata {
	listeners := make(map[string]string)
	properties := make(map[string]string)
	attributes := make(map[string]string)
	for key, value := range opts.Host {
		m := hostKeyPattern.FindStringSubmatch(key)
		switch {
		case m != nil && m[1] != "":
			properties[m[1]] = value
		case m != nil && m[2] != "":
			listeners[m[2]] = value
		default:
			attributes[key] = value
		}
	}

	return &CompileDirectiveMetadata{
		Type:            opts.Type,
		IsComponent:     opts.IsComponent,
		Selector:        opts.Selector,
		ExportAs:        opts.ExportAs,
		ChangeDetection: opts.ChangeDetection,
		Inputs:          bindingMap(opts.Inputs),
		Outputs:         bindingMap(opts.Outputs),
		HostListeners:   listeners,
		HostProperties:  properties,
		HostAttributes:  attributes,
		LifecycleHooks:  nonNil(opts.LifecycleHooks),
		Providers:       nonNil(opts.Providers),
		ViewProviders:   nonNil(opts.ViewProviders),
		Queries:         nonNil(opts.Queries),
		ViewQueries:     nonNil(opts.ViewQueries),
		Template:        opts.Template,
	}
}

func bindingMap(configs []string) map[string]string {
	out := make(map[string]string, len(configs))
	for _, config := range configs {
		parts := splitAtColon(config, []string{config, config})
		out[parts[0]] = parts[1]
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// CompilePipeMetadata is everything code generation needs about a pipe.
type CompilePipeMetadata struct {
	Type           *CompileTypeMetadata `json:"type"`
	Name           string               `json:"name"`
	Pure           bool                 `json:"pure"`
	LifecycleHooks []LifecycleHook      `json:"lifecycleHooks"`
}
