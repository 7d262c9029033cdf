package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngtools/staticreflect/internal/cli/ui"
	"github.com/ngtools/staticreflect/internal/compiler/resolver"
)

func (a *app) newDirectiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "directive <module> <Name>",
		Short: "Build the compile metadata of a directive or component",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, module, err := a.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			sym, _, err := s.symbol(module, args[1])
			if err != nil {
				return err
			}
			meta, err := s.resolver.GetDirectiveMetadata(sym)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), meta, func(w io.Writer, noColor bool) {
				renderDirective(w, meta, noColor)
			})
		},
	}
}

func renderDirective(w io.Writer, meta *resolver.CompileDirectiveMetadata, noColor bool) {
	kv := ui.NewKeyValueTable(w, noColor)
	kv.AddRow("type", meta.Type.Name)
	kv.AddRow("moduleUrl", meta.Type.ModuleURL)
	kv.AddRow("component", strconv.FormatBool(meta.IsComponent))
	kv.AddRow("selector", meta.Selector)
	if meta.ExportAs != "" {
		kv.AddRow("exportAs", meta.ExportAs)
	}
	kv.Render()
	fmt.Fprintln(w)

	mapSection(w, "Inputs", meta.Inputs, "%s <- %s", noColor)
	mapSection(w, "Outputs", meta.Outputs, "%s -> %s", noColor)
	mapSection(w, "Host attributes", meta.HostAttributes, "%s=%q", noColor)
	mapSection(w, "Host properties", meta.HostProperties, "[%s]=%s", noColor)
	mapSection(w, "Host listeners", meta.HostListeners, "(%s)=%s", noColor)

	hooks := ui.NewSection(w, "Lifecycle hooks", noColor)
	for _, h := range meta.LifecycleHooks {
		hooks.AddLine(h.Method())
	}
	hooks.Render()

	deps := ui.NewSection(w, "Constructor dependencies", noColor)
	for i, d := range meta.Type.DiDeps {
		deps.AddLine(fmt.Sprintf("%d. %s", i, describeDependency(d)))
	}
	deps.Render()

	providerSection(w, "Providers", meta.Providers, noColor)
	providerSection(w, "View providers", meta.ViewProviders, noColor)
	querySection(w, "Queries", meta.Queries, noColor)
	querySection(w, "View queries", meta.ViewQueries, noColor)

	if meta.Template != nil {
		tpl := ui.NewSection(w, "Template", noColor)
		if meta.Template.TemplateURL != "" {
			tpl.AddLine("url: " + meta.Template.TemplateURL)
		}
		if meta.Template.Template != "" {
			tpl.AddLine("inline: " + strconv.Quote(meta.Template.Template))
		}
		for _, style := range meta.Template.StyleURLs {
			tpl.AddLine("style url: " + style)
		}
		if n := len(meta.Template.Styles); n > 0 {
			tpl.AddLine(fmt.Sprintf("inline styles: %d", n))
		}
		tpl.Render()
	}
}

func mapSection(w io.Writer, title string, m map[string]string, format string, noColor bool) {
	s := ui.NewSection(w, title, noColor)
	for _, k := range sortedKeys(m) {
		s.AddLine(fmt.Sprintf(format, k, m[k]))
	}
	s.Render()
}

func providerSection(w io.Writer, title string, providers []*resolver.CompileProviderMetadata, noColor bool) {
	s := ui.NewSection(w, title, noColor)
	for _, p := range providers {
		line := fmt.Sprintf("%s [%s]", p.Token.Name(), p.Kind)
		switch p.Kind {
		case resolver.ProviderClass:
			line += " " + p.UseClass.Name
		case resolver.ProviderValue:
			line += " " + describe(p.UseValue)
		case resolver.ProviderFactory:
			line += " " + p.UseFactory.Name
		case resolver.ProviderAlias:
			line += " " + p.UseExisting.Name()
		}
		if p.Multi {
			line += " (multi)"
		}
		s.AddLine(line)
	}
	s.Render()
}

func querySection(w io.Writer, title string, queries []*resolver.CompileQueryMetadata, noColor bool) {
	s := ui.NewSection(w, title, noColor)
	for _, q := range queries {
		names := make([]string, len(q.Selectors))
		for i, sel := range q.Selectors {
			names[i] = sel.Name()
		}
		line := fmt.Sprintf("%s: %s", q.PropertyName, strings.Join(names, ", "))
		if q.First {
			line += " (first)"
		}
		if q.Descendants {
			line += " (descendants)"
		}
		s.AddLine(line)
	}
	s.Render()
}

func describeDependency(d *resolver.CompileDiDependencyMetadata) string {
	var flags []string
	for _, f := range []struct {
		set  bool
		name string
	}{
		{d.IsAttribute, "attribute"},
		{d.IsHost, "host"},
		{d.IsSelf, "self"},
		{d.IsSkipSelf, "skipSelf"},
		{d.IsOptional, "optional"},
		{d.Query != nil, "query"},
		{d.ViewQuery != nil, "viewQuery"},
	} {
		if f.set {
			flags = append(flags, f.name)
		}
	}
	name := "?"
	if d.Token != nil {
		name = d.Token.Name()
	}
	if len(flags) == 0 {
		return name
	}
	return name + " @" + strings.Join(flags, " @")
}

func (a *app) newPipeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pipe <module> <Name>",
		Short: "Build the compile metadata of a pipe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, module, err := a.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			sym, _, err := s.symbol(module, args[1])
			if err != nil {
				return err
			}
			meta, err := s.resolver.GetPipeMetadata(sym)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), meta, func(w io.Writer, noColor bool) {
				kv := ui.NewKeyValueTable(w, noColor)
				kv.AddRow("name", meta.Name)
				kv.AddRow("type", meta.Type.Name)
				kv.AddRow("moduleUrl", meta.Type.ModuleURL)
				kv.AddRow("pure", strconv.FormatBool(meta.Pure))
				hooks := make([]string, len(meta.LifecycleHooks))
				for i, h := range meta.LifecycleHooks {
					hooks[i] = h.Method()
				}
				if len(hooks) > 0 {
					kv.AddRow("lifecycle", strings.Join(hooks, ", "))
				}
				kv.Render()
			})
		},
	}
}

// viewReport lists what a component's template can use.
type viewReport struct {
	Directives []*resolver.CompileDirectiveMetadata `json:"directives"`
	Pipes      []*resolver.CompilePipeMetadata      `json:"pipes"`
}

func (a *app) newViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <module> <Name>",
		Short: "List the directives and pipes a component's view uses",
		Long: `List the directives and pipes available in a component's template.

Platform directives and pipes from the configuration come first, followed by
the component's own lists, flattened.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, module, err := a.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			sym, _, err := s.symbol(module, args[1])
			if err != nil {
				return err
			}
			directives, err := s.resolver.GetViewDirectivesMetadata(sym)
			if err != nil {
				return err
			}
			pipes, err := s.resolver.GetViewPipesMetadata(sym)
			if err != nil {
				return err
			}

			report := viewReport{Directives: directives, Pipes: pipes}
			return a.render(cmd.OutOrStdout(), report, func(w io.Writer, noColor bool) {
				t := ui.NewTable(w, []string{"KIND", "NAME", "SELECTOR", "MODULE"}, noColor)
				for _, d := range directives {
					kind := "directive"
					if d.IsComponent {
						kind = "component"
					}
					t.AddRow(kind, d.Type.Name, d.Selector, d.Type.ModuleURL)
				}
				for _, p := range pipes {
					t.AddRow("pipe", p.Type.Name, p.Name, p.Type.ModuleURL)
				}
				t.Render()
			})
		},
	}
}
