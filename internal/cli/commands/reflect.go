package commands

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngtools/staticreflect/internal/cli/ui"
	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

func (a *app) newAnnotationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "annotations <module> <Name>",
		Short: "Show the recognized class decorators of a declaration",
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
			annotations, err := s.reflector.Annotations(sym)
			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), viewAnnotations(annotations), annotationTable(annotations))
		},
	}
}

func (a *app) newPropsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "props <module> <Name>",
		Short: "Show the decorators of each property of a class",
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
			props, err := s.reflector.PropMetadata(sym)
			if err != nil {
				return err
			}

			out := make(map[string][]annotationView, len(props))
			for name, annotations := range props {
				out[name] = viewAnnotations(annotations)
			}
			return a.render(cmd.OutOrStdout(), out, func(w io.Writer, noColor bool) {
				t := ui.NewTable(w, []string{"PROPERTY", "KIND", "DETAIL"}, noColor)
				for _, name := range sortedKeys(props) {
					for _, an := range props[name] {
						t.AddRow(name, string(an.AnnotationKind()), annotationDetail(an))
					}
				}
				t.Render()
			})
		},
	}
}

// annotationTable lists annotations one per row.
func annotationTable(annotations []metadata.Annotation) func(io.Writer, bool) {
	return func(w io.Writer, noColor bool) {
		t := ui.NewTable(w, []string{"KIND", "DETAIL"}, noColor)
		for _, an := range annotations {
			t.AddRow(string(an.AnnotationKind()), annotationDetail(an))
		}
		t.Render()
	}
}

// paramView is one constructor parameter split into its type and the
// decorators applied to it.
type paramView struct {
	Type        any              `json:"type"`
	Annotations []annotationView `json:"annotations,omitempty"`
}

func (a *app) newParamsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "params <module> <Name>",
		Short: "Show the constructor parameters of a class",
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
			params, err := s.reflector.Parameters(sym)
			if err != nil {
				return err
			}

			views := make([]paramView, len(params))
			for i, entries := range params {
				for _, e := range entries {
					if an, ok := e.(metadata.Annotation); ok {
						views[i].Annotations = append(views[i].Annotations, annotationView{Kind: an.AnnotationKind(), Value: an})
					} else if views[i].Type == nil {
						views[i].Type = e
					}
				}
			}
			return a.render(cmd.OutOrStdout(), views, func(w io.Writer, noColor bool) {
				t := ui.NewTable(w, []string{"INDEX", "TYPE", "DECORATORS"}, noColor)
				for i, v := range views {
					kinds := make([]string, len(v.Annotations))
					for j, an := range v.Annotations {
						kinds[j] = describe(an.Value)
					}
					typ := "-"
					if v.Type != nil {
						typ = describe(v.Type)
					}
					t.AddRow(strconv.Itoa(i), typ, strings.Join(kinds, ", "))
				}
				t.Render()
			})
		},
	}
}

func (a *app) newSimplifyCommand() *cobra.Command {
	var crossModules bool

	cmd := &cobra.Command{
		Use:   "simplify <module> <export>",
		Short: "Evaluate an exported metadata value",
		Long: `Evaluate the metadata value a module exports under a name.

References to other modules stay symbolic unless --cross-modules is given,
in which case they are replaced by the values those modules declare.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, module, err := a.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			sym, node, err := s.symbol(module, args[1])
			if err != nil {
				return err
			}
			value, err := s.reflector.Simplify(sym.ModuleID, node, crossModules)
			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), encodable(value), func(w io.Writer, noColor bool) {
				kv := ui.NewKeyValueTable(w, noColor)
				kv.AddRow("declaration", describe(sym))
				kv.AddRow("value", describe(value))
				kv.Render()
			})
		},
	}

	cmd.Flags().BoolVar(&crossModules, "cross-modules", false, "Replace references to other modules with their values")
	return cmd
}
