package commands

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ngtools/staticreflect/internal/cli/ui"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	format     string
	bundle     string
	noColor    bool
	trace      bool
}

// app carries the global options and the file system commands read from.
type app struct {
	opts globalOptions
	fs   afero.Fs
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	return newRootCommand(afero.NewOsFs())
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}

	rootCmd := &cobra.Command{
		Use:   "ngreflect",
		Short: "Static reflector for Angular decorator metadata",
		Long: color.CyanString(`ngreflect - static reflection over Angular metadata

ngreflect reads the .metadata.json files emitted next to compiled Angular
sources and answers the questions a template compiler asks about a class,
without loading any of its code.

Examples:
  ngreflect annotations ./src/app/hero HeroComponent
  ngreflect directive ./src/app/hero HeroComponent --format yaml
  ngreflect simplify ./src/app/config ROUTES --cross-modules`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.noColor {
				color.NoColor = true
			}
			switch a.opts.format {
			case formatJSON, formatYAML, formatTable:
				return nil
			}
			return fmt.Errorf("unknown output format %q: expected json, yaml or table", a.opts.format)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "Config file (default ./ngreflect.yaml)")
	flags.StringVar(&a.opts.format, "format", formatTable, "Output format: json, yaml or table")
	flags.BoolVar(&a.opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&a.opts.trace, "trace", false, "Log every metadata fetch and decorator binding")
	flags.StringVar(&a.opts.bundle, "bundle", "", "Read metadata from a SQLite bundle instead of the file system")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(a.newAnnotationsCommand())
	rootCmd.AddCommand(a.newPropsCommand())
	rootCmd.AddCommand(a.newParamsCommand())
	rootCmd.AddCommand(a.newSimplifyCommand())
	rootCmd.AddCommand(a.newDirectiveCommand())
	rootCmd.AddCommand(a.newPipeCommand())
	rootCmd.AddCommand(a.newViewCommand())
	rootCmd.AddCommand(a.newBundleCommand())
	rootCmd.AddCommand(a.newWatchCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the ngreflect version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), color.NoColor)
			kv.AddRow("ngreflect version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", goVer)
			kv.Render()
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

// reportError renders err the way ngreflect users see failures.
func reportError(w io.Writer, err error) {
	var notFound *symbolNotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprint(w, ui.SymbolNotFoundError(notFound.module, notFound.name, notFound.suggestions, color.NoColor))
		return
	}
	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		fmt.Fprint(w, ui.ConfigError(cfgErr.Error(), color.NoColor))
		return
	}
	fmt.Fprint(w, ui.ReflectionError(err, color.NoColor))
}
