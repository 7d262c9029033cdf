package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ngtools/staticreflect/internal/cli/config"
	"github.com/ngtools/staticreflect/internal/cli/ui"
	"github.com/ngtools/staticreflect/internal/host"
	"github.com/ngtools/staticreflect/internal/logging"
	"github.com/ngtools/staticreflect/internal/watch"
)

func (a *app) newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <module> <Name>",
		Short: "Re-resolve a declaration whenever metadata changes",
		Long: `Resolve a declaration, then watch the project's .metadata.json files and
resolve it again after every change.

Every run builds a fresh host and reflector, so nothing cached by an earlier
run survives a change. Saves that leave a file's content unchanged are
ignored.

Examples:
  ngreflect watch ./src/app/hero HeroComponent
  ngreflect watch ./src/app/hero HeroComponent --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Bundle != "" {
				return &configError{fmt.Errorf("watch reads metadata files directly and cannot use a bundle")}
			}
			logger, err := logging.New(cfg.Trace)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := &watchLoop{app: a, cfg: cfg, logger: logger, out: cmd.OutOrStdout(), module: args[0], name: args[1]}
			return w.run(ctx)
		},
	}
}

// watchLoop reruns one resolution per settled batch of changes.
type watchLoop struct {
	app     *app
	cfg     *config.Config
	logger  *zap.Logger
	out     io.Writer
	module  string
	name    string
	tracker *watch.ContentTracker
}

func (l *watchLoop) run(ctx context.Context) error {
	ignore := append([]string{l.cfg.GenDir}, l.cfg.ModuleRoots...)

	l.tracker = watch.NewContentTracker(l.app.fs)
	files, err := watch.Files(l.app.fs, l.cfg.BasePath, host.MetadataSuffix, ignore)
	if err != nil {
		return err
	}
	if err := l.tracker.Seed(files); err != nil {
		return err
	}

	l.resolve(ctx)

	fw, err := watch.NewFileWatcher(watch.Options{
		Suffix:   host.MetadataSuffix,
		Ignored:  ignore,
		Debounce: l.cfg.Watch.Debounce,
		Logger:   l.logger,
	}, func(files []string) error {
		return l.onChange(ctx, files)
	})
	if err != nil {
		return err
	}
	defer fw.Stop()

	dirs, err := watch.Directories(l.app.fs, l.cfg.BasePath, ignore)
	if err != nil {
		return err
	}
	if err := fw.Start(dirs); err != nil {
		return err
	}

	color.New(color.FgYellow).Fprintf(l.out, "Watching %d directories. Press Ctrl+C to stop.\n", len(dirs))
	<-ctx.Done()
	return nil
}

func (l *watchLoop) onChange(ctx context.Context, files []string) error {
	changed, err := l.tracker.Changed(files)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		l.logger.Debug("content unchanged", zap.Strings("files", files))
		return nil
	}
	l.logger.Info("metadata changed", zap.Strings("files", changed))
	l.resolve(ctx)
	return nil
}

// resolve prints the target's directive metadata, or its annotations when
// it is not a directive. Failures are printed, not returned, so the loop
// keeps running.
func (l *watchLoop) resolve(ctx context.Context) {
	noColor := l.app.opts.noColor || color.NoColor
	if err := l.resolveOnce(ctx); err != nil {
		reportError(l.out, err)
		return
	}
	ui.WriteSuccess(l.out, fmt.Sprintf("Resolved %s", l.name), noColor)
}

func (l *watchLoop) resolveOnce(ctx context.Context) error {
	s, module, err := l.app.openSessionWith(ctx, l.cfg, l.logger, l.module)
	if err != nil {
		return err
	}
	defer s.Close()

	sym, _, err := s.symbol(module, l.name)
	if err != nil {
		return err
	}
	meta, err := s.resolver.MaybeGetDirectiveMetadata(sym)
	if err != nil {
		return err
	}
	if meta != nil {
		return l.app.render(l.out, meta, func(w io.Writer, noColor bool) {
			renderDirective(w, meta, noColor)
		})
	}

	annotations, err := s.reflector.Annotations(sym)
	if err != nil {
		return err
	}
	return l.app.render(l.out, viewAnnotations(annotations), annotationTable(annotations))
}
