package commands

import (
	"bytes"
	"database/sql"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ngtools/staticreflect/internal/cli/ui"
	"github.com/ngtools/staticreflect/internal/compiler/metadata"
	"github.com/ngtools/staticreflect/internal/host"
	"github.com/ngtools/staticreflect/internal/logging"
)

func (a *app) newBundleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bundle <dir> <out.db>",
		Short: "Pack every metadata file under a directory into a SQLite bundle",
		Long: `Pack every .metadata.json file under a directory into a SQLite bundle.

Modules are keyed by their path below the directory. Files under a module
root (node_modules by default) are keyed by package name, so a bundle
resolves "angular2/core" the way the file system does. Use the bundle with
--bundle <out.db> on any other command.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, out := args[0], args[1]

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Trace)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			docs, err := host.ReadDirectory(a.fs, dir)
			if err != nil {
				return err
			}
			modules := bundleModules(dir, cfg.ModuleRoots, docs, logger)

			db, err := sql.Open("sqlite3", out)
			if err != nil {
				return fmt.Errorf("failed to open bundle %s: %w", out, err)
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := host.WriteBundle(ctx, db, modules); err != nil {
				return err
			}

			// Read the bundle back and check every document survived.
			bundled, err := host.NewBundleHost(ctx, db)
			if err != nil {
				return err
			}
			names := sortedKeys(modules)
			bar := ui.NewProgressBar(cmd.ErrOrStderr(), ui.ProgressBarOptions{
				Total:   len(names),
				Message: "verifying",
				NoColor: a.opts.noColor,
			})
			for _, name := range names {
				if err := sameDocument(bundled, name, modules[name]); err != nil {
					return err
				}
				bar.Add(1)
			}
			bar.Finish(fmt.Sprintf("Bundled %d modules into %s", len(names), out))
			return nil
		},
	}
}

// bundleModules rekeys documents read from dir by module name.
func bundleModules(dir string, roots []string, docs map[string]*metadata.ModuleDocument, logger *zap.Logger) map[string]*metadata.ModuleDocument {
	prefix := path.Clean(filepath.ToSlash(dir)) + "/"

	keys := sortedKeys(docs)
	out := make(map[string]*metadata.ModuleDocument, len(docs))
	for _, key := range keys {
		module := strings.TrimPrefix(key, prefix)
		for _, root := range roots {
			if trimmed := strings.TrimPrefix(module, path.Clean(root)+"/"); trimmed != module {
				module = trimmed
				break
			}
		}
		if _, dup := out[module]; dup {
			logger.Warn("duplicate module in bundle", zap.String("module", module), zap.String("file", key))
		}
		out[module] = docs[key]
	}
	return out
}

func sameDocument(h host.Host, module string, want *metadata.ModuleDocument) error {
	got, err := h.GetMetadataFor(module)
	if err != nil {
		return err
	}
	if got == nil {
		return fmt.Errorf("module %s is missing from the bundle", module)
	}
	a, err := metadata.Serialize(want)
	if err != nil {
		return err
	}
	b, err := metadata.Serialize(got)
	if err != nil {
		return err
	}
	if !bytes.Equal(a, b) {
		return fmt.Errorf("module %s changed while bundling", module)
	}
	return nil
}

