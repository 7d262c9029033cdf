package commands

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ngtools/staticreflect/internal/cli/config"
	"github.com/ngtools/staticreflect/internal/cli/ui"
	"github.com/ngtools/staticreflect/internal/compiler/metadata"
	"github.com/ngtools/staticreflect/internal/compiler/reflector"
	"github.com/ngtools/staticreflect/internal/compiler/resolver"
	"github.com/ngtools/staticreflect/internal/host"
	"github.com/ngtools/staticreflect/internal/logging"
)

// symbolNotFoundError reports a target the module does not declare.
type symbolNotFoundError struct {
	module      string
	name        string
	suggestions []string
}

func (e *symbolNotFoundError) Error() string {
	return fmt.Sprintf("%s is not declared in %s", e.name, e.module)
}

// configError wraps failures loading or applying configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// session is one reflection run: a fresh host, reflector and resolver.
type session struct {
	cfg       *config.Config
	logger    *zap.Logger
	host      reflector.Host
	reflector *reflector.StaticReflector
	resolver  *resolver.MetadataResolver
	closers   []func() error
}

// loadConfig applies the global flags on top of the loaded configuration.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return nil, &configError{err}
	}
	if a.opts.trace {
		cfg.Trace = true
	}
	if a.opts.bundle != "" {
		cfg.Bundle = a.opts.bundle
	}
	return cfg, nil
}

// openSession builds a reflector for one run. The target module and the
// decorator modules are preloaded concurrently before reflection starts.
func (a *app) openSession(ctx context.Context, targetModule string) (*session, string, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, "", err
	}
	logger, err := logging.New(cfg.Trace)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create logger: %w", err)
	}
	return a.openSessionWith(ctx, cfg, logger, targetModule)
}

func (a *app) openSessionWith(ctx context.Context, cfg *config.Config, logger *zap.Logger, targetModule string) (*session, string, error) {
	s := &session{cfg: cfg, logger: logger}

	base, err := s.baseHost(ctx, a.fs)
	if err != nil {
		s.Close()
		return nil, "", err
	}

	modulePath := ""
	if targetModule != "" {
		modulePath, err = base.ResolveModule(targetModule, "")
		if err != nil {
			s.Close()
			return nil, "", err
		}
	}

	layout := reflector.LegacyLayout
	if !cfg.LegacyPackageLayout {
		layout = reflector.ScopedLayout
	}

	preloaded, err := host.Preload(ctx, base, preloadList(base, layout, modulePath), cfg.Preload.Concurrency)
	if err != nil {
		s.Close()
		return nil, "", err
	}
	s.host = preloaded

	s.reflector, err = reflector.New(preloaded, reflector.WithLogger(logger), reflector.WithLayout(layout))
	if err != nil {
		s.Close()
		return nil, "", err
	}

	directives, err := s.platform(cfg.PlatformDirectives())
	if err != nil {
		s.Close()
		return nil, "", &configError{fmt.Errorf("platform.directives: %w", err)}
	}
	pipes, err := s.platform(cfg.PlatformPipes())
	if err != nil {
		s.Close()
		return nil, "", &configError{fmt.Errorf("platform.pipes: %w", err)}
	}

	s.resolver = resolver.NewMetadataResolver(s.reflector,
		resolver.WithPlatformDirectives(directives),
		resolver.WithPlatformPipes(pipes),
		resolver.WithLogger(logger),
	)
	logger.Debug("session ready",
		zap.String("run_id", s.reflector.RunID().String()),
		zap.String("module", modulePath))
	return s, modulePath, nil
}

// baseHost reads from the bundle when one is configured, else from disk.
func (s *session) baseHost(ctx context.Context, fs afero.Fs) (host.Host, error) {
	if s.cfg.Bundle == "" {
		return host.NewFileSystemHost(fs, host.FileSystemOptions{
			BasePath:    s.cfg.BasePath,
			ModuleRoots: s.cfg.ModuleRoots,
			Logger:      s.logger,
		}), nil
	}

	db, err := sql.Open("sqlite3", s.cfg.Bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle %s: %w", s.cfg.Bundle, err)
	}
	s.closers = append(s.closers, db.Close)

	h, err := host.NewBundleHost(ctx, db)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded bundle", zap.String("path", s.cfg.Bundle), zap.Int("modules", h.Modules()))
	return h, nil
}

// preloadList is the target module plus every decorator module of the
// layout that resolves. Unresolvable layout modules are left for the
// reflector to report.
func preloadList(h host.Host, layout reflector.PackageLayout, target string) []string {
	seen := make(map[string]bool)
	var modules []string
	add := func(m string) {
		if m != "" && !seen[m] {
			seen[m] = true
			modules = append(modules, m)
		}
	}
	add(target)
	for _, name := range []string{layout.Metadata, layout.DI, layout.Provider, layout.ForwardRef} {
		if resolved, err := h.ResolveModule(name, ""); err == nil {
			add(resolved)
		}
	}
	return modules
}

// platform evaluates each "module#Name" reference. A reference to a class
// yields its symbol; one to a constant array yields the array.
func (s *session) platform(refs []config.Reference) ([]any, error) {
	out := make([]any, 0, len(refs))
	for _, ref := range refs {
		node := map[string]any{
			metadata.SymbolicKey: string(metadata.KindReference),
			"module":             ref.Module,
			"name":               ref.Name,
		}
		value, err := s.reflector.Simplify("", node, true)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

// symbol resolves name in modulePath through re-exports and checks that it
// is declared there.
func (s *session) symbol(modulePath, name string) (*metadata.StaticSymbol, metadata.Node, error) {
	decl, err := s.host.FindDeclaration(modulePath, name)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.reflector.GetModuleMetadata(decl.Path)
	if err != nil {
		return nil, nil, err
	}
	node, ok := doc.Lookup(decl.Name)
	if !ok {
		return nil, nil, &symbolNotFoundError{
			module:      modulePath,
			name:        name,
			suggestions: suggest(name, doc),
		}
	}
	return s.reflector.GetStaticSymbol(decl.Path, decl.Name), node, nil
}

func suggest(name string, doc *metadata.ModuleDocument) []string {
	candidates := make([]string, 0, len(doc.Metadata))
	for k := range doc.Metadata {
		candidates = append(candidates, k)
	}
	sort.Strings(candidates)
	return ui.FindSimilar(name, candidates)
}

// Close releases the bundle database, if any.
func (s *session) Close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.logger.Warn("failed to close resource", zap.Error(err))
		}
	}
	s.closers = nil
	_ = s.logger.Sync()
}
