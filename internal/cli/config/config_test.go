package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.BasePath)
	assert.Equal(t, "generated", cfg.GenDir)
	assert.Equal(t, []string{"node_modules"}, cfg.ModuleRoots)
	assert.True(t, cfg.LegacyPackageLayout)
	assert.False(t, cfg.Trace)
	assert.Empty(t, cfg.Bundle)
	assert.Equal(t, 8, cfg.Preload.Concurrency)
	assert.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce)
	assert.Empty(t, cfg.PlatformDirectives())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := `
base_path: /srv/app
module_roots: [node_modules, vendor]
legacy_package_layout: false
preload:
  concurrency: 2
platform:
  directives: ["angular2/common#CORE_DIRECTIVES"]
  pipes: ["angular2/common#COMMON_PIPES"]
watch:
  debounce: 250ms
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ngreflect.yaml"), []byte(content), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/app", cfg.BasePath)
	assert.Equal(t, []string{"node_modules", "vendor"}, cfg.ModuleRoots)
	assert.False(t, cfg.LegacyPackageLayout)
	assert.Equal(t, 2, cfg.Preload.Concurrency)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, []Reference{{Module: "angular2/common", Name: "CORE_DIRECTIVES"}}, cfg.PlatformDirectives())
	assert.Equal(t, []Reference{{Module: "angular2/common", Name: "COMMON_PIPES"}}, cfg.PlatformPipes())
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, t.TempDir())

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gen_dir: out\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.GenDir)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NGREFLECT_BASE_PATH", "/env/base")
	t.Setenv("NGREFLECT_PRELOAD_CONCURRENCY", "3")
	t.Setenv("NGREFLECT_TRACE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/env/base", cfg.BasePath)
	assert.Equal(t, 3, cfg.Preload.Concurrency)
	assert.True(t, cfg.Trace)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"zero concurrency", "preload:\n  concurrency: 0\n", "preload.concurrency must be positive"},
		{"platform entry without hash", "platform:\n  directives: [CORE_DIRECTIVES]\n", "module#Name"},
		{"platform entry with two hashes", "platform:\n  pipes: ['a#b#c']\n", "module#Name"},
		{"negative debounce", "watch:\n  debounce: -1s\n", "watch.debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "ngreflect.yaml"), []byte(tt.content), 0o644))

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseReference(t *testing.T) {
	ref, err := ParseReference("./shared#Highlight")
	require.NoError(t, err)
	assert.Equal(t, Reference{Module: "./shared", Name: "Highlight"}, ref)

	for _, bad := range []string{"", "#Name", "module#", "no-hash"} {
		_, err := ParseReference(bad)
		assert.Error(t, err, bad)
	}
}
