package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. NGREFLECT_BASE_PATH.
const EnvPrefix = "NGREFLECT"

// Config represents the ngreflect configuration
type Config struct {
	BasePath            string         `mapstructure:"base_path"`
	GenDir              string         `mapstructure:"gen_dir"`
	ModuleRoots         []string       `mapstructure:"module_roots"`
	LegacyPackageLayout bool           `mapstructure:"legacy_package_layout"`
	Trace               bool           `mapstructure:"trace"`
	Bundle              string         `mapstructure:"bundle"`
	Preload             PreloadConfig  `mapstructure:"preload"`
	Platform            PlatformConfig `mapstructure:"platform"`
	Watch               WatchConfig    `mapstructure:"watch"`
}

// PreloadConfig controls concurrent document fetching
type PreloadConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// PlatformConfig lists directives and pipes available to every view.
// Entries take the form "module#Name".
type PlatformConfig struct {
	Directives []string `mapstructure:"directives"`
	Pipes      []string `mapstructure:"pipes"`
}

// WatchConfig represents watch mode configuration
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Reference is a parsed "module#Name" platform entry.
type Reference struct {
	Module string
	Name   string
}

// Load reads ngreflect.yaml from the working directory, or the file at path
// when one is given. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("base_path", ".")
	v.SetDefault("gen_dir", "generated")
	v.SetDefault("module_roots", []string{"node_modules"})
	v.SetDefault("legacy_package_layout", true)
	v.SetDefault("trace", false)
	v.SetDefault("bundle", "")
	v.SetDefault("preload.concurrency", 8)
	v.SetDefault("platform.directives", []string{})
	v.SetDefault("platform.pipes", []string{})
	v.SetDefault("watch.debounce", 100*time.Millisecond)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ngreflect")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// PlatformDirectives returns the parsed platform directive references.
func (c *Config) PlatformDirectives() []Reference {
	return parseReferences(c.Platform.Directives)
}

// PlatformPipes returns the parsed platform pipe references.
func (c *Config) PlatformPipes() []Reference {
	return parseReferences(c.Platform.Pipes)
}

// ParseReference splits "module#Name".
func ParseReference(entry string) (Reference, error) {
	if strings.Count(entry, "#") != 1 {
		return Reference{}, fmt.Errorf("platform entry must be of the form module#Name, got: %s", entry)
	}
	module, name, _ := strings.Cut(entry, "#")
	if module == "" || name == "" {
		return Reference{}, fmt.Errorf("platform entry must be of the form module#Name, got: %s", entry)
	}
	return Reference{Module: module, Name: name}, nil
}

func parseReferences(entries []string) []Reference {
	refs := make([]Reference, 0, len(entries))
	for _, e := range entries {
		// validated at load time
		if ref, err := ParseReference(e); err == nil {
			refs = append(refs, ref)
		}
	}
	return refs
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Preload.Concurrency <= 0 {
		return fmt.Errorf("preload.concurrency must be positive, got: %d", cfg.Preload.Concurrency)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got: %s", cfg.Watch.Debounce)
	}
	for _, group := range [][]string{cfg.Platform.Directives, cfg.Platform.Pipes} {
		for _, entry := range group {
			if _, err := ParseReference(entry); err != nil {
				return err
			}
		}
	}
	return nil
}
