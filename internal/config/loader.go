package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-project and per-user configuration directory.
const DirName = ".extcheck"

// EnvPrefix prefixes every environment override, e.g. EXTCHECK_SCAN_WORKERS.
const EnvPrefix = "EXTCHECK"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from files and environment variables.
	// Priority: defaults → user file → project or explicit file → environment (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
	homeDir    string
}

// LoaderOption customizes a Loader.
type LoaderOption func(*loader)

// WithConfigFile reads the given file instead of <root>/.extcheck/config.yml.
// A missing explicit file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) {
		l.configFile = path
	}
}

// WithHomeDir overrides the directory searched for the user file.
// An empty dir disables the user file.
func WithHomeDir(dir string) LoaderOption {
	return func(l *loader) {
		l.homeDir = dir
	}
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{rootDir: rootDir}
	if home, err := os.UserHomeDir(); err == nil {
		l.homeDir = home
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (EXTCHECK_*)
// 2. Explicit config file, or <root>/.extcheck/config.yml|yaml
// 3. ~/.extcheck/config.yml|yaml
// 4. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., EXTCHECK_CATALOGUE_SOURCE)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Scan configuration
	v.BindEnv("scan.suffix")
	v.BindEnv("scan.ignore")
	v.BindEnv("scan.workers")

	// Catalogue configuration
	v.BindEnv("catalogue.source")
	v.BindEnv("catalogue.php_binary")
	v.BindEnv("catalogue.manifest")
	v.BindEnv("catalogue.stubs_dir")
	v.BindEnv("catalogue.core_extensions")

	// Output configuration
	v.BindEnv("output.format")

	setDefaults(v)

	if l.homeDir != "" {
		if err := mergeFirst(v, filepath.Join(l.homeDir, DirName)); err != nil {
			return nil, err
		}
	}

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := mergeFirst(v, filepath.Join(l.rootDir, DirName)); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// mergeFirst merges config.yml or config.yaml from dir, whichever exists
// first. Neither existing is not an error.
func mergeFirst(v *viper.Viper, dir string) error {
	for _, name := range []string{"config.yml", "config.yaml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to read config file: %w", err)
		}

		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		return nil
	}
	return nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Scan defaults
	v.SetDefault("scan.suffix", defaults.Scan.Suffix)
	v.SetDefault("scan.ignore", defaults.Scan.Ignore)
	v.SetDefault("scan.workers", defaults.Scan.Workers)

	// Catalogue defaults
	v.SetDefault("catalogue.source", defaults.Catalogue.Source)
	v.SetDefault("catalogue.php_binary", defaults.Catalogue.PHPBinary)
	v.SetDefault("catalogue.manifest", defaults.Catalogue.Manifest)
	v.SetDefault("catalogue.stubs_dir", defaults.Catalogue.StubsDir)
	v.SetDefault("catalogue.core_extensions", defaults.Catalogue.CoreExtensions)

	// Output defaults
	v.SetDefault("output.format", defaults.Output.Format)
}
