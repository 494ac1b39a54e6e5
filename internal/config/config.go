// Package config provides configuration loading for extcheck.
//
// Configuration is layered, highest priority first:
//
//  1. Environment variables (EXTCHECK_*)
//  2. An explicit file given with --config, or the project file
//     (<root>/.extcheck/config.yml)
//  3. The user file (~/.extcheck/config.yml)
//  4. Built-in defaults
//
// Command line flags are applied by the CLI on top of the loaded result.
package config

import (
	"github.com/mvp-joe/extcheck/internal/catalogue"
	"github.com/mvp-joe/extcheck/internal/extension"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config represents the complete extcheck configuration.
type Config struct {
	Scan      ScanConfig      `yaml:"scan" mapstructure:"scan"`
	Catalogue CatalogueConfig `yaml:"catalogue" mapstructure:"catalogue"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// ScanConfig defines which files are scanned and how.
type ScanConfig struct {
	Suffix  string   `yaml:"suffix" mapstructure:"suffix"`   // file name suffix, e.g. ".php"
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
	Workers int      `yaml:"workers" mapstructure:"workers"` // 1 scans sequentially
}

// CatalogueConfig selects where the extension catalogue comes from.
type CatalogueConfig struct {
	Source         string   `yaml:"source" mapstructure:"source"`                   // "php", "manifest" or "stubs"
	PHPBinary      string   `yaml:"php_binary" mapstructure:"php_binary"`           // used by the php source
	Manifest       string   `yaml:"manifest" mapstructure:"manifest"`               // used by the manifest source
	StubsDir       string   `yaml:"stubs_dir" mapstructure:"stubs_dir"`             // used by the stubs source
	CoreExtensions []string `yaml:"core_extensions" mapstructure:"core_extensions"` // names reported as core
}

// OutputConfig controls how the report is rendered.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "text" or "json"
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Suffix:  extension.DefaultSuffix,
			Ignore:  []string{},
			Workers: 1,
		},
		Catalogue: CatalogueConfig{
			Source:         catalogue.SourcePHP,
			PHPBinary:      catalogue.DefaultPHPBinary,
			CoreExtensions: append([]string(nil), extension.DefaultCoreNames...),
		},
		Output: OutputConfig{
			Format: FormatText,
		},
	}
}

// CatalogueOptions converts the catalogue section into catalogue.Options.
// Fs and Logger are left for the caller.
func (c *Config) CatalogueOptions() catalogue.Options {
	return catalogue.Options{
		Source:    c.Catalogue.Source,
		PHPBinary: c.Catalogue.PHPBinary,
		Manifest:  c.Catalogue.Manifest,
		StubsDir:  c.Catalogue.StubsDir,
		Core:      extension.NewCoreSet(c.Catalogue.CoreExtensions),
	}
}
