// Package catalogue builds the list of PHP extensions and the symbols each
// one contributes, from a live PHP binary, a manifest file or a stubs tree.
package catalogue

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/mvp-joe/extcheck/internal/extension"
)

// Catalogue sources.
const (
	SourcePHP      = "php"
	SourceManifest = "manifest"
	SourceStubs    = "stubs"
)

// Sources lists the accepted values for Options.Source.
var Sources = []string{SourcePHP, SourceManifest, SourceStubs}

// Options selects and configures a catalogue source.
type Options struct {
	Source    string
	PHPBinary string
	Manifest  string
	StubsDir  string
	Core      *extension.CoreSet
	Fs        afero.Fs
	Logger    *log.Logger
}

// New returns the catalogue named by opts.Source.
func New(opts Options) (extension.Catalogue, error) {
	if opts.Core == nil {
		opts.Core = extension.DefaultCoreSet()
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	switch opts.Source {
	case SourcePHP, "":
		return NewPHP(opts.PHPBinary, opts.Core, opts.Logger), nil
	case SourceManifest:
		return NewManifest(opts.Fs, opts.Manifest, opts.Core, opts.Logger), nil
	case SourceStubs:
		return NewStubs(opts.Fs, opts.StubsDir, opts.Core, opts.Logger), nil
	default:
		return nil, fmt.Errorf("unknown catalogue source %q (valid: php, manifest, stubs)", opts.Source)
	}
}

// entry is the serialized form of one extension, shared by the PHP
// introspection output and manifest files.
type entry struct {
	Name      string   `json:"name" yaml:"name"`
	Classes   []string `json:"classes" yaml:"classes"`
	Constants []string `json:"constants" yaml:"constants"`
	Functions []string `json:"functions" yaml:"functions"`
}

// build converts entries to descriptors, rejecting empty and duplicate names.
// IsCore is always decided by core, never by the input.
func build(entries []entry, core *extension.CoreSet) ([]*extension.Extension, error) {
	seen := make(map[string]bool, len(entries))
	extensions := make([]*extension.Extension, 0, len(entries))

	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("extension #%d has no name", i+1)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate extension %q", e.Name)
		}
		seen[e.Name] = true

		extensions = append(extensions, extension.New(
			e.Name,
			core.IsCore(e.Name),
			compact(e.Classes),
			compact(e.Constants),
			compact(e.Functions),
		))
	}

	return extensions, nil
}

// compact drops empty and repeated symbols, keeping first-seen order.
func compact(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
