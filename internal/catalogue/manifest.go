package catalogue

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/extcheck/internal/extension"
)

// manifestFile is the on-disk layout of a manifest. JSON manifests use the
// same keys.
//
//	extensions:
//	  - name: curl
//	    classes: [CurlHandle]
//	    constants: [CURLOPT_URL]
//	    functions: [curl_init]
type manifestFile struct {
	Extensions []entry `yaml:"extensions"`
}

// Manifest reads the catalogue from a YAML or JSON file.
type Manifest struct {
	fs     afero.Fs
	path   string
	core   *extension.CoreSet
	logger *log.Logger
}

// NewManifest creates a catalogue backed by the manifest at path.
func NewManifest(fs afero.Fs, path string, core *extension.CoreSet, logger *log.Logger) *Manifest {
	return &Manifest{
		fs:     fs,
		path:   path,
		core:   core,
		logger: logger,
	}
}

// Extensions parses the manifest. Entries keep their file order.
func (m *Manifest) Extensions(ctx context.Context) ([]*extension.Extension, error) {
	if m.path == "" {
		return nil, extension.NewCatalogueError(fmt.Errorf("no manifest file configured"))
	}

	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		return nil, extension.NewCatalogueError(fmt.Errorf("failed to read manifest: %w", err))
	}

	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, extension.NewCatalogueError(fmt.Errorf("failed to parse manifest %s: %w", m.path, err))
	}

	extensions, err := build(file.Extensions, m.core)
	if err != nil {
		return nil, extension.NewCatalogueError(fmt.Errorf("invalid manifest %s: %w", m.path, err))
	}

	m.logger.Debug("loaded catalogue", "source", SourceManifest, "path", m.path, "extensions", len(extensions))
	return extensions, nil
}
