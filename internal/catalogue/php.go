package catalogue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mvp-joe/extcheck/internal/extension"
)

// DefaultPHPBinary is the PHP CLI looked up on PATH.
const DefaultPHPBinary = "php"

// introspectScript prints every loaded extension with its class, constant
// and function names as a JSON array.
const introspectScript = `$out = [];
foreach (get_loaded_extensions() as $name) {
    $ext = new ReflectionExtension($name);
    $out[] = [
        'name' => $name,
        'classes' => array_values($ext->getClassNames()),
        'constants' => array_map('strval', array_keys($ext->getConstants())),
        'functions' => array_values(array_map(fn ($f) => $f->getName(), $ext->getFunctions())),
    ];
}
echo json_encode($out, JSON_THROW_ON_ERROR | JSON_UNESCAPED_SLASHES);`

// CommandRunner runs an external command and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// PHP reads the catalogue from a PHP binary through its reflection API.
type PHP struct {
	binary string
	core   *extension.CoreSet
	run    CommandRunner
	logger *log.Logger
}

// NewPHP creates a catalogue that introspects the given PHP binary.
func NewPHP(binary string, core *extension.CoreSet, logger *log.Logger) *PHP {
	if binary == "" {
		binary = DefaultPHPBinary
	}
	return &PHP{
		binary: binary,
		core:   core,
		run:    execCommand,
		logger: logger,
	}
}

// WithRunner replaces the command runner. Intended for tests.
func (p *PHP) WithRunner(run CommandRunner) *PHP {
	p.run = run
	return p
}

// Extensions runs the binary and decodes the loaded extensions in load order.
func (p *PHP) Extensions(ctx context.Context) ([]*extension.Extension, error) {
	out, err := p.run(ctx, p.binary, "-d", "display_errors=stderr", "-r", introspectScript)
	if err != nil {
		return nil, extension.NewCatalogueError(fmt.Errorf("failed to introspect %s: %w", p.binary, err))
	}

	var entries []entry
	if err := json.Unmarshal(bytes.TrimSpace(out), &entries); err != nil {
		return nil, extension.NewCatalogueError(fmt.Errorf("failed to decode %s output: %w", p.binary, err))
	}

	extensions, err := build(entries, p.core)
	if err != nil {
		return nil, extension.NewCatalogueError(err)
	}

	p.logger.Debug("loaded catalogue", "source", SourcePHP, "binary", p.binary, "extensions", len(extensions))
	return extensions, nil
}

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}
