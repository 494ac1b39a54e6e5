package report

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/mvp-joe/extcheck/internal/extension"
)

// UsageScanner finds the extensions a directory tree uses.
type UsageScanner interface {
	GetUsedExtensions(ctx context.Context, extensions []*extension.Extension, path string) ([]*extension.Extension, error)
}

// Checker loads the catalogue, scans a path and builds the report. It is the
// pipeline shared by the command line and the MCP tool.
type Checker struct {
	catalogue extension.Catalogue
	scanner   UsageScanner
	logger    *log.Logger
}

// NewChecker creates a Checker. A nil logger discards output.
func NewChecker(catalogue extension.Catalogue, scanner UsageScanner, logger *log.Logger) *Checker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Checker{
		catalogue: catalogue,
		scanner:   scanner,
		logger:    logger,
	}
}

// Check reports which catalogue extensions the code under path uses.
func (c *Checker) Check(ctx context.Context, path string) (*Report, error) {
	loaded, err := c.catalogue.Extensions(ctx)
	if err != nil {
		return nil, err
	}
	loaded = extension.Sort(loaded)
	c.logger.Debug("catalogue loaded", "extensions", len(loaded))

	used, err := c.scanner.GetUsedExtensions(ctx, loaded, path)
	if err != nil {
		return nil, err
	}

	return New(path, loaded, used), nil
}
