package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/mvp-joe/extcheck/internal/catalogue"
	"github.com/mvp-joe/extcheck/internal/config"
	"github.com/mvp-joe/extcheck/internal/extension"
	"github.com/mvp-joe/extcheck/internal/files"
	"github.com/mvp-joe/extcheck/internal/report"
)

// buildChecker wires the catalogue, file source and scanner described by cfg.
// The compiled ignore rules are returned for the watcher.
func buildChecker(cfg *config.Config, logger *log.Logger, progress extension.ProgressReporter) (*report.Checker, *files.IgnoreRules, error) {
	rules, err := files.NewIgnoreRules(cfg.Scan.Ignore)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid ignore patterns: %w", err)
	}

	catOpts := cfg.CatalogueOptions()
	catOpts.Fs = afero.NewOsFs()
	catOpts.Logger = logger

	cat, err := catalogue.New(catOpts)
	if err != nil {
		return nil, nil, err
	}

	scanner := extension.NewScanner(
		files.NewOSSource(rules),
		extension.WithSuffix(cfg.Scan.Suffix),
		extension.WithWorkers(cfg.Scan.Workers),
		extension.WithProgress(progress),
		extension.WithLogger(logger),
	)

	return report.NewChecker(cat, scanner, logger), rules, nil
}
