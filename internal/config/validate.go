package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mvp-joe/extcheck/internal/catalogue"
)

var (
	// ErrInvalidSuffix indicates an empty scan suffix
	ErrInvalidSuffix = errors.New("invalid scan suffix")

	// ErrInvalidWorkers indicates a worker count below one
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidSource indicates an unsupported catalogue source
	ErrInvalidSource = errors.New("invalid catalogue source")

	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrMissingManifest indicates the manifest source without a manifest path
	ErrMissingManifest = errors.New("missing manifest path")

	// ErrMissingStubs indicates the stubs source without a stubs directory
	ErrMissingStubs = errors.New("missing stubs directory")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateScan(&cfg.Scan); err != nil {
		errs = append(errs, err)
	}

	if err := validateCatalogue(&cfg.Catalogue); err != nil {
		errs = append(errs, err)
	}

	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateScan(cfg *ScanConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Suffix) == "" {
		errs = append(errs, fmt.Errorf("%w: suffix is required", ErrInvalidSuffix))
	}

	if cfg.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	// Ignore patterns are compiled by the file source, which reports bad globs.
	return joinErrors(errs)
}

func validateCatalogue(cfg *CatalogueConfig) error {
	var errs []error

	switch cfg.Source {
	case catalogue.SourcePHP:
	case catalogue.SourceManifest:
		if strings.TrimSpace(cfg.Manifest) == "" {
			errs = append(errs, fmt.Errorf("%w: catalogue.manifest is required for the manifest source", ErrMissingManifest))
		}
	case catalogue.SourceStubs:
		if strings.TrimSpace(cfg.StubsDir) == "" {
			errs = append(errs, fmt.Errorf("%w: catalogue.stubs_dir is required for the stubs source", ErrMissingStubs))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: must be one of %s, got '%s'",
			ErrInvalidSource, strings.Join(catalogue.Sources, ", "), cfg.Source))
	}

	return joinErrors(errs)
}

func validateOutput(cfg *OutputConfig) error {
	if !slices.Contains([]string{FormatText, FormatJSON}, cfg.Format) {
		return fmt.Errorf("%w: must be 'text' or 'json', got '%s'", ErrInvalidFormat, cfg.Format)
	}
	return nil
}

// validationError combines multiple errors into one message while keeping
// each of them reachable through errors.Is.
type validationError struct {
	errs []error
}

func (e *validationError) Error() string {
	msgs := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *validationError) Unwrap() []error {
	return e.errs
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}

	// Flatten nested validation errors so the message stays one level deep.
	var flat []error
	for _, err := range errs {
		var nested *validationError
		if errors.As(err, &nested) {
			flat = append(flat, nested.errs...)
			continue
		}
		flat = append(flat, err)
	}
	return &validationError{errs: flat}
}
