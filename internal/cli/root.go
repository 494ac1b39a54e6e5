// Package cli implements the extcheck command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mvp-joe/extcheck/internal/config"
	"github.com/mvp-joe/extcheck/internal/extension"
	"github.com/mvp-joe/extcheck/internal/watcher"
)

// ErrPathRequired is returned when no PATH argument is given.
var ErrPathRequired = errors.New("The PATH argument is required.")

// options holds the values of the persistent and root flags.
type options struct {
	cfgFile   string
	verbose   bool
	quiet     bool
	jobs      int
	suffix    string
	format    string
	source    string
	manifest  string
	stubsDir  string
	phpBinary string
	watch     bool
}

// NewRootCmd builds the extcheck command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "extcheck [flags] PATH",
		Short: "Check the PHP extensions being used in a project",
		Long: `extcheck lists the PHP extensions known to a catalogue, then scans the .php
files under PATH and reports which of those extensions the code references
through a class, constant or function name.

The catalogue comes from a PHP binary (default), a YAML/JSON manifest or a
phpstorm-stubs style directory.

Examples:
  # Check the current project against the local php binary
  extcheck .

  # Use a manifest and print JSON
  extcheck --catalogue manifest --manifest extensions.yml --format json src/

  # Re-check on every change
  extcheck --watch src/`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default is PATH/.extcheck/config.yml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.source, "catalogue", "", "catalogue source: php, manifest or stubs")
	pf.StringVar(&opts.manifest, "manifest", "", "manifest file for the manifest catalogue")
	pf.StringVar(&opts.stubsDir, "stubs", "", "stubs directory for the stubs catalogue")
	pf.StringVar(&opts.phpBinary, "php", "", "PHP binary for the php catalogue")
	pf.IntVarP(&opts.jobs, "jobs", "j", 0, "number of files scanned concurrently")
	pf.StringVar(&opts.suffix, "suffix", "", "suffix of the files to scan")

	f := cmd.Flags()
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "disable progress output")
	f.StringVar(&opts.format, "format", "", "output format: text or json")
	f.BoolVarP(&opts.watch, "watch", "w", false, "re-check whenever a scanned file changes")

	cmd.AddCommand(newMCPCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and exits the process with status 1 on error.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func runCheck(cmd *cobra.Command, opts *options, args []string) error {
	if len(args) == 0 {
		return ErrPathRequired
	}
	path := extension.TrimPath(args[0])

	cfg, err := loadConfig(cmd, opts, path)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

	var progress extension.ProgressReporter = &extension.NoOpProgressReporter{}
	if !opts.quiet && cfg.Output.Format == config.FormatText {
		progress = NewCLIProgressReporter(cmd.ErrOrStderr())
	}

	checker, rules, err := buildChecker(cfg, logger, progress)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	check := func(ctx context.Context) error {
		r, err := checker.Check(ctx, path)
		if err != nil {
			return err
		}
		return r.Write(out, cfg.Output.Format)
	}

	if !opts.watch {
		return check(cmd.Context())
	}

	w, err := watcher.New(path, cfg.Scan.Suffix, watcher.WithIgnore(rules), watcher.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	coordinator := watcher.NewCoordinator(w, watcher.CheckerFunc(func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			fmt.Fprintln(out)
		}
		return check(ctx)
	}), logger)

	return coordinator.Run(cmd.Context())
}

// loadConfig loads the configuration for the project at root and applies
// the flags the user set explicitly.
func loadConfig(cmd *cobra.Command, opts *options, root string) (*config.Config, error) {
	var loaderOpts []config.LoaderOption
	if opts.cfgFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.cfgFile))
	}

	cfg, err := config.NewLoader(root, loaderOpts...).Load()
	if err != nil {
		return nil, err
	}

	applyFlags(cfg, cmd.Flags(), opts)

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFlags overrides configuration values with flags set on the command line.
func applyFlags(cfg *config.Config, flags *pflag.FlagSet, opts *options) {
	if flags.Changed("catalogue") {
		cfg.Catalogue.Source = opts.source
	}
	if flags.Changed("manifest") {
		cfg.Catalogue.Manifest = opts.manifest
		if !flags.Changed("catalogue") {
			cfg.Catalogue.Source = "manifest"
		}
	}
	if flags.Changed("stubs") {
		cfg.Catalogue.StubsDir = opts.stubsDir
		if !flags.Changed("catalogue") {
			cfg.Catalogue.Source = "stubs"
		}
	}
	if flags.Changed("php") {
		cfg.Catalogue.PHPBinary = opts.phpBinary
	}
	if flags.Changed("jobs") {
		cfg.Scan.Workers = opts.jobs
	}
	if flags.Changed("suffix") {
		cfg.Scan.Suffix = opts.suffix
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
}
