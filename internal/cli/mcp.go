package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/extcheck/internal/extension"
	"github.com/mvp-joe/extcheck/internal/mcp"
)

func newMCPCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the extension check over the Model Context Protocol",
		Long: `Start a Model Context Protocol (MCP) server on stdio that lets coding
assistants ask which PHP extensions a directory uses.

The server exposes one tool, extcheck_used_extensions, taking a required
"path" and an optional "non_core_only" flag. Configuration is read from the
current directory's .extcheck/config.yml, the --config file and EXTCHECK_*
variables.

Example:
  extcheck mcp --catalogue stubs --stubs /usr/share/phpstorm-stubs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}

			cfg, err := loadConfig(cmd, opts, wd)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
			checker, _, err := buildChecker(cfg, logger, &extension.NoOpProgressReporter{})
			if err != nil {
				return err
			}

			err = mcp.NewServer(checker, Version, logger).Serve(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
