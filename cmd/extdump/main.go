// Command extdump prints the extension catalogue extcheck would use, one
// extension per block with its symbols. It is meant for checking a manifest
// or stubs tree before running a scan.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/extcheck/internal/catalogue"
	"github.com/mvp-joe/extcheck/internal/extension"
)

type dumpOptions struct {
	source    string
	path      string
	phpBinary string
	symbols   bool
}

func main() {
	opts := &dumpOptions{}

	cmd := &cobra.Command{
		Use:           "extdump",
		Short:         "Print the extension catalogue",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dump(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.source, "catalogue", catalogue.SourcePHP, "catalogue source: php, manifest or stubs")
	cmd.Flags().StringVar(&opts.path, "path", "", "manifest file or stubs directory")
	cmd.Flags().StringVar(&opts.phpBinary, "php", catalogue.DefaultPHPBinary, "PHP binary for the php catalogue")
	cmd.Flags().BoolVar(&opts.symbols, "symbols", false, "print every symbol, not only the counts")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dump(cmd *cobra.Command, opts *dumpOptions) error {
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "extdump"})

	cat, err := catalogue.New(catalogue.Options{
		Source:    opts.source,
		PHPBinary: opts.phpBinary,
		Manifest:  opts.path,
		StubsDir:  opts.path,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	exts, err := cat.Extensions(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, ext := range extension.Sort(exts) {
		core := ""
		if ext.IsCore() {
			core = " (core)"
		}
		fmt.Fprintf(out, "=== %s%s ===\n", ext.Name(), core)
		fmt.Fprintf(out, "  classes: %d, constants: %d, functions: %d\n",
			len(ext.Classes()), len(ext.Constants()), len(ext.Functions()))

		if opts.symbols {
			printSymbols(out, "classes", ext.Classes())
			printSymbols(out, "constants", ext.Constants())
			printSymbols(out, "functions", ext.Functions())
		}
	}
	return nil
}

func printSymbols(w io.Writer, kind string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s: %s\n", kind, strings.Join(names, ", "))
}
