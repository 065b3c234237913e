package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathoo/wardround/config"
	"github.com/nathoo/wardround/engine/crafting"
	"github.com/nathoo/wardround/loader"
	"github.com/nathoo/wardround/types"
)

// rootOptions holds global flags and the state every command shares.
type rootOptions struct {
	Verbose  bool
	CasesDir string

	cfg    config.Config
	logger *slog.Logger
}

// newRootCommand creates the root command and its subcommands.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "wardround",
		Short:         "Wardround - clinical case and triage simulator",
		Long:          "Play branching clinical cases and run mass-casualty triage drills authored in Lua.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return wrapExitError(exitCommandError, "load config", err)
			}
			if opts.CasesDir != "" {
				cfg.CasesDir = opts.CasesDir
			}
			level := cfg.SlogLevel()
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.cfg = cfg
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")
	cmd.PersistentFlags().StringVar(&opts.CasesDir, "cases", "", "case directory (default $WARDROUND_CASES_DIR or ./cases)")

	cmd.AddCommand(newPlayCommand(opts))
	cmd.AddCommand(newMCICommand(opts))
	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// loadLibrary loads a case directory, printing warnings to stderr.
func loadLibrary(cmd *cobra.Command, dir string) (*types.Library, error) {
	lib, err := loader.Load(dir)
	if err != nil {
		var ve *loader.ValidationError
		if errors.As(err, &ve) {
			printWarnings(cmd, ve.Warnings)
			return nil, wrapExitError(exitFailure, "invalid cases in "+dir, err)
		}
		return nil, wrapExitError(exitCommandError, "load cases", err)
	}
	printWarnings(cmd, lib.Warnings)
	return lib, nil
}

func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}

// recipeBook returns the library's recipe table, or the built-in one when
// the case directory ships none.
func recipeBook(lib *types.Library) *crafting.Book {
	if len(lib.Recipes) > 0 {
		return crafting.NewBook(lib.Recipes)
	}
	return crafting.Default()
}

// findCase looks a case up by exact ID.
func findCase(lib *types.Library, id string) (*types.PatientCase, error) {
	if c, ok := lib.Cases[id]; ok {
		return c, nil
	}
	return nil, newExitError(exitCommandError,
		fmt.Sprintf("unknown case %q (available: %s)", id, strings.Join(lib.Order, ", ")))
}
