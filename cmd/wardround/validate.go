package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/wardround/loader"
)

func newValidateCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [cases-dir]",
		Short: "Check case files without playing them",
		Long: `Load and validate every .lua case and recipes.yaml in a directory.

Errors fail with exit code 1; warnings are printed to stderr and do not
fail. A missing or unreadable directory exits with code 2.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := rootOpts.cfg.CasesDir
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidate(cmd, dir)
		},
	}
}

func runValidate(cmd *cobra.Command, dir string) error {
	out := cmd.OutOrStdout()

	lib, err := loader.Load(dir)
	if err != nil {
		var ve *loader.ValidationError
		if !errors.As(err, &ve) {
			return wrapExitError(exitCommandError, "load cases", err)
		}
		printWarnings(cmd, ve.Warnings)
		fmt.Fprintln(out, "✗ Validation failed")
		for _, e := range ve.Errors {
			fmt.Fprintf(out, "  %s\n", e)
		}
		return newExitError(exitFailure, fmt.Sprintf("validation failed with %d error(s)", len(ve.Errors)))
	}

	printWarnings(cmd, lib.Warnings)
	fmt.Fprintf(out, "✓ %d case(s) valid, %d recipe(s)\n", len(lib.Order), len(recipeBook(lib).Recipes()))
	return nil
}
