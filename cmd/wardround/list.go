package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/wardround/engine/mci"
)

func newListCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the loaded cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := loadLibrary(cmd, rootOpts.cfg.CasesDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range lib.Order {
				c := lib.Cases[id]
				fmt.Fprintf(out, "%-18s %-10s %4ds  %s\n", c.ID, c.Difficulty, mci.Countdown(c.Difficulty), c.Title)
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wardround %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
