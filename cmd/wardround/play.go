package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathoo/wardround/cli"
	"github.com/nathoo/wardround/engine"
	"github.com/nathoo/wardround/tui"
)

type playOptions struct {
	Plain  bool
	Trace  bool
	Script string
}

func newPlayCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play [case-id]",
		Short: "Play a single clinical case",
		Long: `Play one branching clinical case.

The case id may be omitted when the case directory holds exactly one case.
The full-screen UI is used on a terminal; --plain, --script or a
redirected stdout fall back to a line-oriented console.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "line-oriented console instead of the full-screen UI")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print emitted events after each choice")
	cmd.Flags().StringVar(&opts.Script, "script", "", "read input lines from a file and echo them")

	return cmd
}

func runPlay(rootOpts *rootOptions, opts *playOptions, cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary(cmd, rootOpts.cfg.CasesDir)
	if err != nil {
		return err
	}

	var id string
	switch {
	case len(args) == 1:
		id = args[0]
	case len(lib.Order) == 1:
		id = lib.Order[0]
	default:
		return newExitError(exitCommandError,
			fmt.Sprintf("choose a case: %s", strings.Join(lib.Order, ", ")))
	}
	c, err := findCase(lib, id)
	if err != nil {
		return err
	}

	eng := engine.New(c,
		engine.WithLogger(rootOpts.logger),
		engine.WithRecipes(recipeBook(lib)),
	)
	rootOpts.logger.Info("case started", "case", c.ID, "difficulty", c.Difficulty)

	if opts.Script == "" && !opts.Plain && isTerminal() {
		if err := tui.Run(eng, rootOpts.cfg.SaveDir); err != nil {
			return wrapExitError(exitCommandError, "run ui", err)
		}
		return nil
	}

	console := cli.New(eng, rootOpts.cfg.SaveDir)
	console.Out = cmd.OutOrStdout()
	console.In = cmd.InOrStdin()
	console.Trace = opts.Trace
	if opts.Script != "" {
		f, err := os.Open(opts.Script)
		if err != nil {
			return wrapExitError(exitCommandError, "open script", err)
		}
		defer f.Close()
		console.In = f
		console.EchoInput = true
	}
	console.Run()
	return nil
}
