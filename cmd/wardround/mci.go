package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/wardround/cli"
	"github.com/nathoo/wardround/engine/mci"
	"github.com/nathoo/wardround/tui"
	"github.com/nathoo/wardround/types"
)

type mciOptions struct {
	Plain  bool
	Script string
}

func newMCICommand(rootOpts *rootOptions) *cobra.Command {
	opts := &mciOptions{}

	cmd := &cobra.Command{
		Use:   "mci [case-id...]",
		Short: "Run a mass-casualty incident",
		Long: `Run a mass-casualty incident with one patient per case.

With no case ids every loaded case joins the incident, in load order.
On a terminal the clock runs in real time (WARDROUND_TICK_INTERVAL,
WARDROUND_TICK_SECONDS). With --plain or --script the clock only moves
on "wait". The starting resource pool comes from WARDROUND_MCI_*.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCI(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "turn-based console instead of the real-time board")
	cmd.Flags().StringVar(&opts.Script, "script", "", "read commands from a file and echo them")

	return cmd
}

func runMCI(rootOpts *rootOptions, opts *mciOptions, cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary(cmd, rootOpts.cfg.CasesDir)
	if err != nil {
		return err
	}

	ids := args
	if len(ids) == 0 {
		ids = lib.Order
	}
	roster := make([]*types.PatientCase, 0, len(ids))
	for _, id := range ids {
		c, err := findCase(lib, id)
		if err != nil {
			return err
		}
		roster = append(roster, c)
	}

	m := mci.New(rootOpts.cfg.Resources, mci.WithLogger(rootOpts.logger))
	m.StartIncident(roster)
	rootOpts.logger.Info("incident started", "patients", len(roster))

	if opts.Script == "" && !opts.Plain && isTerminal() {
		if err := tui.RunBoard(m, rootOpts.cfg.TickInterval, rootOpts.cfg.TickSeconds); err != nil {
			return wrapExitError(exitCommandError, "run board", err)
		}
		return nil
	}

	console := cli.NewIncident(m)
	console.Out = cmd.OutOrStdout()
	console.In = cmd.InOrStdin()
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
