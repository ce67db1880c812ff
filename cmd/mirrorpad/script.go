package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/mirrorpad/internal/app"
	"github.com/dshills/mirrorpad/internal/chooser"
	"github.com/dshills/mirrorpad/internal/script"
)

func (c *cli) newScriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script <file>",
		Short: "Replay a YAML session script",
		Long: `Replay a YAML session script against fresh panes and check its
expectations. Paths that commands would ask for are taken from each step's
"choose" field. The command fails on the first unmet expectation.`,
		Args: cobra.ExactArgs(1),
		RunE: c.runScript,
	}
	addSessionFlags(cmd)
	return cmd
}

func (c *cli) runScript(cmd *cobra.Command, args []string) error {
	s, err := script.Load(c.fs, args[0])
	if err != nil {
		return err
	}

	_, cfg, err := c.loadConfig(cmd, sessionOverrides)
	if err != nil {
		return err
	}

	queue := chooser.NewQueue(nil)
	a, err := app.New(app.Options{
		Config:    cfg,
		LogOutput: cmd.ErrOrStderr(),
		Fs:        c.fs,
		Chooser:   queue,
	})
	if err != nil {
		return err
	}

	if err := a.Run(cmd.Context(), script.NewRunner(a, queue).Task(s)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d steps passed\n", s.Name, len(s.Steps))
	return nil
}
