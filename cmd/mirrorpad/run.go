package main

import (
	"bufio"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dshills/mirrorpad/internal/app"
	"github.com/dshills/mirrorpad/internal/chooser"
	"github.com/dshills/mirrorpad/internal/config"
	"github.com/dshills/mirrorpad/internal/console"
)

// sessionOverrides maps session flags to config keys.
var sessionOverrides = map[string]string{
	"panes":         "panes",
	"root":          "storage.root",
	"lock":          "document.lock",
	"dispatch-mode": "dispatch.mode",
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().Int("panes", 2, "number of mirrored panes")
	cmd.Flags().String("root", "", "directory relative paths are resolved against")
	cmd.Flags().String("lock", "rw", "document lock: rw or exclusive")
	cmd.Flags().String("dispatch-mode", "table", "command dispatch: table or chain")
}

func (c *cli) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive console",
		Long: `Start the interactive console. Type a command label to run it on the
active pane, or "help" for the console verbs. Paths for Open, Save and
Save as are read from the next input line; an empty line cancels.`,
		Args: cobra.NoArgs,
		RunE: c.runInteractive,
	}
	addSessionFlags(cmd)
	return cmd
}

func (c *cli) runInteractive(cmd *cobra.Command, _ []string) error {
	loader, cfg, err := c.loadConfig(cmd, sessionOverrides)
	if err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	a, err := app.New(app.Options{
		Config:    cfg,
		LogOutput: cmd.ErrOrStderr(),
		Fs:        c.fs,
		Chooser:   chooser.NewPrompt(in, out),
	})
	if err != nil {
		return err
	}

	if loader.ConfigFileUsed() != "" {
		w, err := loader.Watch(a.ApplyConfig, func(err error) {
			a.Logger().Warn("config reload failed", "error", err)
		})
		switch {
		case err == nil:
			defer w.Close()
			a.Logger().Debug("watching config", "path", w.Path())
		case !errors.Is(err, config.ErrNoConfigFile):
			a.Logger().Warn("config watch unavailable", "error", err)
		}
	}

	return a.Run(cmd.Context(), console.New(a, in, out).Run)
}
