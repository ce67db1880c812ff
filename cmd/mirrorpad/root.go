package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dshills/mirrorpad/internal/config"
)

// cli holds the state shared by every command.
type cli struct {
	fs      afero.Fs
	cfgFile string
	verbose bool
}

// newRootCmd builds the command tree. All file access goes through fs.
func newRootCmd(fs afero.Fs) *cobra.Command {
	c := &cli{fs: fs}

	root := &cobra.Command{
		Use:   "mirrorpad",
		Short: "A multi-pane text editor whose panes mirror each other",
		Long: `mirrorpad opens several editor panes over documents that replicate
every edit to each other. Commands (New, Open, Save, Save as, Close,
Previous, Following) are typed at a line-oriented console.

Without a subcommand, mirrorpad starts the interactive console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file (default "+config.ConfigFile()+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	runCmd := c.newRunCmd()
	root.RunE = runCmd.RunE
	root.Flags().AddFlagSet(runCmd.Flags())

	root.AddCommand(
		runCmd,
		c.newScriptCmd(),
		c.newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the configuration for a command. Changed flags named in
// overrides are applied on top of the file and environment.
func (c *cli) loadConfig(cmd *cobra.Command, overrides map[string]string) (*config.Loader, *config.Config, error) {
	opts := []config.LoaderOption{config.WithFs(c.fs)}
	if c.cfgFile != "" {
		opts = append(opts, config.WithFile(c.cfgFile))
	}
	loader := config.NewLoader(opts...)

	if c.verbose {
		loader.Set("log.level", "debug")
	}
	for flag, key := range overrides {
		f := cmd.Flags().Lookup(flag)
		if f != nil && f.Changed {
			loader.Set(key, f.Value.String())
		}
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}
	return loader, cfg, nil
}
