package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/mirrorpad/internal/config"
)

func (c *cli) newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or create the mirrorpad configuration",
		Long: `View or create the mirrorpad configuration.

Without arguments, displays the effective configuration.`,
		RunE: c.runConfigShow,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  c.runConfigShow,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Long: `Create a config file with every option at its default value.
The file is written to --config if given, otherwise to ` + config.ConfigFile() + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runConfigInit(cmd, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), c.configPath())
		},
	}

	configCmd.AddCommand(showCmd, initCmd, pathCmd)
	return configCmd
}

func (c *cli) configPath() string {
	if c.cfgFile != "" {
		return c.cfgFile
	}
	return config.ConfigFile()
}

func (c *cli) runConfigShow(cmd *cobra.Command, _ []string) error {
	loader, cfg, err := c.loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if used := loader.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# loaded from %s\n", used)
	} else {
		fmt.Fprintln(out, "# no config file, using defaults")
	}
	return config.Write(out, cfg)
}

func (c *cli) runConfigInit(cmd *cobra.Command, force bool) error {
	path := c.configPath()
	if err := config.WriteDefaultFile(c.fs, path, force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
	return nil
}
