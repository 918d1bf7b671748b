package main

import (
	"github.com/spf13/cobra"

	"mtgfactory/internal/config"
	"mtgfactory/internal/theme"
)

func newThemesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the deck themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.renderer().Themes(theme.All())
			return nil
		},
	}
}

func newConfigCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Dump(c.out, c.cfg)
		},
	}
}
