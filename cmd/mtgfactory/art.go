package main

import (
	"strings"

	"github.com/spf13/cobra"

	"mtgfactory/internal/deck"
)

func newArtCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "art <card name...>",
		Short: "List every unique art version of a card",
		Long: `Art resolves the card name first and then lists every distinct artwork
printed for it. Use --csv for a machine readable list.

Examples:
  mtgfactory art lightning bolt
  mtgfactory art --csv counterspell > counterspell.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asCSV, _ := cmd.Flags().GetBool("csv")
			ctx := cmd.Context()

			found, err := c.lookup.LookupCard(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			versions := c.lookup.LookupArtVersions(ctx, found.Name)

			if asCSV {
				return deck.WriteArtCSV(c.out, found.Name, versions)
			}
			c.renderer().ArtVersions(found.Name, versions)
			return nil
		},
	}
	cmd.Flags().Bool("csv", false, "write CSV instead of a table")
	return cmd
}
