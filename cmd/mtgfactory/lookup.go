package main

import (
	"strings"

	"github.com/spf13/cobra"

	"mtgfactory/internal/deck"
	"mtgfactory/internal/theme"
)

func newLookupCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <card name...>",
		Short: "Look up one card by fuzzy name",
		Long: `Lookup resolves a fuzzy card name and prints it as a creature, a spell,
or the raw card record.

Examples:
  mtgfactory lookup goblin guide
  mtgfactory lookup --kind spell --theme blue counterspell
  mtgfactory lookup --kind card sol ring`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			kindFlag, _ := cmd.Flags().GetString("kind")
			themeFlag, _ := cmd.Flags().GetString("theme")

			t, err := theme.ByID(themeFlag)
			if err != nil {
				m, ok := theme.Match(themeFlag)
				if !ok {
					return err
				}
				t = m
			}

			ctx := cmd.Context()
			r := c.renderer()

			if strings.EqualFold(kindFlag, "card") {
				found, err := c.lookup.LookupCard(ctx, name)
				if err != nil {
					return err
				}
				r.Card(found)
				return nil
			}

			kind, err := deck.ParseKind(kindFlag)
			if err != nil {
				return err
			}
			factory := theme.Factory{Lookup: c.lookup}
			if kind == deck.KindSpell {
				s, err := factory.Spell(ctx, t, name)
				if err != nil {
					return err
				}
				r.Spell(t, s)
				return nil
			}
			cr, err := factory.Creature(ctx, t, name)
			if err != nil {
				return err
			}
			r.Creature(t, cr)
			return nil
		},
	}
	cmd.Flags().StringP("kind", "k", "creature", "creature, spell or card")
	cmd.Flags().StringP("theme", "t", theme.Red.ID, "deck color")
	return cmd
}
