package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mtgfactory/internal/config"
	"mtgfactory/internal/console"
	"mtgfactory/internal/scryfall"
	"mtgfactory/internal/theme"
)

// cli carries what every subcommand needs once flags are parsed
type cli struct {
	in     io.Reader
	out    io.Writer
	lookup theme.CardLookup // nil until configured, unless injected

	configPath string
	noColor    bool
	width      int

	cfg *config.AppConfig
}

func (c *cli) renderer() *console.Renderer {
	noColor := c.noColor
	width := c.width
	if c.cfg != nil {
		noColor = noColor || c.cfg.CLI.NoColor
		if width == 0 {
			width = c.cfg.CLI.Width
		}
	}
	return console.NewRenderer(c.out, width, noColor)
}

// configure loads .env and the config file, then builds the Scryfall client
// unless a lookup was injected
func (c *cli) configure() error {
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}
	path := c.configPath
	if path == "" {
		path = os.Getenv("MTGFACTORY_CONFIG")
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.lookup == nil {
		logger := log.New(io.Discard, "", 0)
		if strings.EqualFold(cfg.Server.LogLevel, "debug") {
			logger = log.New(os.Stderr, "scryfall: ", log.LstdFlags)
		}
		c.lookup = scryfall.New(cfg.Scryfall.ClientConfig(logger))
	}
	return nil
}

// newRootCmd builds the command tree. A nil lookup uses the Scryfall client
// from the loaded configuration.
func newRootCmd(in io.Reader, out io.Writer, lookup theme.CardLookup) *cobra.Command {
	c := &cli{in: in, out: out, lookup: lookup}

	root := &cobra.Command{
		Use:   "mtgfactory",
		Short: "Build themed creature and spell cards from real Magic card data",
		Long: `mtgfactory looks up Magic: The Gathering cards on Scryfall and presents
them as creatures or spells of a Red (Aggressive) or Blue (Control) deck.

Run it without arguments for the interactive factory, or use a subcommand.

Examples:
  mtgfactory
  mtgfactory lookup goblin guide
  mtgfactory lookup --kind spell --theme blue counterspell
  mtgfactory art --csv lightning bolt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.configure()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.interactive(cmd.Context())
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./config/mtgfactory.yaml)")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().IntVar(&c.width, "width", 0, "table width (default terminal width)")

	root.AddCommand(
		newLookupCmd(c),
		newArtCmd(c),
		newThemesCmd(c),
		newConfigCmd(c),
	)
	return root
}

// interactive runs the factory loop until the user declines another round
// or input ends
func (c *cli) interactive(ctx context.Context) error {
	r := c.renderer()
	p := console.NewPrompter(c.in, c.out)
	factory := theme.Factory{Lookup: c.lookup}

	r.Banner()
	fmt.Fprintln(c.out)

	for {
		more, err := c.round(ctx, r, p, factory)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if !more {
			break
		}
		fmt.Fprintln(c.out)
	}

	fmt.Fprintln(c.out)
	r.Info("Thanks for using MTG Card Factory!")
	return nil
}

func (c *cli) round(ctx context.Context, r *console.Renderer, p *console.Prompter, factory theme.Factory) (bool, error) {
	t, err := p.ChooseTheme(theme.All())
	if err != nil {
		return false, err
	}

	fmt.Fprintln(c.out)
	r.Rule(t, strings.ToUpper(t.Name)+" DECK FACTORY")
	fmt.Fprintln(c.out)

	creatureName, err := p.Ask("Enter creature card name", t.DefaultCreature)
	if err != nil {
		return false, err
	}
	spellName, err := p.Ask("Enter spell card name", t.DefaultSpell)
	if err != nil {
		return false, err
	}
	fmt.Fprintln(c.out)

	var pair theme.Pair
	console.Spin(c.out, "Fetching cards from Scryfall...", func() {
		pair = factory.Pair(ctx, t, creatureName, spellName)
	})

	r.Creature(t, pair.Creature)
	fmt.Fprintln(c.out)
	r.Spell(t, pair.Spell)
	fmt.Fprintln(c.out)

	return p.Confirm("Look up more cards?", false)
}
