package theme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"mtgfactory/internal/card"
	"mtgfactory/internal/scryfall"
)

const (
	noManaCost = "N/A"
	noText     = "No card text available"
	notFound   = "Card not found in database"
)

// CardLookup is what the builders need from a card provider. *scryfall.Client
// implements it.
type CardLookup interface {
	LookupCard(ctx context.Context, query string) (card.Card, error)
	LookupArtVersions(ctx context.Context, canonicalName string) []card.ArtVersion
}

// Creature is the creature view shown by every front end
type Creature struct {
	Name           string
	ManaCost       string
	PowerToughness string
	Keywords       string
	Text           string
	ImageURL       string
	DeckColor      string
	Found          bool
}

// Spell is the spell view shown by every front end
type Spell struct {
	Name      string
	ManaCost  string
	Type      string
	Keywords  string
	Text      string
	ImageURL  string
	DeckColor string
	Found     bool
}

// NewCreature builds the creature view of a resolved card
func NewCreature(t Theme, c card.Card) Creature {
	return Creature{
		Name:           c.Name,
		ManaCost:       orDefault(c.ManaCost, noManaCost),
		PowerToughness: c.PowerToughness(),
		Keywords:       card.CreatureKeywords(c.OracleText),
		Text:           orDefault(c.OracleText, noText),
		ImageURL:       c.ImageURL,
		DeckColor:      t.ID,
		Found:          true,
	}
}

// NewSpell builds the spell view of a resolved card
func NewSpell(t Theme, c card.Card) Spell {
	return Spell{
		Name:      c.Name,
		ManaCost:  orDefault(c.ManaCost, noManaCost),
		Type:      orDefault(c.TypeLine, "Unknown"),
		Keywords:  card.SpellKeywords(c.OracleText, c.TypeLine),
		Text:      orDefault(c.OracleText, noText),
		ImageURL:  c.ImageURL,
		DeckColor: t.ID,
		Found:     true,
	}
}

// MissingCreature is the placeholder shown when a lookup failed
func MissingCreature(t Theme, name string, err error) Creature {
	return Creature{
		Name:           name,
		ManaCost:       noManaCost,
		PowerToughness: "?/?",
		Keywords:       "None",
		Text:           failureText(err),
		DeckColor:      t.ID,
	}
}

// MissingSpell is the placeholder shown when a lookup failed
func MissingSpell(t Theme, name string, err error) Spell {
	return Spell{
		Name:      name,
		ManaCost:  noManaCost,
		Type:      "Unknown",
		Keywords:  "Unknown",
		Text:      failureText(err),
		DeckColor: t.ID,
	}
}

func failureText(err error) string {
	if err == nil || errors.Is(err, scryfall.ErrNotFound) || errors.Is(err, scryfall.ErrInvalidQuery) {
		return notFound
	}
	return fmt.Sprintf("Error fetching card: %v", err)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Factory builds views by looking cards up
type Factory struct {
	Lookup CardLookup
}

// Creature looks name up and returns its creature view. On failure the view
// is the placeholder and err is the lookup error.
func (f Factory) Creature(ctx context.Context, t Theme, name string) (Creature, error) {
	c, err := f.Lookup.LookupCard(ctx, name)
	if err != nil {
		return MissingCreature(t, name, err), err
	}
	return NewCreature(t, c), nil
}

// Spell looks name up and returns its spell view
func (f Factory) Spell(ctx context.Context, t Theme, name string) (Spell, error) {
	c, err := f.Lookup.LookupCard(ctx, name)
	if err != nil {
		return MissingSpell(t, name, err), err
	}
	return NewSpell(t, c), nil
}

// Pair is one creature and one spell of the same theme
type Pair struct {
	Creature    Creature
	Spell       Spell
	CreatureErr error
	SpellErr    error
}

// Pair looks up both cards concurrently and returns when both are done
func (f Factory) Pair(ctx context.Context, t Theme, creatureName, spellName string) Pair {
	var (
		p  Pair
		wg sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.Creature, p.CreatureErr = f.Creature(ctx, t, creatureName)
	}()
	go func() {
		defer wg.Done()
		p.Spell, p.SpellErr = f.Spell(ctx, t, spellName)
	}()
	wg.Wait()
	return p
}
