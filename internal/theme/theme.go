// Package theme holds the two deck themes and the creature/spell views built
// from looked-up cards.
package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var ErrUnknownTheme = errors.New("unknown deck color")

// Theme is a static deck description. ID doubles as the deck color in URLs
// and API payloads.
type Theme struct {
	ID              string
	Name            string
	Style           string
	Description     string
	Color           string
	DefaultCreature string
	DefaultSpell    string
}

var (
	Red = Theme{
		ID:              "red",
		Name:            "Red",
		Style:           "Aggressive",
		Description:     "Fast creatures and direct damage. Win before the opponent sets up.",
		Color:           "#d32f2f",
		DefaultCreature: "Goblin Guide",
		DefaultSpell:    "Lightning Bolt",
	}
	Blue = Theme{
		ID:              "blue",
		Name:            "Blue",
		Style:           "Control",
		Description:     "Counters, card advantage and value creatures. Win the long game.",
		Color:           "#1976d2",
		DefaultCreature: "Snapcaster Mage",
		DefaultSpell:    "Counterspell",
	}
)

// All returns the themes in display order
func All() []Theme {
	return []Theme{Red, Blue}
}

// ByID returns the theme for a deck color, ignoring case and surrounding space
func ByID(id string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case Red.ID:
		return Red, nil
	case Blue.ID:
		return Blue, nil
	default:
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, id)
	}
}

// Label is the menu text, e.g. "Red (Aggressive)"
func (t Theme) Label() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.Style)
}

// Match picks a theme from loose user input such as "r", "Blue (Control)"
// or "ctrl". Prefixes win over fuzzy matches.
func Match(input string) (Theme, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return Theme{}, false
	}

	for _, t := range All() {
		for _, s := range []string{t.ID, t.Style, t.Label()} {
			if strings.HasPrefix(strings.ToLower(s), in) {
				return t, true
			}
		}
	}

	var targets []string
	owner := map[string]Theme{}
	for _, t := range All() {
		for _, s := range []string{t.ID, t.Style} {
			targets = append(targets, s)
			owner[s] = t
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(in, targets)
	if len(ranks) == 0 {
		return Theme{}, false
	}
	sort.Sort(ranks)
	return owner[ranks[0].Target], true
}
