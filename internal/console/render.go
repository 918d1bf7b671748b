// Package console renders cards, themes and art versions for the terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	colorize "github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"mtgfactory/internal/card"
	"mtgfactory/internal/theme"
)

const (
	defaultWidth  = 80
	maxTableWidth = 100
)

// Renderer writes styled output to one writer
type Renderer struct {
	out     io.Writer
	width   int
	colored bool
	lg      *lipgloss.Renderer
}

// NewRenderer creates a renderer. width 0 detects the terminal width and
// falls back to 80 columns. Color is only used on a terminal.
func NewRenderer(out io.Writer, width int, noColor bool) *Renderer {
	if width <= 0 {
		width = TerminalWidth(out)
	}
	r := &Renderer{
		out:     out,
		width:   width,
		colored: !noColor && IsTerminal(out),
		lg:      lipgloss.NewRenderer(out),
	}
	if !r.colored {
		r.lg.SetColorProfile(termenv.Ascii)
	}
	return r
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the column count of w, or 80
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// Width is the width tables are fitted to
func (r *Renderer) Width() int {
	if r.width > maxTableWidth {
		return maxTableWidth
	}
	return r.width
}

func (r *Renderer) heading(attrs ...colorize.Attribute) *colorize.Color {
	c := colorize.New(attrs...)
	if r.colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Banner prints the application title
func (r *Renderer) Banner() {
	r.heading(colorize.FgYellow, colorize.Bold).Fprintln(r.out, "MTG Card Factory")
	r.heading(colorize.FgHiBlack).Fprintln(r.out, strings.Repeat("─", min(r.Width(), 40)))
}

// Rule prints a themed section title, e.g. "RED DECK FACTORY"
func (r *Renderer) Rule(t theme.Theme, title string) {
	style := r.lg.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Color))
	fmt.Fprintln(r.out, style.Render(title))
}

// Info prints a dim line
func (r *Renderer) Info(format string, args ...any) {
	r.heading(colorize.FgHiBlack).Fprintf(r.out, format+"\n", args...)
}

// Warn prints a highlighted line
func (r *Renderer) Warn(format string, args ...any) {
	r.heading(colorize.FgRed).Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) propertyTable(t theme.Theme, title string, rows [][]string) {
	border := r.lg.NewStyle().Foreground(lipgloss.Color(t.Color))
	key := r.lg.NewStyle().Bold(true)
	header := r.lg.NewStyle().Foreground(lipgloss.Color("245"))
	value := r.lg.NewStyle()

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(border).
		Headers("Property", "Value").
		Rows(rows...).
		Width(r.Width()).
		Wrap(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return key
			default:
				return value
			}
		})

	fmt.Fprintln(r.out, r.lg.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Color)).Render(title))
	fmt.Fprintln(r.out, tbl.Render())
}

// Creature prints a creature view as a table
func (r *Renderer) Creature(t theme.Theme, c theme.Creature) {
	r.propertyTable(t, "CREATURE", [][]string{
		{"Name", c.Name},
		{"Mana Cost", c.ManaCost},
		{"Power/Toughness", c.PowerToughness},
		{"Keywords", c.Keywords},
		{"Text", c.Text},
	})
}

// Spell prints a spell view as a table
func (r *Renderer) Spell(t theme.Theme, s theme.Spell) {
	r.propertyTable(t, "SPELL", [][]string{
		{"Name", s.Name},
		{"Mana Cost", s.ManaCost},
		{"Type", s.Keywords},
		{"Text", s.Text},
	})
}

// Card prints a raw card record
func (r *Renderer) Card(c card.Card) {
	rows := [][]string{
		{"Name", c.Name},
		{"Mana Cost", c.ManaCost},
		{"Type", c.TypeLine},
	}
	if c.HasStats() {
		rows = append(rows, []string{"Power/Toughness", c.PowerToughness()})
	}
	if len(c.Colors) > 0 {
		rows = append(rows, []string{"Colors", c.ColorString()})
	}
	rows = append(rows, []string{"Text", c.OracleText}, []string{"Image", c.ImageURL})
	r.propertyTable(neutral, "CARD", rows)
}

// ArtVersions prints one row per print
func (r *Renderer) ArtVersions(cardName string, versions []card.ArtVersion) {
	if len(versions) == 0 {
		r.Info("No art versions found for %s", cardName)
		return
	}

	rows := make([][]string, 0, len(versions))
	for _, v := range versions {
		rows = append(rows, []string{
			strings.ToUpper(v.SetCode),
			orUnknown(v.SetName, "Unknown Set"),
			v.CollectorNumber,
			orUnknown(v.Artist, "Unknown Artist"),
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.lg.NewStyle().Foreground(lipgloss.Color(neutral.Color))).
		Headers("Set", "Set Name", "#", "Artist").
		Rows(rows...)

	r.heading(colorize.FgCyan).Fprintf(r.out, "%s: %d unique art versions\n", cardName, len(versions))
	fmt.Fprintln(r.out, tbl.Render())
}

// Themes lists the available themes
func (r *Renderer) Themes(themes []theme.Theme) {
	for _, t := range themes {
		name := r.lg.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Color)).Render(t.Label())
		fmt.Fprintf(r.out, "%-6s %s\n", t.ID, name)
		fmt.Fprintf(r.out, "       %s\n", t.Description)
		fmt.Fprintf(r.out, "       defaults: %s, %s\n", t.DefaultCreature, t.DefaultSpell)
	}
}

var neutral = theme.Theme{Color: "245"}

func orUnknown(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
