package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"mtgfactory/internal/card"
	"mtgfactory/internal/deck"
	"mtgfactory/internal/theme"
	"mtgfactory/internal/views/layouts"
)

// DeckData is a snapshot of one session deck
type DeckData struct {
	Theme      theme.Theme
	Entries    []deck.Entry
	Counts     deck.Counts
	MaxEntries int
}

// Snapshot copies what the views need out of a live deck
func Snapshot(d *deck.Deck) DeckData {
	return DeckData{
		Theme:      d.Theme(),
		Entries:    d.Entries(),
		Counts:     d.Counts(),
		MaxEntries: d.MaxEntries(),
	}
}

// DeckPanelID is the element id patched after a deck changes
func DeckPanelID(themeID string) string {
	return "deck-" + themeID
}

// EntryArtID is the element id holding an entry's art choices
func EntryArtID(entryID string) string {
	return "entry-" + entryID + "-art"
}

func entryURL(themeID, entryID, action string) string {
	return fmt.Sprintf("/ui/deck/%s/entries/%s/%s", themeID, entryID, action)
}

// DeckPanel renders a deck's entries with remove and art controls
func DeckPanel(d DeckData) templ.Component {
	return component(func(_ context.Context, m *markup) {
		t := d.Theme
		m.open("section", "id", DeckPanelID(t.ID), "class", "deck-panel", "style", "border-color: "+t.Color)
		m.open("header")
		m.element("h2", t.Label()+" Deck")
		m.element("p", fmt.Sprintf("%d/%d cards: %d creatures, %d spells",
			d.Counts.Total, d.MaxEntries, d.Counts.Creatures, d.Counts.Spells), "class", "deck-counts")
		m.close("header")

		if len(d.Entries) == 0 {
			m.element("p", "No cards yet.", "class", "muted")
		} else {
			m.open("ul", "class", "deck-entries")
			for _, e := range d.Entries {
				writeEntry(m, t, e)
			}
			m.close("ul")
		}

		m.open("footer")
		m.element("a", "Open deck", "href", "/deck/"+t.ID)
		m.raw(" ")
		m.element("a", "Export CSV", "href", "/api/decks/"+t.ID+"/export.csv", "download", "")
		m.close("footer")
		m.close("section")
	})
}

func writeEntry(m *markup, t theme.Theme, e deck.Entry) {
	m.open("li", "id", "entry-"+e.ID, "class", "deck-entry")
	if img := e.DisplayImage(); img != "" {
		m.open("img", "src", img, "alt", e.Card.Name, "class", "thumb", "loading", "lazy")
	}
	m.element("span", e.Card.Name, "class", "entry-name")
	m.element("span", string(e.Kind), "class", "entry-kind")
	m.element("button", "Change art", "type", "button", "class", "btn",
		"data-on-click", fmt.Sprintf("@post('%s')", entryURL(t.ID, e.ID, "versions")))
	m.element("button", "Remove", "type", "button", "class", "btn btn-danger",
		"data-on-click", fmt.Sprintf("@post('%s')", entryURL(t.ID, e.ID, "remove")))
	m.open("div", "id", EntryArtID(e.ID))
	m.close("div")
	m.close("li")
}

// EntryArtOptions renders the prints an entry can switch to. Picking one
// sets artImageUrl and posts it for the entry.
func EntryArtOptions(themeID string, e deck.Entry, versions []card.ArtVersion) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.open("div", "id", EntryArtID(e.ID), "class", "art-grid")
		if len(versions) == 0 {
			m.element("p", "No art versions found for "+e.Card.Name, "class", "muted")
		}
		for _, v := range versions {
			action := fmt.Sprintf("$artImageUrl = %s; @post('%s')", jsString(v.ImageURL), entryURL(themeID, e.ID, "art"))
			writeArtOption(m, v, action)
		}
		m.close("div")
	})
}

// DeckPage is the full page for one deck
func DeckPage(d DeckData) templ.Component {
	body := component(func(ctx context.Context, m *markup) {
		m.open("div", "class", "container", "data-signals", `{artImageUrl: ''}`)
		m.open("nav")
		m.element("a", "Back to factory", "href", "/")
		m.close("nav")
		m.render(ctx, ErrorBanner(""))
		m.render(ctx, DeckPanel(d))
		m.close("div")
	})
	return page(d.Theme.Label()+" Deck", body)
}

// page renders body inside the base layout
func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layouts.Base(title).Render(templ.WithChildren(ctx, body), w)
	})
}
