package pages

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"mtgfactory/internal/theme"
)

// HomeData feeds the factory page
type HomeData struct {
	Themes []theme.Theme
	Active theme.Theme
	Decks  []DeckData
}

// Signals the factory page sends with each action
const homeSignals = `{theme: %s, cardName: '', cardKind: 'creature', resultName: '', artImageUrl: ''}`

// Home is the factory page body: theme choice, lookup form, results and decks
func Home(data HomeData) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.open("div", "class", "container", "data-signals", fmt.Sprintf(homeSignals, jsString(data.Active.ID)))

		m.open("header", "class", "site-header")
		m.element("h1", "MTG Card Factory")
		m.element("p", "Look up cards, pick their art and build themed decks.", "class", "tagline")
		m.close("header")

		m.open("div", "class", "theme-picker", "role", "radiogroup")
		for _, t := range data.Themes {
			m.open("button", "type", "button", "class", "theme-option",
				"style", "--theme-color: "+t.Color,
				"data-on-click", "$theme = "+jsString(t.ID),
				"data-class-active", "$theme == "+jsString(t.ID),
			)
			m.element("strong", t.Name)
			m.element("span", t.Style)
			m.element("small", fmt.Sprintf("Try %s or %s", t.DefaultCreature, t.DefaultSpell))
			m.close("button")
		}
		m.close("div")

		m.open("form", "class", "lookup-form", "data-on-submit", "@post('/ui/lookup')")
		m.open("input", "type", "text", "id", "cardName", "name", "cardName",
			"placeholder", "Enter a card name", "autocomplete", "off", "data-bind-card-name", "")
		m.open("select", "id", "cardKind", "data-bind-card-kind", "")
		m.element("option", "Creature", "value", "creature")
		m.element("option", "Spell", "value", "spell")
		m.close("select")
		m.element("button", "Look up", "type", "submit", "class", "btn btn-primary")
		m.close("form")

		m.render(ctx, ErrorBanner(""))
		m.open("div", "id", ResultID)
		m.close("div")
		m.render(ctx, ArtPicker("", nil))

		m.open("div", "class", "decks")
		for _, d := range data.Decks {
			m.render(ctx, DeckPanel(d))
		}
		m.close("div")
		m.close("div")
	})
}

// HomePage is Home inside the base layout
func HomePage(data HomeData) templ.Component {
	return page("MTG Card Factory", Home(data))
}
