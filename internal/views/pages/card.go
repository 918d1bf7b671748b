package pages

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"mtgfactory/internal/card"
	"mtgfactory/internal/deck"
	"mtgfactory/internal/theme"
)

// Element ids patched by the lookup endpoints
const (
	ResultID    = "result"
	ArtPickerID = "art-picker"
	ErrorID     = "error-container"
)

// CardView is the display form shared by creature and spell results
type CardView struct {
	Kind        deck.Kind
	Name        string
	ManaCost    string
	DetailLabel string
	Detail      string
	Keywords    string
	Text        string
	ImageURL    string
	Found       bool
}

func CreatureView(c theme.Creature) CardView {
	return CardView{
		Kind:        deck.KindCreature,
		Name:        c.Name,
		ManaCost:    c.ManaCost,
		DetailLabel: "Power/Toughness",
		Detail:      c.PowerToughness,
		Keywords:    c.Keywords,
		Text:        c.Text,
		ImageURL:    c.ImageURL,
		Found:       c.Found,
	}
}

func SpellView(s theme.Spell) CardView {
	return CardView{
		Kind:        deck.KindSpell,
		Name:        s.Name,
		ManaCost:    s.ManaCost,
		DetailLabel: "Type",
		Detail:      s.Type,
		Keywords:    s.Keywords,
		Text:        s.Text,
		ImageURL:    s.ImageURL,
		Found:       s.Found,
	}
}

// QRLink is the URL of a QR code pointing at target
func QRLink(target string) string {
	return "/qr?url=" + url.QueryEscape(target)
}

// CardResult renders a looked-up card inside #result, with an add button
// for the theme's deck when the card was found
func CardResult(t theme.Theme, v CardView) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.open("div", "id", ResultID, "class", "card-result theme-"+t.ID, "style", "border-color: "+t.Color)
		m.open("div", "class", "card-image")
		if v.ImageURL != "" {
			m.open("img", "src", v.ImageURL, "alt", v.Name, "loading", "lazy")
			m.open("img", "class", "qr", "src", QRLink(v.ImageURL), "alt", "QR code for "+v.Name, "width", "96", "height", "96")
		}
		m.close("div")

		m.open("div", "class", "card-details")
		m.element("h2", v.Name)
		m.element("span", t.Name+" deck", "class", "deck-badge", "style", "background: "+t.Color)
		m.open("dl")
		m.element("dt", "Mana Cost")
		m.open("dd")
		m.render(ctx, ManaCost(v.ManaCost))
		m.close("dd")
		m.element("dt", v.DetailLabel)
		m.element("dd", v.Detail)
		if v.Kind == deck.KindCreature {
			m.element("dt", "Keywords")
			m.element("dd", v.Keywords)
		}
		m.close("dl")
		m.render(ctx, CardText(v.Text))

		if v.Found {
			m.element("button", fmt.Sprintf("Add to %s deck", t.Name),
				"class", "btn btn-primary",
				"data-on-click", fmt.Sprintf("@post('/ui/deck/%s/add')", t.ID),
			)
		}
		m.close("div")
		m.close("div")
	})
}

// ManaCost renders a cost such as {2}{U}{U} as symbols
func ManaCost(cost string) templ.Component {
	return component(func(_ context.Context, m *markup) {
		lines := FormatCardText(cost)
		if len(lines) == 0 {
			return
		}
		m.open("span", "class", "mana-cost")
		for _, part := range lines[0].Parts {
			writeTextPart(m, part)
		}
		m.close("span")
	})
}

// ArtPicker renders one selectable tile per art version inside #art-picker.
// Picking a tile sets the artImageUrl signal used when adding to a deck.
func ArtPicker(cardName string, versions []card.ArtVersion) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.open("div", "id", ArtPickerID, "class", "art-picker")
		if len(versions) == 0 {
			if cardName != "" {
				m.element("p", "No art versions found for "+cardName, "class", "muted")
			}
			m.close("div")
			return
		}

		m.element("h3", fmt.Sprintf("%s: %d unique art versions", cardName, len(versions)))
		m.open("div", "class", "art-grid")
		for _, v := range versions {
			writeArtOption(m, v, "$artImageUrl = "+jsString(v.ImageURL))
		}
		m.close("div")
		m.close("div")
	})
}

func writeArtOption(m *markup, v card.ArtVersion, action string) {
	setName := v.SetName
	if setName == "" {
		setName = "Unknown Set"
	}
	artist := v.Artist
	if artist == "" {
		artist = "Unknown Artist"
	}
	thumb := v.ArtCropURL
	if thumb == "" {
		thumb = v.ImageURL
	}

	m.open("button", "type", "button", "class", "art-option",
		"data-on-click", action,
		"data-class-selected", "$artImageUrl == "+jsString(v.ImageURL),
		"title", fmt.Sprintf("%s (%s) #%s by %s", setName, strings.ToUpper(v.SetCode), v.CollectorNumber, artist),
	)
	m.open("img", "src", thumb, "alt", setName, "loading", "lazy")
	m.element("span", fmt.Sprintf("%s #%s", strings.ToUpper(v.SetCode), v.CollectorNumber), "class", "art-caption")
	m.close("button")
}

// ErrorBanner renders #error-container, empty when msg is empty
func ErrorBanner(msg string) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.open("div", "id", ErrorID)
		if msg != "" {
			m.element("div", msg, "class", "error", "role", "alert")
		}
		m.close("div")
	})
}
