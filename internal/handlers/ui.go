package handlers

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"mtgfactory/internal/deck"
	"mtgfactory/internal/theme"
	"mtgfactory/internal/views/pages"
)

// factorySignals are the datastar signals sent by the factory page
type factorySignals struct {
	Theme       string `json:"theme"`
	CardName    string `json:"cardName"`
	CardKind    string `json:"cardKind"`
	ResultName  string `json:"resultName"`
	ArtImageURL string `json:"artImageUrl"`
}

// cardName prefers the canonical name of the last result over what was typed
func (s factorySignals) cardName() string {
	if name := strings.TrimSpace(s.ResultName); name != "" {
		return name
	}
	return strings.TrimSpace(s.CardName)
}

func (s factorySignals) kind() (deck.Kind, error) {
	if strings.TrimSpace(s.CardKind) == "" {
		return deck.KindCreature, nil
	}
	return deck.ParseKind(s.CardKind)
}

func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// patch renders c and sends it as an element patch targeting #id
func patch(ctx context.Context, sse *datastar.ServerSentEventGenerator, id string, c templ.Component) error {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return err
	}
	return sse.PatchElements(buf.String(), datastar.WithSelector("#"+id))
}

// Home renders the factory page
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	set := h.decks(w, r)
	active := theme.Red
	if t, ok := theme.Match(r.URL.Query().Get("theme")); ok {
		active = t
	}

	render(w, r, pages.HomePage(pages.HomeData{
		Themes: theme.All(),
		Active: active,
		Decks:  []pages.DeckData{pages.Snapshot(set.Red), pages.Snapshot(set.Blue)},
	}))
}

// DeckPage renders one deck
func (h *Handler) DeckPage(w http.ResponseWriter, r *http.Request) {
	d, err := h.deckFor(w, r)
	if err != nil {
		http.Error(w, unknownColor(chi.URLParam(r, "color")), http.StatusNotFound)
		return
	}
	render(w, r, pages.DeckPage(pages.Snapshot(d)))
}

// Lookup resolves the typed card name, patches the card view and then the
// art picker. Art lookups never produce an error banner.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	var signals factorySignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Invalid signals", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	sse := datastar.NewSSE(w, r)

	t, err := theme.ByID(signals.Theme)
	if err != nil {
		h.showError(ctx, sse, deckMessage(err))
		return
	}
	kind, err := signals.kind()
	if err != nil {
		h.showError(ctx, sse, deckMessage(err))
		return
	}

	name := strings.TrimSpace(signals.CardName)
	c, err := h.lookup.LookupCard(ctx, name)
	if err != nil {
		h.logger.Printf("🔍 UI lookup %q failed: %v", name, err)
		h.showError(ctx, sse, lookupMessage(name, err))
		_ = patch(ctx, sse, pages.ResultID, emptyResult)
		_ = patch(ctx, sse, pages.ArtPickerID, pages.ArtPicker("", nil))
		_ = sse.MarshalAndPatchSignals(map[string]any{"resultName": "", "artImageUrl": ""})
		return
	}

	view := pages.CreatureView(theme.NewCreature(t, c))
	if kind == deck.KindSpell {
		view = pages.SpellView(theme.NewSpell(t, c))
	}
	if err := patch(ctx, sse, pages.ErrorID, pages.ErrorBanner("")); err != nil {
		h.logger.Printf("❌ Failed to clear error banner: %v", err)
		return
	}
	if err := patch(ctx, sse, pages.ResultID, pages.CardResult(t, view)); err != nil {
		h.logger.Printf("❌ Failed to patch card result: %v", err)
		return
	}
	if err := sse.MarshalAndPatchSignals(map[string]any{"resultName": c.Name, "artImageUrl": ""}); err != nil {
		h.logger.Printf("❌ Failed to patch signals: %v", err)
		return
	}

	versions := h.lookup.LookupArtVersions(ctx, c.Name)
	if err := patch(ctx, sse, pages.ArtPickerID, pages.ArtPicker(c.Name, versions)); err != nil {
		h.logger.Printf("❌ Failed to patch art picker: %v", err)
	}
}

var emptyResult = templ.Raw(`<div id="` + pages.ResultID + `"></div>`)

func (h *Handler) showError(ctx context.Context, sse *datastar.ServerSentEventGenerator, msg string) {
	if err := patch(ctx, sse, pages.ErrorID, pages.ErrorBanner(msg)); err != nil {
		h.logger.Printf("❌ Failed to patch error banner: %v", err)
	}
}

// refreshDeck clears the error banner and re-renders the deck panel
func (h *Handler) refreshDeck(ctx context.Context, sse *datastar.ServerSentEventGenerator, d *deck.Deck) {
	if err := patch(ctx, sse, pages.ErrorID, pages.ErrorBanner("")); err != nil {
		h.logger.Printf("❌ Failed to clear error banner: %v", err)
		return
	}
	if err := patch(ctx, sse, pages.DeckPanelID(d.Theme().ID), pages.DeckPanel(pages.Snapshot(d))); err != nil {
		h.logger.Printf("❌ Failed to patch deck panel: %v", err)
	}
}

// AddToDeck adds the last looked-up card to the deck in the URL, with the
// picked art when one was chosen
func (h *Handler) AddToDeck(w http.ResponseWriter, r *http.Request) {
	var signals factorySignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Invalid signals", http.StatusBadRequest)
		return
	}
	d, err := h.deckFor(w, r)
	if err != nil {
		http.Error(w, unknownColor(chi.URLParam(r, "color")), http.StatusNotFound)
		return
	}

	ctx := r.Context()
	sse := datastar.NewSSE(w, r)

	kind, err := signals.kind()
	if err != nil {
		h.showError(ctx, sse, deckMessage(err))
		return
	}
	if !validImageURL(signals.ArtImageURL) {
		h.showError(ctx, sse, "Pick one of the listed art versions")
		return
	}

	name := signals.cardName()
	c, err := h.lookup.LookupCard(ctx, name)
	if err != nil {
		h.showError(ctx, sse, lookupMessage(name, err))
		return
	}

	e, err := d.Add(kind, c)
	if err != nil {
		h.showError(ctx, sse, deckMessage(err))
		return
	}
	if signals.ArtImageURL != "" {
		if _, err := d.SelectArt(e.ID, signals.ArtImageURL); err != nil {
			h.showError(ctx, sse, deckMessage(err))
			return
		}
	}
	h.logger.Printf("🃏 Added %s %q to %s deck", kind, c.Name, d.Theme().ID)
	h.refreshDeck(ctx, sse, d)
}

// EntryVersions patches the art choices of one deck entry
func (h *Handler) EntryVersions(w http.ResponseWriter, r *http.Request) {
	d, e, ok := h.entry(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	versions := h.lookup.LookupArtVersions(ctx, e.Card.Name)
	sse := datastar.NewSSE(w, r)
	if err := patch(ctx, sse, pages.EntryArtID(e.ID), pages.EntryArtOptions(d.Theme().ID, e, versions)); err != nil {
		h.logger.Printf("❌ Failed to patch art options: %v", err)
	}
}

// SelectEntryArt sets the art override of one deck entry from the
// artImageUrl signal
func (h *Handler) SelectEntryArt(w http.ResponseWriter, r *http.Request) {
	var signals factorySignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Invalid signals", http.StatusBadRequest)
		return
	}
	d, e, ok := h.entry(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	sse := datastar.NewSSE(w, r)
	if !validImageURL(signals.ArtImageURL) {
		h.showError(ctx, sse, "Pick one of the listed art versions")
		return
	}
	if _, err := d.SelectArt(e.ID, signals.ArtImageURL); err != nil {
		h.showError(ctx, sse, deckMessage(err))
		return
	}
	h.refreshDeck(ctx, sse, d)
}

// RemoveFromDeck removes one entry and re-renders the deck
func (h *Handler) RemoveFromDeck(w http.ResponseWriter, r *http.Request) {
	d, err := h.deckFor(w, r)
	if err != nil {
		http.Error(w, unknownColor(chi.URLParam(r, "color")), http.StatusNotFound)
		return
	}

	ctx := r.Context()
	sse := datastar.NewSSE(w, r)
	if err := d.Remove(chi.URLParam(r, "id")); err != nil {
		h.showError(ctx, sse, deckMessage(err))
		return
	}
	h.refreshDeck(ctx, sse, d)
}

// entry resolves {color} and {id}, writing a 404 when either is unknown
func (h *Handler) entry(w http.ResponseWriter, r *http.Request) (*deck.Deck, deck.Entry, bool) {
	d, err := h.deckFor(w, r)
	if err != nil {
		http.Error(w, unknownColor(chi.URLParam(r, "color")), http.StatusNotFound)
		return nil, deck.Entry{}, false
	}
	e, ok := d.Entry(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Entry not found", http.StatusNotFound)
		return nil, deck.Entry{}, false
	}
	return d, e, true
}
