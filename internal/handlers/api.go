package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"mtgfactory/internal/card"
	"mtgfactory/internal/deck"
	"mtgfactory/internal/theme"
)

type themeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListThemes returns the available deck themes
func (h *Handler) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes := theme.All()
	resp := make([]themeResponse, 0, len(themes))
	for _, t := range themes {
		resp = append(resp, themeResponse{ID: t.ID, Name: t.Name, Description: t.Style})
	}
	writeJSON(w, http.StatusOK, resp)
}

type cardRequest struct {
	DeckColor string `json:"deckColor"`
	CardName  string `json:"cardName"`
}

type creatureResponse struct {
	Name           string `json:"name"`
	ManaCost       string `json:"manaCost"`
	PowerToughness string `json:"powerToughness"`
	Keywords       string `json:"keywords"`
	Text           string `json:"text"`
	DeckColor      string `json:"deckColor"`
	ImageURL       string `json:"imageUrl"`
}

type spellResponse struct {
	Name      string `json:"name"`
	ManaCost  string `json:"manaCost"`
	Type      string `json:"type"`
	Keywords  string `json:"keywords"`
	Text      string `json:"text"`
	DeckColor string `json:"deckColor"`
	ImageURL  string `json:"imageUrl"`
}

// readCardRequest decodes and checks a creature or spell request, writing
// the 400 response itself when the request is unusable
func readCardRequest(w http.ResponseWriter, r *http.Request) (theme.Theme, string, bool) {
	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return theme.Theme{}, "", false
	}
	t, err := theme.ByID(req.DeckColor)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%s", unknownColor(req.DeckColor))
		return theme.Theme{}, "", false
	}
	name := strings.TrimSpace(req.CardName)
	if name == "" {
		writeError(w, http.StatusBadRequest, "cardName is required")
		return theme.Theme{}, "", false
	}
	return t, name, true
}

// CreateCreature looks a card up and returns its creature view
func (h *Handler) CreateCreature(w http.ResponseWriter, r *http.Request) {
	t, name, ok := readCardRequest(w, r)
	if !ok {
		return
	}

	c, err := h.factory.Creature(r.Context(), t, name)
	if err != nil {
		h.logger.Printf("🔍 Creature lookup %q failed: %v", name, err)
		writeError(w, lookupStatus(err), "%s", lookupMessage(name, err))
		return
	}

	writeJSON(w, http.StatusOK, creatureResponse{
		Name:           c.Name,
		ManaCost:       c.ManaCost,
		PowerToughness: c.PowerToughness,
		Keywords:       c.Keywords,
		Text:           c.Text,
		DeckColor:      c.DeckColor,
		ImageURL:       c.ImageURL,
	})
}

// CreateSpell looks a card up and returns its spell view
func (h *Handler) CreateSpell(w http.ResponseWriter, r *http.Request) {
	t, name, ok := readCardRequest(w, r)
	if !ok {
		return
	}

	s, err := h.factory.Spell(r.Context(), t, name)
	if err != nil {
		h.logger.Printf("🔍 Spell lookup %q failed: %v", name, err)
		writeError(w, lookupStatus(err), "%s", lookupMessage(name, err))
		return
	}

	writeJSON(w, http.StatusOK, spellResponse{
		Name:      s.Name,
		ManaCost:  s.ManaCost,
		Type:      s.Type,
		Keywords:  s.Keywords,
		Text:      s.Text,
		DeckColor: s.DeckColor,
		ImageURL:  s.ImageURL,
	})
}

type cardResponse struct {
	Name      string   `json:"name"`
	ManaCost  string   `json:"manaCost"`
	Type      string   `json:"type"`
	Text      string   `json:"text"`
	Power     string   `json:"power,omitempty"`
	Toughness string   `json:"toughness,omitempty"`
	Colors    []string `json:"colors"`
	ImageURL  string   `json:"imageUrl"`
}

func newCardResponse(c card.Card) cardResponse {
	colors := c.Colors
	if colors == nil {
		colors = []string{}
	}
	return cardResponse{
		Name:      c.Name,
		ManaCost:  c.ManaCost,
		Type:      c.TypeLine,
		Text:      c.OracleText,
		Power:     c.Power,
		Toughness: c.Toughness,
		Colors:    colors,
		ImageURL:  c.ImageURL,
	}
}

// cardNameParam reads the cardName query parameter, writing a 400 when blank
func cardNameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := strings.TrimSpace(r.URL.Query().Get("cardName"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "cardName query parameter is required")
		return "", false
	}
	return name, true
}

// SearchCard returns the raw card record for a fuzzy name
func (h *Handler) SearchCard(w http.ResponseWriter, r *http.Request) {
	name, ok := cardNameParam(w, r)
	if !ok {
		return
	}

	c, err := h.lookup.LookupCard(r.Context(), name)
	if err != nil {
		h.logger.Printf("🔍 Search %q failed: %v", name, err)
		writeError(w, lookupStatus(err), "%s", lookupMessage(name, err))
		return
	}
	writeJSON(w, http.StatusOK, newCardResponse(c))
}

type artVersionResponse struct {
	ImageURL        string `json:"imageUrl"`
	ArtCropURL      string `json:"artCropUrl"`
	SetName         string `json:"setName"`
	SetCode         string `json:"setCode"`
	CollectorNumber string `json:"collectorNumber"`
	Artist          string `json:"artist"`
}

type artResponse struct {
	CardName string               `json:"cardName"`
	TotalArt int                  `json:"totalArt"`
	Versions []artVersionResponse `json:"versions"`
}

func newArtResponse(name string, versions []card.ArtVersion) artResponse {
	resp := artResponse{
		CardName: name,
		TotalArt: len(versions),
		Versions: make([]artVersionResponse, 0, len(versions)),
	}
	for _, v := range versions {
		resp.Versions = append(resp.Versions, artVersionResponse{
			ImageURL:        v.ImageURL,
			ArtCropURL:      v.ArtCropURL,
			SetName:         orDefault(v.SetName, "Unknown Set"),
			SetCode:         v.SetCode,
			CollectorNumber: v.CollectorNumber,
			Artist:          orDefault(v.Artist, "Unknown Artist"),
		})
	}
	return resp
}

// ArtVersions lists every distinct art of a card. Failures yield an empty
// list, never an error status.
func (h *Handler) ArtVersions(w http.ResponseWriter, r *http.Request) {
	name, ok := cardNameParam(w, r)
	if !ok {
		return
	}
	versions := h.lookup.LookupArtVersions(r.Context(), name)
	writeJSON(w, http.StatusOK, newArtResponse(name, versions))
}

type countsResponse struct {
	Creatures int `json:"creatures"`
	Spells    int `json:"spells"`
	Total     int `json:"total"`
}

type entryResponse struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Name     string    `json:"name"`
	ManaCost string    `json:"manaCost"`
	TypeLine string    `json:"typeLine"`
	ImageURL string    `json:"imageUrl"`
	AddedAt  time.Time `json:"addedAt"`
}

type deckResponse struct {
	Color      string          `json:"color"`
	Name       string          `json:"name"`
	MaxEntries int             `json:"maxEntries"`
	Counts     countsResponse  `json:"counts"`
	Entries    []entryResponse `json:"entries"`
}

func newEntryResponse(e deck.Entry) entryResponse {
	return entryResponse{
		ID:       e.ID,
		Kind:     string(e.Kind),
		Name:     e.Card.Name,
		ManaCost: e.Card.ManaCost,
		TypeLine: e.Card.TypeLine,
		ImageURL: e.DisplayImage(),
		AddedAt:  e.AddedAt,
	}
}

func newDeckResponse(d *deck.Deck) deckResponse {
	entries := d.Entries()
	counts := d.Counts()
	resp := deckResponse{
		Color:      d.Theme().ID,
		Name:       d.Theme().Name,
		MaxEntries: d.MaxEntries(),
		Counts:     countsResponse{Creatures: counts.Creatures, Spells: counts.Spells, Total: counts.Total},
		Entries:    make([]entryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, newEntryResponse(e))
	}
	return resp
}

// GetDeck returns the caller's deck for a color
func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	d, err := h.deckFor(w, r)
	if err != nil {
		writeError(w, http.StatusNotFound, "%s", unknownColor(chi.URLParam(r, "color")))
		return
	}
	writeJSON(w, http.StatusOK, newDeckResponse(d))
}

type addEntryRequest struct {
	CardName    string `json:"cardName"`
	Kind        string `json:"kind"`
	ArtImageURL string `json:"artImageUrl"`
}

// AddEntry looks a card up and appends it to the caller's deck
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	d, err := h.deckFor(w, r)
	if err != nil {
		writeError(w, http.StatusNotFound, "%s", unknownColor(chi.URLParam(r, "color")))
		return
	}

	var req addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	kind, err := deck.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%s", deckMessage(err))
		return
	}
	if !validImageURL(req.ArtImageURL) {
		writeError(w, http.StatusBadRequest, "artImageUrl must be an http(s) URL")
		return
	}

	c, err := h.lookup.LookupCard(r.Context(), req.CardName)
	if err != nil {
		writeError(w, lookupStatus(err), "%s", lookupMessage(req.CardName, err))
		return
	}

	e, err := d.Add(kind, c)
	if err != nil {
		writeError(w, deckStatus(err), "%s", deckMessage(err))
		return
	}
	if req.ArtImageURL != "" {
		if e, err = d.SelectArt(e.ID, req.ArtImageURL); err != nil {
			writeError(w, deckStatus(err), "%s", deckMessage(err))
			return
		}
	}
	h.logger.Printf("🃏 Added %s %q to %s deck", kind, c.Name, d.Theme().ID)
	writeJSON(w, http.StatusCreated, newEntryResponse(e))
}

// RemoveEntry deletes an entry from the caller's deck
func (h *Handler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	d, err := h.deckFor(w, r)
	if err != nil {
		writeError(w, http.StatusNotFound, "%s", unknownColor(chi.URLParam(r, "color")))
		return
	}
	if err := d.Remove(chi.URLParam(r, "id")); err != nil {
		writeError(w, deckStatus(err), "%s", deckMessage(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportDeck streams the caller's deck as CSV
func (h *Handler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	d, err := h.deckFor(w, r)
	if err != nil {
		writeError(w, http.StatusNotFound, "%s", unknownColor(chi.URLParam(r, "color")))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-deck.csv"`, d.Theme().ID))
	if err := deck.WriteCSV(w, d); err != nil {
		h.logger.Printf("❌ CSV export of %s deck failed: %v", d.Theme().ID, err)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
