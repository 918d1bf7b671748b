package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"

	"mtgfactory/internal/card"
	"mtgfactory/internal/config"
	"mtgfactory/internal/scryfall"
	"mtgfactory/internal/store"
)

// fakeLookup serves cards from memory, keyed by lower-case name
type fakeLookup struct {
	mu      sync.Mutex
	cards   map[string]card.Card
	arts    map[string][]card.ArtVersion
	err     error
	queries []string
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		cards: map[string]card.Card{
			"goblin guide": {
				Name: "Goblin Guide", ManaCost: "{R}", TypeLine: "Creature — Goblin Scout",
				OracleText: "Haste\nWhenever Goblin Guide attacks, defending player reveals the top card of their library.",
				Power: "2", Toughness: "2", Colors: []string{"R"},
				ImageURL: "https://cards.example/goblin-guide.jpg",
			},
			"lightning bolt": {
				Name: "Lightning Bolt", ManaCost: "{R}", TypeLine: "Instant",
				OracleText: "Lightning Bolt deals 3 damage to any target.", Colors: []string{"R"},
				ImageURL: "https://cards.example/bolt.jpg",
			},
			"sol ring": {
				Name: "Sol Ring", ManaCost: "{1}", TypeLine: "Artifact",
				OracleText: "{T}: Add {C}{C}.", Colors: []string{},
			},
		},
		arts: map[string][]card.ArtVersion{
			"Lightning Bolt": {
				{ImageURL: "https://cards.example/bolt-m10.jpg", ArtCropURL: "https://cards.example/bolt-m10-crop.jpg",
					SetName: "Magic 2010", SetCode: "m10", CollectorNumber: "146", Artist: "Christopher Moeller"},
				{ImageURL: "https://cards.example/bolt-lea.jpg", SetCode: "lea", CollectorNumber: "161"},
			},
		},
	}
}

func (f *fakeLookup) LookupCard(_ context.Context, query string) (card.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)

	query = strings.TrimSpace(query)
	if query == "" {
		return card.Card{}, scryfall.ErrInvalidQuery
	}
	if f.err != nil {
		return card.Card{}, f.err
	}
	c, ok := f.cards[strings.ToLower(query)]
	if !ok {
		return card.Card{}, &scryfall.NotFoundError{Query: query}
	}
	return c, nil
}

func (f *fakeLookup) LookupArtVersions(_ context.Context, name string) []card.ArtVersion {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.arts[name]
}

func (f *fakeLookup) failWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// newTestHandler creates a handler with default test configuration
func newTestHandler() (*Handler, *fakeLookup) {
	return newTestHandlerWithConfig(config.DefaultConfig())
}

func newTestHandlerWithConfig(cfg *config.AppConfig) (*Handler, *fakeLookup) {
	lookup := newFakeLookup()
	s := store.NewMemoryStore(cfg.Deck.MaxEntries, cfg.Server.SessionTimeout)
	return New(lookup, s, cfg, log.New(io.Discard, "", 0)), lookup
}

func setupTestRouter(h *Handler) *chi.Mux {
	return SetupRouter(h, h.cfg, &RouterOptions{
		DisableRateLimiting:  true,
		DisableRequestLogger: true,
		StaticFS: fstest.MapFS{
			"css/app.css": &fstest.MapFile{Data: []byte("body { margin: 0; }")},
		},
	})
}

// client replays the session cookie between requests like a browser would
type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T, h http.Handler) *client {
	return &client{t: t, handler: h}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	if set := rec.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// datastar posts signals as a datastar action does
func (c *client) datastar(path, signals string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(signals))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	return c.do(req)
}
