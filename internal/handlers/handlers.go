package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"mtgfactory/internal/config"
	"mtgfactory/internal/deck"
	"mtgfactory/internal/scryfall"
	"mtgfactory/internal/store"
	"mtgfactory/internal/theme"
)

const sessionCookie = "mtgfactory_session"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	lookup  theme.CardLookup
	factory theme.Factory
	store   *store.MemoryStore
	cfg     *config.AppConfig
	logger  *log.Logger
}

// New creates a new handler. A nil logger uses the standard logger.
func New(lookup theme.CardLookup, s *store.MemoryStore, cfg *config.AppConfig, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		lookup:  lookup,
		factory: theme.Factory{Lookup: lookup},
		store:   s,
		cfg:     cfg,
		logger:  logger,
	}
}

// Store returns the handler's store (for testing)
func (h *Handler) Store() *store.MemoryStore {
	return h.store
}

// session returns the caller's session id, issuing a cookie when the request
// carries none or a malformed one
func (h *Handler) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && store.ValidSessionID(c.Value) {
		return c.Value
	}

	id := store.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cfg.Server.SessionTimeout / time.Second),
	})
	return id
}

func (h *Handler) decks(w http.ResponseWriter, r *http.Request) *deck.Set {
	return h.store.Decks(h.session(w, r))
}

// deckFor resolves the {color} URL parameter to the caller's deck
func (h *Handler) deckFor(w http.ResponseWriter, r *http.Request) (*deck.Deck, error) {
	t, err := theme.ByID(chi.URLParam(r, "color"))
	if err != nil {
		return nil, err
	}
	return h.decks(w, r).Deck(t.ID)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

func unknownColor(color string) string {
	return fmt.Sprintf("Unknown deck color: %s", color)
}

// lookupStatus maps a card lookup error to an HTTP status
func lookupStatus(err error) int {
	switch {
	case errors.Is(err, scryfall.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, scryfall.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// lookupMessage is the user-facing text for a card lookup error
func lookupMessage(name string, err error) string {
	switch {
	case errors.Is(err, scryfall.ErrInvalidQuery):
		return "Enter a card name"
	case errors.Is(err, scryfall.ErrNotFound):
		return fmt.Sprintf("Card not found: %s", name)
	default:
		return "Search failed, try again"
	}
}

// deckMessage is the user-facing text for a deck operation error
func deckMessage(err error) string {
	switch {
	case errors.Is(err, deck.ErrDeckFull):
		return "Deck is full"
	case errors.Is(err, deck.ErrEntryNotFound):
		return "That card is no longer in the deck"
	case errors.Is(err, deck.ErrInvalidKind):
		return "Choose creature or spell"
	case errors.Is(err, theme.ErrUnknownTheme):
		return "Unknown deck color"
	default:
		return err.Error()
	}
}

// deckStatus maps a deck operation error to an HTTP status
func deckStatus(err error) int {
	switch {
	case errors.Is(err, deck.ErrEntryNotFound), errors.Is(err, theme.ErrUnknownTheme):
		return http.StatusNotFound
	case errors.Is(err, deck.ErrDeckFull):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// validImageURL accepts an empty string or an absolute http(s) URL
func validImageURL(s string) bool {
	if s == "" {
		return true
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}
