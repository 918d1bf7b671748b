package handlers

import (
	"io/fs"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mtgfactory/internal/config"
	localMiddleware "mtgfactory/internal/middleware"
)

// RouterOptions allows customization of router setup for tests
type RouterOptions struct {
	DisableRateLimiting  bool
	DisableRequestLogger bool
	CustomMiddleware     []func(http.Handler) http.Handler
	StaticFS             fs.FS  // takes precedence over StaticDir
	StaticDir            string // defaults to "static"

	// RateLimiter is used instead of a fresh one so callers can evict idle
	// clients
	RateLimiter *localMiddleware.RateLimiter
}

// SetupRouter creates the application router with all routes and middleware
func SetupRouter(h *Handler, cfg *config.AppConfig, opts *RouterOptions) *chi.Mux {
	if opts == nil {
		opts = &RouterOptions{}
	}

	static := opts.StaticFS
	if static == nil {
		dir := opts.StaticDir
		if dir == "" {
			dir = "static"
		}
		static = os.DirFS(dir)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if !opts.DisableRequestLogger {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Use(localMiddleware.RequestSizeLimiter(cfg.Server.MaxRequestSize))
	r.Use(localMiddleware.SecurityHeaders())
	r.Use(localMiddleware.CORS(cfg.Server.AllowedOrigins))

	// rateLimit 0 disables limiting
	if !opts.DisableRateLimiting && cfg.Server.RateLimit > 0 {
		limiter := opts.RateLimiter
		if limiter == nil {
			limiter = localMiddleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst)
		}
		r.Use(limiter.Middleware())
	}

	for _, mw := range opts.CustomMiddleware {
		r.Use(mw)
	}

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Health check endpoints
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Regular requests get the short timeout
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

		r.Get("/", h.Home)
		r.Get("/deck/{color}", h.DeckPage)
		r.Get("/qr", h.QRCode)

		r.Get("/api/decks", h.ListThemes)
		r.Get("/api/decks/{color}", h.GetDeck)
		r.Get("/api/decks/{color}/export.csv", h.ExportDeck)
		r.Delete("/api/decks/{color}/entries/{id}", h.RemoveEntry)
	})

	// Anything that may follow paginated art searches gets the long timeout
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Server.SSETimeout))

		r.Post("/api/cards/creature", h.CreateCreature)
		r.Post("/api/cards/spell", h.CreateSpell)
		r.Get("/api/cards/search", h.SearchCard)
		r.Get("/api/cards/art", h.ArtVersions)
		r.Post("/api/decks/{color}/entries", h.AddEntry)

		r.Post("/ui/lookup", ValidateSignals(h.Lookup))
		r.Post("/ui/deck/{color}/add", ValidateSignals(h.AddToDeck))
		r.Post("/ui/deck/{color}/entries/{id}/versions", ValidateSignals(h.EntryVersions))
		r.Post("/ui/deck/{color}/entries/{id}/art", ValidateSignals(h.SelectEntryArt))
		r.Post("/ui/deck/{color}/entries/{id}/remove", ValidateSignals(h.RemoveFromDeck))
	})

	return r
}
