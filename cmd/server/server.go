package main

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"mtgfactory/internal/config"
	"mtgfactory/internal/handlers"
	localMiddleware "mtgfactory/internal/middleware"
	"mtgfactory/internal/scryfall"
	"mtgfactory/internal/store"
	"mtgfactory/internal/theme"
)

// App is the wired server: router, session store and maintenance jobs
type App struct {
	Handler http.Handler
	Store   *store.MemoryStore
	Limiter *localMiddleware.RateLimiter

	cfg    *config.AppConfig
	logger *log.Logger
	cron   *cron.Cron
}

// NewApp wires the application. A nil lookup uses the Scryfall client built
// from cfg.
func NewApp(cfg *config.AppConfig, lookup theme.CardLookup, static fs.FS, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	if lookup == nil {
		lookup = scryfall.New(cfg.Scryfall.ClientConfig(logger))
	}

	s := store.NewMemoryStore(cfg.Deck.MaxEntries, cfg.Server.SessionTimeout)
	limiter := localMiddleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst)
	h := handlers.New(lookup, s, cfg, logger)

	app := &App{
		Handler: handlers.SetupRouter(h, cfg, &handlers.RouterOptions{
			StaticFS:    static,
			RateLimiter: limiter,
		}),
		Store:   s,
		Limiter: limiter,
		cfg:     cfg,
		logger:  logger,
		cron:    cron.New(),
	}

	schedule := fmt.Sprintf("@every %s", cfg.Server.SweepInterval)
	if _, err := app.cron.AddFunc(schedule, app.sweep); err != nil {
		return nil, fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	return app, nil
}

// sweep drops idle sessions and forgets idle rate-limit clients
func (a *App) sweep() {
	sessions := a.Store.Sweep(time.Now())
	clients := a.Limiter.Evict(a.cfg.Server.SweepInterval)
	if sessions > 0 || clients > 0 {
		a.logger.Printf("🧹 Swept %d idle sessions and %d idle clients", sessions, clients)
	}
}

// StartMaintenance starts the background jobs
func (a *App) StartMaintenance() {
	a.cron.Start()
}

// StopMaintenance stops the background jobs and waits for a running one
func (a *App) StopMaintenance() {
	<-a.cron.Stop().Done()
}

// NewHTTPServer builds the http.Server for the app
func (a *App) NewHTTPServer() *http.Server {
	return &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      a.Handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}
}
