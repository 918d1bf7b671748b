package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mtgfactory"
	"mtgfactory/internal/config"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Fatal("Failed to load .env: ", err)
	}

	// MTGFACTORY_CONFIG points at a YAML file; otherwise the search path is used
	cfg, err := config.LoadConfig(os.Getenv("MTGFACTORY_CONFIG"))
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	log.Printf("Loaded configuration: card provider %s, %d cards per deck", cfg.Scryfall.BaseURL, cfg.Deck.MaxEntries)

	app, err := NewApp(cfg, nil, mtgfactory.StaticFS(), log.Default())
	if err != nil {
		log.Fatal("Failed to set up server: ", err)
	}
	app.StartMaintenance()

	server := app.NewHTTPServer()

	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}
	app.StopMaintenance()

	log.Println("Server gracefully stopped")
}
