package config

import (
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"gopkg.in/yaml.v3"

	"mtgfactory/internal/scryfall"
)

// This file defines the configuration structures used by viper_config.go
// The actual loading is handled by viper in viper_config.go

// AppConfig is the configuration shared by the server and the CLI
type AppConfig struct {
	Server   ServerSettings   `yaml:"server"`
	Scryfall ScryfallSettings `yaml:"scryfall"`
	Deck     DeckSettings     `yaml:"deck"`
	CLI      CLISettings      `yaml:"cli"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"` // middleware timeout for regular requests
	SSETimeout      time.Duration `yaml:"sseTimeout"`     // lookups stream art pages, so they get longer

	// Per-client rate limiting (golang.org/x/time/rate)
	RateLimit      float64 `yaml:"rateLimit"`
	RateLimitBurst int     `yaml:"rateLimitBurst"`

	MaxRequestSize int64    `yaml:"maxRequestSize"`
	AllowedOrigins []string `yaml:"allowedOrigins"`

	// Sessions idle longer than SessionTimeout lose their decks
	SessionTimeout time.Duration `yaml:"sessionTimeout"`
	SweepInterval  time.Duration `yaml:"sweepInterval"`

	LogLevel string `yaml:"logLevel"`
}

// ScryfallSettings configures the card provider client
type ScryfallSettings struct {
	BaseURL           string        `yaml:"baseURL"`
	UserAgent         string        `yaml:"userAgent"`
	Timeout           time.Duration `yaml:"timeout"`
	PageDelay         time.Duration `yaml:"pageDelay"`
	MaxPages          int           `yaml:"maxPages"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Burst             int           `yaml:"burst"`
}

// DeckSettings limits the in-memory decks
type DeckSettings struct {
	MaxEntries int `yaml:"maxEntries"`
}

// CLISettings tunes the console front end
type CLISettings struct {
	NoColor bool `yaml:"noColor"`
	Width   int  `yaml:"width"` // 0 detects the terminal width
}

// DefaultConfig returns a default configuration
func DefaultConfig() *AppConfig {
	sc := scryfall.DefaultConfig()
	return &AppConfig{
		Server: ServerSettings{
			Port:            "8080",
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0, // datastar responses stream
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
			SSETimeout:      2 * time.Minute,

			RateLimit:      10,
			RateLimitBurst: 20,

			MaxRequestSize: 1048576, // 1MB
			AllowedOrigins: []string{"http://localhost:3000"},

			SessionTimeout: 24 * time.Hour,
			SweepInterval:  10 * time.Minute,

			LogLevel: "info",
		},
		Scryfall: ScryfallSettings{
			BaseURL:           sc.BaseURL,
			UserAgent:         sc.UserAgent,
			Timeout:           sc.Timeout,
			PageDelay:         sc.PageDelay,
			MaxPages:          sc.MaxPages,
			RequestsPerSecond: sc.RequestsPerSecond,
			Burst:             sc.Burst,
		},
		Deck: DeckSettings{
			MaxEntries: 60,
		},
	}
}

// Validate checks if the configuration is valid
func (c *AppConfig) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT environment variable must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HOST environment variable must be set")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rateLimit cannot be negative")
	}
	if c.Server.MaxRequestSize <= 0 {
		return fmt.Errorf("maxRequestSize must be positive")
	}

	u, err := url.Parse(c.Scryfall.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("scryfall baseURL %q is not an absolute URL", c.Scryfall.BaseURL)
	}
	if c.Scryfall.MaxPages < 1 {
		return fmt.Errorf("scryfall maxPages must be at least 1")
	}
	if c.Scryfall.RequestsPerSecond < 0 {
		return fmt.Errorf("scryfall requestsPerSecond cannot be negative")
	}
	if c.Deck.MaxEntries < 1 {
		return fmt.Errorf("deck maxEntries must be at least 1")
	}

	// Raise the page delay to the provider's floor
	if c.Scryfall.PageDelay < scryfall.MinPageDelay {
		c.Scryfall.PageDelay = scryfall.MinPageDelay
	}
	if c.Server.SweepInterval <= 0 {
		c.Server.SweepInterval = 10 * time.Minute
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = 30 * time.Second
	}
	if c.Server.SSETimeout < c.Server.RequestTimeout {
		c.Server.SSETimeout = c.Server.RequestTimeout
	}

	return nil
}

// ClientConfig converts the settings for scryfall.New
func (s ScryfallSettings) ClientConfig(logger *log.Logger) scryfall.Config {
	return scryfall.Config{
		BaseURL:           s.BaseURL,
		UserAgent:         s.UserAgent,
		Timeout:           s.Timeout,
		PageDelay:         s.PageDelay,
		MaxPages:          s.MaxPages,
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
		Logger:            logger,
	}
}

// Addr is host:port for http.Server
func (s ServerSettings) Addr() string {
	return s.Host + ":" + s.Port
}

// Dump writes the effective configuration as YAML
func Dump(w io.Writer, cfg *AppConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
