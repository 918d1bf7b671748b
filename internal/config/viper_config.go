package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment. Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadConfig loads configuration using Viper
// Priority order: Environment variables > Config file > Defaults
func LoadConfig(configPath string) (*AppConfig, error) {
	v := viper.New()

	v.SetConfigName("mtgfactory")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/mtgfactory")
	}

	// MTGFACTORY_SCRYFALL_MAXPAGES sets scryfall.maxpages
	v.SetEnvPrefix("MTGFACTORY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Short names used by container platforms
	v.BindEnv("server.port", "MTGFACTORY_SERVER_PORT", "PORT")
	v.BindEnv("server.host", "MTGFACTORY_SERVER_HOST", "HOST")
	v.BindEnv("server.loglevel", "MTGFACTORY_SERVER_LOGLEVEL", "LOG_LEVEL")
	v.BindEnv("scryfall.baseurl", "MTGFACTORY_SCRYFALL_BASEURL", "SCRYFALL_BASE_URL")
	v.BindEnv("scryfall.useragent", "MTGFACTORY_SCRYFALL_USERAGENT", "SCRYFALL_USER_AGENT")

	setDefaults(v, DefaultConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; continue with env vars and defaults
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it on Unmarshal
func setDefaults(v *viper.Viper, d *AppConfig) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.readtimeout", d.Server.ReadTimeout.String())
	v.SetDefault("server.writetimeout", d.Server.WriteTimeout.String())
	v.SetDefault("server.idletimeout", d.Server.IdleTimeout.String())
	v.SetDefault("server.shutdowntimeout", d.Server.ShutdownTimeout.String())
	v.SetDefault("server.requesttimeout", d.Server.RequestTimeout.String())
	v.SetDefault("server.ssetimeout", d.Server.SSETimeout.String())
	v.SetDefault("server.ratelimit", d.Server.RateLimit)
	v.SetDefault("server.ratelimitburst", d.Server.RateLimitBurst)
	v.SetDefault("server.maxrequestsize", d.Server.MaxRequestSize)
	v.SetDefault("server.allowedorigins", d.Server.AllowedOrigins)
	v.SetDefault("server.sessiontimeout", d.Server.SessionTimeout.String())
	v.SetDefault("server.sweepinterval", d.Server.SweepInterval.String())
	v.SetDefault("server.loglevel", d.Server.LogLevel)

	v.SetDefault("scryfall.baseurl", d.Scryfall.BaseURL)
	v.SetDefault("scryfall.useragent", d.Scryfall.UserAgent)
	v.SetDefault("scryfall.timeout", d.Scryfall.Timeout.String())
	v.SetDefault("scryfall.pagedelay", d.Scryfall.PageDelay.String())
	v.SetDefault("scryfall.maxpages", d.Scryfall.MaxPages)
	v.SetDefault("scryfall.requestspersecond", d.Scryfall.RequestsPerSecond)
	v.SetDefault("scryfall.burst", d.Scryfall.Burst)

	v.SetDefault("deck.maxentries", d.Deck.MaxEntries)

	v.SetDefault("cli.nocolor", d.CLI.NoColor)
	v.SetDefault("cli.width", d.CLI.Width)
}
