// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// Config is the path to the Config file.
	Config string

	// JWTSecret is the HMAC key used to verify bearer tokens.
	JWTSecret string

	// RedisAddr enables the read cache when non-empty.
	RedisAddr string

	// CacheTTL bounds how long a cached record lives.
	CacheTTL time.Duration

	// EventsURL is the gocloud pubsub topic URL for record events.
	EventsURL string

	// EnrichTimeout is the time budget for fetching a bookmark title.
	EnrichTimeout time.Duration

	// LogLevel is the zap level name.
	LogLevel string

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration
}

// fileOptions mirrors Options as it appears in the JSON config file.
// Durations are Go duration strings.
type fileOptions struct {
	Port            string `json:"address"`
	DatabaseDSN     string `json:"database_dsn"`
	JWTSecret       string `json:"jwt_secret"`
	RedisAddr       string `json:"redis_addr"`
	CacheTTL        string `json:"cache_ttl"`
	EventsURL       string `json:"events_url"`
	EnrichTimeout   string `json:"enrich_timeout"`
	LogLevel        string `json:"log_level"`
	ShutdownTimeout string `json:"shutdown_timeout"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	flag.StringVar(&options.JWTSecret, "jwt-secret", "", "HMAC secret for bearer tokens")
	flag.StringVar(&options.RedisAddr, "redis", "", "redis address for the read cache")
	flag.DurationVar(&options.CacheTTL, "cache-ttl", 5*time.Minute, "read cache TTL")
	flag.StringVar(&options.EventsURL, "events", "mem://records", "pubsub topic URL for record events")
	flag.DurationVar(&options.EnrichTimeout, "enrich-timeout", 5*time.Second, "bookmark title fetch timeout")
	flag.StringVar(&options.LogLevel, "log-level", "Info", "log level")
	flag.DurationVar(&options.ShutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := options.applyFile(data); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if err := options.applyEnv(os.Getenv); err != nil {
		log.Fatalf("error while reading environment: %v", err)
	}

	return options
}

// applyFile overlays the non-empty values of a JSON config document.
func (o *Options) applyFile(data []byte) error {
	var f fileOptions
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	setString(&o.Port, f.Port)
	setString(&o.DatabaseDSN, f.DatabaseDSN)
	setString(&o.JWTSecret, f.JWTSecret)
	setString(&o.RedisAddr, f.RedisAddr)
	setString(&o.EventsURL, f.EventsURL)
	setString(&o.LogLevel, f.LogLevel)

	if err := setDuration(&o.CacheTTL, "cache_ttl", f.CacheTTL); err != nil {
		return err
	}
	if err := setDuration(&o.EnrichTimeout, "enrich_timeout", f.EnrichTimeout); err != nil {
		return err
	}
	return setDuration(&o.ShutdownTimeout, "shutdown_timeout", f.ShutdownTimeout)
}

// applyEnv overlays the environment variables that are set.
func (o *Options) applyEnv(getenv func(string) string) error {
	setString(&o.Port, getenv("SERVER_ADDRESS"))
	setString(&o.DatabaseDSN, getenv("DATABASE_DSN"))
	setString(&o.JWTSecret, getenv("JWT_SECRET"))
	setString(&o.RedisAddr, getenv("REDIS_ADDR"))
	setString(&o.EventsURL, getenv("EVENTS_URL"))
	setString(&o.LogLevel, getenv("LOG_LEVEL"))

	if err := setDuration(&o.CacheTTL, "CACHE_TTL", getenv("CACHE_TTL")); err != nil {
		return err
	}
	if err := setDuration(&o.EnrichTimeout, "ENRICH_TIMEOUT", getenv("ENRICH_TIMEOUT")); err != nil {
		return err
	}
	return setDuration(&o.ShutdownTimeout, "SHUTDOWN_TIMEOUT", getenv("SHUTDOWN_TIMEOUT"))
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, name, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}
