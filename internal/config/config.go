// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes the HTTP server,
// logging, seen-event store, provider and Discord clients, room directory, and
// observability settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/negan-1/lockme-discord-bot/internal/domain"
)

// Store drivers accepted by DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "lockme-relay")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// StoreConfig selects the seen-event store backend.
type StoreConfig struct {
	Driver  string        // sqlite|postgres
	Path    string        // SQLite file
	URL     string        // Postgres DSN
	Timeout time.Duration // per-operation bound
}

// LockMeConfig configures the provider API client.
type LockMeConfig struct {
	APIBase string
	Token   string
	Timeout time.Duration
}

// DiscordConfig holds the raw webhook URLs and the outbound limiter.
// Use services.ResolveDestinations to apply the fallback chain.
type DiscordConfig struct {
	Webhook       string // catch-all, DISCORD_WEBHOOK
	WebhookToday  string // DISCORD_WEBHOOK_TODAY
	WebhookAlerts string // DISCORD_WEBHOOK_ALERTS
	Timeout       time.Duration
	RateRPS       float64
	RateBurst     int
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // graceful drain
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	// Relay
	WebhookSecret string // shared secret expected in ?s=, empty disables the check
	Store         StoreConfig
	LockMe        LockMeConfig
	Discord       DiscordConfig

	// Presentation
	Timezone              string
	Location              *time.Location
	Rooms                 domain.RoomDirectory
	RoomsFile             string
	TodayRoleMention      string
	MessageLocale         string
	TokenReminderInterval time.Duration

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "3000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 30*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),

		// Relay
		WebhookSecret: strings.TrimSpace(getenv("WEBHOOK_SECRET", "")),
		Store: StoreConfig{
			Driver:  strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
			Path:    getenv("DB_PATH", "seen.db"),
			URL:     getenv("DATABASE_URL", ""),
			Timeout: getdur("STORE_TIMEOUT", 5*time.Second),
		},
		LockMe: LockMeConfig{
			APIBase: strings.TrimRight(getenv("LOCKME_API_BASE", "https://api.lock.me/v2.4"), "/"),
			Token:   strings.TrimSpace(getenv("LOCKME_TOKEN", "")),
			Timeout: getdur("LOCKME_TIMEOUT", 10*time.Second),
		},
		Discord: DiscordConfig{
			Webhook:       strings.TrimSpace(getenv("DISCORD_WEBHOOK", "")),
			WebhookToday:  strings.TrimSpace(getenv("DISCORD_WEBHOOK_TODAY", "")),
			WebhookAlerts: strings.TrimSpace(getenv("DISCORD_WEBHOOK_ALERTS", "")),
			Timeout:       getdur("DISCORD_TIMEOUT", 10*time.Second),
			RateRPS:       getfloat("DISCORD_RATE_RPS", 1.0),
			RateBurst:     getint("DISCORD_RATE_BURST", 5),
		},

		// Presentation
		Timezone:              getenv("TIMEZONE", "Europe/Warsaw"),
		RoomsFile:             getenv("ROOMS_FILE", ""),
		TodayRoleMention:      strings.TrimSpace(getenv("TODAY_ROLE_MENTION", "")),
		MessageLocale:         getenv("MESSAGE_LOCALE", "pl"),
		TokenReminderInterval: getdur("TOKEN_REMINDER_INTERVAL", 10*time.Minute),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 20.0),
		RateBurst: getint("RATE_BURST", 40),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "lockme-relay"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.Store.Driver == "sqlite3" {
		cfg.Store.Driver = DriverSQLite
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.Store.Driver {
	case DriverSQLite:
		if strings.TrimSpace(cfg.Store.Path) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case DriverPostgres:
		if strings.TrimSpace(cfg.Store.URL) == "" {
			return cfg, errors.New("DATABASE_URL must be set when DB_DRIVER=postgres")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if cfg.Store.Timeout <= 0 || cfg.LockMe.Timeout <= 0 || cfg.Discord.Timeout <= 0 {
		return cfg, errors.New("STORE_TIMEOUT, LOCKME_TIMEOUT and DISCORD_TIMEOUT must be positive")
	}
	if !strings.HasPrefix(cfg.LockMe.APIBase, "http://") && !strings.HasPrefix(cfg.LockMe.APIBase, "https://") {
		return cfg, errors.New("LOCKME_API_BASE must be an http(s) URL")
	}
	if cfg.RateRPS < 0 || cfg.Discord.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS and DISCORD_RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 || cfg.Discord.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST and DISCORD_RATE_BURST must be >= 1")
	}
	if cfg.TokenReminderInterval < time.Second {
		return cfg, errors.New("TOKEN_REMINDER_INTERVAL must be >= 1s")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cfg, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	rooms, err := LoadRooms(cfg.RoomsFile)
	if err != nil {
		return cfg, err
	}
	mentions, err := ParseMentions(getenv("ROOM_MENTIONS", ""))
	if err != nil {
		return cfg, err
	}
	cfg.Rooms = rooms.WithMentions(mentions)

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
