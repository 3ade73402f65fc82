// Package config provides centralized configuration management for the
// lineup portal. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Source  SourceConfig
	Report  ReportConfig
	Auth    AuthConfig
	Web     WebConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SourceConfig holds settings for the backend the two tables load from.
type SourceConfig struct {
	// Backend selects the source: sheets, csv, postgres, or sqlite
	// (default: sheets)
	Backend string `env:"SOURCE_BACKEND" default:"sheets"`

	// SpreadsheetID is the Google spreadsheet to read (sheets backend)
	SpreadsheetID string `env:"SHEETS_SPREADSHEET_ID"`

	// CredentialsFile is a path to a service-account key file (sheets backend)
	CredentialsFile string `env:"SHEETS_CREDENTIALS_FILE"`

	// CredentialsJSON is an inline service-account key, for deployments that
	// inject secrets through the environment instead of files (sheets backend)
	CredentialsJSON string `env:"SHEETS_CREDENTIALS_JSON"`

	// BookingsRange is the worksheet holding booking records
	BookingsRange string `env:"SHEETS_BOOKINGS_RANGE" default:"Bookings Raw Data"`

	// LineupRange is the worksheet holding the release lineup
	LineupRange string `env:"SHEETS_LINEUP_RANGE" default:"Lineup Clean"`

	// BookingsCSV and LineupCSV are file paths for the csv backend
	BookingsCSV string `env:"SOURCE_BOOKINGS_CSV"`
	LineupCSV   string `env:"SOURCE_LINEUP_CSV"`

	// DatabaseURL is the connection string for the postgres backend
	DatabaseURL string `env:"SOURCE_DATABASE_URL"`

	// SQLitePath is the snapshot file for the sqlite backend
	SQLitePath string `env:"SOURCE_SQLITE_PATH"`

	// BookingsTable and LineupTable name the tables for the database backends
	BookingsTable string `env:"SOURCE_BOOKINGS_TABLE" default:"bookings_raw"`
	LineupTable   string `env:"SOURCE_LINEUP_TABLE" default:"lineup_clean"`

	// RefreshInterval is how often the snapshot reloads; 0 disables refresh
	// (default: 15m)
	RefreshInterval time.Duration `env:"SOURCE_REFRESH_INTERVAL" default:"15m"`
}

// ReportConfig holds the report transformation constants. The original
// process hardcoded all of these; they are configuration here.
type ReportConfig struct {
	// TargetCutoff is the inclusive lower bound on lineup first-release
	// dates, as YYYY-MM-DD (default: 2025-01-01)
	TargetCutoff string `env:"REPORT_TARGET_CUTOFF" default:"2025-01-01"`

	// WindowBackDays and WindowForwardDays bound the upcoming-titles window
	// around today, inclusive at both ends (defaults: 30 back, 90 forward)
	WindowBackDays    int `env:"REPORT_WINDOW_BACK_DAYS" default:"30"`
	WindowForwardDays int `env:"REPORT_WINDOW_FORWARD_DAYS" default:"90"`

	// ExcludedOrigins are origin countries never offered as upcoming titles
	ExcludedOrigins []string `env:"REPORT_EXCLUDED_ORIGINS" default:"China,Vietnam"`

	// Marker4DX and MarkerScreenX are the booking-code substrings that
	// identify each booked format
	Marker4DX     string `env:"REPORT_MARKER_4DX" default:"M244DX"`
	MarkerScreenX string `env:"REPORT_MARKER_SCREENX" default:"M24SCX"`
}

// CutoffDate returns TargetCutoff parsed as a date. Validate guarantees the
// value parses, so the error is dropped here.
func (r ReportConfig) CutoffDate() time.Time {
	t, _ := time.Parse("2006-01-02", r.TargetCutoff)
	return t
}

// AuthConfig holds login and session settings.
type AuthConfig struct {
	// SharedPassword is the single password every exhibitor logs in with
	// (default: 2025)
	SharedPassword string `env:"AUTH_SHARED_PASSWORD" default:"2025"`

	// SessionTTL is how long a login lasts (default: 24h)
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" default:"24h"`

	// CSRFKey is the CSRF secret, 64 hex characters (32 bytes). When unset a
	// random per-start key is generated, which invalidates open forms across
	// restarts; set it in production.
	CSRFKey string `env:"AUTH_CSRF_KEY"`
}

// WebConfig holds presentation settings.
type WebConfig struct {
	// AnnouncementFile is an optional markdown file rendered above the
	// login form (release notes, maintenance windows)
	AnnouncementFile string `env:"WEB_ANNOUNCEMENT_FILE"`

	// RequestsPerMinute is the per-IP rate limit (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Forwarded-For / X-Real-IP headers are honored
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
