// Package config loads the demonstration server's settings from environment
// variables, applying defaults and validating everything up front so that a
// misconfiguration fails at startup rather than on the first request.
package config

import (
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Security SecurityConfig
	Seed     SeedConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`

	// MaxBodyBytes caps JSON request bodies (default: 1MiB)
	MaxBodyBytes int64 `env:"SERVER_MAX_BODY_BYTES" default:"1048576"`
}

// StorageConfig holds the file handler settings.
type StorageConfig struct {
	// DataDir is where the CSV and XML files live (default: ./data)
	DataDir string `env:"DATA_DIR" default:"data"`

	// CSVFile is the CSV file name inside DataDir (default: entities.csv)
	CSVFile string `env:"CSV_FILE" default:"entities.csv"`

	// XMLFile is the XML file name inside DataDir (default: entities.xml)
	XMLFile string `env:"XML_FILE" default:"entities.xml"`

	// TaggedCSV adds a Type column so every kind round-trips (default: false)
	TaggedCSV bool `env:"CSV_TAGGED" default:"false"`

	// XMLIndent pretty-prints XML output; "none" writes compact XML (default: three spaces)
	XMLIndent string `env:"XML_INDENT" default:"   "`
}

// DatabaseConfig holds the optional PostgreSQL handler settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Empty disables the handler.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Table is the table the handler writes to (default: entities)
	Table string `env:"DB_TABLE" default:"entities"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// SecurityConfig holds request authentication and proxy settings.
type SecurityConfig struct {
	// APIKeys protects the mutating endpoints when non-empty (comma-separated)
	APIKeys []string `env:"API_KEYS"`

	// TrustedProxies lists CIDRs whose X-Real-IP/X-Forwarded-For headers are honored
	TrustedProxies []string `env:"TRUSTED_PROXIES" default:"127.0.0.1/32,::1/128"`
}

// RequireAPIKey reports whether mutating requests must carry an API key.
func (c *SecurityConfig) RequireAPIKey() bool {
	return len(c.APIKeys) > 0
}

// SeedConfig selects the records used by the report page.
type SeedConfig struct {
	// File is an optional YAML file of entities. Empty uses the built-in set.
	File string `env:"SEED_FILE"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Enabled reports whether the PostgreSQL handler should be wired.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// CSVPath returns the full path of the CSV file.
func (c *StorageConfig) CSVPath() string {
	return filepath.Join(c.DataDir, c.CSVFile)
}

// XMLPath returns the full path of the XML file.
func (c *StorageConfig) XMLPath() string {
	return filepath.Join(c.DataDir, c.XMLFile)
}

// Indent returns the XML indent with the "none" sentinel resolved.
func (c *StorageConfig) Indent() string {
	if c.XMLIndent == "none" {
		return ""
	}
	return c.XMLIndent
}
