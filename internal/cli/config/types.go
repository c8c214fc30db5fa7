// Package config provides configuration management for the rosa CLI.
package config

import "time"

// Output formats accepted by the output key.
const (
	OutputAuto  = "auto" // TTY=table, non-TTY=json
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Default configuration values.
const (
	DefaultDataPath          = "data/traffic.csv"
	DefaultBackend           = "sqlite"
	DefaultOutput            = OutputAuto
	DefaultAddr              = "127.0.0.1:8000"
	DefaultReadHeaderTimeout = 10 * time.Second
)

// Config holds all CLI configuration options.
type Config struct {
	DataPath     string       `koanf:"data_path"`
	Backend      string       `koanf:"backend"`
	Verbose      bool         `koanf:"verbose"`
	OutputFormat string       `koanf:"output"`
	Server       ServerConfig `koanf:"server"`

	// ProjectRoot is the directory relative paths are resolved against.
	// It is derived, never read from configuration.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the absolute path of the file that was read, empty if none.
	ConfigFile string `koanf:"-"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	CORS              CORSConfig    `koanf:"cors"`
}

// CORSConfig is the static CORS policy handed to the server.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}
