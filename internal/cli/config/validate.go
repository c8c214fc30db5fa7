package config

import (
	"fmt"
	"slices"
)

// OutputFormats lists the accepted values of the output key.
var OutputFormats = []string{OutputAuto, OutputTable, OutputJSON, OutputYAML}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("data_path is required")
	}
	if c.Backend == "" {
		return fmt.Errorf("backend is required")
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q\nHint: use one of %v", c.OutputFormat, OutputFormats)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ReadHeaderTimeout < 0 {
		return fmt.Errorf("server.read_header_timeout must not be negative")
	}
	return nil
}
