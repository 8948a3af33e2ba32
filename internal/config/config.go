// Package config provides configuration loading for the assistant: app
// settings from environment variables or a JSON file, plus JWT and
// password hashing configuration for the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the runtime settings for the assistant. All fields are
// optional except the Gemini API key; search credentials are only
// needed for the skills that browse the web.
type Config struct {
	// Credentials
	APIKey         string `json:"api_key,omitempty"`          // Gemini API key
	SearchAPIKey   string `json:"search_api_key,omitempty"`   // Google Programmable Search key
	SearchEngineID string `json:"search_engine_id,omitempty"` // Programmable Search engine ID (cx)

	// Server
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL, optional

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Headless rendering for JS-heavy pages
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed progress information
}

// DefaultPort is used when no port is configured.
const DefaultPort = 8080

// FromEnv builds a Config from environment variables. The caller is
// expected to have loaded .env beforehand.
func FromEnv() *Config {
	cfg := &Config{
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		SearchAPIKey:   os.Getenv("GOOGLE_SEARCH_API_KEY"),
		SearchEngineID: os.Getenv("GOOGLE_SEARCH_CX"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           DefaultPort,
	}
	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Port = port
		}
	}
	if os.Getenv("USE_BROWSER") == "true" {
		cfg.UseBrowser = true
	}
	return cfg
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// MergeWithDefaults fills empty fields from defaults. File values act
// as defaults for environment values, which in turn default for flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.SearchAPIKey == "" {
		result.SearchAPIKey = defaults.SearchAPIKey
	}
	if result.SearchEngineID == "" {
		result.SearchEngineID = defaults.SearchEngineID
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}

	return result
}

// Validate checks the configuration for the pieces every command needs.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: a Gemini API key is required (set GEMINI_API_KEY)")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	// Search credentials come as a pair or not at all.
	if (c.SearchAPIKey == "") != (c.SearchEngineID == "") {
		return fmt.Errorf("config error: GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_CX must be set together")
	}
	return nil
}

// SearchEnabled reports whether the web search tool can be constructed.
func (c *Config) SearchEnabled() bool {
	return c.SearchAPIKey != "" && c.SearchEngineID != ""
}
