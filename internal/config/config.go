package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/ticket-mcp/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Environment string               `toml:"environment"`
	Server      ServerConfig         `toml:"server"`
	API         APIConfig            `toml:"api"`
	Defaults    DefaultsConfig       `toml:"defaults"`
	MCPaaS      MCPaaSConfig         `toml:"mcpaas"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
	Name string `toml:"name"`
}

// APIConfig describes the backend that every operation URI is resolved against.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses the outbound request timeout, falling back to 30s.
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// DefaultsConfig holds per-call parameter defaults. Callers may override both
// values on any invocation through the parentId and token arguments.
type DefaultsConfig struct {
	ParentID string `toml:"parent_id"`
	Token    string `toml:"token"`
}

// MCPaaSConfig holds the hosted platform credentials.
type MCPaaSConfig struct {
	AppID  string `toml:"app_id"`
	APIKey string `toml:"api_key"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)
	config.Environment = normalizeEnvironment(config.Environment)
	config.API.BaseURL = strings.TrimRight(config.API.BaseURL, "/")

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// The short names (BASE_URL, COMPLEX_ID, ...) are the ones existing deployments
// export; TICKET_MCP_* forms take precedence when both are set.
func applyEnvOverrides(config *Config) {
	if v := firstEnv("TICKET_MCP_ENV"); v != "" {
		config.Environment = v
	}
	if v := firstEnv("TICKET_MCP_SERVER_HOST", "HOST"); v != "" {
		config.Server.Host = v
	}
	if v := firstEnv("TICKET_MCP_SERVER_PORT", "PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Server.Port = p
		}
	}
	if v := firstEnv("TICKET_MCP_API_URL", "BASE_URL"); v != "" {
		config.API.BaseURL = v
	}
	if v := firstEnv("TICKET_MCP_API_TIMEOUT"); v != "" {
		config.API.Timeout = v
	}
	if v := firstEnv("TICKET_MCP_PARENT_ID", "COMPLEX_ID"); v != "" {
		config.Defaults.ParentID = v
	}
	if v := firstEnv("TICKET_MCP_AUTH_TOKEN", "AUTH_TOKEN"); v != "" {
		config.Defaults.Token = v
	}
	if v := firstEnv("MCPAAS_APP_ID"); v != "" {
		config.MCPaaS.AppID = v
	}
	if v := firstEnv("MCPAAS_API_KEY"); v != "" {
		config.MCPaaS.APIKey = v
	}
	if v := firstEnv("TICKET_MCP_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate reports every mandatory field that is missing or malformed.
func (c *Config) Validate() []string {
	var issues []string

	if c.API.BaseURL == "" {
		issues = append(issues, "api.base_url is required (BASE_URL or TICKET_MCP_API_URL)")
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, fmt.Sprintf("api.base_url %q must be an absolute http(s) URL", c.API.BaseURL))
	}
	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			issues = append(issues, fmt.Sprintf("api.timeout %q is not a duration", c.API.Timeout))
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}

	return issues
}

// IsDevMode reports whether the environment is dev.
func (c *Config) IsDevMode() bool {
	return c.Environment == "dev"
}

// normalizeEnvironment maps environment aliases to their canonical short forms.
func normalizeEnvironment(env string) string {
	switch e := strings.ToLower(strings.TrimSpace(env)); e {
	case "development":
		return "dev"
	case "production", "":
		return "prod"
	default:
		return e
	}
}
