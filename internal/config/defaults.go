package config

import "github.com/bobmcallan/ticket-mcp/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 3000,
			Host: "localhost",
			Name: "mcpaas-streamable-server",
		},
		API: APIConfig{
			Timeout: "30s",
		},
		Defaults: DefaultsConfig{
			ParentID: "ex-id",
		},
		MCPaaS: MCPaaSConfig{
			AppID:  "demo-app-id-67890",
			APIKey: "demo-api-key-12345",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/ticket-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
