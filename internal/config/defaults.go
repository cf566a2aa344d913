package config

import "github.com/bobmcallan/toolrt/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4251,
			Host: "localhost",
		},
		Descriptors: DescriptorsConfig{
			URL:     "http://localhost:4250/tools.json",
			Timeout: "30s",
		},
		Resources: ResourcesConfig{
			LibraryBase:      "http://localhost:4250/libs/",
			PluginBase:       "http://localhost:4250/bridges/",
			PresentationBase: "http://localhost:4250/",
			Stylesheet:       "tool-css.css",
			Timeout:          "30s",
			CacheTTL:         "0s",
			CacheEntries:     256,
		},
		Runtime: RuntimeConfig{
			OnError: OnErrorKeep,
		},
		MCP: MCPConfig{
			Name: "toolrt",
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Format:  "text",
			Outputs: []string{"console"},
		},
	}
}
