package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/pelletier/go-toml/v2"
)

// Recompute failure policies.
const (
	OnErrorKeep   = "keep"
	OnErrorInline = "inline"
)

// Config represents the application configuration.
type Config struct {
	Server      ServerConfig         `toml:"server"`
	Descriptors DescriptorsConfig    `toml:"descriptors"`
	Resources   ResourcesConfig      `toml:"resources"`
	Runtime     RuntimeConfig        `toml:"runtime"`
	MCP         MCPConfig            `toml:"mcp"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// DescriptorsConfig locates the remote document describing all tools.
type DescriptorsConfig struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *DescriptorsConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ResourcesConfig contains the base locations for libraries, plugins and
// presentation resources.
type ResourcesConfig struct {
	LibraryBase      string            `toml:"library_base"`
	PluginBase       string            `toml:"plugin_base"`
	PresentationBase string            `toml:"presentation_base"`
	Stylesheet       string            `toml:"stylesheet"`
	Timeout          string            `toml:"timeout"`
	CacheTTL         string            `toml:"cache_ttl"`
	CacheEntries     int               `toml:"cache_entries"`
	Aliases          map[string]string `toml:"aliases"` // logical name -> published name
}

// GetTimeout parses and returns the per-resource timeout.
func (c *ResourcesConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetCacheTTL parses the resource cache TTL. Zero disables the cache.
func (c *ResourcesConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// RuntimeConfig contains recompute settings.
type RuntimeConfig struct {
	OnError string `toml:"on_error"` // "keep" or "inline"
}

// MCPConfig contains MCP front-end settings.
type MCPConfig struct {
	Name  string   `toml:"name"`
	Tools []string `toml:"tools"` // tool identifiers to expose; empty exposes all
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

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate normalizes and checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	c.Runtime.OnError = strings.ToLower(strings.TrimSpace(c.Runtime.OnError))
	switch c.Runtime.OnError {
	case OnErrorKeep, OnErrorInline:
	default:
		return fmt.Errorf("invalid runtime.on_error %q (want %q or %q)", c.Runtime.OnError, OnErrorKeep, OnErrorInline)
	}
	if c.Descriptors.URL == "" {
		return fmt.Errorf("descriptors.url is required")
	}
	return nil
}

// BaseURL returns the externally reachable URL of the HTTP host.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnvOverrides applies TOOLRT_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("TOOLRT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TOOLRT_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if u := os.Getenv("TOOLRT_DESCRIPTORS_URL"); u != "" {
		config.Descriptors.URL = u
	}
	if u := os.Getenv("TOOLRT_LIBRARY_BASE"); u != "" {
		config.Resources.LibraryBase = u
	}
	if u, ok := os.LookupEnv("TOOLRT_PLUGIN_BASE"); ok {
		config.Resources.PluginBase = u
	}
	if u := os.Getenv("TOOLRT_PRESENTATION_BASE"); u != "" {
		config.Resources.PresentationBase = u
	}
	if onErr := os.Getenv("TOOLRT_ON_ERROR"); onErr != "" {
		config.Runtime.OnError = onErr
	}
	if level := os.Getenv("TOOLRT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("TOOLRT_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
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
