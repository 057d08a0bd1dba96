// Package config loads the server configuration from a YAML file and
// environment variables, with environment taking precedence.
package config

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/gorgias-tools/gorgias-mcp/internal/gorgias"
)

var (
	cfg *Config
	mu  sync.RWMutex
)

// Config represents the application configuration.
type Config struct {
	Gorgias GorgiasConfig `mapstructure:"gorgias"`
	Server  ServerConfig  `mapstructure:"server"`
	Debug   bool          `mapstructure:"debug"`
}

// GorgiasConfig carries the remote API connection settings.
type GorgiasConfig struct {
	Domain   string `mapstructure:"domain"`
	Username string `mapstructure:"username"`
	APIKey   string `mapstructure:"api_key"`

	Timeout        time.Duration `mapstructure:"timeout"`
	RateLimit      int           `mapstructure:"rate_limit"`
	RateWindow     time.Duration `mapstructure:"rate_window"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
}

// ServerConfig configures the optional HTTP transport.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// Registering the keys lets environment-only values survive Unmarshal.
	v.SetDefault("gorgias.domain", "")
	v.SetDefault("gorgias.username", "")
	v.SetDefault("gorgias.api_key", "")
	v.SetDefault("gorgias.timeout", gorgias.DefaultTimeout)
	v.SetDefault("gorgias.rate_limit", gorgias.DefaultRateLimit)
	v.SetDefault("gorgias.rate_window", gorgias.DefaultRateWindow)
	v.SetDefault("gorgias.retry_attempts", 3)
	v.SetDefault("gorgias.retry_base_delay", time.Second)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8787)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("GORGIAS_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration. The file is optional; when it exists it is
// watched and reloaded on change. Environment variables use the
// GORGIAS_MCP_ prefix, e.g. GORGIAS_MCP_GORGIAS_API_KEY.
func Load(configFile string) (*Config, error) {
	v := newViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			newCfg := &Config{}
			if err := v.Unmarshal(newCfg); err != nil {
				log.Printf("config: reload of %s failed: %v", e.Name, err)
				return
			}
			if err := newCfg.Validate(); err != nil {
				log.Printf("config: reload of %s rejected: %v", e.Name, err)
				return
			}
			mu.Lock()
			cfg = newCfg
			mu.Unlock()
			log.Printf("config: reloaded from %s", e.Name)
		})
	}

	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	cfg = loaded
	mu.Unlock()
	return loaded, nil
}

// Get returns the current configuration. It reflects hot reloads.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Validate checks that the required connection settings are present.
func (c *Config) Validate() error {
	if c.Gorgias.Domain == "" {
		return fmt.Errorf("gorgias.domain is required")
	}
	if c.Gorgias.Username == "" {
		return fmt.Errorf("gorgias.username is required")
	}
	if c.Gorgias.APIKey == "" {
		return fmt.Errorf("gorgias.api_key is required")
	}
	if c.Gorgias.RateLimit < 0 {
		return fmt.Errorf("gorgias.rate_limit must not be negative")
	}
	if c.Gorgias.RetryAttempts < 0 {
		return fmt.Errorf("gorgias.retry_attempts must not be negative")
	}
	return nil
}

// ClientConfig translates the loaded settings into an API client config.
func (c *Config) ClientConfig() *gorgias.Config {
	return &gorgias.Config{
		Domain:         c.Gorgias.Domain,
		Username:       c.Gorgias.Username,
		APIKey:         c.Gorgias.APIKey,
		Timeout:        c.Gorgias.Timeout,
		RateLimit:      c.Gorgias.RateLimit,
		RateWindow:     c.Gorgias.RateWindow,
		RetryAttempts:  c.Gorgias.RetryAttempts,
		RetryBaseDelay: c.Gorgias.RetryBaseDelay,
		Debug:          c.Debug,
	}
}

// ServerAddr returns the HTTP listen address.
func (c *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Redacted returns a loggable view of the configuration with the API key
// masked. Credentials never reach log output in the clear.
func (c *Config) Redacted() string {
	key := "(unset)"
	if c.Gorgias.APIKey != "" {
		key = "****"
	}
	return fmt.Sprintf(
		"domain=%s username=%s api_key=%s timeout=%s rate=%d/%s retries=%d debug=%t",
		c.Gorgias.Domain, c.Gorgias.Username, key,
		c.Gorgias.Timeout, c.Gorgias.RateLimit, c.Gorgias.RateWindow,
		c.Gorgias.RetryAttempts, c.Debug,
	)
}
