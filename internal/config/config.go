package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultProviderTimeout bounds a single upstream call.
const DefaultProviderTimeout = 30 * time.Second

type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	RateLimit RateLimitConfig  `mapstructure:"rate_limit"`
	Tracing   TracingConfig    `mapstructure:"tracing"`
	Cache     CacheConfig      `mapstructure:"cache"`
	Redis     RedisConfig      `mapstructure:"redis"`
	Providers []ProviderConfig `mapstructure:"providers"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Env             string        `mapstructure:"env"`
	StaticDir       string        `mapstructure:"static_dir"`
	MaxUploadMB     int           `mapstructure:"max_upload_mb"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CheckUpdates    bool          `mapstructure:"check_updates"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// CacheConfig selects the aggregate result cache. Backend is one of none, memory, redis.
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ProviderConfig represents the configuration for a single upstream provider.
type ProviderConfig struct {
	ID      string            `json:"id" mapstructure:"id" validate:"required"`
	Type    string            `json:"type" mapstructure:"type" validate:"required"`
	Name    string            `json:"name" mapstructure:"name"`
	APIKey  string            `json:"-" mapstructure:"api_key"`
	BaseURL string            `json:"base_url" mapstructure:"base_url"`
	Model   string            `json:"model" mapstructure:"model"`
	Timeout time.Duration     `json:"timeout" mapstructure:"timeout"`
	Vision  bool              `json:"vision" mapstructure:"vision"`
	Enabled bool              `json:"enabled" mapstructure:"enabled"`
	Config  map[string]string `json:"config,omitempty" mapstructure:"config"`
}

// HasCredential reports whether an API key is configured.
func (p ProviderConfig) HasCredential() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

// CallTimeout returns the configured timeout or DefaultProviderTimeout.
func (p ProviderConfig) CallTimeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultProviderTimeout
	}
	return p.Timeout
}

// DefaultProviders is the built-in provider set, in response order.
func DefaultProviders() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"id":       "gemini",
			"type":     "google",
			"name":     "Google Gemini",
			"api_key":  "ENV:GEMINI_API_KEY",
			"base_url": "https://generativelanguage.googleapis.com/v1beta",
			"model":    "gemini-2.0-flash",
			"timeout":  DefaultProviderTimeout.String(),
			"vision":   true,
			"enabled":  true,
		},
		{
			"id":       "groq",
			"type":     "openai",
			"name":     "Groq",
			"api_key":  "ENV:GROQ_API_KEY",
			"base_url": "https://api.groq.com/openai/v1",
			"model":    "llama3-70b-8192",
			"timeout":  DefaultProviderTimeout.String(),
			"vision":   false,
			"enabled":  true,
		},
	}
}

// LoadConfig reads configuration from file or environment variables.
// A provider without a key is kept; it reports a missing credential on every call.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetDefault("server.port", "8000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.check_updates", false)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "metasearch")
	v.SetDefault("cache.backend", "none")
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("providers", DefaultProviders())

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Resolve API Keys
	for i, p := range cfg.Providers {
		if strings.HasPrefix(p.APIKey, "ENV:") {
			envVar := strings.TrimPrefix(p.APIKey, "ENV:")
			val := os.Getenv(envVar)
			if val == "" {
				val = v.GetString(envVar)
			}
			cfg.Providers[i].APIKey = val
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "", "none", "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	seen := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		if p.ID == "" {
			continue
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate provider id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// MaxUploadBytes is the multipart memory limit for /ask.
func (s ServerConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(s.MaxUploadMB) << 20
}
