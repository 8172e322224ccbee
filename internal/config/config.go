package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "NEWSLENS_CONFIG"
	providerEnv   = "NEWSLENS_PROVIDER"
	addrEnv       = "NEWSLENS_ADDR"
	concurrentEnv = "NEWSLENS_MAX_CONCURRENT"
)

// Config holds the engine's tuning constants. They are configuration, not
// behavior: semaphore width, cache bounds, and retry budgets have no single
// correct value.
type Config struct {
	Coordinator CoordinatorConfig `yaml:"coordinator"`
	Cache       CacheConfig       `yaml:"cache"`
	LLM         LLMConfig         `yaml:"llm"`
	Server      ServerConfig      `yaml:"server"`
}

// CoordinatorConfig bounds concurrency and request lifetime.
type CoordinatorConfig struct {
	MaxConcurrent         int64 `yaml:"maxConcurrent"`
	RequestTimeoutSeconds int   `yaml:"requestTimeoutSeconds"`
}

func (c CoordinatorConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// CacheConfig bounds the result cache. The TTL is matched to a typical
// reading session.
type CacheConfig struct {
	MaxEntries int `yaml:"maxEntries"`
	TTLMinutes int `yaml:"ttlMinutes"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// LLMConfig selects the provider and the adapter's transient-retry policy.
type LLMConfig struct {
	Provider       string  `yaml:"provider"` // "gemini" or "fake"
	RetryAttempts  int     `yaml:"retryAttempts"`
	RetryBaseMS    int     `yaml:"retryBaseMs"`
	RPS            float64 `yaml:"rps"`
	Burst          int     `yaml:"burst"`
	QualityRetries int     `yaml:"qualityRetries"`
}

func (c LLMConfig) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseMS) * time.Millisecond
}

// ServerConfig configures the demo gateway.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides, falling back to defaults for anything unset.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	cfg.clamp()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(providerEnv)); v != "" {
		c.LLM.Provider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(addrEnv)); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(concurrentEnv); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.Coordinator.MaxConcurrent = n
		}
	}
}

func (c *Config) clamp() {
	if c.Coordinator.MaxConcurrent <= 0 {
		c.Coordinator.MaxConcurrent = defaultConfig().Coordinator.MaxConcurrent
	}
	if c.Coordinator.RequestTimeoutSeconds <= 0 {
		c.Coordinator.RequestTimeoutSeconds = defaultConfig().Coordinator.RequestTimeoutSeconds
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = defaultConfig().Cache.MaxEntries
	}
	if c.Cache.TTLMinutes <= 0 {
		c.Cache.TTLMinutes = defaultConfig().Cache.TTLMinutes
	}
	if c.LLM.RetryAttempts <= 0 {
		c.LLM.RetryAttempts = defaultConfig().LLM.RetryAttempts
	}
	if c.LLM.RetryBaseMS <= 0 {
		c.LLM.RetryBaseMS = defaultConfig().LLM.RetryBaseMS
	}
}

func defaultConfig() Config {
	return Config{
		Coordinator: CoordinatorConfig{
			MaxConcurrent:         4,
			RequestTimeoutSeconds: 90,
		},
		Cache: CacheConfig{
			MaxEntries: 512,
			TTLMinutes: 30,
		},
		LLM: LLMConfig{
			Provider:       "gemini",
			RetryAttempts:  3,
			RetryBaseMS:    300,
			RPS:            0,
			Burst:          1,
			QualityRetries: 1,
		},
		Server: ServerConfig{Addr: ":8082"},
	}
}
