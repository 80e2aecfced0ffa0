package bbcode

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all configuration options for the rendering engine and the
// bbcode command.
type Config struct {
	// CacheMaxSize is the maximum number of parsed documents to cache. 0 disables caching.
	CacheMaxSize int `yaml:"cache_max_size"`
	// CacheTTL is the time-to-live for cached documents. 0 means no expiration.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// MetricsNamespace prefixes every exported Prometheus metric.
	MetricsNamespace string `yaml:"metrics_namespace"`
	// ListenAddress is where `bbcode serve` listens.
	ListenAddress string `yaml:"listen_address"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize:     100,
		CacheTTL:         0,
		LogLevel:         "info",
		MetricsNamespace: "bbcode",
		ListenAddress:    ":8080",
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()
	applyEnvOverrides(config)
	return config
}

func applyEnvOverrides(config *Config) {
	// BBCODE_CACHE_MAX_SIZE
	if val := os.Getenv("BBCODE_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	// BBCODE_CACHE_TTL
	if val := os.Getenv("BBCODE_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	// BBCODE_LOG_LEVEL
	if val := os.Getenv("BBCODE_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(val)
	}

	// BBCODE_METRICS_NAMESPACE
	if val := os.Getenv("BBCODE_METRICS_NAMESPACE"); val != "" {
		config.MetricsNamespace = val
	}

	// BBCODE_LISTEN_ADDRESS
	if val := os.Getenv("BBCODE_LISTEN_ADDRESS"); val != "" {
		config.ListenAddress = val
	}
}

// LoadConfig reads a YAML configuration file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadConfigWithEnvOverrides loads a YAML file and then applies BBCODE_*
// environment variables, which take precedence.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var issues []ValidationIssue

	if c.CacheMaxSize < 0 {
		issues = append(issues, ValidationIssue{Field: "cache_max_size", Message: "cannot be negative"})
	}

	if c.CacheTTL < 0 {
		issues = append(issues, ValidationIssue{Field: "cache_ttl", Message: "cannot be negative"})
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		issues = append(issues, ValidationIssue{Field: "log_level", Message: "invalid log level: " + c.LogLevel})
	}

	if c.MetricsNamespace == "" {
		issues = append(issues, ValidationIssue{Field: "metrics_namespace", Message: "cannot be empty"})
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	configOnce.Do(func() {
		globalConfigMutex.Lock()
		if globalConfig == nil {
			globalConfig = ConfigFromEnvironment()
		}
		globalConfigMutex.Unlock()
	})

	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	configOnce.Do(func() {})

	globalConfigMutex.Lock()
	configCopy := *config
	globalConfig = &configCopy
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}
