package bbcode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.CacheMaxSize != 100 {
		t.Errorf("DefaultConfig CacheMaxSize = %d, want 100", config.CacheMaxSize)
	}

	if config.CacheTTL != 0 {
		t.Errorf("DefaultConfig CacheTTL = %v, want 0", config.CacheTTL)
	}

	if config.LogLevel != "info" {
		t.Errorf("DefaultConfig LogLevel = %s, want info", config.LogLevel)
	}

	if config.MetricsNamespace != "bbcode" {
		t.Errorf("DefaultConfig MetricsNamespace = %s, want bbcode", config.MetricsNamespace)
	}

	if config.ListenAddress != ":8080" {
		t.Errorf("DefaultConfig ListenAddress = %s, want :8080", config.ListenAddress)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig does not validate: %v", err)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, config *Config)
	}{
		{
			name:    "cache max size",
			envVars: map[string]string{"BBCODE_CACHE_MAX_SIZE": "50"},
			check: func(t *testing.T, config *Config) {
				if config.CacheMaxSize != 50 {
					t.Errorf("CacheMaxSize = %d, want 50", config.CacheMaxSize)
				}
			},
		},
		{
			name:    "cache TTL",
			envVars: map[string]string{"BBCODE_CACHE_TTL": "5m"},
			check: func(t *testing.T, config *Config) {
				if config.CacheTTL != 5*time.Minute {
					t.Errorf("CacheTTL = %v, want 5m", config.CacheTTL)
				}
			},
		},
		{
			name:    "log level is lowercased",
			envVars: map[string]string{"BBCODE_LOG_LEVEL": "DEBUG"},
			check: func(t *testing.T, config *Config) {
				if config.LogLevel != "debug" {
					t.Errorf("LogLevel = %s, want debug", config.LogLevel)
				}
			},
		},
		{
			name: "metrics namespace and listen address",
			envVars: map[string]string{
				"BBCODE_METRICS_NAMESPACE": "forum",
				"BBCODE_LISTEN_ADDRESS":    "127.0.0.1:9000",
			},
			check: func(t *testing.T, config *Config) {
				if config.MetricsNamespace != "forum" {
					t.Errorf("MetricsNamespace = %s, want forum", config.MetricsNamespace)
				}
				if config.ListenAddress != "127.0.0.1:9000" {
					t.Errorf("ListenAddress = %s, want 127.0.0.1:9000", config.ListenAddress)
				}
			},
		},
		{
			name: "invalid values are ignored",
			envVars: map[string]string{
				"BBCODE_CACHE_MAX_SIZE": "lots",
				"BBCODE_CACHE_TTL":      "soon",
			},
			check: func(t *testing.T, config *Config) {
				if config.CacheMaxSize != 100 {
					t.Errorf("CacheMaxSize = %d, want default 100", config.CacheMaxSize)
				}
				if config.CacheTTL != 0 {
					t.Errorf("CacheTTL = %v, want default 0", config.CacheTTL)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			tt.check(t, ConfigFromEnvironment())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*Config)
		wantFields []string
	}{
		{name: "valid", modify: func(*Config) {}},
		{
			name:       "negative cache size",
			modify:     func(c *Config) { c.CacheMaxSize = -1 },
			wantFields: []string{"cache_max_size"},
		},
		{
			name:       "negative ttl",
			modify:     func(c *Config) { c.CacheTTL = -time.Second },
			wantFields: []string{"cache_ttl"},
		},
		{
			name:       "bad log level",
			modify:     func(c *Config) { c.LogLevel = "verbose" },
			wantFields: []string{"log_level"},
		},
		{
			name: "several issues",
			modify: func(c *Config) {
				c.CacheMaxSize = -5
				c.MetricsNamespace = ""
			},
			wantFields: []string{"cache_max_size", "metrics_namespace"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()

			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			if !IsValidationError(err) {
				t.Fatalf("Validate() = %v, want a validation error", err)
			}
			verr := err.(*ValidationError)
			if len(verr.Issues) != len(tt.wantFields) {
				t.Fatalf("got %d issues, want %d: %v", len(verr.Issues), len(tt.wantFields), verr)
			}
			for i, field := range tt.wantFields {
				if verr.Issues[i].Field != field {
					t.Errorf("issue %d field = %s, want %s", i, verr.Issues[i].Field, field)
				}
			}
		})
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bbcode.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
cache_max_size: 10
cache_ttl: 30s
log_level: warn
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.CacheMaxSize != 10 {
		t.Errorf("CacheMaxSize = %d, want 10", config.CacheMaxSize)
	}
	if config.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", config.CacheTTL)
	}
	if config.LogLevel != "warn" {
		t.Errorf("LogLevel = %s, want warn", config.LogLevel)
	}
	if config.MetricsNamespace != "bbcode" {
		t.Errorf("MetricsNamespace = %s, want default bbcode", config.MetricsNamespace)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected an error for a missing file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfigFile(t, "cache_max_size: [1, 2")
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected a parse error")
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeConfigFile(t, "log_level: loud\n")
		_, err := LoadConfig(path)
		if !IsValidationError(err) {
			t.Errorf("LoadConfig() = %v, want a wrapped validation error", err)
		}
		if err != nil && !strings.Contains(err.Error(), "log_level") {
			t.Errorf("error %q does not name the field", err)
		}
	})
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, "cache_max_size: 10\nlog_level: warn\n")
	t.Setenv("BBCODE_CACHE_MAX_SIZE", "20")

	config, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides failed: %v", err)
	}
	if config.CacheMaxSize != 20 {
		t.Errorf("CacheMaxSize = %d, want 20 from the environment", config.CacheMaxSize)
	}
	if config.LogLevel != "warn" {
		t.Errorf("LogLevel = %s, want warn from the file", config.LogLevel)
	}

	t.Setenv("BBCODE_LOG_LEVEL", "chatty")
	if _, err := LoadConfigWithEnvOverrides(path); !IsValidationError(err) {
		t.Errorf("expected a validation error after a bad override, got %v", err)
	}
}

func TestGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	config := DefaultConfig()
	config.CacheMaxSize = 7
	config.LogLevel = "error"
	SetGlobalConfig(config)

	config.CacheMaxSize = 99
	got := GetGlobalConfig()
	if got.CacheMaxSize != 7 {
		t.Errorf("global CacheMaxSize = %d, want 7", got.CacheMaxSize)
	}

	got.CacheMaxSize = 1
	if GetGlobalConfig().CacheMaxSize != 7 {
		t.Error("GetGlobalConfig should return a copy")
	}

	if GetLogger().Level() != LogError {
		t.Errorf("global logger level = %v, want ERROR", GetLogger().Level())
	}
}
