package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigDir is the default directory for config files
	DefaultConfigDir = ".config/keyweave"
	// DefaultConfigName is the default config file name (without extension)
	DefaultConfigName = "config"
	// EnvPrefix prefixes environment variable overrides
	EnvPrefix = "KEYWEAVE"

	// DefaultProvider is the provider used when none is configured
	DefaultProvider = "azure"
	// DefaultVaultDomain is the Azure public cloud Key Vault DNS suffix
	DefaultVaultDomain = "vault.azure.net"
	// DefaultOutput is the env file written when none is configured
	DefaultOutput = ".env"
	// DefaultRequestTimeout bounds a single secret value request
	DefaultRequestTimeout = 30 * time.Second
)

var (
	// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
	envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Z_][A-Z0-9_]*)`)
)

// Load loads configuration from file, environment variables, and defaults
// Configuration precedence (highest to lowest):
// 1. Environment variables (prefixed with KEYWEAVE_)
// 2. Config file (~/.config/keyweave/config.yaml)
// 3. Default values
func Load() (*Config, error) {
	v := newViper()

	// Config file is optional when loading from the default location
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(homeDir, DefaultConfigDir))

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	return decode(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	return decode(v)
}

// LoadOrDefault loads from configPath when set, otherwise from the default location
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath != "" {
		return LoadFromFile(configPath)
	}
	return Load()
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
// Every key is defaulted so AutomaticEnv can override it during Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("defaults.provider", DefaultProvider)
	v.SetDefault("defaults.output", DefaultOutput)

	v.SetDefault("dns_check", true)

	v.SetDefault("fetch.request_timeout", DefaultRequestTimeout)
	v.SetDefault("fetch.rate_limit", 0)

	v.SetDefault("log.level", "info")

	v.SetDefault("providers.azure.vault_domain", DefaultVaultDomain)
	v.SetDefault("providers.azure.subscription_id", "")
	v.SetDefault("providers.hashicorp.address", "")
	v.SetDefault("providers.hashicorp.token", "")
	v.SetDefault("providers.hashicorp.namespace", "")
}

// substituteEnvVars replaces ${VAR} or $VAR patterns with environment variable values
func substituteEnvVars(cfg *Config) {
	cfg.Providers.Azure.SubscriptionID = expandEnvVars(cfg.Providers.Azure.SubscriptionID)

	h := &cfg.Providers.Hashicorp
	h.Address = expandEnvVars(h.Address)
	h.Token = expandEnvVars(h.Token)
	h.Namespace = expandEnvVars(h.Namespace)
}

// expandEnvVars expands environment variables in a string
// Supports both ${VAR_NAME} and $VAR_NAME formats
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		// Return original if not found
		return match
	})
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.Defaults.Provider == "" {
		return fmt.Errorf("defaults.provider must not be empty")
	}
	if cfg.Defaults.Output == "" {
		return fmt.Errorf("defaults.output must not be empty")
	}
	if cfg.Fetch.RequestTimeout < 0 {
		return fmt.Errorf("fetch.request_timeout must not be negative")
	}
	if cfg.Fetch.RateLimit < 0 {
		return fmt.Errorf("fetch.rate_limit must not be negative")
	}

	domain := cfg.Providers.Azure.VaultDomain
	if domain == "" || strings.Contains(domain, "/") || strings.HasPrefix(domain, ".") {
		return fmt.Errorf("providers.azure.vault_domain %q is not a DNS suffix", domain)
	}

	return nil
}
