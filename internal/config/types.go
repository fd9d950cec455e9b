package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Defaults  Defaults    `mapstructure:"defaults"`
	Providers Providers   `mapstructure:"providers"`
	Fetch     FetchConfig `mapstructure:"fetch"`
	Log       LogConfig   `mapstructure:"log"`
	DNSCheck  bool        `mapstructure:"dns_check"`
}

// Defaults holds default values used when flags are omitted
type Defaults struct {
	Provider string `mapstructure:"provider"`
	Output   string `mapstructure:"output"`
}

// Providers holds configuration for all secret providers
type Providers struct {
	Azure     AzureConfig     `mapstructure:"azure"`
	Hashicorp HashicorpConfig `mapstructure:"hashicorp"`
}

// AzureConfig holds Azure Key Vault provider configuration
type AzureConfig struct {
	VaultDomain    string `mapstructure:"vault_domain"`
	SubscriptionID string `mapstructure:"subscription_id"`
}

// HashicorpConfig holds HashiCorp Vault provider configuration
type HashicorpConfig struct {
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	Namespace string `mapstructure:"namespace"`
}

// FetchConfig tunes secret value retrieval
type FetchConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}
