package config

import (
	"fmt"
)

// ProviderSettings returns the provider-specific settings for providerName
func (c *Config) ProviderSettings(providerName string) (map[string]interface{}, error) {
	settings := make(map[string]interface{})

	switch providerName {
	case "azure":
		settings["vault_domain"] = c.Providers.Azure.VaultDomain
		settings["subscription_id"] = c.Providers.Azure.SubscriptionID

	case "hashicorp":
		settings["address"] = c.Providers.Hashicorp.Address
		settings["token"] = c.Providers.Hashicorp.Token
		settings["namespace"] = c.Providers.Hashicorp.Namespace

	default:
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}

	return settings, nil
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	return &Config{
		Defaults: Defaults{
			Provider: DefaultProvider,
			Output:   DefaultOutput,
		},
		Providers: Providers{
			Azure: AzureConfig{VaultDomain: DefaultVaultDomain},
		},
		Fetch:    FetchConfig{RequestTimeout: DefaultRequestTimeout},
		Log:      LogConfig{Level: "info"},
		DNSCheck: true,
	}
}
